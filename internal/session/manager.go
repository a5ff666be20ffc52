package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ismailisimba/scraper/internal/metrics"
)

// ErrLaunch marks a browser process that failed to start. Launch failures
// are not retried: a fresh process per task means the failure is not
// expected to be transient within the same call.
var ErrLaunch = errors.New("failed to launch browser session")

// Launcher starts one browser and binds a page to it
type Launcher interface {
	Launch(ctx context.Context) (*Session, error)
}

// Manager hands out one session per task invocation and guarantees each
// one is torn down exactly once. Sessions are never pooled and never
// shared across invocations.
type Manager struct {
	launcher Launcher
}

func NewManager(launcher Launcher) *Manager {
	return &Manager{launcher: launcher}
}

// Acquire launches a fresh browser session
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	sess, err := m.launcher.Launch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLaunch, err)
	}
	metrics.SessionsAcquired.Inc()
	slog.Debug("session acquired", slog.String("session", sess.ID))
	return sess, nil
}

// Release terminates the session's browser. Safe to call more than once;
// only the first call does anything. A teardown failure is logged, never
// surfaced over an already-decided task outcome.
func (m *Manager) Release(sess *Session) {
	if sess == nil {
		return
	}
	if !sess.released.CompareAndSwap(false, true) {
		return
	}
	sess.cancel()
	if sess.cleanup != nil {
		sess.cleanup()
	}
	metrics.SessionsReleased.Inc()
	slog.Debug("session released", slog.String("session", sess.ID))
}
