package session

import (
	"context"
	"sync/atomic"
	"time"
)

// Session is one live browser process plus one active page, owned
// exclusively by a single task invocation. The embedded context is the
// chromedp tab context; it is valid only between Acquire and Release.
type Session struct {
	ID        string
	StartedAt time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	cleanup   func() // launcher-specific teardown, may be nil
	debugPort int

	released atomic.Bool
}

// New wires a session around an already-started browser context. Launchers
// call this; tests substitute plain contexts.
func New(id string, ctx context.Context, cancel context.CancelFunc, cleanup func(), debugPort int) *Session {
	return &Session{
		ID:        id,
		StartedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
		cleanup:   cleanup,
		debugPort: debugPort,
	}
}

// Context returns the page-bound context that chromedp actions run against
func (s *Session) Context() context.Context {
	return s.ctx
}

// DebugPort is the CDP debugging port of the underlying browser
func (s *Session) DebugPort() int {
	return s.debugPort
}
