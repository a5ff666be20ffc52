package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/internal/task"
	"github.com/ismailisimba/scraper/pkg/models"
)

type fakeLauncher struct {
	launches  atomic.Int64
	releases  *atomic.Int64
	launchErr error
}

func (f *fakeLauncher) Launch(ctx context.Context) (*session.Session, error) {
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	f.launches.Add(1)
	sessCtx, cancel := context.WithCancel(context.Background())
	cleanup := func() { f.releases.Add(1) }
	return session.New("test-session", sessCtx, cancel, cleanup, 0), nil
}

type fakeStrategy struct {
	payload models.Payload
	err     error
	panics  bool
}

func (f *fakeStrategy) Run(ctx context.Context, sess *session.Session, req models.TaskRequest) (models.Payload, error) {
	if f.panics {
		panic("strategy exploded")
	}
	return f.payload, f.err
}

func newTestOrchestrator(strategy task.Strategy, launchErr error) (*Orchestrator, *fakeLauncher) {
	launcher := &fakeLauncher{releases: new(atomic.Int64), launchErr: launchErr}
	registry := task.NewRegistry(map[models.TaskKind]task.Strategy{
		models.TaskSnapshot:         strategy,
		models.TaskScheduledActions: strategy,
	})
	return New(session.NewManager(launcher), registry), launcher
}

func TestExecuteMissingURL(t *testing.T) {
	orch, launcher := newTestOrchestrator(&fakeStrategy{}, nil)

	result, err := orch.Execute(context.Background(), models.TaskRequest{Kind: models.TaskSnapshot})

	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, "URL is a required parameter.", result.Message)
	assert.Zero(t, launcher.launches.Load(), "no session may be acquired for an invalid request")
}

func TestExecuteMalformedURL(t *testing.T) {
	orch, launcher := newTestOrchestrator(&fakeStrategy{}, nil)

	_, err := orch.Execute(context.Background(), models.TaskRequest{
		Kind: models.TaskSnapshot,
		URL:  "not-a-url",
	})

	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, launcher.launches.Load())
}

func TestExecuteUnknownTask(t *testing.T) {
	orch, launcher := newTestOrchestrator(&fakeStrategy{}, nil)

	result, err := orch.Execute(context.Background(), models.TaskRequest{
		Kind: "notATask",
		URL:  "https://example.com",
	})

	require.ErrorIs(t, err, ErrUnknownTask)
	assert.Equal(t, "Task 'notATask' not found.", result.Message)
	assert.Zero(t, launcher.launches.Load(), "no session may be acquired for an unknown task")
}

func TestExecuteInvalidActionConfigSkipsSession(t *testing.T) {
	orch, launcher := newTestOrchestrator(&fakeStrategy{}, nil)

	result, err := orch.Execute(context.Background(), models.TaskRequest{
		Kind: models.TaskScheduledActions,
		URL:  "https://example.com",
	})

	require.ErrorIs(t, err, task.ErrInvalidActionConfig)
	assert.Equal(t, models.StatusError, result.Status)
	assert.Zero(t, launcher.launches.Load(), "malformed config must not cost a browser launch")
}

func TestExecuteSuccessReleasesSession(t *testing.T) {
	payload := models.SnapshotPayload{ContentHash: "abc"}
	orch, launcher := newTestOrchestrator(&fakeStrategy{payload: payload}, nil)

	result, err := orch.Execute(context.Background(), models.TaskRequest{
		Kind: models.TaskSnapshot,
		URL:  "https://example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, payload, result.Payload)
	assert.Equal(t, int64(1), launcher.launches.Load())
	assert.Equal(t, int64(1), launcher.releases.Load())
}

func TestExecuteStrategyErrorReleasesSession(t *testing.T) {
	orch, launcher := newTestOrchestrator(&fakeStrategy{err: errors.New("selector vanished")}, nil)

	result, err := orch.Execute(context.Background(), models.TaskRequest{
		Kind: models.TaskSnapshot,
		URL:  "https://example.com",
	})

	require.Error(t, err)
	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, "selector vanished", result.Message)
	assert.Equal(t, int64(1), launcher.launches.Load())
	assert.Equal(t, int64(1), launcher.releases.Load(), "release must run on the error path")
}

func TestExecuteStrategyPanicReleasesSession(t *testing.T) {
	orch, launcher := newTestOrchestrator(&fakeStrategy{panics: true}, nil)

	result, err := orch.Execute(context.Background(), models.TaskRequest{
		Kind: models.TaskSnapshot,
		URL:  "https://example.com",
	})

	require.Error(t, err)
	assert.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "strategy exploded")
	assert.Equal(t, int64(1), launcher.releases.Load(), "release must run even when the strategy panics")
}

func TestExecuteLaunchFailure(t *testing.T) {
	orch, _ := newTestOrchestrator(&fakeStrategy{}, errors.New("chrome missing"))

	result, err := orch.Execute(context.Background(), models.TaskRequest{
		Kind: models.TaskSnapshot,
		URL:  "https://example.com",
	})

	require.ErrorIs(t, err, session.ErrLaunch)
	assert.Equal(t, models.StatusError, result.Status)
}
