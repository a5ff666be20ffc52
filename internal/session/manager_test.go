package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLauncher struct {
	err error
}

func (s *stubLauncher) Launch(ctx context.Context) (*Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	sessCtx, cancel := context.WithCancel(context.Background())
	return New("stub", sessCtx, cancel, nil, 0), nil
}

func TestAcquireWrapsLaunchFailure(t *testing.T) {
	m := NewManager(&stubLauncher{err: errors.New("no chrome")})

	_, err := m.Acquire(context.Background())

	require.ErrorIs(t, err, ErrLaunch)
	assert.Contains(t, err.Error(), "no chrome")
}

func TestReleaseIsIdempotent(t *testing.T) {
	cleanups := 0
	sessCtx, cancel := context.WithCancel(context.Background())
	sess := New("s1", sessCtx, cancel, func() { cleanups++ }, 0)

	m := NewManager(&stubLauncher{})
	m.Release(sess)
	m.Release(sess)
	m.Release(sess)

	assert.Equal(t, 1, cleanups, "teardown must run exactly once")
	assert.Error(t, sess.Context().Err(), "page context must be invalid after release")
}

func TestReleaseNilSession(t *testing.T) {
	m := NewManager(&stubLauncher{})
	m.Release(nil) // must not panic
}
