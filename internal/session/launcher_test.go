package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecLauncherHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess, err := NewExecLauncher().Launch(ctx)

	require.Nil(t, sess)
	assert.ErrorIs(t, err, context.Canceled)
}
