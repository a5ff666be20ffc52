package task

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCollectorKeepsArrivalOrder(t *testing.T) {
	col := &errorCollector{cap: capturedErrorCap}

	col.add("exception", "first")
	col.add("console", "second")

	total, entries := col.snapshot()
	assert.Equal(t, 2, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "exception", entries[0].Type)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
}

func TestErrorCollectorCountsPastCap(t *testing.T) {
	col := &errorCollector{cap: capturedErrorCap}

	for i := 0; i < 25; i++ {
		col.add("console", fmt.Sprintf("err %d", i))
	}

	total, entries := col.snapshot()
	assert.Equal(t, 25, total, "the total keeps counting past the cap")
	require.Len(t, entries, capturedErrorCap)
	assert.Equal(t, "err 0", entries[0].Message, "the first entries win, not the last")
	assert.Equal(t, "err 9", entries[9].Message)
}
