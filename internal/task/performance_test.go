package task

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/pkg/models"
)

// writeFakeAuditor stands in for the Lighthouse CLI
func writeFakeAuditor(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lighthouse")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func newStubSession(t *testing.T) *session.Session {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return session.New("stub", ctx, cancel, nil, 9222)
}

const fakeReport = `{"categories":{"performance":{"score":0.93}},` +
	`"audits":{"first-contentful-paint":{"displayValue":"1.2 s"},` +
	`"largest-contentful-paint":{"displayValue":"2.0 s"},` +
	`"total-blocking-time":{"displayValue":"150 ms"}}}`

func TestPerformanceTaskParsesReport(t *testing.T) {
	task := &PerformanceTask{LighthousePath: writeFakeAuditor(t, `echo '`+fakeReport+`'`)}

	payload, err := task.Run(context.Background(), newStubSession(t), models.TaskRequest{
		Kind: models.TaskPerformance,
		URL:  "https://example.com",
	})
	require.NoError(t, err)

	perf := payload.(models.PerformancePayload)
	assert.Equal(t, 93, perf.Score)
	assert.Equal(t, "1.2 s", perf.FirstContentfulPaint)
	assert.Equal(t, "2.0 s", perf.LargestContentfulPaint)
	assert.Equal(t, "150 ms", perf.TotalBlockingTime)
}

func TestPerformanceTaskMissingScore(t *testing.T) {
	task := &PerformanceTask{LighthousePath: writeFakeAuditor(t, `echo '{}'`)}

	_, err := task.Run(context.Background(), newStubSession(t), models.TaskRequest{URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrAuditCapability)
}

func TestPerformanceTaskAuditorFailure(t *testing.T) {
	task := &PerformanceTask{LighthousePath: writeFakeAuditor(t, `echo doomed >&2; exit 1`)}

	_, err := task.Run(context.Background(), newStubSession(t), models.TaskRequest{URL: "https://example.com"})
	require.ErrorIs(t, err, ErrAuditCapability)
	assert.Contains(t, err.Error(), "doomed")
}

// a wedged audit must be cut off by the task's own budget, not by the
// caller's connection lifetime
func TestPerformanceTaskTimesOut(t *testing.T) {
	task := &PerformanceTask{
		LighthousePath: writeFakeAuditor(t, `sleep 5`),
		Timeout:        50 * time.Millisecond,
	}

	start := time.Now()
	_, err := task.Run(context.Background(), newStubSession(t), models.TaskRequest{URL: "https://example.com"})

	require.ErrorIs(t, err, ErrAuditCapability)
	assert.Less(t, time.Since(start), 2*time.Second, "the audit budget must cut the run short")
}
