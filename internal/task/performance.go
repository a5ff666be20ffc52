package task

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/pkg/models"
)

// a hung audit must not hold the session until the client connection dies
const defaultAuditTimeout = 2 * time.Minute

// PerformanceTask drives the Lighthouse CLI against the session's own
// browser through its CDP debugging port, restricted to the performance
// category, and extracts the overall score plus the headline timing
// metrics from the JSON report.
type PerformanceTask struct {
	LighthousePath string
	Timeout        time.Duration
}

func (t *PerformanceTask) Run(ctx context.Context, sess *session.Session, req models.TaskRequest) (models.Payload, error) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = defaultAuditTimeout
	}
	auditCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(auditCtx, t.LighthousePath, req.URL,
		"--only-categories=performance",
		"--output=json",
		"--quiet",
		fmt.Sprintf("--port=%d", sess.DebugPort()),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrAuditCapability, err, stderr.String())
	}

	report := stdout.Bytes()
	score := gjson.GetBytes(report, "categories.performance.score")
	if !score.Exists() {
		return nil, fmt.Errorf("%w: report carries no performance score", ErrAuditCapability)
	}

	return models.PerformancePayload{
		Score:                  int(math.Round(score.Float() * 100)),
		FirstContentfulPaint:   gjson.GetBytes(report, "audits.first-contentful-paint.displayValue").String(),
		LargestContentfulPaint: gjson.GetBytes(report, "audits.largest-contentful-paint.displayValue").String(),
		TotalBlockingTime:      gjson.GetBytes(report, "audits.total-blocking-time.displayValue").String(),
	}, nil
}
