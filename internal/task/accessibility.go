package task

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/pkg/models"
)

const topViolationCount = 3

// AccessibilityTask navigates to the target, injects the axe-core rule
// engine into the page and buckets its violations by impact. The engine
// source is read from disk once on first use.
type AccessibilityTask struct {
	scriptPath string

	once    sync.Once
	script  string
	loadErr error
}

func NewAccessibilityTask(scriptPath string) *AccessibilityTask {
	return &AccessibilityTask{scriptPath: scriptPath}
}

type axeCheck struct {
	Impact string `json:"impact"`
	Help   string `json:"help"`
}

type axeResults struct {
	Violations []axeCheck `json:"violations"`
	Passes     []axeCheck `json:"passes"`
}

func (t *AccessibilityTask) Run(ctx context.Context, sess *session.Session, req models.TaskRequest) (models.Payload, error) {
	source, err := t.source()
	if err != nil {
		return nil, err
	}

	pageCtx := sess.Context()
	if err := navigate(pageCtx, req.URL, defaultNavigationTimeout); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(pageCtx, defaultNavigationTimeout)
	defer cancel()

	var results axeResults
	err = chromedp.Run(runCtx,
		chromedp.Evaluate(source, nil),
		chromedp.Evaluate(`axe.run(document, {resultTypes: ['violations', 'passes']})`, &results, awaitPromise),
	)
	if err != nil {
		return nil, fmt.Errorf("accessibility scan failed: %w", err)
	}

	var counts models.SeverityCounts
	for _, v := range results.Violations {
		switch v.Impact {
		case "critical":
			counts.Critical++
		case "serious":
			counts.Serious++
		case "moderate":
			counts.Moderate++
		case "minor":
			counts.Minor++
		}
	}

	// the engine reports violations in its own severity order; keep it
	top := make([]models.ViolationSummary, 0, topViolationCount)
	for _, v := range results.Violations {
		if len(top) == topViolationCount {
			break
		}
		top = append(top, models.ViolationSummary{Description: v.Help, Impact: v.Impact})
	}

	return models.AccessibilityPayload{
		Violations:    counts,
		Passes:        len(results.Passes),
		TopViolations: top,
	}, nil
}

func (t *AccessibilityTask) source() (string, error) {
	t.once.Do(func() {
		data, err := os.ReadFile(t.scriptPath)
		if err != nil {
			t.loadErr = fmt.Errorf("failed to load accessibility engine from %s: %w", t.scriptPath, err)
			return
		}
		t.script = string(data)
	})
	return t.script, t.loadErr
}
