package task

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/internal/storage"
	"github.com/ismailisimba/scraper/pkg/models"
)

// ScheduledActionsTask navigates once and runs the request's steps
// strictly in order, then captures and uploads a final screenshot. Any
// step failure aborts the rest of the sequence and fails the task; there
// is no partial-success reporting.
type ScheduledActionsTask struct {
	Store storage.Store
}

func (t *ScheduledActionsTask) Run(ctx context.Context, sess *session.Session, req models.TaskRequest) (models.Payload, error) {
	steps, err := ValidateSteps(req.ActionConfig)
	if err != nil {
		return nil, err
	}

	pageCtx := sess.Context()
	if err := navigate(pageCtx, req.URL, defaultNavigationTimeout); err != nil {
		return nil, err
	}

	for i, step := range steps {
		if err := runStep(pageCtx, step); err != nil {
			return nil, fmt.Errorf("step %d (%s) failed: %w", i+1, step.Type, err)
		}
		if err := chromedp.Run(pageCtx, chromedp.Sleep(settleDelay)); err != nil {
			return nil, err
		}
	}

	var screenshot []byte
	if err := chromedp.Run(pageCtx, chromedp.FullScreenshot(&screenshot, screenshotQuality)); err != nil {
		return nil, err
	}

	path := artifactPath("actions", req.UserID, req.MonitorID, "run", "png")
	screenshotURL, err := t.Store.Put(ctx, path, screenshot, "image/png")
	if err != nil {
		return nil, err
	}

	return models.ActionsPayload{
		StepsCompleted: len(steps),
		ScreenshotURL:  screenshotURL,
	}, nil
}

// ValidateSteps rejects a missing or empty step sequence before any
// navigation happens.
func ValidateSteps(cfg *models.ActionConfig) ([]models.ActionStep, error) {
	if cfg == nil || len(cfg.Steps) == 0 {
		return nil, ErrInvalidActionConfig
	}
	return cfg.Steps, nil
}
