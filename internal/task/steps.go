package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ismailisimba/scraper/pkg/models"
)

const (
	// interactive steps wait up to 10s for their target, a bare
	// waitForSelector step gets a little longer
	actionSelectorTimeout = 10 * time.Second
	waitSelectorTimeout   = 15 * time.Second
)

// waitForTarget gates every selector-dependent step. Presence in the DOM
// is enough; a hidden element still satisfies the wait.
var waitForTarget = chromedp.WaitReady

// runStep executes a single scripted interaction against the page. Steps
// are never retried; a selector that fails to appear within its budget
// surfaces as ErrSelectorTimeout.
func runStep(pageCtx context.Context, step models.ActionStep) error {
	switch step.Type {
	case models.StepType:
		if err := waitForSelector(pageCtx, step.Selector, actionSelectorTimeout); err != nil {
			return err
		}
		return chromedp.Run(pageCtx, chromedp.SendKeys(step.Selector, step.Text))

	case models.StepClick:
		if err := waitForSelector(pageCtx, step.Selector, actionSelectorTimeout); err != nil {
			return err
		}
		return chromedp.Run(pageCtx, chromedp.Click(step.Selector))

	case models.StepWaitForSelector:
		return waitForSelector(pageCtx, step.Selector, waitSelectorTimeout)

	case models.StepWait:
		// caller-supplied duration is trusted, no upper bound here
		return chromedp.Run(pageCtx, chromedp.Sleep(time.Duration(step.Duration)*time.Millisecond))

	default:
		return &UnknownStepTypeError{Kind: step.Type}
	}
}

func waitForSelector(pageCtx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(pageCtx, timeout)
	defer cancel()

	err := chromedp.Run(waitCtx, waitForTarget(selector))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %q after %s", ErrSelectorTimeout, selector, timeout)
	}
	return err
}
