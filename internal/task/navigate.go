package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const (
	// navigation budgets per task family
	defaultNavigationTimeout  = 30 * time.Second
	snapshotNavigationTimeout = 60 * time.Second

	// wait after the load event so late JS has a chance to settle
	pageSettleWait = 2 * time.Second

	// pause between scripted steps and before final captures
	settleDelay = 500 * time.Millisecond
)

// navigate loads the target URL on the session's page and lets it settle,
// the whole operation bounded by the given timeout.
func navigate(pageCtx context.Context, targetURL string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(pageCtx, timeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(targetURL),
		chromedp.Sleep(pageSettleWait),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %s", ErrNavigationTimeout, timeout, targetURL)
	}
	return err
}

// awaitPromise makes Evaluate resolve the expression's promise before
// returning its value.
func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}
