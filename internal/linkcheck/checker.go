// Package linkcheck probes link reachability from within a page's own
// execution context, so checks carry the page's cookies and origin.
package linkcheck

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"github.com/ismailisimba/scraper/pkg/models"
)

// StatusNetworkError is the sentinel reported for a probe that failed at
// the network level or timed out. It is not an actual HTTP status.
const StatusNetworkError = 599

const (
	probeTimeout   = 8 * time.Second
	defaultWorkers = 5
)

// probeScript issues a HEAD fetch with an abort timer; any transport
// failure resolves to the sentinel instead of rejecting.
const probeScript = `(async () => {
	const controller = new AbortController();
	const timer = setTimeout(() => controller.abort(), %d);
	try {
		const res = await fetch(%s, { method: 'HEAD', redirect: 'follow', signal: controller.signal });
		return res.status;
	} catch (e) {
		return %d;
	} finally {
		clearTimeout(timer);
	}
})()`

// CheckAll probes the first cap links (slice, not sample) with a bounded
// number of in-flight probes and returns one result per retained link, in
// input order. A probe failure never aborts the batch.
func CheckAll(pageCtx context.Context, links []string, cap, workers int) []models.LinkCheckResult {
	if cap > 0 && len(links) > cap {
		links = links[:cap]
	}
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]models.LinkCheckResult, len(links))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, link := range links {
		g.Go(func() error {
			results[i] = models.LinkCheckResult{URL: link, Status: probe(pageCtx, link)}
			return nil
		})
	}
	g.Wait()

	return results
}

func probe(pageCtx context.Context, link string) int {
	// the in-page abort timer owns the 8s budget; the outer deadline only
	// catches a wedged evaluate call
	evalCtx, cancel := context.WithTimeout(pageCtx, probeTimeout+2*time.Second)
	defer cancel()

	expr := fmt.Sprintf(probeScript, probeTimeout.Milliseconds(), strconv.Quote(link), StatusNetworkError)

	var status int
	err := chromedp.Run(evalCtx, chromedp.Evaluate(expr, &status, awaitPromise))
	if err != nil {
		return StatusNetworkError
	}
	return status
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}
