package task

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/internal/storage"
	"github.com/ismailisimba/scraper/pkg/models"
)

const screenshotQuality = 90

// SnapshotTask captures the page's visible text, a full-page screenshot
// and a PDF rendering, hashes the text for change detection and uploads
// both artifacts. Both uploads must succeed; the artifacts are required,
// not best-effort.
type SnapshotTask struct {
	Store storage.Store
}

func (t *SnapshotTask) Run(ctx context.Context, sess *session.Session, req models.TaskRequest) (models.Payload, error) {
	pageCtx := sess.Context()
	if err := navigate(pageCtx, req.URL, snapshotNavigationTimeout); err != nil {
		return nil, err
	}

	var text string
	var screenshot, pdf []byte
	err := chromedp.Run(pageCtx,
		chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &text),
		chromedp.FullScreenshot(&screenshot, screenshotQuality),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return fmt.Errorf("failed to render page document: %w", err)
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	hash := ContentHash(text)
	screenshotPath := artifactPath("snapshots", req.UserID, req.MonitorID, "screenshot", "png")
	pdfPath := artifactPath("snapshots", req.UserID, req.MonitorID, "page", "pdf")

	var screenshotURL, pdfURL string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		screenshotURL, err = t.Store.Put(gctx, screenshotPath, screenshot, "image/png")
		return err
	})
	g.Go(func() error {
		var err error
		pdfURL, err = t.Store.Put(gctx, pdfPath, pdf, "application/pdf")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return models.SnapshotPayload{
		ScreenshotURL: screenshotURL,
		PDFURL:        pdfURL,
		ContentHash:   hash,
	}, nil
}

// ContentHash is a pure function of the extracted page text; identical
// text always yields an identical hash.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// artifactPrefix namespaces uploads by owner and monitor so no two runs
// ever write the same object path.
func artifactPrefix(category, userID, monitorID string) string {
	if userID == "" {
		userID = "default"
	}
	if monitorID == "" {
		monitorID = "default"
	}
	return fmt.Sprintf("%s/%s/%s", category, userID, monitorID)
}

// artifactPath appends a nanosecond capture timestamp; two captures for
// the same owner and monitor in the same second must still land on
// distinct objects.
func artifactPath(category, userID, monitorID, name, ext string) string {
	return fmt.Sprintf("%s/%s-%d.%s", artifactPrefix(category, userID, monitorID), name, time.Now().UnixNano(), ext)
}
