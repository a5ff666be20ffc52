package task

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"github.com/ismailisimba/scraper/internal/linkcheck"
	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/pkg/models"
)

// BrokenLinksTask extracts every absolute http(s) anchor from the page,
// dedupes by exact string, caps the candidate set and probes what remains
// for reachability.
type BrokenLinksTask struct {
	Cap     int
	Workers int
}

func (t *BrokenLinksTask) Run(ctx context.Context, sess *session.Session, req models.TaskRequest) (models.Payload, error) {
	pageCtx := sess.Context()
	if err := navigate(pageCtx, req.URL, defaultNavigationTimeout); err != nil {
		return nil, err
	}

	var html string
	err := chromedp.Run(pageCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		node, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read page document: %w", err)
	}

	links, err := extractLinks(html)
	if err != nil {
		return nil, err
	}

	results := linkcheck.CheckAll(pageCtx, links, t.Cap, t.Workers)

	broken := make([]models.LinkCheckResult, 0)
	for _, r := range results {
		if r.Status >= 400 {
			broken = append(broken, r)
		}
	}

	return models.BrokenLinksPayload{
		TotalLinksFound: len(links),
		CheckedLinks:    len(results),
		BrokenLinks:     broken,
	}, nil
}

// extractLinks returns the unique absolute http(s) anchor targets of a
// document in first-seen order. Uniqueness is by exact string value.
func extractLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page document: %w", err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links, nil
}
