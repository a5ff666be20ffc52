package task

import (
	"context"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/pkg/models"
)

// capturedErrorCap bounds how many entries a single run stores; the total
// keeps counting past it.
const capturedErrorCap = 10

// JSErrorsTask navigates to the target while listening for uncaught
// exceptions and console error messages. The subscription is scoped to
// this one navigation; entries are kept in arrival order, no dedup.
type JSErrorsTask struct{}

func (t *JSErrorsTask) Run(ctx context.Context, sess *session.Session, req models.TaskRequest) (models.Payload, error) {
	col := &errorCollector{cap: capturedErrorCap}

	listenCtx, stop := context.WithCancel(sess.Context())
	defer stop()

	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			col.add("exception", exceptionMessage(e.ExceptionDetails))
		case *runtime.EventConsoleAPICalled:
			if e.Type == runtime.APITypeError {
				col.add("console", consoleMessage(e.Args))
			}
		}
	})

	if err := navigate(sess.Context(), req.URL, defaultNavigationTimeout); err != nil {
		return nil, err
	}

	total, entries := col.snapshot()
	return models.JSErrorsPayload{
		ErrorCount: total,
		Errors:     entries,
	}, nil
}

// errorCollector is a capped, mutex-guarded list; CDP events arrive on
// the target's event goroutine while the task goroutine navigates.
type errorCollector struct {
	mu      sync.Mutex
	cap     int
	total   int
	entries []models.CapturedError
}

func (c *errorCollector) add(kind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
	if len(c.entries) < c.cap {
		c.entries = append(c.entries, models.CapturedError{Type: kind, Message: message})
	}
}

func (c *errorCollector) snapshot() (int, []models.CapturedError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CapturedError, len(c.entries))
	copy(out, c.entries)
	return c.total, out
}

func exceptionMessage(d *runtime.ExceptionDetails) string {
	if d == nil {
		return "uncaught exception"
	}
	if d.Exception != nil && d.Exception.Description != "" {
		return d.Exception.Description
	}
	return d.Text
}

func consoleMessage(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == nil {
			continue
		}
		if len(arg.Value) > 0 {
			parts = append(parts, strings.Trim(string(arg.Value), `"`))
		} else if arg.Description != "" {
			parts = append(parts, arg.Description)
		}
	}
	return strings.Join(parts, " ")
}
