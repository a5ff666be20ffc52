// Package orchestrator is the entry point for task execution: it
// validates the request, owns the browser session for exactly the span
// of one task, dispatches to the matching strategy and normalizes every
// outcome into the result envelope.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	applog "github.com/ismailisimba/scraper/internal/log"
	"github.com/ismailisimba/scraper/internal/metrics"
	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/internal/task"
	"github.com/ismailisimba/scraper/pkg/models"
)

var (
	// ErrInvalidRequest rejects malformed input before any resource is
	// acquired; maps to HTTP 400.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownTask rejects an unrecognized task kind before any
	// resource is acquired; maps to HTTP 404.
	ErrUnknownTask = errors.New("unknown task")
)

type Orchestrator struct {
	sessions *session.Manager
	registry *task.Registry
}

func New(sessions *session.Manager, registry *task.Registry) *Orchestrator {
	return &Orchestrator{sessions: sessions, registry: registry}
}

// Execute runs one task invocation end to end. The returned TaskResult is
// always populated; the error only classifies the failure for the HTTP
// layer. Session release runs on every path that acquired one.
func (o *Orchestrator) Execute(ctx context.Context, req models.TaskRequest) (models.TaskResult, error) {
	logger := applog.LoggerFromContext(ctx).With(
		slog.String("task", string(req.Kind)),
		slog.String("url", req.URL),
	)

	if req.URL == "" {
		return models.Failure("URL is a required parameter."),
			fmt.Errorf("%w: missing url", ErrInvalidRequest)
	}
	if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return models.Failure("URL must be an absolute http or https address."),
			fmt.Errorf("%w: malformed url %q", ErrInvalidRequest, req.URL)
	}

	strategy, ok := o.registry.Lookup(req.Kind)
	if !ok {
		return models.Failure(fmt.Sprintf("Task '%s' not found.", req.Kind)),
			fmt.Errorf("%w: %q", ErrUnknownTask, req.Kind)
	}

	// a malformed step sequence must never cost a browser launch
	if req.Kind == models.TaskScheduledActions {
		if _, err := task.ValidateSteps(req.ActionConfig); err != nil {
			return models.Failure(err.Error()), err
		}
	}

	logger.Info("task started")

	sess, err := o.sessions.Acquire(ctx)
	if err != nil {
		logger.Error("session launch failed", slog.String("err", err.Error()))
		metrics.TasksTotal.WithLabelValues(string(req.Kind), models.StatusError).Inc()
		return models.Failure(err.Error()), err
	}
	defer o.sessions.Release(sess)

	payload, err := o.run(ctx, strategy, sess, req)
	if err != nil {
		logger.Error("task failed", slog.String("err", err.Error()))
		metrics.TasksTotal.WithLabelValues(string(req.Kind), models.StatusError).Inc()
		return models.Failure(err.Error()), err
	}

	logger.Info("task finished")
	metrics.TasksTotal.WithLabelValues(string(req.Kind), models.StatusSuccess).Inc()
	return models.Success(payload), nil
}

// run confines a panicking strategy to a task-level error so release and
// the envelope contract still hold.
func (o *Orchestrator) run(ctx context.Context, strategy task.Strategy, sess *session.Session, req models.TaskRequest) (payload models.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task execution failed: %v", r)
		}
	}()
	return strategy.Run(ctx, sess, req)
}
