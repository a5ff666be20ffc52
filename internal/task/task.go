package task

import (
	"context"

	"github.com/ismailisimba/scraper/internal/config"
	"github.com/ismailisimba/scraper/internal/session"
	"github.com/ismailisimba/scraper/internal/storage"
	"github.com/ismailisimba/scraper/pkg/models"
)

// Strategy is the capability every task kind implements: consume a live
// page handle, produce a task-specific payload. The context carries the
// invocation's deadline; browser operations run against the session's own
// page-bound context.
type Strategy interface {
	Run(ctx context.Context, sess *session.Session, req models.TaskRequest) (models.Payload, error)
}

// Registry is a closed mapping from task kind to strategy. Unknown kinds
// are rejected by the orchestrator before any session is acquired.
type Registry struct {
	strategies map[models.TaskKind]Strategy
}

func NewRegistry(strategies map[models.TaskKind]Strategy) *Registry {
	return &Registry{strategies: strategies}
}

// DefaultRegistry wires the six production strategies
func DefaultRegistry(store storage.Store, cfg *config.Config) *Registry {
	return NewRegistry(map[models.TaskKind]Strategy{
		models.TaskPerformance:      &PerformanceTask{LighthousePath: cfg.LighthousePath},
		models.TaskAccessibility:    NewAccessibilityTask(cfg.AxeScriptPath),
		models.TaskJSErrors:         &JSErrorsTask{},
		models.TaskBrokenLinks:      &BrokenLinksTask{Cap: cfg.LinkCheckCap, Workers: cfg.LinkCheckWorkers},
		models.TaskSnapshot:         &SnapshotTask{Store: store},
		models.TaskScheduledActions: &ScheduledActionsTask{Store: store},
	})
}

// Lookup resolves a task kind to its strategy
func (r *Registry) Lookup(kind models.TaskKind) (Strategy, bool) {
	s, ok := r.strategies[kind]
	return s, ok
}
