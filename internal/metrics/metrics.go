package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session counters exist to make the acquire/release pairing observable:
// across the process lifetime the two values must stay equal once all
// in-flight tasks have finished.
var (
	SessionsAcquired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_sessions_acquired_total",
		Help: "Browser sessions launched.",
	})

	SessionsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scraper_sessions_released_total",
		Help: "Browser sessions torn down.",
	})

	TasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scraper_tasks_total",
		Help: "Task executions by kind and outcome.",
	}, []string{"kind", "status"})
)
