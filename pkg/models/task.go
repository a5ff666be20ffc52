package models

// TaskKind identifies one of the supported page-inspection tasks
type TaskKind string

const (
	TaskPerformance      TaskKind = "performance"
	TaskAccessibility    TaskKind = "accessibility"
	TaskJSErrors         TaskKind = "jsErrors"
	TaskBrokenLinks      TaskKind = "brokenLinks"
	TaskSnapshot         TaskKind = "snapshot"
	TaskScheduledActions TaskKind = "scheduledActions"
)

// Kinds lists every known task kind
func Kinds() []TaskKind {
	return []TaskKind{
		TaskPerformance,
		TaskAccessibility,
		TaskJSErrors,
		TaskBrokenLinks,
		TaskSnapshot,
		TaskScheduledActions,
	}
}

// ActionStep is one scripted interaction in a scheduledActions run.
// Type selects the behavior; the other fields carry what that type needs.
type ActionStep struct {
	Type     string `json:"type"`
	Selector string `json:"selector,omitempty"`
	Text     string `json:"text,omitempty"`
	Duration int    `json:"duration,omitempty"` // milliseconds, wait steps only
}

// Step types accepted by the step executor
const (
	StepType            = "type"
	StepClick           = "click"
	StepWaitForSelector = "waitForSelector"
	StepWait            = "wait"
)

// ActionConfig is the optional per-task configuration block of a request
type ActionConfig struct {
	Steps []ActionStep `json:"steps,omitempty"`
}

// TaskRequest is a fully parsed inbound task invocation. Immutable once
// accepted by the orchestrator.
type TaskRequest struct {
	Kind          TaskKind      `json:"taskName"`
	URL           string        `json:"url"`
	ActionConfig  *ActionConfig `json:"actionConfig,omitempty"`
	MonitorID     string        `json:"monitorId,omitempty"`
	UserID        string        `json:"userId,omitempty"`
	CorrelationID string        `json:"correlationId,omitempty"`
}
