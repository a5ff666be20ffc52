package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNavigationTimeout fires when a page fails to load within the
	// task's navigation budget.
	ErrNavigationTimeout = errors.New("navigation timed out")

	// ErrSelectorTimeout fires when a step's selector never appears
	// within its wait budget.
	ErrSelectorTimeout = errors.New("timed out waiting for selector")

	// ErrInvalidActionConfig rejects a scheduledActions request whose
	// steps are absent or empty. Raised before any navigation.
	ErrInvalidActionConfig = errors.New("actionConfig.steps must be a non-empty array of steps")

	// ErrAuditCapability marks a failure of the external audit tooling
	ErrAuditCapability = errors.New("performance audit failed")
)

// UnknownStepTypeError reports a step whose type the executor does not
// recognize, carrying the offending kind.
type UnknownStepTypeError struct {
	Kind string
}

func (e *UnknownStepTypeError) Error() string {
	return fmt.Sprintf("unknown step type %q", e.Kind)
}
