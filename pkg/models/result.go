package models

import "encoding/json"

// Payload is the task-specific part of a successful result
type Payload interface {
	payload()
}

// TaskResult is the single envelope crossing the system boundary. On
// success the payload's fields are flattened next to the status
// discriminator; on error only status and message are emitted.
type TaskResult struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Payload Payload `json:"-"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success wraps a payload in a success envelope
func Success(p Payload) TaskResult {
	return TaskResult{Status: StatusSuccess, Payload: p}
}

// Failure wraps a human-readable cause in an error envelope
func Failure(message string) TaskResult {
	return TaskResult{Status: StatusError, Message: message}
}

// MarshalJSON flattens the payload fields into the envelope
func (r TaskResult) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	if r.Payload != nil {
		raw, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
	}
	status, _ := json.Marshal(r.Status)
	out["status"] = status
	if r.Message != "" {
		msg, _ := json.Marshal(r.Message)
		out["message"] = msg
	}
	return json.Marshal(out)
}

// PerformancePayload carries the lighthouse score and timing metrics
type PerformancePayload struct {
	Score                  int    `json:"score"`
	FirstContentfulPaint   string `json:"firstContentfulPaint"`
	LargestContentfulPaint string `json:"largestContentfulPaint"`
	TotalBlockingTime      string `json:"totalBlockingTime"`
}

// SeverityCounts buckets accessibility violations by impact
type SeverityCounts struct {
	Critical int `json:"critical"`
	Serious  int `json:"serious"`
	Moderate int `json:"moderate"`
	Minor    int `json:"minor"`
}

// ViolationSummary is one reported accessibility violation
type ViolationSummary struct {
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

type AccessibilityPayload struct {
	Violations    SeverityCounts     `json:"violations"`
	Passes        int                `json:"passes"`
	TopViolations []ViolationSummary `json:"topViolations"`
}

// CapturedError is one uncaught exception or console error from a page
type CapturedError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type JSErrorsPayload struct {
	ErrorCount int             `json:"errorCount"`
	Errors     []CapturedError `json:"errors"`
}

// LinkCheckResult is the probe outcome for a single link. Status is the
// HTTP status code, or 599 for a network-level failure or timeout.
type LinkCheckResult struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
}

type BrokenLinksPayload struct {
	TotalLinksFound int               `json:"totalLinksFound"`
	CheckedLinks    int               `json:"checkedLinks"`
	BrokenLinks     []LinkCheckResult `json:"brokenLinks"`
}

type SnapshotPayload struct {
	ScreenshotURL string `json:"screenshotUrl"`
	PDFURL        string `json:"pdfUrl"`
	ContentHash   string `json:"contentHash"`
}

type ActionsPayload struct {
	StepsCompleted int    `json:"stepsCompleted"`
	ScreenshotURL  string `json:"screenshotUrl"`
}

func (PerformancePayload) payload()   {}
func (AccessibilityPayload) payload() {}
func (JSErrorsPayload) payload()      {}
func (BrokenLinksPayload) payload()   {}
func (SnapshotPayload) payload()      {}
func (ActionsPayload) payload()       {}
