package jobscheduler

import "time"

type RunStatus string

const (
	StatusStarted   RunStatus = "started"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
	StatusSkipped   RunStatus = "skipped"
)

type RunEvent struct {
	RunID        string
	JobName      string
	Trigger      string
	Status       RunStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
