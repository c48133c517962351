package entities

import "time"

// OpsSeverity of an operational alert
type OpsSeverity string

const (
	OpsSeverityWarning OpsSeverity = "warning"
	OpsSeverityError   OpsSeverity = "error"
)

// Operational alert events
const (
	OpsEventSourceSyncFailed = "knowledge_source_sync_failed"
	OpsEventRunFailed        = "knowledge_sync_run_failed"
)

// OpsAlert is dispatched to the operations channel when a source or a whole
// run fails
type OpsAlert struct {
	Event     string                 `json:"event"`
	Severity  OpsSeverity            `json:"severity"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details"`
	Timestamp time.Time              `json:"timestamp"`
}
