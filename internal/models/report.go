package models

import "time"

// Run statuses written to the report store.
const (
	RunStatusRunning   = "RUNNING"
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
)

// RunReport is the per-run record kept in Firestore. It tracks how many
// briefs made it into the published document and why the rest were dropped.
type RunReport struct {
	RunID        string         `firestore:"runId"`
	Status       string         `firestore:"status"`
	StartedAt    time.Time      `firestore:"startedAt"`
	FinishedAt   time.Time      `firestore:"finishedAt,omitempty"`
	BriefCount   int            `firestore:"briefCount"`
	DroppedCount int            `firestore:"droppedCount"`
	ErrorDetails string         `firestore:"errorDetails,omitempty"`
	Dropped      []DroppedBrief `firestore:"dropped,omitempty"`
}
