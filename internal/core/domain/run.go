package domain

import "time"

// RunStatus is the outcome of one glossary run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the audit record of one pipeline execution.
type Run struct {
	ID         string     `json:"id"          db:"id"`
	RootFolder string     `json:"root_folder" db:"root_folder"`
	Title      string     `json:"title"       db:"title"`
	DocumentID string     `json:"document_id" db:"document_id"`
	ItemCount  int        `json:"item_count"  db:"item_count"`
	Status     RunStatus  `json:"status"      db:"status"`
	Error      string     `json:"error"       db:"error_msg"`
	StartedAt  time.Time  `json:"started_at"  db:"started_at"`
	FinishedAt *time.Time `json:"finished_at" db:"finished_at"`
}
