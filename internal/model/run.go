package model

import "time"

// RunStatus is the lifecycle state of a scrape run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one journaled scrape pass over a page range.
type Run struct {
	ID        string    `json:"id"`
	StartPage int       `json:"start_page"`
	EndPage   int       `json:"end_page"`
	Status    RunStatus `json:"status"`
	Listings  int       `json:"listings"`
	Failures  int       `json:"failures"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Failure records one listing whose detail scrape produced the sentinel row.
type Failure struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	URL       string    `json:"url"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
