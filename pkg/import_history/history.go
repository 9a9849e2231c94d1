package import_history

import "time"

type Status string

const (
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusFailed    Status = "failed"
)

const KindReconciliation = "reconciliation"

// Entry is the outcome of one upload or reconciliation run.
type Entry struct {
	Id         int64
	Kind       string
	Filename   string
	Status     Status
	Accepted   int
	Skipped    int
	Unmatched  int
	Ambiguous  int
	Message    string
	OccurredAt time.Time
}
