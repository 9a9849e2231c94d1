package event_bus

const (
	ImportCompleted  EventType = "import.completed"
	ImportRejected   EventType = "import.rejected"
	ImportFailed     EventType = "import.failed"
	LedgerReconciled EventType = "ledger.reconciled"
)

// ImportFinished describes the outcome of a bulk upload of activities or commitments.
type ImportFinished struct {
	Kind     string
	Filename string
	Accepted int
	Skipped  int
	// Message holds the validation error of a rejected upload or the storage
	// error of a failed one.
	Message string
}

type LedgerReconciliation struct {
	Source    string
	Updated   int
	Unmatched int
	Skipped   int
	Ambiguous int
	// Message is set when the feed could not be processed to the end.
	Message string
}
