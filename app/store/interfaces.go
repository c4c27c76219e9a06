package store

// StateStore defines the persistence contract the pipeline depends on.
// Implementations must make every write durable before returning: a publish
// that is not in the ledger when the process restarts would be sent again.
type StateStore interface {
	IsPublished(id string) bool
	MarkPublished(id string) error
	DailyCount() int
	IncrementDailyCount() error
	PublishedCount() int
}
