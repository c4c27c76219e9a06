package feed

import "time"

// Entry represents a normalized candidate entry from a polled feed.
// Identity is the canonical link: two entries with the same link are the
// same entry regardless of content drift.
type Entry struct {
	ID          string // canonical link
	Title       string
	Summary     string
	PublishedAt *time.Time // nil when no timestamp could be derived
}
