package feed

import "time"

// Freshness rejects entries older than a rolling age window. Entries with
// no derivable timestamp always pass: absence of data is not evidence of
// staleness.
type Freshness struct {
	maxAge time.Duration
}

func NewFreshness(maxAge time.Duration) *Freshness {
	return &Freshness{maxAge: maxAge}
}

// Accept reports whether the entry is within the freshness window at now
func (f *Freshness) Accept(e Entry, now time.Time) bool {
	if e.PublishedAt == nil {
		return true
	}
	return now.UTC().Sub(e.PublishedAt.UTC()) <= f.maxAge
}
