package classifier

import "errors"

// Category is the editorial verdict for an entry
type Category string

const (
	CategoryAI       Category = "AI"
	CategoryCyber    Category = "CYBER"
	CategoryHardware Category = "HARDWARE"
	CategoryIgnore   Category = "IGNORE"
)

// Valid reports whether the category is one of the four known values
func (c Category) Valid() bool {
	switch c {
	case CategoryAI, CategoryCyber, CategoryHardware, CategoryIgnore:
		return true
	}
	return false
}

// Result is the structured classification payload. It is transient: produced
// once per accepted entry and consumed immediately downstream.
type Result struct {
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Hashtags string   `json:"hashtags"`
}

var (
	// ErrExhausted means every attempt failed at the transport level or
	// returned an empty body. The entry is dropped but stays eligible for
	// future sweeps.
	ErrExhausted = errors.New("classifier attempts exhausted")

	// ErrMalformedResponse means the backend answered but the payload was
	// not the required JSON object. Treated as a content failure: no retry.
	ErrMalformedResponse = errors.New("malformed classifier response")
)
