package history

import "errors"

// Sentinel errors for history reads. Callers branch on these rather
// than matching error text.
var (
	// ErrNotFound indicates no history has been stored under the key.
	ErrNotFound = errors.New("history: not found")

	// ErrCorrupt indicates the stored value exists but is not
	// parseable JSON.
	ErrCorrupt = errors.New("history: stored value is corrupt")

	// ErrRecordNotFound indicates no record with the given id exists.
	ErrRecordNotFound = errors.New("history: record not found")
)
