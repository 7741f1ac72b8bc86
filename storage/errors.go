package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrQuotaExceeded is returned by Set when a write would push the
	// store past its configured byte quota.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")

	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("storage: store is closed")
)
