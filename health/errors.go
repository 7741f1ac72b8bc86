package health

import "errors"

var (
	// ErrCheckerNotFound is returned when a named checker is not registered.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrCheckTimeout is carried by results of checks that exceeded the
	// aggregator timeout.
	ErrCheckTimeout = errors.New("health: check timed out")
)
