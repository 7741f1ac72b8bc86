package transport

import (
	"net/http"
	"time"
)

// MaxRetries is the fixed retry ceiling: two retries after the initial
// attempt, regardless of endpoint.
const MaxRetries = 2

// backoffTable holds the literal per-retry delays. Anything past the
// table (only reachable if the ceiling were ever raised) waits
// backoffFallback. These are product constants, not a formula.
var backoffTable = []time.Duration{
	1000 * time.Millisecond,
	3000 * time.Millisecond,
}

const backoffFallback = 5000 * time.Millisecond

// backoffDelay returns the delay before the nth retry (1-based).
func backoffDelay(retry int) time.Duration {
	if retry >= 1 && retry <= len(backoffTable) {
		return backoffTable[retry-1]
	}
	return backoffFallback
}

// shouldRetry reports whether a failed attempt qualifies for another
// try: either no response arrived at all, or the server answered 5xx.
// Client errors and successful responses never retry.
func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= 500 && resp.StatusCode < 600
}
