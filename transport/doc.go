// Package transport wraps outgoing HTTP requests with identity
// tagging, timing, bearer-token attachment and bounded retry for
// transient server failures.
//
// Retry policy: a request is retried only when no response was
// received at all or the response status is in [500,600), and at most
// twice. Delays come from a literal lookup table (1s, then 3s, 5s for
// anything past the table), not a computed backoff. Client errors and
// exhausted retries surface as a normalized *APIError carrying the
// status, body, error code and request id - never a silent fallback.
package transport
