// Package cache provides the short-lived response cache that sits in
// front of idempotent backend reads.
//
// Keys canonicalize their query parameters (sorted before serializing)
// so argument order never causes a miss, and every entry lives under a
// namespace so unrelated data ("model", "community", "doctors") can be
// cleared independently. Expiry is lazy: an expired entry is removed
// on the next read of that exact key, never by a background sweep, and
// a stale value is never returned.
//
// There is no maximum size bound. Entries accumulate until they expire
// on read or a namespace is cleared. That is an accepted limitation of
// the original design, kept deliberately.
package cache
