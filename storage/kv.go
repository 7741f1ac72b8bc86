package storage

// KV is the interface for persisted string key/value state.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns ("", false) on a missing key.
//   Set may fail (quota, I/O); Delete is idempotent.
// - Values: callers store JSON text only. Implementations must preserve
//   values byte-for-byte.
type KV interface {
	// Get retrieves a value. Returns ("", false) on a missing key.
	Get(key string) (string, bool)

	// Set stores a value, replacing any previous value for the key.
	Set(key, value string) error

	// Delete removes a key. Idempotent - no error on a missing key.
	Delete(key string)

	// Keys returns a snapshot of all stored keys, in no particular order.
	Keys() []string
}

// EstimateUsage approximates the bytes a KV holds by summing key and
// value lengths, the same way browser quota probing was done. It is an
// estimate, not an OS-reported figure.
func EstimateUsage(kv KV) int {
	total := 0
	for _, k := range kv.Keys() {
		v, ok := kv.Get(k)
		if !ok {
			continue
		}
		total += len(k) + len(v)
	}
	return total
}
