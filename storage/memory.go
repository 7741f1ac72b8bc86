package storage

import "sync"

// MemoryKV is an in-memory KV implementation.
//
// A Quota of zero means unlimited. When a quota is set, Set rejects
// writes that would push the length-sum estimate past it, returning
// ErrQuotaExceeded and leaving the prior value untouched.
type MemoryKV struct {
	mu     sync.RWMutex
	items  map[string]string
	quota  int
	failed int
}

// NewMemoryKV creates an unbounded in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

// NewQuotaKV creates an in-memory store that rejects writes past
// quotaBytes, measured as sum(len(key)+len(value)).
func NewQuotaKV(quotaBytes int) *MemoryKV {
	return &MemoryKV{items: make(map[string]string), quota: quotaBytes}
}

// Get retrieves a value. Returns ("", false) on a missing key.
func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	v, ok := m.items[key]
	m.mu.RUnlock()
	return v, ok
}

// Set stores a value. Fails with ErrQuotaExceeded when the write would
// exceed the configured quota; the prior value is kept.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		next := m.usageLocked() - len(m.items[key]) + len(value)
		if _, ok := m.items[key]; !ok {
			next += len(key)
		}
		if next > m.quota {
			m.failed++
			return ErrQuotaExceeded
		}
	}

	m.items[key] = value
	return nil
}

// Delete removes a key. Idempotent.
func (m *MemoryKV) Delete(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

// Keys returns a snapshot of stored keys.
func (m *MemoryKV) Keys() []string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	return keys
}

// FailedWrites reports how many Sets were rejected by the quota.
func (m *MemoryKV) FailedWrites() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failed
}

func (m *MemoryKV) usageLocked() int {
	total := 0
	for k, v := range m.items {
		total += len(k) + len(v)
	}
	return total
}

// Ensure MemoryKV implements KV
var _ KV = (*MemoryKV)(nil)
