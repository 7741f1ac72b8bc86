// Package storage provides string key/value stores used for persisted
// client state.
//
// The store contract mirrors the web-storage model the product shipped
// against: keys and values are strings, values are human-readable JSON,
// and capacity is approximate. MemoryKV optionally enforces a byte
// quota using the same length-sum estimate the history layer probes
// with; FileKV persists the map as a single flat JSON document.
package storage
