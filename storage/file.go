package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV persists the key/value map as a single flat JSON object on
// disk. The whole document is loaded on open and rewritten on every
// Set/Delete, which is fine at the sizes this store holds (a few
// hundred KB of history and settings).
type FileKV struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

// OpenFileKV loads (or creates) a file-backed store at path.
func OpenFileKV(path string) (*FileKV, error) {
	f := &FileKV{path: path, items: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.items); err != nil {
		return nil, fmt.Errorf("storage: parsing %s: %w", path, err)
	}
	return f, nil
}

// Get retrieves a value. Returns ("", false) on a missing key.
func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	v, ok := f.items[key]
	f.mu.Unlock()
	return v, ok
}

// Set stores a value and flushes the document to disk. A failed flush
// rolls the in-memory map back so memory and disk stay consistent.
func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.items[key]
	f.items[key] = value
	if err := f.flushLocked(); err != nil {
		if had {
			f.items[key] = prev
		} else {
			delete(f.items, key)
		}
		return err
	}
	return nil
}

// Delete removes a key and flushes. Idempotent; flush errors on delete
// are ignored since the key is gone from the live map either way.
func (f *FileKV) Delete(key string) {
	f.mu.Lock()
	delete(f.items, key)
	_ = f.flushLocked()
	f.mu.Unlock()
}

// Keys returns a snapshot of stored keys.
func (f *FileKV) Keys() []string {
	f.mu.Lock()
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	f.mu.Unlock()
	return keys
}

func (f *FileKV) flushLocked() error {
	data, err := json.MarshalIndent(f.items, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encoding store: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("storage: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("storage: replacing %s: %w", f.path, err)
	}
	return nil
}

// Dir returns the directory holding the store file.
func (f *FileKV) Dir() string {
	return filepath.Dir(f.path)
}

// Ensure FileKV implements KV
var _ KV = (*FileKV)(nil)
