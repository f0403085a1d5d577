package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore keeps one JSON file per key under a base directory.
type FileStore struct {
	base string
	mu   sync.Mutex
}

// NewFileStore creates the base directory if needed.
func NewFileStore(base string) (*FileStore, error) {
	if err := os.MkdirAll(base, 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating %s: %w", base, err)
	}
	return &FileStore{base: base}, nil
}

// Base returns the directory backing the store.
func (f *FileStore) Base() string { return f.base }

func (f *FileStore) path(key string) string {
	return filepath.Join(f.base, key+".json")
}

// Get reads the file for key. A missing file is reported as not found.
func (f *FileStore) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage error reading %s: %w", key, err)
	}
	return data, true, nil
}

// Set atomically writes the file for key.
func (f *FileStore) Set(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path(key)
	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Delete removes the file for key.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage error deleting %s: %w", key, err)
	}
	return nil
}

// Quarantine renames the file for key to <key>.json.corrupt.
func (f *FileStore) Quarantine(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path(key)
	if err := os.Rename(path, path+".corrupt"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage error backing up %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys that currently have a file.
func (f *FileStore) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	des, err := os.ReadDir(f.base)
	if err != nil {
		return nil, fmt.Errorf("storage error listing %s: %w", f.base, err)
	}
	var keys []string
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}
