// Package kvstore provides durable local key/value storage. Each key holds one JSON
// document that is always rewritten in full.
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrCorrupt marks a stored value that cannot be decoded.
var ErrCorrupt = errors.New("corrupt value")

// Store is a flat key/value store of raw JSON documents.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) ([]byte, bool, error)
	// Set replaces the value for key.
	Set(key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Quarantine moves the value for key aside so the next Get reports it missing.
	Quarantine(key string) error
	// Keys lists stored keys in lexical order.
	Keys() ([]string, error)
}

// GetJSON decodes the value for key into v. It returns false when the key is missing.
// A value that cannot be decoded yields an error wrapping ErrCorrupt.
func GetJSON(s Store, key string, v any) (bool, error) {
	data, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: key %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(s Store, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("kvstore: marshalling %s: %w", key, err)
	}
	return s.Set(key, data)
}

// LoadOrDefault decodes key into v and reports whether stored data was used. Missing
// data leaves v untouched. Corrupt data is logged and quarantined, and v is left
// untouched so the caller can fall back to its default.
func LoadOrDefault(s Store, key string, v any, log *zap.Logger) bool {
	ok, err := GetJSON(s, key, v)
	if err == nil {
		return ok
	}
	if log == nil {
		log = zap.NewNop()
	}
	if errors.Is(err, ErrCorrupt) {
		log.Warn("stored value is corrupt, using defaults", zap.String("key", key), zap.Error(err))
		if qerr := s.Quarantine(key); qerr != nil {
			log.Warn("quarantine failed", zap.String("key", key), zap.Error(qerr))
		}
		return false
	}
	log.Error("storage read failed, using defaults", zap.String("key", key), zap.Error(err))
	return false
}
