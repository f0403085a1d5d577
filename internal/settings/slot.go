package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Tiliavir/cafe-core/internal/kvstore"
)

// Slot is where one snapshot is persisted.
type Slot interface {
	// Read returns the raw snapshot, or false when nothing is stored yet.
	Read() ([]byte, bool, error)
	Write(data []byte) error
}

// KeySlot stores a snapshot as the whole value of a key.
type KeySlot struct {
	KV  kvstore.Store
	Key string
}

// Read implements Slot.
func (s KeySlot) Read() ([]byte, bool, error) { return s.KV.Get(s.Key) }

// Write implements Slot.
func (s KeySlot) Write(data []byte) error { return s.KV.Set(s.Key, data) }

// ArraySlot stores a snapshot as one element of a JSON array under Key, matched
// by the string value of Field. Slots sharing a key must share Mu.
type ArraySlot struct {
	KV    kvstore.Store
	Key   string
	Field string
	ID    string
	Mu    *sync.Mutex
}

func (s ArraySlot) elements() ([]map[string]json.RawMessage, error) {
	var arr []map[string]json.RawMessage
	found, err := kvstore.GetJSON(s.KV, s.Key, &arr)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return arr, nil
}

func (s ArraySlot) matches(el map[string]json.RawMessage) bool {
	var id string
	if raw, ok := el[s.Field]; ok && json.Unmarshal(raw, &id) == nil {
		return id == s.ID
	}
	return false
}

// Read implements Slot.
func (s ArraySlot) Read() ([]byte, bool, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	arr, err := s.elements()
	if err != nil {
		return nil, false, err
	}
	for _, el := range arr {
		if s.matches(el) {
			data, err := json.Marshal(el)
			return data, err == nil, err
		}
	}
	return nil, false, nil
}

// Write implements Slot. A corrupt array is quarantined and started afresh.
func (s ArraySlot) Write(data []byte) error {
	var el map[string]json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&el); err != nil {
		return fmt.Errorf("array slot %s: %w", s.Key, err)
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()

	arr, err := s.elements()
	if errors.Is(err, kvstore.ErrCorrupt) {
		if qerr := s.KV.Quarantine(s.Key); qerr != nil {
			return qerr
		}
		arr = nil
	} else if err != nil {
		return err
	}

	replaced := false
	for i := range arr {
		if s.matches(arr[i]) {
			arr[i] = el
			replaced = true
			break
		}
	}
	if !replaced {
		arr = append(arr, el)
	}
	return kvstore.SetJSON(s.KV, s.Key, arr)
}

// IDs lists the Field values present in the array stored under key.
func IDs(kv kvstore.Store, key, field string) ([]string, error) {
	s := ArraySlot{KV: kv, Key: key, Field: field, Mu: &sync.Mutex{}}
	arr, err := s.elements()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(arr))
	for _, el := range arr {
		var id string
		if raw, ok := el[field]; ok && json.Unmarshal(raw, &id) == nil && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
