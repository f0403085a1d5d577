package timetrack

import (
	"crypto/sha256"
	"sync"

	"github.com/Tiliavir/cafe-core/internal/model"
)

type partitionKey struct {
	userID string
	date   string
}

// Fingerprint identifies one stored version of the event log.
type Fingerprint [sha256.Size]byte

// FingerprintOf returns the fingerprint of the raw stored log.
func FingerprintOf(data []byte) Fingerprint { return sha256.Sum256(data) }

// PartitionCache memoizes sorted (user, date) partitions of the event log. It only
// avoids re-filtering the full log; summaries are always recomputed from the partition.
// Partitions are valid for one log fingerprint and dropped when the log changes.
type PartitionCache struct {
	mu    sync.RWMutex
	gen   Fingerprint
	parts map[partitionKey][]model.TimeEntry
}

// NewPartitionCache returns an empty cache.
func NewPartitionCache() *PartitionCache {
	return &PartitionCache{parts: map[partitionKey][]model.TimeEntry{}}
}

// Get returns a copy of the cached partition.
func (c *PartitionCache) Get(userID, date string) ([]model.TimeEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.parts[partitionKey{userID, date}]
	if !ok {
		return nil, false
	}
	return append([]model.TimeEntry(nil), p...), true
}

// Put stores a copy of entries for the partition.
func (c *PartitionCache) Put(userID, date string, entries []model.TimeEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts[partitionKey{userID, date}] = append([]model.TimeEntry(nil), entries...)
}

// Invalidate drops the partition.
func (c *PartitionCache) Invalidate(userID, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.parts, partitionKey{userID, date})
}

// Sync drops every partition unless gen is the fingerprint the cache was filled from.
func (c *PartitionCache) Sync(gen Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		return
	}
	c.gen = gen
	clear(c.parts)
}

// Advance moves the cache to gen, keeping the partitions it holds. The caller must
// have invalidated every partition the change touched.
func (c *PartitionCache) Advance(gen Fingerprint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen = gen
}
