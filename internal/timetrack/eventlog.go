// Package timetrack records clock-in/clock-out events and derives day summaries from them.
package timetrack

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tiliavir/cafe-core/internal/kvstore"
	"github.com/Tiliavir/cafe-core/internal/logging"
	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/timecalc"
)

// EntriesKey is the storage key holding the full entry array.
const EntriesKey = "timeTrackingEntries"

// EventLog is the append-only store of time entries. The whole log lives under one
// storage key and is rewritten on every append; concurrent writers in other processes
// race with last-write-wins.
type EventLog struct {
	kv    kvstore.Store
	loc   *time.Location
	now   func() time.Time
	log   *zap.Logger
	cache *PartitionCache

	mu sync.Mutex
}

// NewEventLog returns an EventLog over kv. Entry dates are attributed in loc.
func NewEventLog(kv kvstore.Store, loc *time.Location, log *zap.Logger) *EventLog {
	if loc == nil {
		loc = time.Local
	}
	return &EventLog{
		kv:    kv,
		loc:   loc,
		now:   time.Now,
		log:   logging.OrNop(log),
		cache: NewPartitionCache(),
	}
}

// WithClock replaces the clock used for "today".
func (l *EventLog) WithClock(now func() time.Time) *EventLog {
	l.now = now
	return l
}

// Location returns the location entry dates are attributed in.
func (l *EventLog) Location() *time.Location { return l.loc }

// Append writes one entry, assigning an id and date when absent.
func (l *EventLog) Append(e model.TimeEntry) (model.TimeEntry, error) {
	if !e.Action.Valid() {
		return model.TimeEntry{}, fmt.Errorf("validation: unknown action %q", e.Action)
	}
	if e.UserID == "" {
		return model.TimeEntry{}, fmt.Errorf("validation: empty user id")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	if e.Date == "" {
		e.Date = timecalc.DateKey(e.Timestamp, l.loc)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, gen := l.load()
	l.cache.Sync(gen)
	entries = append(entries, e)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("appending entry: %w", err)
	}
	if err := l.kv.Set(EntriesKey, data); err != nil {
		return model.TimeEntry{}, fmt.Errorf("appending entry: %w", err)
	}
	l.cache.Invalidate(e.UserID, e.Date)
	l.cache.Advance(FingerprintOf(data))
	l.log.Debug("entry appended",
		zap.String("id", e.ID),
		zap.String("user_id", e.UserID),
		zap.String("action", string(e.Action)),
		zap.String("date", e.Date),
	)
	return e, nil
}

// AllEntries returns every entry ever written, in storage order.
func (l *EventLog) AllEntries() []model.TimeEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries, _ := l.load()
	return entries
}

// EntriesOnDate returns every entry attributed to date.
func (l *EventLog) EntriesOnDate(date string) []model.TimeEntry {
	var out []model.TimeEntry
	for _, e := range l.AllEntries() {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// EntriesForUserOnDate returns the (userID, date) partition sorted by timestamp.
// The stored log is read on every call; writes by other logs over the same store
// are always seen.
func (l *EventLog) EntriesForUserOnDate(userID, date string) []model.TimeEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, gen := l.load()
	l.cache.Sync(gen)
	if cached, ok := l.cache.Get(userID, date); ok {
		return cached
	}
	var out []model.TimeEntry
	for _, e := range entries {
		if e.UserID == userID && e.Date == date {
			out = append(out, e)
		}
	}
	out = SortEntries(out)
	l.cache.Put(userID, date, out)
	return out
}

// TodayEntries returns userID's entries for the current local day.
func (l *EventLog) TodayEntries(userID string) []model.TimeEntry {
	return l.EntriesForUserOnDate(userID, l.Today())
}

// Today returns the current local day key.
func (l *EventLog) Today() string {
	return timecalc.DateKey(l.now(), l.loc)
}

// load reads the whole log and its fingerprint. It must be called with mu held.
func (l *EventLog) load() ([]model.TimeEntry, Fingerprint) {
	data, ok, err := l.kv.Get(EntriesKey)
	gen := FingerprintOf(data)
	if err == nil && ok {
		var entries []model.TimeEntry
		if json.Unmarshal(data, &entries) == nil {
			return entries, gen
		}
	}
	// Missing, unreadable or corrupt: LoadOrDefault logs and quarantines.
	var entries []model.TimeEntry
	if !kvstore.LoadOrDefault(l.kv, EntriesKey, &entries, l.log) {
		return []model.TimeEntry{}, gen
	}
	return entries, gen
}
