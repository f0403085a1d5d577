package timetrack

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Tiliavir/cafe-core/internal/kvstore"
	"github.com/Tiliavir/cafe-core/internal/model"
)

func TestEventLog_AppendAssignsIDAndDate(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	l := NewEventLog(kvstore.NewMemStore(), cet, zaptest.NewLogger(t))

	// 23:30 UTC is already the next day in CET.
	ts := time.Date(2026, 2, 27, 23, 30, 0, 0, time.UTC)
	e, err := l.Append(model.TimeEntry{UserID: "u1", Action: model.ActionLogin, Timestamp: ts})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "2026-02-28", e.Date)

	kept, err := l.Append(model.TimeEntry{ID: "fixed", UserID: "u1", Action: model.ActionLogout, Timestamp: ts.Add(time.Hour), Date: "2026-02-28"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", kept.ID)
}

func TestEventLog_DateIsNotRecomputed(t *testing.T) {
	l := NewEventLog(kvstore.NewMemStore(), time.UTC, nil)

	// A logout after midnight keeps the day it was recorded on.
	ts := time.Date(2026, 2, 28, 0, 30, 0, 0, time.UTC)
	_, err := l.Append(model.TimeEntry{UserID: "u1", Action: model.ActionLogout, Timestamp: ts, Date: "2026-02-27"})
	require.NoError(t, err)

	assert.Len(t, l.EntriesForUserOnDate("u1", "2026-02-27"), 1)
	assert.Empty(t, l.EntriesForUserOnDate("u1", "2026-02-28"))
}

func TestEventLog_RejectsInvalidEntries(t *testing.T) {
	l := NewEventLog(kvstore.NewMemStore(), time.UTC, nil)

	_, err := l.Append(model.TimeEntry{UserID: "u1", Action: "pause"})
	assert.Error(t, err)
	_, err = l.Append(model.TimeEntry{Action: model.ActionLogin})
	assert.Error(t, err)
	assert.Empty(t, l.AllEntries())
}

func TestEventLog_PersistsAcrossInstances(t *testing.T) {
	fs, err := kvstore.NewFileStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	ts := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	first := NewEventLog(fs, time.UTC, nil)
	_, err = first.Append(model.TimeEntry{UserID: "u1", Action: model.ActionLogin, Timestamp: ts})
	require.NoError(t, err)
	_, err = first.Append(model.TimeEntry{UserID: "u2", Action: model.ActionLogin, Timestamp: ts})
	require.NoError(t, err)

	second := NewEventLog(fs, time.UTC, nil)
	assert.Len(t, second.AllEntries(), 2)
	assert.Len(t, second.EntriesForUserOnDate("u2", "2026-02-27"), 1)
	assert.Len(t, second.EntriesOnDate("2026-02-27"), 2)
}

func TestEventLog_CorruptStorageFallsBackToEmpty(t *testing.T) {
	kv := kvstore.NewMemStore()
	require.NoError(t, kv.Set(EntriesKey, []byte("[{not json")))

	l := NewEventLog(kv, time.UTC, zaptest.NewLogger(t))
	assert.Empty(t, l.AllEntries())

	_, err := l.Append(model.TimeEntry{UserID: "u1", Action: model.ActionLogin, Timestamp: time.Now()})
	require.NoError(t, err)
	assert.Len(t, l.AllEntries(), 1)
}

func TestEventLog_CacheMatchesPureRecompute(t *testing.T) {
	l := NewEventLog(kvstore.NewMemStore(), time.UTC, nil)
	base := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	now := base.Add(10 * time.Hour)

	actions := []model.Action{model.ActionLogin, model.ActionLogout, model.ActionLogin, model.ActionLogout}
	for i, a := range actions {
		_, err := l.Append(model.TimeEntry{UserID: "u1", Action: a, Timestamp: base.Add(time.Duration(i) * 95 * time.Minute)})
		require.NoError(t, err)

		// Prime the cache, then compare against a recompute over the raw log.
		cached := CalculateDaySummary(l.EntriesForUserOnDate("u1", "2026-02-27"), now)
		var raw []model.TimeEntry
		for _, e := range l.AllEntries() {
			if e.UserID == "u1" && e.Date == "2026-02-27" {
				raw = append(raw, e)
			}
		}
		assert.Equal(t, CalculateDaySummary(raw, now), cached)
		assert.Equal(t, cached, CalculateDaySummary(l.EntriesForUserOnDate("u1", "2026-02-27"), now))
	}
}

func TestEventLog_SeesWritesFromOtherLogs(t *testing.T) {
	kv := kvstore.NewMemStore()
	a := NewEventLog(kv, time.UTC, zaptest.NewLogger(t))
	b := NewEventLog(kv, time.UTC, zaptest.NewLogger(t))
	ts := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)

	_, err := a.Append(model.TimeEntry{UserID: "u2", Action: model.ActionLogin, Timestamp: ts})
	require.NoError(t, err)
	assert.Empty(t, a.EntriesForUserOnDate("u1", "2026-02-27"))

	_, err = b.Append(model.TimeEntry{UserID: "u1", Action: model.ActionLogin, Timestamp: ts})
	require.NoError(t, err)

	got := a.EntriesForUserOnDate("u1", "2026-02-27")
	require.Len(t, got, 1)
	assert.Equal(t, model.StatusLogged, ReplayStatus(got))
	assert.Len(t, a.EntriesForUserOnDate("u2", "2026-02-27"), 1)
}

func TestEventLog_OwnAppendKeepsOtherPartitions(t *testing.T) {
	kv := kvstore.NewMemStore()
	l := NewEventLog(kv, time.UTC, nil)
	ts := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)

	_, err := l.Append(model.TimeEntry{UserID: "u1", Action: model.ActionLogin, Timestamp: ts})
	require.NoError(t, err)
	require.Len(t, l.EntriesForUserOnDate("u1", "2026-02-27"), 1)

	_, err = l.Append(model.TimeEntry{UserID: "u2", Action: model.ActionLogin, Timestamp: ts})
	require.NoError(t, err)
	_, ok := l.cache.Get("u1", "2026-02-27")
	assert.True(t, ok, "untouched partition stays cached")
	_, ok = l.cache.Get("u2", "2026-02-27")
	assert.False(t, ok)
}
