package timetrack_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/kvstore"
	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/timetrack"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time  { return c.t }
func (c *clock) set(hhmm string) { c.t = at(hhmm) }

var ada = model.User{ID: "u1", Name: "Ada", StoreID: "s1", Role: model.RoleBarista}

func newTracker(t *testing.T, kv kvstore.Store) (*timetrack.Tracker, *clock) {
	t.Helper()
	c := &clock{t: at("09:00")}
	log := zaptest.NewLogger(t)
	tr := timetrack.NewTracker(timetrack.NewEventLog(kv, time.UTC, log), log).WithClock(c.now)
	return tr, c
}

func TestTracker_ClockInOut(t *testing.T) {
	tr, c := newTracker(t, kvstore.NewMemStore())

	e, err := tr.ClockIn(ada, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "2026-02-27", e.Date)
	assert.Equal(t, model.ActionLogin, e.Action)

	c.set("12:00")
	_, err = tr.ClockOut(ada)
	require.NoError(t, err)

	s := tr.Today(ada.ID)
	assert.Equal(t, 180, s.TotalWorkTime)
	assert.Equal(t, model.StatusOut, s.CurrentStatus)
}

func TestTracker_RejectsIllegalTransitions(t *testing.T) {
	kv := kvstore.NewMemStore()
	tr, _ := newTracker(t, kv)

	_, err := tr.ClockOut(ada)
	require.ErrorIs(t, err, errs.ErrNotClockedIn)
	assert.Empty(t, tr.Events().AllEntries(), "rejected actions must not write")

	_, err = tr.ClockIn(ada, nil)
	require.NoError(t, err)
	_, err = tr.ClockIn(ada, nil)
	require.ErrorIs(t, err, errs.ErrAlreadyClockedIn)
	assert.Len(t, tr.Events().AllEntries(), 1)
}

func TestTracker_ExplanationFlow(t *testing.T) {
	tr, c := newTracker(t, kvstore.NewMemStore())

	_, err := tr.ClockIn(ada, nil)
	require.NoError(t, err)
	c.set("10:00")
	_, err = tr.ClockOut(ada)
	require.NoError(t, err)

	c.set("11:30")
	_, err = tr.ClockIn(ada, nil)
	require.ErrorIs(t, err, errs.ErrExplanationRequired)
	assert.Len(t, tr.Events().AllEntries(), 2)

	reason := "  doctor appointment "
	e, err := tr.ClockIn(ada, &reason)
	require.NoError(t, err)
	assert.Equal(t, "doctor appointment", e.Explanation)
}

func TestTracker_DecliningToExplain(t *testing.T) {
	tr, c := newTracker(t, kvstore.NewMemStore())

	_, err := tr.ClockIn(ada, nil)
	require.NoError(t, err)
	c.set("10:00")
	_, err = tr.ClockOut(ada)
	require.NoError(t, err)

	c.set("12:00")
	declined := ""
	e, err := tr.ClockIn(ada, &declined)
	require.NoError(t, err)
	assert.Empty(t, e.Explanation)
}

func TestTracker_ShortBreakNeedsNoExplanation(t *testing.T) {
	tr, c := newTracker(t, kvstore.NewMemStore())

	_, err := tr.ClockIn(ada, nil)
	require.NoError(t, err)
	c.set("10:00")
	_, err = tr.ClockOut(ada)
	require.NoError(t, err)

	c.set("10:20")
	note := "ignored"
	e, err := tr.ClockIn(ada, &note)
	require.NoError(t, err)
	assert.Empty(t, e.Explanation, "explanations are only kept after a long absence")
	assert.Equal(t, 20, tr.Today(ada.ID).TotalBreakTime)
}

func TestTracker_SharedStoreRejectsDoubleClockIn(t *testing.T) {
	kv := kvstore.NewMemStore()
	front, _ := newTracker(t, kv)
	back, _ := newTracker(t, kv)

	assert.Equal(t, model.StatusOut, front.Today(ada.ID).CurrentStatus)
	_, err := back.ClockIn(ada, nil)
	require.NoError(t, err)

	assert.Equal(t, model.StatusLogged, front.Today(ada.ID).CurrentStatus)
	_, err = front.ClockIn(ada, nil)
	assert.ErrorIs(t, err, errs.ErrAlreadyClockedIn)
	assert.Len(t, front.Events().AllEntries(), 1)
}
