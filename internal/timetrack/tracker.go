package timetrack

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/logging"
	"github.com/Tiliavir/cafe-core/internal/model"
)

// Tracker accepts clock actions through the action gate and answers summary queries.
type Tracker struct {
	events *EventLog
	now    func() time.Time
	log    *zap.Logger
}

// NewTracker returns a Tracker writing to events.
func NewTracker(events *EventLog, log *zap.Logger) *Tracker {
	return &Tracker{events: events, now: time.Now, log: logging.OrNop(log)}
}

// WithClock replaces the tracker's clock and the event log's clock.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	t.events.WithClock(now)
	return t
}

// Events returns the underlying event log.
func (t *Tracker) Events() *EventLog { return t.events }

// Summary returns userID's day summary for date as of now.
func (t *Tracker) Summary(userID, date string) model.DaySummary {
	return CalculateDaySummary(t.events.EntriesForUserOnDate(userID, date), t.now())
}

// Today returns userID's summary for the current day.
func (t *Tracker) Today(userID string) model.DaySummary {
	return t.Summary(userID, t.events.Today())
}

// ClockIn records a login for user. When the user has been out for at least
// ExplanationGap, explanation must be non-nil; an empty explanation is a valid way of
// declining to explain. A rejected action writes nothing.
func (t *Tracker) ClockIn(user model.User, explanation *string) (model.TimeEntry, error) {
	summary := t.Today(user.ID)
	if !CanPerformAction(model.ActionLogin, summary.CurrentStatus) {
		t.log.Info("clock-in rejected", zap.String("user_id", user.ID), zap.String("status", string(summary.CurrentStatus)))
		return model.TimeEntry{}, fmt.Errorf("%s: %w", user.Name, errs.ErrAlreadyClockedIn)
	}

	entry := model.TimeEntry{
		UserID:    user.ID,
		UserName:  user.Name,
		Timestamp: t.now(),
		Action:    model.ActionLogin,
	}
	if summary.NeedsExplanation {
		if explanation == nil {
			return model.TimeEntry{}, fmt.Errorf("%s has been away since %s: %w",
				user.Name, summary.LastLogoutTime.Format("15:04"), errs.ErrExplanationRequired)
		}
		entry.Explanation = strings.TrimSpace(*explanation)
	}
	return t.events.Append(entry)
}

// ClockOut records a logout for user.
func (t *Tracker) ClockOut(user model.User) (model.TimeEntry, error) {
	summary := t.Today(user.ID)
	if !CanPerformAction(model.ActionLogout, summary.CurrentStatus) {
		t.log.Info("clock-out rejected", zap.String("user_id", user.ID), zap.String("status", string(summary.CurrentStatus)))
		return model.TimeEntry{}, fmt.Errorf("%s: %w", user.Name, errs.ErrNotClockedIn)
	}
	return t.events.Append(model.TimeEntry{
		UserID:    user.ID,
		UserName:  user.Name,
		Timestamp: t.now(),
		Action:    model.ActionLogout,
	})
}
