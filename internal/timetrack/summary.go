package timetrack

import (
	"sort"
	"time"

	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/timecalc"
)

// ExplanationGap is the absence after a logout from which the gap stops counting as a
// break and a following login needs an explanation.
const ExplanationGap = 60 * time.Minute

// SortEntries returns a copy of entries ordered by timestamp. Equal timestamps keep
// their storage order.
func SortEntries(entries []model.TimeEntry) []model.TimeEntry {
	if entries == nil {
		return nil
	}
	out := append([]model.TimeEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// walk is the state of one chronological pass over a day's entries.
type walk struct {
	status     model.Status
	lastLogin  *time.Time
	lastLogout *time.Time
	prev       *model.TimeEntry
	work       time.Duration
	brk        time.Duration
	irregular  int
}

func (w *walk) step(e model.TimeEntry) {
	ts := e.Timestamp
	switch e.Action {
	case model.ActionLogin:
		if w.prev != nil && w.prev.Action == model.ActionLogout {
			if gap := ts.Sub(w.prev.Timestamp); gap < ExplanationGap {
				w.brk += gap
			}
		}
		if w.lastLogin != nil {
			reconcileConsecutiveSameAction(w, e)
		}
		w.lastLogin = &ts
		w.status = model.StatusLogged
	case model.ActionLogout:
		if w.lastLogin != nil {
			w.work += ts.Sub(*w.lastLogin)
			w.lastLogin = nil
		} else {
			reconcileConsecutiveSameAction(w, e)
		}
		w.status = model.StatusOut
		w.lastLogout = &ts
	}
	w.prev = &e
}

// reconcileConsecutiveSameAction handles an entry that repeats the effective state:
// a login while a session is open, or a logout with no open session. The repeated
// entry is tolerated and the information it would carry is dropped: a second login
// restarts the session without crediting the first, a bare logout credits nothing.
// It is counted so callers can surface the irregularity.
func reconcileConsecutiveSameAction(w *walk, _ model.TimeEntry) {
	w.irregular++
}

// replay walks entries, which must already be sorted.
func replay(sorted []model.TimeEntry) *walk {
	w := &walk{status: model.StatusOut}
	for _, e := range sorted {
		w.step(e)
	}
	return w
}

// CalculateDaySummary derives work time, break time and status from one user's
// entries for one day. Work time of an open session accrues up to now.
func CalculateDaySummary(entries []model.TimeEntry, now time.Time) model.DaySummary {
	sorted := SortEntries(entries)
	w := replay(sorted)
	if w.status == model.StatusLogged && w.lastLogin != nil {
		w.work += now.Sub(*w.lastLogin)
	}

	s := model.DaySummary{
		TotalWorkTime:  timecalc.RoundMinutes(w.work),
		TotalBreakTime: timecalc.RoundMinutes(w.brk),
		Entries:        sorted,
		CurrentStatus:  w.status,
		LastLogoutTime: w.lastLogout,
		Irregular:      w.irregular,
	}
	if s.Entries == nil {
		s.Entries = []model.TimeEntry{}
	}
	s.NeedsExplanation = w.status == model.StatusOut &&
		w.lastLogout != nil &&
		now.Sub(*w.lastLogout) >= ExplanationGap
	return s
}

// ReplayStatus returns only the status after replaying entries.
func ReplayStatus(entries []model.TimeEntry) model.Status {
	return replay(SortEntries(entries)).status
}

// FirstLogin returns the earliest login among entries.
func FirstLogin(entries []model.TimeEntry) (time.Time, bool) {
	for _, e := range SortEntries(entries) {
		if e.Action == model.ActionLogin {
			return e.Timestamp, true
		}
	}
	return time.Time{}, false
}

// CanPerformAction reports whether action is a legal transition from status:
// login only when out, logout only when logged.
func CanPerformAction(action model.Action, status model.Status) bool {
	switch action {
	case model.ActionLogin:
		return status == model.StatusOut
	case model.ActionLogout:
		return status == model.StatusLogged
	default:
		return false
	}
}
