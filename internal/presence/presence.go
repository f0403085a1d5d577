// Package presence rolls day summaries up into per-store dashboard counts.
package presence

import (
	"math"
	"sort"
	"time"

	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/timetrack"
)

// Status classifies a user for one day.
type Status string

const (
	StatusPresent  Status = "present"
	StatusFinished Status = "finished"
	StatusAbsent   Status = "absent"
)

// DefaultLateHour is the hour of day from which a first login counts as late.
const DefaultLateHour = 9

// Row is one user's presence for the selected day.
type Row struct {
	User       model.User   `json:"user"`
	Status     Status       `json:"status"`
	Clock      model.Status `json:"clock"`
	Late       bool         `json:"late"`
	FirstLogin *time.Time   `json:"firstLogin,omitempty"`
	Entries    int          `json:"entries"`
}

// Stats are the dashboard counts over a set of rows.
type Stats struct {
	Total    int `json:"total"`
	Present  int `json:"present"`
	Finished int `json:"finished"`
	Absent   int `json:"absent"`
	Late     int `json:"late"`
	// Rate is Present/Total in whole percent, 0 when Total is 0.
	Rate int `json:"rate"`
}

// Report is the aggregator's output for one day.
type Report struct {
	Date    string `json:"date"`
	StoreID string `json:"storeId,omitempty"`
	Stats   Stats  `json:"stats"`
	Rows    []Row  `json:"rows"`
}

// Aggregator computes presence from the event log. Late detection uses the hour of
// the first login in Location.
type Aggregator struct {
	Location *time.Location
	LateHour int
}

// NewAggregator returns an Aggregator with the default late hour.
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{Location: loc, LateHour: DefaultLateHour}
}

// Classify computes one user's row from that user's entries for the day.
func (a *Aggregator) Classify(u model.User, entries []model.TimeEntry) Row {
	row := Row{User: u, Clock: timetrack.ReplayStatus(entries), Entries: len(entries)}
	switch {
	case len(entries) == 0:
		row.Status = StatusAbsent
	case row.Clock == model.StatusLogged:
		row.Status = StatusPresent
	default:
		row.Status = StatusFinished
	}
	if first, ok := timetrack.FirstLogin(entries); ok {
		first = first.In(a.Location)
		row.FirstLogin = &first
		row.Late = first.Hour() >= a.LateHour
	}
	return row
}

// Compute classifies every user of storeID (all users when storeID is empty) against
// the entries of date. entries may contain other dates and users; they are ignored.
func (a *Aggregator) Compute(users []model.User, entries []model.TimeEntry, date, storeID string) Report {
	byUser := map[string][]model.TimeEntry{}
	for _, e := range entries {
		if e.Date != date {
			continue
		}
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	rows := make([]Row, 0, len(users))
	for _, u := range users {
		if storeID != "" && u.StoreID != storeID {
			continue
		}
		rows = append(rows, a.Classify(u, byUser[u.ID]))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].User.Name < rows[j].User.Name })

	return Report{Date: date, StoreID: storeID, Stats: Summarize(rows), Rows: rows}
}

// Summarize counts rows by status.
func Summarize(rows []Row) Stats {
	var s Stats
	s.Total = len(rows)
	for _, r := range rows {
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusFinished:
			s.Finished++
		case StatusAbsent:
			s.Absent++
		}
		if r.Late {
			s.Late++
		}
	}
	if s.Total > 0 {
		s.Rate = int(math.Round(float64(s.Present) / float64(s.Total) * 100))
	}
	return s
}
