// Package model defines the domain types shared by the tracking, presence and settings packages.
package model

import "time"

// Action is a clock action recorded in the event log.
type Action string

const (
	ActionLogin  Action = "login"
	ActionLogout Action = "logout"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return a == ActionLogin || a == ActionLogout
}

// Status is the two-state clock status of a user.
type Status string

const (
	StatusOut    Status = "out"
	StatusLogged Status = "logged"
)

// TimeEntry is one clock action. Entries are never mutated after being appended.
type TimeEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	// Date is the local calendar day (YYYY-MM-DD) the entry is attributed to. It is
	// fixed at write time and never recomputed from Timestamp.
	Date        string `json:"date"`
	Explanation string `json:"explanation,omitempty"`
}

// DaySummary is the derived aggregate of one user's entries for one date.
type DaySummary struct {
	TotalWorkTime    int         `json:"totalWorkTime"`  // minutes
	TotalBreakTime   int         `json:"totalBreakTime"` // minutes
	Entries          []TimeEntry `json:"entries"`
	CurrentStatus    Status      `json:"currentStatus"`
	NeedsExplanation bool        `json:"needsExplanation"`
	LastLogoutTime   *time.Time  `json:"lastLogoutTime,omitempty"`
	// Irregular counts entries that repeated the previous action (login after login,
	// logout without login) and were tolerated.
	Irregular int `json:"irregular,omitempty"`
}
