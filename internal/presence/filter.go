package presence

import (
	"strings"
)

// Filter narrows report rows. Empty facets match everything. Arrival bounds are
// hours of day; a bound excludes users who never logged in.
type Filter struct {
	Query       string
	Statuses    []Status
	Shifts      []string
	Departments []string
	ArrivalFrom *int
	ArrivalTo   *int // exclusive
}

// Match reports whether r passes every facet.
func (f Filter) Match(r Row) bool {
	if q := strings.TrimSpace(f.Query); q != "" &&
		!strings.Contains(strings.ToLower(r.User.Name), strings.ToLower(q)) {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, r.Status) {
		return false
	}
	if len(f.Shifts) > 0 && !containsFold(f.Shifts, r.User.Shift) {
		return false
	}
	if len(f.Departments) > 0 && !containsFold(f.Departments, r.User.Department) {
		return false
	}
	if f.ArrivalFrom != nil || f.ArrivalTo != nil {
		if r.FirstLogin == nil {
			return false
		}
		h := r.FirstLogin.Hour()
		if f.ArrivalFrom != nil && h < *f.ArrivalFrom {
			return false
		}
		if f.ArrivalTo != nil && h >= *f.ArrivalTo {
			return false
		}
	}
	return true
}

// Apply returns the rows that match f.
func (f Filter) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func contains[T comparable](xs []T, v T) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsFold(xs []string, v string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}
