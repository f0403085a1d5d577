package presence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/presence"
)

const date = "2026-02-27"

var users = []model.User{
	{ID: "u1", Name: "Ada Lovelace", StoreID: "s1", Shift: "morning", Department: "bar"},
	{ID: "u2", Name: "Brian Kernighan", StoreID: "s1", Shift: "morning", Department: "kitchen"},
	{ID: "u3", Name: "Claude Shannon", StoreID: "s1", Shift: "evening", Department: "bar"},
	{ID: "u4", Name: "Dennis Ritchie", StoreID: "s2", Shift: "morning", Department: "bar"},
}

func ts(h, m int) time.Time { return time.Date(2026, 2, 27, h, m, 0, 0, time.UTC) }

func e(user string, a model.Action, t time.Time) model.TimeEntry {
	return model.TimeEntry{UserID: user, Action: a, Timestamp: t, Date: date}
}

func entries() []model.TimeEntry {
	return []model.TimeEntry{
		e("u1", model.ActionLogin, ts(8, 55)),
		e("u2", model.ActionLogin, ts(9, 10)),
		e("u2", model.ActionLogout, ts(12, 0)),
		e("u4", model.ActionLogin, ts(9, 30)),
		// Other days are ignored.
		{UserID: "u3", Action: model.ActionLogin, Timestamp: ts(8, 0).AddDate(0, 0, -1), Date: "2026-02-26"},
	}
}

func TestCompute_AllStores(t *testing.T) {
	r := presence.NewAggregator(time.UTC).Compute(users, entries(), date, "")

	assert.Equal(t, presence.Stats{Total: 4, Present: 2, Finished: 1, Absent: 1, Late: 2, Rate: 50}, r.Stats)
	require.Len(t, r.Rows, 4)
	assert.Equal(t, "Ada Lovelace", r.Rows[0].User.Name)
	assert.Equal(t, presence.StatusPresent, r.Rows[0].Status)
	assert.False(t, r.Rows[0].Late)
	assert.Equal(t, presence.StatusFinished, r.Rows[1].Status)
	assert.True(t, r.Rows[1].Late)
	assert.Equal(t, presence.StatusAbsent, r.Rows[2].Status)
	assert.Nil(t, r.Rows[2].FirstLogin)
}

func TestCompute_StoreFilter(t *testing.T) {
	r := presence.NewAggregator(time.UTC).Compute(users, entries(), date, "s1")

	assert.Equal(t, 3, r.Stats.Total)
	assert.Equal(t, 1, r.Stats.Present)
	assert.Equal(t, 33, r.Stats.Rate)
	assert.Equal(t, "s1", r.StoreID)
}

func TestCompute_NoUsers(t *testing.T) {
	r := presence.NewAggregator(time.UTC).Compute(nil, entries(), date, "")
	assert.Equal(t, presence.Stats{}, r.Stats)
	assert.Equal(t, 0, r.Stats.Rate)
	assert.NotNil(t, r.Rows)
}

func TestClassify_LateUsesLocation(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	a := presence.NewAggregator(cet)

	// 08:30 UTC is 09:30 CET.
	row := a.Classify(users[0], []model.TimeEntry{e("u1", model.ActionLogin, ts(8, 30))})
	assert.True(t, row.Late)
	require.NotNil(t, row.FirstLogin)
	assert.Equal(t, 9, row.FirstLogin.Hour())

	a.LateHour = 10
	row = a.Classify(users[0], []model.TimeEntry{e("u1", model.ActionLogin, ts(8, 30))})
	assert.False(t, row.Late)
}

func TestClassify_LogoutOnlyIsFinished(t *testing.T) {
	row := presence.NewAggregator(time.UTC).Classify(users[0], []model.TimeEntry{e("u1", model.ActionLogout, ts(7, 0))})
	assert.Equal(t, presence.StatusFinished, row.Status)
	assert.False(t, row.Late)
}

func TestSummarize_Rounding(t *testing.T) {
	rows := []presence.Row{
		{Status: presence.StatusPresent},
		{Status: presence.StatusPresent},
		{Status: presence.StatusAbsent},
	}
	assert.Equal(t, 67, presence.Summarize(rows).Rate)
}

func TestFilter(t *testing.T) {
	rows := presence.NewAggregator(time.UTC).Compute(users, entries(), date, "").Rows
	nine, ten := 9, 10

	tests := []struct {
		name   string
		filter presence.Filter
		want   []string
	}{
		{"empty matches all", presence.Filter{}, []string{"u1", "u2", "u3", "u4"}},
		{"name search is case-insensitive", presence.Filter{Query: "  RITCH "}, []string{"u4"}},
		{"status", presence.Filter{Statuses: []presence.Status{presence.StatusAbsent, presence.StatusFinished}}, []string{"u2", "u3"}},
		{"shift", presence.Filter{Shifts: []string{"Evening"}}, []string{"u3"}},
		{"department", presence.Filter{Departments: []string{"kitchen"}}, []string{"u2"}},
		{"arrival range", presence.Filter{ArrivalFrom: &nine, ArrivalTo: &ten}, []string{"u2", "u4"}},
		{"arrival upper bound", presence.Filter{ArrivalTo: &nine}, []string{"u1"}},
		{"facets combine", presence.Filter{Departments: []string{"bar"}, Statuses: []presence.Status{presence.StatusPresent}}, []string{"u1", "u4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range tt.filter.Apply(rows) {
				got = append(got, r.User.ID)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}
