package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/presence"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": CSV, "CSV": CSV, "json": JSON, "markdown": Markdown, "md": Markdown, "xlsx": XLSX} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
	assert.True(t, XLSX.Binary())
	assert.False(t, CSV.Binary())
}

func sampleReport() presence.Report {
	first := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	return presence.Report{
		Date:  "2026-03-02",
		Stats: presence.Stats{Total: 2, Present: 1, Absent: 1, Late: 1, Rate: 50},
		Rows: []presence.Row{
			{User: model.User{ID: "u1", Name: "García, Ana", StoreID: "s1", Shift: "morning", Department: "bar"},
				Status: presence.StatusPresent, Clock: model.StatusLogged, Late: true, FirstLogin: &first, Entries: 1},
			{User: model.User{ID: "u2", Name: "Bruno", StoreID: "s1"}, Status: presence.StatusAbsent, Clock: model.StatusOut},
		},
	}
}

func TestPresenceCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Presence(&buf, CSV, sampleReport(), time.UTC))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,user_id,name,store_id,shift,department,status,first_login,late,entries", lines[0])
	assert.Equal(t, `2026-03-02,u1,"García, Ana",s1,morning,bar,present,09:15,true,1`, lines[1])
	assert.Equal(t, "2026-03-02,u2,Bruno,s1,,,absent,,false,0", lines[2])
}

func TestPresenceMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Presence(&buf, Markdown, sampleReport(), time.UTC))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "| date | user_id |"))
	assert.Contains(t, out, "|---|---|")
	assert.Contains(t, out, "| 2026-03-02 | u1 | García, Ana |")
}

func TestPresenceJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Presence(&buf, JSON, sampleReport(), time.UTC))

	var got presence.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 50, got.Stats.Rate)
	assert.Len(t, got.Rows, 2)
}

func TestPresenceXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Presence(&buf, XLSX, sampleReport(), time.UTC))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Presence 2026-03-02"}, f.GetSheetList())
	rows, err := f.GetRows("Presence 2026-03-02")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "user_id", rows[0][1])
	assert.Equal(t, "García, Ana", rows[1][2])
	assert.Equal(t, "absent", rows[2][6])
}

func TestEntriesCSV(t *testing.T) {
	entries := []model.TimeEntry{
		{ID: "e1", UserID: "u1", UserName: "Ada", Action: model.ActionLogin, Date: "2026-03-02",
			Timestamp: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), Explanation: "doctor, then bus"},
	}
	var buf bytes.Buffer
	require.NoError(t, Entries(&buf, CSV, entries, time.UTC))
	assert.Equal(t,
		"id,date,time,user_id,user_name,action,explanation\n"+
			`e1,2026-03-02,2026-03-02T09:00:00Z,u1,Ada,login,"doctor, then bus"`+"\n",
		buf.String())
}
