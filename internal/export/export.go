// Package export writes presence reports and entry logs as csv, json, markdown or xlsx.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/presence"
	"github.com/Tiliavir/cafe-core/internal/timecalc"
)

// Format is an output format.
type Format string

const (
	CSV      Format = "csv"
	JSON     Format = "json"
	Markdown Format = "md"
	XLSX     Format = "xlsx"
)

// ParseFormat accepts csv, json, md (or markdown) and xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv", "":
		return CSV, nil
	case "json":
		return JSON, nil
	case "md", "markdown":
		return Markdown, nil
	case "xlsx", "excel":
		return XLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json, md or xlsx)", s)
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool { return f == XLSX }

type table struct {
	sheet  string
	header []string
	rows   [][]string
}

// Presence writes rep in format f. Times are shown in loc.
func Presence(w io.Writer, f Format, rep presence.Report, loc *time.Location) error {
	if f == JSON {
		return writeJSON(w, rep)
	}
	t := table{
		sheet:  "Presence " + rep.Date,
		header: []string{"date", "user_id", "name", "store_id", "shift", "department", "status", "first_login", "late", "entries"},
	}
	for _, r := range rep.Rows {
		first := ""
		if r.FirstLogin != nil {
			first = timecalc.FormatClock(*r.FirstLogin, loc)
		}
		t.rows = append(t.rows, []string{
			rep.Date, r.User.ID, r.User.Name, r.User.StoreID, r.User.Shift, r.User.Department,
			string(r.Status), first, strconv.FormatBool(r.Late), strconv.Itoa(r.Entries),
		})
	}
	return writeTable(w, f, t)
}

// Entries writes the raw entry log in format f. Times are shown in loc.
func Entries(w io.Writer, f Format, entries []model.TimeEntry, loc *time.Location) error {
	if f == JSON {
		return writeJSON(w, entries)
	}
	t := table{
		sheet:  "Entries",
		header: []string{"id", "date", "time", "user_id", "user_name", "action", "explanation"},
	}
	for _, e := range entries {
		t.rows = append(t.rows, []string{
			e.ID, e.Date, e.Timestamp.In(loc).Format(time.RFC3339), e.UserID, e.UserName, string(e.Action), e.Explanation,
		})
	}
	return writeTable(w, f, t)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, f Format, t table) error {
	switch f {
	case CSV:
		return writeCSV(w, t)
	case Markdown:
		return writeMarkdown(w, t)
	case XLSX:
		return writeXLSX(w, t)
	}
	return fmt.Errorf("unknown export format %q", f)
}

func writeCSV(w io.Writer, t table) error {
	var b strings.Builder
	writeCSVLine(&b, t.header)
	for _, r := range t.rows {
		writeCSVLine(&b, r)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCSVLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvEscape(f))
	}
	b.WriteByte('\n')
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeMarkdown(w io.Writer, t table) error {
	var b strings.Builder
	b.WriteString("| " + strings.Join(t.header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(t.header)) + "\n")
	for _, r := range t.rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = mdEscape(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
