package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/timecalc"
	"github.com/Tiliavir/cafe-core/internal/timetrack"
)

var (
	entriesDate string
	entriesUser string
	entriesAll  bool
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List clock entries",
	Args:  cobra.NoArgs,
	RunE:  withApp(runEntries),
}

func init() {
	entriesCmd.Flags().StringVar(&entriesDate, "date", "", "Day to list (YYYY-MM-DD, default today)")
	entriesCmd.Flags().StringVar(&entriesUser, "user", "", "Only this user")
	entriesCmd.Flags().BoolVar(&entriesAll, "all", false, "List every stored entry")
}

func runEntries(cmd *cobra.Command, _ []string, a *app) error {
	date, err := resolveDate(a, entriesDate)
	if err != nil {
		return err
	}

	var entries []model.TimeEntry
	switch {
	case entriesAll:
		entries = timetrack.SortEntries(a.events.AllEntries())
	case entriesUser != "":
		entries = a.events.EntriesForUserOnDate(entriesUser, date)
	default:
		entries = timetrack.SortEntries(a.events.EntriesOnDate(date))
	}
	if entriesAll && entriesUser != "" {
		entries = onlyUser(entries, entriesUser)
	}

	printEntries(cmd.OutOrStdout(), a, entries)
	return nil
}

func onlyUser(entries []model.TimeEntry, userID string) []model.TimeEntry {
	var out []model.TimeEntry
	for _, e := range entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// printEntries groups entries by date and prints them.
func printEntries(out io.Writer, a *app, entries []model.TimeEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return
	}

	var currentDay string
	for _, e := range entries {
		if e.Date != currentDay {
			fmt.Fprintln(out, e.Date)
			currentDay = e.Date
		}
		name := e.UserName
		if name == "" {
			name = e.UserID
		}
		line := fmt.Sprintf("  %s  %-6s  %s", timecalc.FormatClock(e.Timestamp, a.loc), e.Action, name)
		if e.Explanation != "" {
			line += fmt.Sprintf("  (%s)", e.Explanation)
		}
		fmt.Fprintln(out, line)
	}
}

// resolveDate returns s as a day key, or today when s is empty.
func resolveDate(a *app, s string) (string, error) {
	if s == "" {
		return a.events.Today(), nil
	}
	if _, err := timecalc.ParseDate(s, a.loc); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return s, nil
}
