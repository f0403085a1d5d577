package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/timecalc"
)

var (
	summaryUser   string
	summaryDate   string
	summaryWeek   bool
	summaryFormat string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show worked and break time of a staff member",
	Args:  cobra.NoArgs,
	RunE:  withApp(runSummary),
}

func init() {
	summaryCmd.Flags().StringVar(&summaryUser, "user", "", "Roster user id")
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "Day (YYYY-MM-DD, default today)")
	summaryCmd.Flags().BoolVar(&summaryWeek, "week", false, "Summarize the ISO week containing the day")
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "md", "Output format: md, csv, json")
}

type daySummaryLine struct {
	Date         string `json:"date"`
	WorkMinutes  int    `json:"work_minutes"`
	BreakMinutes int    `json:"break_minutes"`
	Irregular    int    `json:"irregular,omitempty"`
}

func runSummary(cmd *cobra.Command, _ []string, a *app) error {
	user, err := a.user(summaryUser)
	if err != nil {
		return err
	}
	date, err := resolveDate(a, summaryDate)
	if err != nil {
		return err
	}
	if !summaryWeek {
		printDaySummary(cmd, a, user, a.tracker.Summary(user.ID, date))
		return nil
	}

	day, _ := timecalc.ParseDate(date, a.loc)
	from, to := timecalc.WeekRange(day)
	label := timecalc.ISOWeekLabel(day)

	var lines []daySummaryLine
	var work, brk int
	for _, d := range timecalc.DaysIn(from, to) {
		s := a.tracker.Summary(user.ID, d)
		lines = append(lines, daySummaryLine{Date: d, WorkMinutes: s.TotalWorkTime, BreakMinutes: s.TotalBreakTime, Irregular: s.Irregular})
		work += s.TotalWorkTime
		brk += s.TotalBreakTime
	}

	out := cmd.OutOrStdout()
	switch summaryFormat {
	case "csv":
		fmt.Fprintln(out, "date,work_minutes,break_minutes")
		for _, l := range lines {
			fmt.Fprintf(out, "%s,%d,%d\n", l.Date, l.WorkMinutes, l.BreakMinutes)
		}
	case "json":
		data, err := json.MarshalIndent(map[string]any{
			"user":          user.ID,
			"week":          label,
			"days":          lines,
			"work_minutes":  work,
			"break_minutes": brk,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	default: // md
		fmt.Fprintf(out, "%s – week %s\n", user.Name, label)
		fmt.Fprintln(out, "--------------------------------")
		for _, l := range lines {
			fmt.Fprintf(out, "%-14s%-10s%s\n", weekdayLabel(l.Date, a.loc), timecalc.FormatMinutes(l.WorkMinutes), timecalc.FormatMinutes(l.BreakMinutes))
		}
		fmt.Fprintln(out, "--------------------------------")
		fmt.Fprintf(out, "%-14s%-10s%s\n", "Total", timecalc.FormatMinutes(work), timecalc.FormatMinutes(brk))
	}
	return nil
}

func weekdayLabel(date string, loc *time.Location) string {
	d, err := timecalc.ParseDate(date, loc)
	if err != nil {
		return date
	}
	return d.Format("Mon 02 Jan")
}
