package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/presence"
	"github.com/Tiliavir/cafe-core/internal/timecalc"
)

var (
	presenceDate        string
	presenceQuery       string
	presenceStatuses    []string
	presenceShifts      []string
	presenceDepartments []string
	presenceFrom        int
	presenceTo          int
)

var presenceCmd = &cobra.Command{
	Use:   "presence",
	Short: "Show who is in, finished or absent",
	Args:  cobra.NoArgs,
	RunE:  withApp(runPresence),
}

func init() {
	presenceCmd.Flags().StringVar(&presenceDate, "date", "", "Day (YYYY-MM-DD, default today)")
	presenceCmd.Flags().StringVarP(&presenceQuery, "query", "q", "", "Filter by name")
	presenceCmd.Flags().StringSliceVar(&presenceStatuses, "status", nil, "Filter by status: present, finished, absent")
	presenceCmd.Flags().StringSliceVar(&presenceShifts, "shift", nil, "Filter by shift")
	presenceCmd.Flags().StringSliceVar(&presenceDepartments, "department", nil, "Filter by department")
	presenceCmd.Flags().IntVar(&presenceFrom, "arrived-from", -1, "Only users whose first login is at or after this hour")
	presenceCmd.Flags().IntVar(&presenceTo, "arrived-before", -1, "Only users whose first login is before this hour")
}

func runPresence(cmd *cobra.Command, _ []string, a *app) error {
	rep, err := buildReport(a, presenceDate)
	if err != nil {
		return err
	}
	filter, err := presenceFilter()
	if err != nil {
		return err
	}
	printPresence(cmd.OutOrStdout(), a, rep, filter.Apply(rep.Rows))
	return nil
}

func buildReport(a *app, date string) (presence.Report, error) {
	day, err := resolveDate(a, date)
	if err != nil {
		return presence.Report{}, err
	}
	r, err := a.roster()
	if err != nil {
		return presence.Report{}, err
	}
	return a.aggregator().Compute(r.Users, a.events.EntriesOnDate(day), day, a.cfg.StoreID), nil
}

func presenceFilter() (presence.Filter, error) {
	f := presence.Filter{Query: presenceQuery, Shifts: presenceShifts, Departments: presenceDepartments}
	statuses, err := parseStatuses(presenceStatuses)
	if err != nil {
		return f, err
	}
	f.Statuses = statuses
	if presenceFrom >= 0 {
		f.ArrivalFrom = &presenceFrom
	}
	if presenceTo >= 0 {
		f.ArrivalTo = &presenceTo
	}
	return f, nil
}

func parseStatuses(in []string) ([]presence.Status, error) {
	var out []presence.Status
	for _, s := range in {
		st := presence.Status(strings.ToLower(strings.TrimSpace(s)))
		switch st {
		case presence.StatusPresent, presence.StatusFinished, presence.StatusAbsent:
			out = append(out, st)
		default:
			return nil, fmt.Errorf("unknown status %q (want present, finished or absent)", s)
		}
	}
	return out, nil
}

func printPresence(out io.Writer, a *app, rep presence.Report, rows []presence.Row) {
	store := rep.StoreID
	if store == "" {
		store = "all stores"
	}
	s := rep.Stats
	fmt.Fprintf(out, "%s – %s\n", rep.Date, store)
	fmt.Fprintf(out, "Present %d · Finished %d · Absent %d · Late %d · Rate %d%%\n",
		s.Present, s.Finished, s.Absent, s.Late, s.Rate)
	fmt.Fprintln(out, "--------------------------------")
	if len(rows) == 0 {
		fmt.Fprintln(out, "No matching staff.")
		return
	}
	for _, r := range rows {
		first := "--:--"
		if r.FirstLogin != nil {
			first = timecalc.FormatClock(*r.FirstLogin, a.loc)
		}
		late := ""
		if r.Late {
			late = " late"
		}
		fmt.Fprintf(out, "%-20s%-10s%s%s\n", r.User.Name, r.Status, first, late)
	}
}
