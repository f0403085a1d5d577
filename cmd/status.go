package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/timecalc"
)

var statusUser string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's clock status of a staff member",
	Args:  cobra.NoArgs,
	RunE:  withApp(runStatus),
}

func init() {
	statusCmd.Flags().StringVar(&statusUser, "user", "", "Roster user id")
}

func runStatus(cmd *cobra.Command, _ []string, a *app) error {
	user, err := a.user(statusUser)
	if err != nil {
		return err
	}
	printDaySummary(cmd, a, user, a.tracker.Today(user.ID))
	return nil
}

func printDaySummary(cmd *cobra.Command, a *app, user model.User, s model.DaySummary) {
	out := cmd.OutOrStdout()
	state := "Clocked out"
	if s.CurrentStatus == model.StatusLogged {
		state = "Clocked in"
	}
	fmt.Fprintf(out, "%s: %s\n", user.Name, state)
	fmt.Fprintf(out, "  Worked: %s\n", timecalc.FormatMinutes(s.TotalWorkTime))
	fmt.Fprintf(out, "  Breaks: %s\n", timecalc.FormatMinutes(s.TotalBreakTime))
	if s.LastLogoutTime != nil {
		fmt.Fprintf(out, "  Last out: %s\n", timecalc.FormatClock(*s.LastLogoutTime, a.loc))
	}
	if s.NeedsExplanation {
		fmt.Fprintln(out, "  Next clock-in needs an explanation (away 60m or more).")
	}
	if s.Irregular > 0 {
		fmt.Fprintf(out, "  Irregular entries: %d\n", s.Irregular)
	}
}
