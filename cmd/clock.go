package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/timecalc"
)

var (
	clockUser    string
	clockExplain string
	clockDecline bool
)

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Clock a staff member in or out",
}

var clockInCmd = &cobra.Command{
	Use:   "in",
	Short: "Clock in",
	Args:  cobra.NoArgs,
	RunE:  withApp(runClockIn),
}

var clockOutCmd = &cobra.Command{
	Use:   "out",
	Short: "Clock out",
	Args:  cobra.NoArgs,
	RunE:  withApp(runClockOut),
}

func init() {
	clockCmd.PersistentFlags().StringVar(&clockUser, "user", "", "Roster user id")
	clockInCmd.Flags().StringVar(&clockExplain, "explain", "", "Reason for a long absence since the last clock-out")
	clockInCmd.Flags().BoolVar(&clockDecline, "decline", false, "Clock in without explaining a long absence")
	clockCmd.AddCommand(clockInCmd)
	clockCmd.AddCommand(clockOutCmd)
}

func runClockIn(cmd *cobra.Command, _ []string, a *app) error {
	user, err := a.user(clockUser)
	if err != nil {
		return err
	}

	var explanation *string
	switch {
	case clockExplain != "":
		explanation = &clockExplain
	case clockDecline:
		empty := ""
		explanation = &empty
	}

	entry, err := a.tracker.ClockIn(user, explanation)
	if errors.Is(err, errs.ErrExplanationRequired) {
		s := a.tracker.Today(user.ID)
		away := ""
		if s.LastLogoutTime != nil {
			gap := timecalc.RoundMinutes(time.Since(*s.LastLogoutTime))
			away = fmt.Sprintf(" at %s (%s ago)", timecalc.FormatClock(*s.LastLogoutTime, a.loc), timecalc.FormatMinutes(gap))
		}
		return fmt.Errorf("%s clocked out%s; re-run with --explain \"<reason>\" or --decline: %w", user.Name, away, err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Clocked in %s at %s\n", user.Name, timecalc.FormatClock(entry.Timestamp, a.loc))
	return nil
}

func runClockOut(cmd *cobra.Command, _ []string, a *app) error {
	user, err := a.user(clockUser)
	if err != nil {
		return err
	}
	entry, err := a.tracker.ClockOut(user)
	if err != nil {
		return err
	}

	s := a.tracker.Today(user.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Clocked out %s at %s. Worked today: %s\n",
		user.Name, timecalc.FormatClock(entry.Timestamp, a.loc), timecalc.FormatMinutes(s.TotalWorkTime))
	return nil
}
