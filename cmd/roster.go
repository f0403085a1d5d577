package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/roster"
)

var rosterForce bool

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Staff roster",
}

var rosterInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample roster file",
	Args:  cobra.NoArgs,
	RunE:  withApp(runRosterInit),
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff of the current store",
	Args:  cobra.NoArgs,
	RunE:  withApp(runRosterList),
}

func init() {
	rosterInitCmd.Flags().BoolVar(&rosterForce, "force", false, "Overwrite an existing roster")
	rosterCmd.AddCommand(rosterInitCmd)
	rosterCmd.AddCommand(rosterListCmd)
}

func runRosterInit(cmd *cobra.Command, _ []string, a *app) error {
	path := a.cfg.RosterFile
	if _, err := os.Stat(path); err == nil && !rosterForce {
		return fmt.Errorf("roster %s already exists; use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := roster.Sample().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample roster to %s\n", path)
	return nil
}

func runRosterList(cmd *cobra.Command, _ []string, a *app) error {
	r, err := a.roster()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, u := range r.InStore(a.cfg.StoreID) {
		fmt.Fprintf(out, "%-6s%-20s%-10s%-18s%s\n", u.ID, u.Name, u.StoreID, u.Role, u.Shift)
	}
	return nil
}
