package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/settings"
)

var (
	configAs  string
	configYes bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit the global or POS configuration",
}

var configShowCmd = &cobra.Command{
	Use:       "show <global|pos>",
	Short:     "Print a configuration snapshot",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"global", "pos"},
	RunE:      withApp(runConfigShow),
}

var configSetCmd = &cobra.Command{
	Use:   "set <global|pos> <section.field=value>...",
	Short: "Change configuration fields",
	Example: `  cafe config set global currency.symbol='$' currency.position=before --as u5
  cafe config set pos layout.columns=3 display.showPrices=false --store centro --as u5`,
	Args: cobra.MinimumNArgs(2),
	RunE: withApp(runConfigSet),
}

var configResetCmd = &cobra.Command{
	Use:   "reset <global|pos>",
	Short: "Restore the built-in configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runConfigReset),
}

func init() {
	configCmd.PersistentFlags().StringVar(&configAs, "as", "", "Roster user id making the change")
	configResetCmd.Flags().BoolVarP(&configYes, "yes", "y", false, "Do not ask for confirmation")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string, a *app) error {
	var v any
	switch args[0] {
	case "global":
		v = a.global.Load()
	case "pos":
		cfg, err := a.pos.GetCurrentConfig(storeOrDefault(a))
		if err != nil {
			return err
		}
		v = cfg
	default:
		return fmt.Errorf("unknown configuration %q (want global or pos)", args[0])
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// assignment is one section.field=value argument.
type assignment struct {
	Section string
	Field   string
	Value   any
}

// parseAssignment splits "section.field=value". The value is read as JSON when it
// parses (numbers, booleans, arrays, quoted strings) and as a plain string otherwise.
func parseAssignment(s string) (assignment, error) {
	path, raw, ok := strings.Cut(s, "=")
	if !ok {
		return assignment{}, fmt.Errorf("%q: want section.field=value", s)
	}
	section, field, ok := strings.Cut(path, ".")
	if !ok || section == "" || field == "" || strings.Contains(field, ".") {
		return assignment{}, fmt.Errorf("%q: want section.field=value", s)
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		v = raw
	}
	return assignment{Section: section, Field: field, Value: v}, nil
}

func runConfigSet(cmd *cobra.Command, args []string, a *app) error {
	actor, err := configActor(a)
	if err != nil {
		return err
	}
	var assigns []assignment
	for _, arg := range args[1:] {
		as, err := parseAssignment(arg)
		if err != nil {
			return err
		}
		assigns = append(assigns, as)
	}

	switch args[0] {
	case "global":
		return editAndSave(cmd, settings.NewBuffer(a.global, actor), assigns)
	case "pos":
		store, err := a.pos.Store(storeOrDefault(a))
		if err != nil {
			return err
		}
		return editAndSave(cmd, settings.NewBuffer(store, actor), assigns)
	}
	return fmt.Errorf("unknown configuration %q (want global or pos)", args[0])
}

func editAndSave[T settings.Snapshot[T]](cmd *cobra.Command, b *settings.Buffer[T], assigns []assignment) error {
	for _, as := range assigns {
		if err := b.Edit(as.Section, map[string]any{as.Field: as.Value}); err != nil {
			return fmt.Errorf("%s.%s: %w", as.Section, as.Field, err)
		}
	}
	if _, err := b.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d change(s).\n", len(assigns))
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string, a *app) error {
	if !configYes {
		return fmt.Errorf("resetting %s configuration discards all changes; re-run with --yes", args[0])
	}
	actor, err := configActor(a)
	if err != nil {
		return err
	}
	switch args[0] {
	case "global":
		_, err = settings.NewBuffer(a.global, actor).Reset(true)
	case "pos":
		store, serr := a.pos.Store(storeOrDefault(a))
		if serr != nil {
			return serr
		}
		_, err = settings.NewBuffer(store, actor).Reset(true)
	default:
		return fmt.Errorf("unknown configuration %q (want global or pos)", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reset %s configuration to defaults.\n", args[0])
	return nil
}

func configActor(a *app) (model.Actor, error) {
	if configAs == "" {
		return model.Actor{}, fmt.Errorf("--as is required")
	}
	u, err := a.user(configAs)
	if err != nil {
		return model.Actor{}, err
	}
	return model.ActorOf(u), nil
}
