package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/content"
)

var (
	menuName     string
	menuCategory string
	menuPrice    string
	menuHidden   bool
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show the menu of the current store",
	Args:  cobra.NoArgs,
	RunE:  withApp(runMenu),
}

var menuAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a menu item",
	Args:  cobra.NoArgs,
	RunE:  withApp(runMenuAdd),
}

var menuRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a menu item",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runMenuRemove),
}

func init() {
	menuAddCmd.Flags().StringVar(&menuName, "name", "", "Item name")
	menuAddCmd.Flags().StringVar(&menuCategory, "category", "coffee", "Category")
	menuAddCmd.Flags().StringVar(&menuPrice, "price", "0", "Price, e.g. 2.40")
	menuAddCmd.Flags().BoolVar(&menuHidden, "hidden", false, "Add as unavailable")
	menuCmd.AddCommand(menuAddCmd)
	menuCmd.AddCommand(menuRemoveCmd)
}

func runMenu(cmd *cobra.Command, _ []string, a *app) error {
	pos, err := a.pos.Store(storeOrDefault(a))
	if err != nil {
		return err
	}
	lines := content.NewMenuView(a.catalog.Menu, a.global, pos).Render()
	out := cmd.OutOrStdout()
	if len(lines) == 0 {
		fmt.Fprintln(out, "The menu is empty.")
		return nil
	}
	category := ""
	for _, l := range lines {
		if l.Category != category {
			fmt.Fprintln(out, l.Category)
			category = l.Category
		}
		fmt.Fprintf(out, "  %-24s%s\n", l.Name, l.Price)
	}
	return nil
}

func runMenuAdd(cmd *cobra.Command, _ []string, a *app) error {
	price, err := decimal.NewFromString(menuPrice)
	if err != nil {
		return fmt.Errorf("invalid --price %q: %w", menuPrice, err)
	}
	item, err := a.catalog.Menu.Add(content.MenuItem{
		Name:      menuName,
		Category:  menuCategory,
		Price:     price,
		Available: !menuHidden,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) at %s\n", item.Name, item.ID, a.global.Load().FormatPrice(item.Price))
	return nil
}

func runMenuRemove(cmd *cobra.Command, args []string, a *app) error {
	if err := a.catalog.Menu.Remove(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}

// storeOrDefault is the configured store, or "default" for single-shop setups.
func storeOrDefault(a *app) string {
	if a.cfg.StoreID != "" {
		return a.cfg.StoreID
	}
	return "default"
}
