package content

import (
	"slices"
	"strings"

	"github.com/Tiliavir/cafe-core/internal/settings"
)

// MenuLine is one rendered menu entry. Price is empty when prices are hidden.
type MenuLine struct {
	ID       string
	Name     string
	Category string
	Price    string
}

// MenuView renders the menu of one store with the current currency settings.
type MenuView struct {
	menu   *Collection[MenuItem]
	global *settings.Store[settings.GlobalConfig]
	pos    *settings.Store[settings.POSConfig]
}

// NewMenuView renders menu with the currency from global and the layout from pos.
func NewMenuView(menu *Collection[MenuItem], global *settings.Store[settings.GlobalConfig], pos *settings.Store[settings.POSConfig]) *MenuView {
	return &MenuView{menu: menu, global: global, pos: pos}
}

// Render loads both snapshots and renders the available items.
func (v *MenuView) Render() []MenuLine {
	return RenderMenu(v.menu.All(), v.global.Load(), v.pos.Load())
}

// Watch calls fn with a fresh rendering after every global or POS change.
// The returned func stops watching.
func (v *MenuView) Watch(fn func([]MenuLine)) func() {
	stopGlobal := v.global.Subscribe(func(c settings.Change[settings.GlobalConfig]) {
		fn(RenderMenu(v.menu.All(), c.Config, v.pos.Load()))
	})
	stopPOS := v.pos.Subscribe(func(c settings.Change[settings.POSConfig]) {
		fn(RenderMenu(v.menu.All(), v.global.Load(), c.Config))
	})
	return func() {
		stopGlobal()
		stopPOS()
	}
}

// RenderMenu orders available items by the POS category order, then by name.
// Categories missing from the order come last.
func RenderMenu(items []MenuItem, g settings.GlobalConfig, p settings.POSConfig) []MenuLine {
	rank := func(cat string) int {
		if i := slices.Index(p.Layout.CategoryOrder, cat); i >= 0 {
			return i
		}
		return len(p.Layout.CategoryOrder)
	}

	avail := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if it.Available {
			avail = append(avail, it)
		}
	}
	slices.SortStableFunc(avail, func(a, b MenuItem) int {
		if d := rank(a.Category) - rank(b.Category); d != 0 {
			return d
		}
		return strings.Compare(a.Name, b.Name)
	})

	show := g.Display.ShowPrices && p.Display.ShowPrices
	lines := make([]MenuLine, 0, len(avail))
	for _, it := range avail {
		l := MenuLine{ID: it.ID, Name: it.Name, Category: it.Category}
		if show {
			l.Price = g.FormatPrice(it.Price)
		}
		lines = append(lines, l)
	}
	return lines
}
