// Package settings holds the versioned configuration snapshots (global and per-store
// POS), their persistence, change broadcast and the pending-change editing buffer.
package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Storage keys.
const (
	GlobalKey = "globalConfig"
	POSKey    = "posConfigurations"
)

// Snapshot is a configuration record that can be stamped with write provenance.
type Snapshot[T any] interface {
	// Stamped returns a copy with the version bumped and provenance set.
	Stamped(at time.Time, by string) T
}

// Updates is a partial update keyed by top-level section name.
type Updates map[string]any

// provenanceKeys are owned by the store and never taken from updates.
var provenanceKeys = map[string]bool{
	"version":   true,
	"updatedAt": true,
	"updatedBy": true,
	"storeId":   true,
}

// GlobalConfig is the deployment-wide configuration.
type GlobalConfig struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`

	Currency CurrencySettings `json:"currency"`
	Display  GlobalDisplay    `json:"display"`
}

// CurrencySettings controls price formatting.
type CurrencySettings struct {
	Code               string `json:"code" validate:"required,len=3,uppercase"`
	Symbol             string `json:"symbol" validate:"required"`
	Position           string `json:"position" validate:"oneof=before after"`
	Decimals           int    `json:"decimals" validate:"gte=0,lte=4"`
	DecimalSeparator   string `json:"decimalSeparator" validate:"required,len=1"`
	ThousandsSeparator string `json:"thousandsSeparator" validate:"max=1"`
}

// GlobalDisplay holds storefront display preferences.
type GlobalDisplay struct {
	ShowPrices bool   `json:"showPrices"`
	Language   string `json:"language" validate:"required,min=2,max=5"`
	DateFormat string `json:"dateFormat" validate:"required"`
}

// Stamped implements Snapshot.
func (g GlobalConfig) Stamped(at time.Time, by string) GlobalConfig {
	g.Version++
	g.UpdatedAt = at
	g.UpdatedBy = by
	return g
}

// FormatPrice formats amount with the configured currency.
func (g GlobalConfig) FormatPrice(amount decimal.Decimal) string {
	return g.Currency.Format(amount)
}

// DefaultGlobal is the built-in global configuration.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		Currency: CurrencySettings{
			Code:               "EUR",
			Symbol:             "€",
			Position:           "after",
			Decimals:           2,
			DecimalSeparator:   ",",
			ThousandsSeparator: ".",
		},
		Display: GlobalDisplay{
			ShowPrices: true,
			Language:   "es",
			DateFormat: "02/01/2006",
		},
	}
}

// POSConfig is the configuration of one store's point-of-sale terminals.
type POSConfig struct {
	StoreID   string    `json:"storeId" validate:"required"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`

	Layout  POSLayout  `json:"layout"`
	Colors  POSColors  `json:"colors"`
	Taxes   POSTaxes   `json:"taxes"`
	Display POSDisplay `json:"display"`
}

// POSLayout controls the terminal grid.
type POSLayout struct {
	// TerminalID is printed on receipts and must be exactly six characters.
	TerminalID    string   `json:"terminalId" validate:"required,len=6"`
	Columns       int      `json:"columns" validate:"gte=1,lte=8"`
	ShowImages    bool     `json:"showImages"`
	CategoryOrder []string `json:"categoryOrder" validate:"dive,required"`
}

// POSColors is the terminal palette, as hex colors.
type POSColors struct {
	Primary    string `json:"primary" validate:"hexcolor"`
	Secondary  string `json:"secondary" validate:"hexcolor"`
	Accent     string `json:"accent" validate:"hexcolor"`
	Background string `json:"background" validate:"hexcolor"`
}

// POSTaxes lists the tax rates applied at the till.
type POSTaxes struct {
	PricesIncludeTax bool      `json:"pricesIncludeTax"`
	Rates            []TaxRate `json:"rates" validate:"dive"`
}

// TaxRate is a named percentage.
type TaxRate struct {
	Name string          `json:"name" validate:"required"`
	Rate decimal.Decimal `json:"rate" validate:"gte=0,lte=100"`
}

// POSDisplay controls what the terminal and receipts show.
type POSDisplay struct {
	ShowPrices         bool   `json:"showPrices"`
	ShowTaxBreakdown   bool   `json:"showTaxBreakdown"`
	ReceiptFooter      string `json:"receiptFooter" validate:"max=120"`
	IdleTimeoutSeconds int    `json:"idleTimeoutSeconds" validate:"gte=0"`
}

// Stamped implements Snapshot.
func (p POSConfig) Stamped(at time.Time, by string) POSConfig {
	p.Version++
	p.UpdatedAt = at
	p.UpdatedBy = by
	return p
}

// DefaultPOS is the built-in POS configuration for storeID.
func DefaultPOS(storeID string) POSConfig {
	return POSConfig{
		StoreID: storeID,
		Layout: POSLayout{
			TerminalID:    "POS-01",
			Columns:       4,
			ShowImages:    true,
			CategoryOrder: []string{"coffee", "tea", "pastry", "merch"},
		},
		Colors: POSColors{
			Primary:    "#6F4E37",
			Secondary:  "#C8A27C",
			Accent:     "#2E7D32",
			Background: "#FFF8F0",
		},
		Taxes: POSTaxes{
			PricesIncludeTax: true,
			Rates:            []TaxRate{{Name: "IVA", Rate: decimal.NewFromInt(10)}},
		},
		Display: POSDisplay{
			ShowPrices:         true,
			ShowTaxBreakdown:   false,
			ReceiptFooter:      "Thank you for visiting!",
			IdleTimeoutSeconds: 120,
		},
	}
}
