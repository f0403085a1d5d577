package content

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Tiliavir/cafe-core/internal/kvstore"
)

// Storage keys.
const (
	MenuKey    = "menuItems"
	HistoryKey = "historyItems"
	EventsKey  = "events"
	ImagesKey  = "images"
)

// MenuItem is one product on the storefront menu.
type MenuItem struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Available   bool            `json:"available"`
}

// ItemID implements Item.
func (m MenuItem) ItemID() string { return m.ID }

// WithID implements Item.
func (m MenuItem) WithID(id string) MenuItem {
	m.ID = id
	return m
}

// HistoryItem is one milestone on the "our story" page.
type HistoryItem struct {
	ID    string `json:"id" validate:"required"`
	Year  int    `json:"year" validate:"gte=1900,lte=2100"`
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
}

// ItemID implements Item.
func (h HistoryItem) ItemID() string { return h.ID }

// WithID implements Item.
func (h HistoryItem) WithID(id string) HistoryItem {
	h.ID = id
	return h
}

// Event is a dated happening announced on the storefront.
type Event struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StoreID     string `json:"storeId"`
	Description string `json:"description"`
}

// ItemID implements Item.
func (e Event) ItemID() string { return e.ID }

// WithID implements Item.
func (e Event) WithID(id string) Event {
	e.ID = id
	return e
}

// Image is a gallery picture.
type Image struct {
	ID   string   `json:"id" validate:"required"`
	URL  string   `json:"url" validate:"required,url"`
	Alt  string   `json:"alt"`
	Tags []string `json:"tags"`
}

// ItemID implements Item.
func (i Image) ItemID() string { return i.ID }

// WithID implements Item.
func (i Image) WithID(id string) Image {
	i.ID = id
	return i
}

// Catalog bundles the four storefront collections.
type Catalog struct {
	Menu    *Collection[MenuItem]
	History *Collection[HistoryItem]
	Events  *Collection[Event]
	Images  *Collection[Image]
}

// NewCatalog opens every collection over kv.
func NewCatalog(kv kvstore.Store, log *zap.Logger) *Catalog {
	return &Catalog{
		Menu:    NewCollection(kv, MenuKey, SeedMenu, log),
		History: NewCollection(kv, HistoryKey, SeedHistory, log),
		Events:  NewCollection[Event](kv, EventsKey, nil, log),
		Images:  NewCollection[Image](kv, ImagesKey, nil, log),
	}
}

// SeedMenu is the menu shown before anything has been edited.
func SeedMenu() []MenuItem {
	return []MenuItem{
		{ID: "espresso", Name: "Espresso", Category: "coffee", Price: decimal.RequireFromString("1.50"), Available: true},
		{ID: "cappuccino", Name: "Cappuccino", Category: "coffee", Price: decimal.RequireFromString("2.20"), Available: true},
		{ID: "flat-white", Name: "Flat White", Category: "coffee", Price: decimal.RequireFromString("2.60"), Available: true},
		{ID: "green-tea", Name: "Green Tea", Category: "tea", Price: decimal.RequireFromString("1.90"), Available: true},
		{ID: "croissant", Name: "Croissant", Category: "pastry", Price: decimal.RequireFromString("1.80"), Available: true},
		{ID: "tote", Name: "Tote Bag", Category: "merch", Price: decimal.RequireFromString("12.00"), Available: false},
	}
}

// SeedHistory is the default "our story" timeline.
func SeedHistory() []HistoryItem {
	return []HistoryItem{
		{ID: "founded", Year: 2012, Title: "First shop opens"},
		{ID: "roastery", Year: 2018, Title: "Own roastery"},
	}
}
