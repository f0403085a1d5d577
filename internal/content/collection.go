// Package content manages the storefront content collections: menu, history, events
// and images. Each collection is one JSON array under its own storage key.
package content

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/kvstore"
	"github.com/Tiliavir/cafe-core/internal/logging"
	"github.com/Tiliavir/cafe-core/internal/settings"
)

// Item is a collection element addressed by id.
type Item[T any] interface {
	ItemID() string
	WithID(id string) T
}

// Collection is a persisted array of items. Every mutation rewrites the array.
type Collection[T Item[T]] struct {
	kv   kvstore.Store
	key  string
	seed func() []T
	log  *zap.Logger
	mu   sync.Mutex
}

// NewCollection returns a collection stored under key. seed provides the items
// used when nothing is stored or the stored array is corrupt.
func NewCollection[T Item[T]](kv kvstore.Store, key string, seed func() []T, log *zap.Logger) *Collection[T] {
	if seed == nil {
		seed = func() []T { return nil }
	}
	return &Collection[T]{kv: kv, key: key, seed: seed, log: logging.OrNop(log).With(zap.String("collection", key))}
}

// Key is the storage key of the collection.
func (c *Collection[T]) Key() string { return c.key }

// All returns every item in stored order.
func (c *Collection[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

func (c *Collection[T]) load() []T {
	var items []T
	if !kvstore.LoadOrDefault(c.kv, c.key, &items, c.log) {
		return c.seed()
	}
	return items
}

// Get returns the item with id.
func (c *Collection[T]) Get(id string) (T, error) {
	for _, it := range c.All() {
		if it.ItemID() == id {
			return it, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", c.key, id, errs.ErrNotFound)
}

// Add validates and appends item, assigning an id when it has none.
func (c *Collection[T]) Add(item T) (T, error) {
	if item.ItemID() == "" {
		item = item.WithID(uuid.NewString())
	}
	if err := settings.Validate(item); err != nil {
		return item, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load()
	if slices.ContainsFunc(items, func(it T) bool { return it.ItemID() == item.ItemID() }) {
		return item, fmt.Errorf("%s %q: duplicate id: %w", c.key, item.ItemID(), errs.ErrInvalidConfig)
	}
	items = append(items, item)
	if err := kvstore.SetJSON(c.kv, c.key, items); err != nil {
		return item, err
	}
	c.log.Info("content item added", zap.String("id", item.ItemID()))
	return item, nil
}

// Update replaces the stored item with the same id.
func (c *Collection[T]) Update(item T) (T, error) {
	if err := settings.Validate(item); err != nil {
		return item, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load()
	i := slices.IndexFunc(items, func(it T) bool { return it.ItemID() == item.ItemID() })
	if i < 0 {
		return item, fmt.Errorf("%s %q: %w", c.key, item.ItemID(), errs.ErrNotFound)
	}
	items[i] = item
	if err := kvstore.SetJSON(c.kv, c.key, items); err != nil {
		return item, err
	}
	c.log.Info("content item updated", zap.String("id", item.ItemID()))
	return item, nil
}

// Remove deletes the item with id.
func (c *Collection[T]) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load()
	i := slices.IndexFunc(items, func(it T) bool { return it.ItemID() == id })
	if i < 0 {
		return fmt.Errorf("%s %q: %w", c.key, id, errs.ErrNotFound)
	}
	items = slices.Delete(items, i, i+1)
	if err := kvstore.SetJSON(c.kv, c.key, items); err != nil {
		return err
	}
	c.log.Info("content item removed", zap.String("id", id))
	return nil
}
