package settings

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/kvstore"
	"github.com/Tiliavir/cafe-core/internal/model"
)

// POSRegistry hands out one lazily created Store per store id. All POS snapshots
// share the posConfigurations array.
type POSRegistry struct {
	kv   kvstore.Store
	opts []Option

	arrayMu sync.Mutex

	mu     sync.Mutex
	stores map[string]*Store[POSConfig]
}

// NewPOSRegistry returns a registry over kv. The options apply to every store.
func NewPOSRegistry(kv kvstore.Store, opts ...Option) *POSRegistry {
	return &POSRegistry{kv: kv, opts: opts, stores: map[string]*Store[POSConfig]{}}
}

// Store returns the POS configuration store for storeID. Marketing managers may
// update it directly; admins only through a Buffer.
func (r *POSRegistry) Store(storeID string) (*Store[POSConfig], error) {
	if storeID == "" {
		return nil, fmt.Errorf("pos config: empty store id: %w", errs.ErrUnknownStore)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[storeID]; ok {
		return s, nil
	}
	slot := ArraySlot{KV: r.kv, Key: POSKey, Field: "storeId", ID: storeID, Mu: &r.arrayMu}
	s := newStore("pos:"+storeID, slot, func() POSConfig { return DefaultPOS(storeID) },
		[]model.Role{model.RoleMarketingManager}, []model.Role{model.RoleAdmin}, r.opts...)
	r.stores[storeID] = s
	return s, nil
}

// GetCurrentConfig loads the POS configuration for storeID.
func (r *POSRegistry) GetCurrentConfig(storeID string) (POSConfig, error) {
	s, err := r.Store(storeID)
	if err != nil {
		return POSConfig{}, err
	}
	return s.Load(), nil
}

// StoreIDs lists the stores with a persisted POS configuration.
func (r *POSRegistry) StoreIDs() ([]string, error) {
	r.arrayMu.Lock()
	defer r.arrayMu.Unlock()
	ids, err := IDs(r.kv, POSKey, "storeId")
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// All loads every persisted POS configuration, ordered by store id.
func (r *POSRegistry) All() ([]POSConfig, error) {
	ids, err := r.StoreIDs()
	if err != nil {
		return nil, err
	}
	out := make([]POSConfig, 0, len(ids))
	for _, id := range ids {
		cfg, err := r.GetCurrentConfig(id)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}
