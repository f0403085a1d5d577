package settings

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/kvstore"
	"github.com/Tiliavir/cafe-core/internal/model"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	now func() time.Time
	log *zap.Logger
}

// WithClock overrides the time source used for provenance stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// Store owns one configuration snapshot: loading with default fallback, role-gated
// partial updates with provenance stamping, and change broadcast.
type Store[T Snapshot[T]] struct {
	name     string
	slot     Slot
	defaults func() T
	allow    []model.Role
	override []model.Role
	now      func() time.Time
	log      *zap.Logger
	hub      *Hub[T]

	// mu serializes read-modify-write cycles on this snapshot.
	mu sync.Mutex

	mirrorMu sync.RWMutex
	mirror   T
}

func newStore[T Snapshot[T]](name string, slot Slot, defaults func() T, allow, override []model.Role, opts ...Option) *Store[T] {
	o := options{now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.With(zap.String("config", name))
	s := &Store[T]{
		name:     name,
		slot:     slot,
		defaults: defaults,
		allow:    allow,
		override: override,
		now:      o.now,
		log:      log,
		hub:      newHub[T](log),
	}
	s.mirror = defaults()
	return s
}

// NewGlobalStore returns the store for the deployment-wide configuration.
// Admins and marketing managers may update it.
func NewGlobalStore(kv kvstore.Store, opts ...Option) *Store[GlobalConfig] {
	return newStore("global", KeySlot{KV: kv, Key: GlobalKey}, DefaultGlobal,
		[]model.Role{model.RoleAdmin, model.RoleMarketingManager}, nil, opts...)
}

// Name identifies the snapshot in logs and errors.
func (s *Store[T]) Name() string { return s.name }

// Defaults returns the built-in snapshot.
func (s *Store[T]) Defaults() T { return s.defaults() }

// Load returns the persisted snapshot, falling back to the defaults when nothing
// is stored or the stored value cannot be read. The result also refreshes the
// in-memory mirror.
func (s *Store[T]) Load() T {
	v := s.load()
	s.setMirror(v)
	return v
}

func (s *Store[T]) load() T {
	data, ok, err := s.slot.Read()
	if err != nil {
		s.log.Warn("config read failed, using defaults", zap.Error(err))
		return s.defaults()
	}
	if !ok {
		return s.defaults()
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.log.Warn("config is corrupt, using defaults", zap.Error(err))
		return s.defaults()
	}
	return v
}

// Mirror returns the last snapshot loaded or written by this process.
func (s *Store[T]) Mirror() T {
	s.mirrorMu.RLock()
	defer s.mirrorMu.RUnlock()
	return s.mirror
}

func (s *Store[T]) setMirror(v T) {
	s.mirrorMu.Lock()
	s.mirror = v
	s.mirrorMu.Unlock()
}

// Save validates and persists v as is, without stamping or broadcasting.
func (s *Store[T]) Save(v T) error {
	if err := Validate(v); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s config: %w", s.name, err)
	}
	if err := s.slot.Write(data); err != nil {
		return fmt.Errorf("%s config: %w", s.name, err)
	}
	s.setMirror(v)
	return nil
}

// Update merges updates over the current snapshot, replacing whole top-level
// sections, then validates, stamps, persists and broadcasts the result.
func (s *Store[T]) Update(updates Updates, actor model.Actor) (T, error) {
	return s.update(updates, actor, s.allow)
}

// Reset replaces every section with its default, keeping the version history.
func (s *Store[T]) Reset(actor model.Actor) (T, error) {
	return s.reset(actor, s.allow)
}

// Subscribe registers fn for every successful write and returns its cancel func.
func (s *Store[T]) Subscribe(fn func(Change[T])) func() {
	return s.hub.Subscribe(fn)
}

// elevated is the allow-list extended with the override roles.
func (s *Store[T]) elevated() []model.Role {
	return append(slices.Clone(s.allow), s.override...)
}

func (s *Store[T]) reset(actor model.Actor, roles []model.Role) (T, error) {
	updates, err := sectionsOf(s.defaults())
	if err != nil {
		var zero T
		return zero, err
	}
	return s.update(updates, actor, roles)
}

func (s *Store[T]) update(updates Updates, actor model.Actor, roles []model.Role) (T, error) {
	var zero T
	if !slices.Contains(roles, actor.Role) {
		s.log.Warn("config update rejected",
			zap.String("actor", actor.ID), zap.String("role", string(actor.Role)))
		return zero, fmt.Errorf("%s config: role %q: %w", s.name, actor.Role, errs.ErrForbidden)
	}

	s.mu.Lock()
	cur := s.load()
	next, err := mergeShallow(cur, updates)
	if err == nil {
		err = Validate(next)
	}
	if err != nil {
		s.mu.Unlock()
		s.log.Info("config update invalid", zap.String("actor", actor.ID), zap.Error(err))
		return zero, err
	}
	next = next.Stamped(s.now(), displayName(actor))
	if err := s.Save(next); err != nil {
		s.mu.Unlock()
		return zero, err
	}
	s.mu.Unlock()

	s.log.Info("config updated",
		zap.String("actor", actor.ID), zap.Strings("sections", sectionNames(updates)))
	s.hub.Publish(Change[T]{Updates: updates, Config: next})
	return next, nil
}

func sectionNames(u Updates) []string {
	names := make([]string, 0, len(u))
	for k := range u {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func displayName(a model.Actor) string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
