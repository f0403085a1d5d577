package settings

import (
	"encoding/json"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/model"
)

// Buffer layers uncommitted section edits over the authoritative snapshot of a
// Store. Nothing reaches the store until Save.
type Buffer[T Snapshot[T]] struct {
	store *Store[T]
	actor model.Actor
	log   *zap.Logger

	authoritative T
	pending       map[string]map[string]any
	preview       T
}

// NewBuffer opens an editing session for actor over store.
func NewBuffer[T Snapshot[T]](store *Store[T], actor model.Actor) *Buffer[T] {
	cur := store.Load()
	return &Buffer[T]{
		store:         store,
		actor:         actor,
		log:           store.log.With(zap.String("editor", actor.ID)),
		authoritative: cur,
		pending:       map[string]map[string]any{},
		preview:       cur,
	}
}

// Edit records field changes for one section and recomputes the preview.
// An edit that does not fit the snapshot's shape is rejected and not recorded.
func (b *Buffer[T]) Edit(section string, fields map[string]any) error {
	if provenanceKeys[section] {
		return fmt.Errorf("%w: %s is not editable", errs.ErrInvalidConfig, section)
	}
	base, err := toMap(b.authoritative)
	if err != nil {
		return err
	}
	if _, ok := base[section].(map[string]any); !ok {
		return fmt.Errorf("%w: unknown section %q", errs.ErrInvalidConfig, section)
	}

	normalized, err := normalize(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidConfig, err)
	}

	next := clonePending(b.pending)
	if next[section] == nil {
		next[section] = map[string]any{}
	}
	mergeDeep(next[section], normalized)

	preview, err := b.compose(next)
	if err != nil {
		return err
	}
	b.pending = next
	b.preview = preview
	return nil
}

func (b *Buffer[T]) compose(pending map[string]map[string]any) (T, error) {
	m, err := toMap(b.authoritative)
	if err != nil {
		var zero T
		return zero, err
	}
	for section, fields := range pending {
		dst, _ := m[section].(map[string]any)
		if dst == nil {
			dst = map[string]any{}
			m[section] = dst
		}
		mergeDeep(dst, fields)
	}
	return fromMap[T](m)
}

// Save commits the pending edits. Each touched section is written whole, as shown
// in the preview. Admins may save POS snapshots through a buffer. On failure the
// edits stay pending.
func (b *Buffer[T]) Save() (T, error) {
	if !b.HasUnsavedChanges() {
		return b.authoritative, nil
	}
	full, err := toMap(b.preview)
	if err != nil {
		var zero T
		return zero, err
	}
	updates := Updates{}
	for section := range b.pending {
		updates[section] = full[section]
	}

	saved, err := b.store.update(updates, b.actor, b.store.elevated())
	if err != nil {
		var zero T
		return zero, err
	}
	b.log.Debug("buffer saved", zap.Strings("sections", sectionNames(updates)))
	b.authoritative = saved
	b.preview = saved
	b.pending = map[string]map[string]any{}
	return saved, nil
}

// Discard drops every pending edit.
func (b *Buffer[T]) Discard() {
	b.pending = map[string]map[string]any{}
	b.preview = b.authoritative
}

// Reset restores the store defaults. Pending edits are only thrown away when
// confirmDiscard is set, otherwise ErrUnsavedChanges is returned.
func (b *Buffer[T]) Reset(confirmDiscard bool) (T, error) {
	if b.HasUnsavedChanges() && !confirmDiscard {
		var zero T
		return zero, errs.ErrUnsavedChanges
	}
	saved, err := b.store.reset(b.actor, b.store.elevated())
	if err != nil {
		var zero T
		return zero, err
	}
	b.authoritative = saved
	b.Discard()
	return saved, nil
}

// HasUnsavedChanges reports whether any edit is pending.
func (b *Buffer[T]) HasUnsavedChanges() bool { return len(b.pending) > 0 }

// Guard returns ErrUnsavedChanges when leaving now would lose edits.
func (b *Buffer[T]) Guard() error {
	if b.HasUnsavedChanges() {
		return errs.ErrUnsavedChanges
	}
	return nil
}

// Authoritative is the snapshot as last loaded or saved.
func (b *Buffer[T]) Authoritative() T { return b.authoritative }

// Preview is the authoritative snapshot with pending edits applied.
func (b *Buffer[T]) Preview() T { return b.preview }

// Pending returns a copy of the pending edits by section.
func (b *Buffer[T]) Pending() map[string]map[string]any { return clonePending(b.pending) }

func normalize(fields map[string]any) (map[string]any, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func clonePending(p map[string]map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(p))
	for k, v := range p {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(m map[string]any) map[string]any {
	out := maps.Clone(m)
	for k, v := range out {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopy(nested)
		}
	}
	return out
}
