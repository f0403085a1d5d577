package settings

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Tiliavir/cafe-core/internal/errs"
)

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// fromMap decodes m into a T, rejecting fields T does not know.
func fromMap[T any](m map[string]any) (T, error) {
	var out T
	data, err := json.Marshal(m)
	if err != nil {
		return out, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("%w: %v", errs.ErrInvalidConfig, err)
	}
	return out, nil
}

// mergeShallow replaces the top-level sections of cur named in updates.
// Provenance keys in updates are ignored.
func mergeShallow[T any](cur T, updates Updates) (T, error) {
	m, err := toMap(cur)
	if err != nil {
		var zero T
		return zero, err
	}
	for k, v := range updates {
		if provenanceKeys[k] {
			continue
		}
		// Round-trip through JSON so structs and maps are treated alike.
		data, err := json.Marshal(v)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("%w: section %s: %v", errs.ErrInvalidConfig, k, err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			var zero T
			return zero, err
		}
		m[k] = generic
	}
	return fromMap[T](m)
}

// mergeDeep merges src into dst recursively. Nested objects are merged,
// everything else (arrays included) is replaced.
func mergeDeep(dst, src map[string]any) {
	for k, v := range src {
		sv, srcIsMap := v.(map[string]any)
		dv, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeDeep(dv, sv)
			continue
		}
		dst[k] = v
	}
}

// sectionsOf returns the non-provenance top-level sections of v.
func sectionsOf(v any) (Updates, error) {
	m, err := toMap(v)
	if err != nil {
		return nil, err
	}
	out := Updates{}
	for k, val := range m {
		if !provenanceKeys[k] {
			out[k] = val
		}
	}
	return out, nil
}
