// Package roster loads the staff list from a YAML file.
package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/model"
)

// Roster is the list of staff members.
type Roster struct {
	Users []model.User `yaml:"users"`
}

var validate = validator.New()

// Parse decodes and validates a roster document.
func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	seen := map[string]bool{}
	for i, u := range r.Users {
		if err := validate.Struct(u); err != nil {
			return nil, fmt.Errorf("roster user #%d: %w", i+1, err)
		}
		if seen[u.ID] {
			return nil, fmt.Errorf("roster: duplicate user id %q", u.ID)
		}
		seen[u.ID] = true
	}
	return &r, nil
}

// Load reads the roster at path.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("roster file %s not found\nTip: run 'cafe roster init' to write a sample", path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	return Parse(data)
}

// Find returns the user with id.
func (r *Roster) Find(id string) (model.User, error) {
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("user %q: %w", id, errs.ErrNotFound)
}

// InStore returns the users of storeID, or everyone when storeID is empty.
func (r *Roster) InStore(storeID string) []model.User {
	out := make([]model.User, 0, len(r.Users))
	for _, u := range r.Users {
		if storeID == "" || u.StoreID == storeID {
			out = append(out, u)
		}
	}
	return out
}

// Stores lists the distinct store ids.
func (r *Roster) Stores() []string {
	set := map[string]bool{}
	for _, u := range r.Users {
		set[u.StoreID] = true
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Save writes r as YAML to path.
func (r *Roster) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating roster directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Sample is the roster written by 'cafe roster init'.
func Sample() *Roster {
	return &Roster{Users: []model.User{
		{ID: "u1", Name: "Ana García", StoreID: "centro", Role: model.RoleStoreManager, Shift: "morning", Department: "floor"},
		{ID: "u2", Name: "Bruno Díaz", StoreID: "centro", Role: model.RoleBarista, Shift: "morning", Department: "bar"},
		{ID: "u3", Name: "Carla Ruiz", StoreID: "centro", Role: model.RoleBarista, Shift: "afternoon", Department: "bar"},
		{ID: "u4", Name: "Diego López", StoreID: "puerto", Role: model.RoleBarista, Shift: "morning", Department: "kitchen"},
		{ID: "u5", Name: "Elena Martín", StoreID: "puerto", Role: model.RoleMarketingManager, Shift: "office", Department: "marketing"},
		{ID: "u6", Name: "Fernando Gil", StoreID: "centro", Role: model.RoleAdmin, Shift: "office", Department: "it"},
	}}
}
