// Package recipes builds and queries an index of N-to-1 crafting
// recipes: an unordered combination of up to three ingredient entities
// mapping to a single product entity. Entities arrive from spreadsheet
// imports through the gridbook view layer.
package recipes

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Entity categories used by the import pipeline when creating missing
// entities on the fly.
const (
	CategoryIngredient = "ingredient"
	CategoryProduct    = "product"
)

// Entity is an opaque reference to a domain object. Identity is the
// ID; Name is the ordering key used for recipe canonicalization.
type Entity struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
}

// IsZero reports whether e is the absent-entity sentinel.
func (e Entity) IsZero() bool {
	return e.ID == uuid.Nil
}

// Lookup resolves an entity by name. Resolution is case-sensitive and
// exact; there is no fuzzy matching at this layer.
type Lookup interface {
	Resolve(name string) (Entity, bool)
}

// Creator creates an entity when none exists under the given name.
type Creator interface {
	FindOrCreate(name, category string) Entity
}

// Registry is an in-memory entity catalog satisfying Lookup and
// Creator. It tracks a dirty flag so a host can tell whether the
// catalog needs persisting after an import.
type Registry struct {
	byName map[string]Entity
	dirty  bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Entity)}
}

func (r *Registry) Resolve(name string) (Entity, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// FindOrCreate returns the entity registered under name, minting a new
// one with a fresh ID when absent. Creating marks the registry dirty.
func (r *Registry) FindOrCreate(name, category string) Entity {
	if e, ok := r.byName[name]; ok {
		return e
	}
	e := Entity{ID: uuid.New(), Name: strings.TrimSpace(name), Category: category}
	r.byName[name] = e
	r.dirty = true
	return e
}

// Add registers an existing entity, keyed by its name.
func (r *Registry) Add(e Entity) {
	r.byName[e.Name] = e
	r.dirty = true
}

// Dirty reports whether the registry changed since the last MarkClean.
func (r *Registry) Dirty() bool { return r.dirty }

// MarkClean resets the dirty flag, typically after persisting.
func (r *Registry) MarkClean() { r.dirty = false }

// Entities lists the catalog sorted by name.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, 0, len(r.byName))
	for _, e := range r.byName {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
