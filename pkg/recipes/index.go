package recipes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/SleepTightEgger/gridbook/pkg/gridbook"
)

// MaxIngredients is the fixed arity of a recipe key. Combinations of
// more ingredients need a deliberate key widening, not an unbounded
// set type.
const MaxIngredients = 3

// Key is the canonical, order-independent identity of an ingredient
// combination: entity IDs packed in name-sorted order, unused slots
// holding the nil sentinel. Two keys are equal iff they hold the same
// multiset of entities. An all-nil key is invalid and never stored.
type Key [MaxIngredients]uuid.UUID

// keyFor canonicalizes ingredients into a Key. The input is not
// mutated; sorting happens on a copy so the caller's presentation
// order survives.
func keyFor(ingredients []Entity) Key {
	sorted := make([]Entity, len(ingredients))
	copy(sorted, ingredients)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var key Key
	for i := 0; i < len(sorted) && i < MaxIngredients; i++ {
		key[i] = sorted[i].ID
	}
	return key
}

// Record is one stored recipe: the ingredient list in the order it was
// originally supplied, plus the product it maps to.
type Record struct {
	Ingredients []Entity `json:"ingredients"`
	Product     Entity   `json:"product"`
}

// Index maps canonical ingredient combinations to product entities.
// Records are kept in an append-only sequence preserving presentation
// order; the key map serves combination lookup. Duplicate combinations
// are first-writer-wins.
//
// An Index is either empty or populated; Clear returns it to empty.
// It is not safe for concurrent mutation.
type Index struct {
	reporter gridbook.Reporter
	records  []Record
	byKey    map[Key]int
}

// NewIndex returns an empty Index reporting diagnostics to reporter
// (nil discards them).
func NewIndex(reporter gridbook.Reporter) *Index {
	return &Index{
		reporter: reporter,
		byKey:    make(map[Key]int),
	}
}

func (x *Index) report(d gridbook.Diagnostic) {
	if x.reporter != nil {
		x.reporter.Report(d)
	}
}

// Len returns the number of stored records.
func (x *Index) Len() int { return len(x.records) }

// Records returns the stored sequence in presentation order. The slice
// is shared; callers must not mutate it.
func (x *Index) Records() []Record { return x.records }

// Clear empties both the record sequence and the key map.
func (x *Index) Clear() {
	x.records = nil
	x.byKey = make(map[Key]int)
}

// TryAdd resolves the named ingredients and product through lookup and
// registers the combination. Blank or unresolvable ingredient names
// are dropped silently; a row with none left is skipped (false).
// An unresolvable product also fails. A combination already present is
// not overwritten: the duplicate is reported and TryAdd still returns
// true, since the row was processed.
func (x *Index) TryAdd(lookup Lookup, productName string, ingredientNames ...string) bool {
	var ingredients []Entity
	for _, name := range ingredientNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if e, ok := lookup.Resolve(name); ok {
			ingredients = append(ingredients, e)
		}
	}
	if len(ingredients) == 0 {
		return false
	}
	if len(ingredients) > MaxIngredients {
		x.report(gridbook.Diagnostic{
			Severity: gridbook.SeverityWarning,
			Source:   "recipes",
			Message: fmt.Sprintf("recipe for %q has %d ingredients; keeping the first %d",
				productName, len(ingredients), MaxIngredients),
		})
		ingredients = ingredients[:MaxIngredients]
	}

	product, ok := lookup.Resolve(productName)
	if !ok {
		return false
	}

	key := keyFor(ingredients)
	if prev, exists := x.byKey[key]; exists {
		x.report(gridbook.Diagnostic{
			Severity: gridbook.SeverityWarning,
			Source:   "recipes",
			Message: fmt.Sprintf("duplicate recipe: combination already yields %q, ignoring %q",
				x.records[prev].Product.Name, product.Name),
		})
		return true
	}

	x.byKey[key] = len(x.records)
	x.records = append(x.records, Record{Ingredients: ingredients, Product: product})
	return true
}

// Find resolves the named ingredients and returns the product mapped
// to their combination, in any order. Blank and unresolvable names are
// dropped the same way TryAdd drops them.
func (x *Index) Find(lookup Lookup, ingredientNames ...string) (Entity, bool) {
	var ingredients []Entity
	for _, name := range ingredientNames {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if e, ok := lookup.Resolve(name); ok {
			ingredients = append(ingredients, e)
		}
	}
	return x.FindByEntities(ingredients)
}

// FindByEntities returns the product mapped to the given combination.
func (x *Index) FindByEntities(ingredients []Entity) (Entity, bool) {
	if len(ingredients) == 0 || len(ingredients) > MaxIngredients {
		return Entity{}, false
	}
	idx, ok := x.byKey[keyFor(ingredients)]
	if !ok {
		return Entity{}, false
	}
	return x.records[idx].Product, true
}

// Rehydrate replaces the index contents with a stored record sequence,
// rebuilding the key map by replaying each record through the same
// canonicalization TryAdd uses. Lookup stays consistent after a reload
// without re-running the import. Records whose combination collides
// with an earlier record keep first-writer-wins semantics.
func (x *Index) Rehydrate(records []Record) {
	x.Clear()
	x.records = records
	for i, rec := range records {
		key := keyFor(rec.Ingredients)
		if key == (Key{}) {
			continue
		}
		if prev, exists := x.byKey[key]; exists {
			x.report(gridbook.Diagnostic{
				Severity: gridbook.SeverityWarning,
				Source:   "recipes",
				Message: fmt.Sprintf("duplicate recipe during rehydration: combination already yields %q, ignoring %q",
					records[prev].Product.Name, rec.Product.Name),
			})
			continue
		}
		x.byKey[key] = i
	}
}
