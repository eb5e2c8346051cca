package recipes

import (
	"strings"
	"testing"

	"github.com/SleepTightEgger/gridbook/pkg/gridbook"
)

func seedRegistry(names ...string) *Registry {
	r := NewRegistry()
	for _, name := range names {
		r.FindOrCreate(name, CategoryIngredient)
	}
	return r
}

func TestTryAddUnorderedCollision(t *testing.T) {
	lookup := seedRegistry("Herb", "Water", "Potion A", "Potion B")
	collector := &gridbook.Collector{}
	index := NewIndex(collector)

	if !index.TryAdd(lookup, "Potion A", "Herb", "Water") {
		t.Fatal("first TryAdd failed")
	}
	if index.Len() != 1 {
		t.Fatalf("Len = %d, expected 1", index.Len())
	}

	// Same two entities, swapped argument order: must collide.
	if !index.TryAdd(lookup, "Potion B", "Water", "Herb") {
		t.Fatal("duplicate row must still report as processed")
	}
	if index.Len() != 1 {
		t.Fatalf("Len after duplicate = %d, expected 1", index.Len())
	}

	product, ok := index.Find(lookup, "Water", "Herb")
	if !ok {
		t.Fatal("combination lookup failed")
	}
	if product.Name != "Potion A" {
		t.Errorf("first writer must win, got %q", product.Name)
	}

	if len(collector.Diagnostics) != 1 {
		t.Fatalf("expected 1 duplicate diagnostic, got %d", len(collector.Diagnostics))
	}
	msg := collector.Diagnostics[0].Message
	if !strings.Contains(msg, "Potion A") || !strings.Contains(msg, "Potion B") {
		t.Errorf("duplicate diagnostic should name both products: %s", msg)
	}
}

func TestTryAddZeroIngredients(t *testing.T) {
	lookup := seedRegistry("Potion A")
	index := NewIndex(nil)

	before := index.Len()
	if index.TryAdd(lookup, "Potion A", "", "   ") {
		t.Error("all-blank ingredient list must fail")
	}
	if index.TryAdd(lookup, "Potion A", "Unknown Thing") {
		t.Error("all-unresolvable ingredient list must fail")
	}
	if index.Len() != before {
		t.Errorf("failed adds changed state: Len = %d", index.Len())
	}
}

func TestTryAddUnresolvableProduct(t *testing.T) {
	lookup := seedRegistry("Herb")
	index := NewIndex(nil)

	if index.TryAdd(lookup, "Mystery Potion", "Herb") {
		t.Error("unresolvable product must fail")
	}
	if index.Len() != 0 {
		t.Errorf("Len = %d, expected 0", index.Len())
	}
}

func TestTryAddDropsUnresolvableIngredients(t *testing.T) {
	lookup := seedRegistry("Herb", "Potion A")
	index := NewIndex(nil)

	// The unknown name drops silently; the row still registers on the
	// remaining ingredient.
	if !index.TryAdd(lookup, "Potion A", "Herb", "Unobtainium") {
		t.Fatal("TryAdd failed")
	}
	rec := index.Records()[0]
	if len(rec.Ingredients) != 1 || rec.Ingredients[0].Name != "Herb" {
		t.Errorf("ingredients = %v", rec.Ingredients)
	}
}

func TestTryAddPreservesSuppliedOrder(t *testing.T) {
	lookup := seedRegistry("Water", "Herb", "Potion A")
	index := NewIndex(nil)

	if !index.TryAdd(lookup, "Potion A", "Water", "Herb") {
		t.Fatal("TryAdd failed")
	}
	rec := index.Records()[0]
	if rec.Ingredients[0].Name != "Water" || rec.Ingredients[1].Name != "Herb" {
		t.Errorf("record must keep presentation order, got %v", rec.Ingredients)
	}
}

func TestTryAddSurplusIngredients(t *testing.T) {
	lookup := seedRegistry("A", "B", "C", "D", "Potion")
	collector := &gridbook.Collector{}
	index := NewIndex(collector)

	if !index.TryAdd(lookup, "Potion", "A", "B", "C", "D") {
		t.Fatal("TryAdd failed")
	}
	rec := index.Records()[0]
	if len(rec.Ingredients) != MaxIngredients {
		t.Errorf("ingredients = %d, expected %d", len(rec.Ingredients), MaxIngredients)
	}
	if len(collector.Diagnostics) != 1 {
		t.Errorf("surplus drop should be reported, got %d diagnostics", len(collector.Diagnostics))
	}
}

func TestClear(t *testing.T) {
	lookup := seedRegistry("Herb", "Potion A")
	index := NewIndex(nil)

	index.TryAdd(lookup, "Potion A", "Herb")
	index.Clear()

	if index.Len() != 0 {
		t.Errorf("Len after Clear = %d", index.Len())
	}
	if _, ok := index.Find(lookup, "Herb"); ok {
		t.Error("combination still resolves after Clear")
	}

	// The index is reusable after clearing.
	if !index.TryAdd(lookup, "Potion A", "Herb") {
		t.Error("TryAdd after Clear failed")
	}
}

func TestRehydrate(t *testing.T) {
	lookup := seedRegistry("Herb", "Water", "Salt", "Potion A", "Potion B")
	index := NewIndex(nil)
	index.TryAdd(lookup, "Potion A", "Water", "Herb")
	index.TryAdd(lookup, "Potion B", "Salt")

	// Simulate a reload: records survive, the key map does not.
	stored := index.Records()
	reloaded := NewIndex(nil)
	reloaded.Rehydrate(stored)

	if reloaded.Len() != 2 {
		t.Fatalf("Len after rehydration = %d, expected 2", reloaded.Len())
	}
	product, ok := reloaded.Find(lookup, "Herb", "Water")
	if !ok {
		t.Fatal("combination lookup failed after rehydration")
	}
	if product.Name != "Potion A" {
		t.Errorf("lookup = %q, expected %q", product.Name, "Potion A")
	}
}

func TestFindRejectsEmptyCombination(t *testing.T) {
	index := NewIndex(nil)
	if _, ok := index.Find(seedRegistry(), ""); ok {
		t.Error("empty combination must not resolve")
	}
}

func TestRegistryFindOrCreate(t *testing.T) {
	r := NewRegistry()
	if r.Dirty() {
		t.Error("fresh registry must be clean")
	}

	herb := r.FindOrCreate("Herb", CategoryIngredient)
	if herb.IsZero() {
		t.Fatal("created entity has no identity")
	}
	if !r.Dirty() {
		t.Error("creation must mark the registry dirty")
	}

	again := r.FindOrCreate("Herb", CategoryIngredient)
	if again.ID != herb.ID {
		t.Error("FindOrCreate must return the existing entity")
	}

	r.MarkClean()
	r.FindOrCreate("Herb", CategoryIngredient)
	if r.Dirty() {
		t.Error("finding an existing entity must not dirty the registry")
	}
}
