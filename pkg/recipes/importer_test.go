package recipes

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/SleepTightEgger/gridbook/pkg/gridbook"
)

// newRecipeWorkbook builds an in-memory workbook with a declared
// "Recipes" table: a product column followed by a three-wide
// ingredient block.
func newRecipeWorkbook(t *testing.T, rows [][]any, reporter gridbook.Reporter) *gridbook.Workbook {
	t.Helper()

	f := excelize.NewFile()
	sheet := "Sheet1"
	headers := []string{"Result", "Ingredient 1", "Ingredient 2", "Ingredient 3"}
	for c, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatal(err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}

	end, _ := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
	if err := f.AddTable(sheet, &excelize.Table{Range: "A1:" + end, Name: "Recipes"}); err != nil {
		t.Fatal(err)
	}

	wb, err := gridbook.New(gridbook.NewFileStore(f), reporter)
	if err != nil {
		t.Fatalf("indexing workbook: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestImportEndToEnd(t *testing.T) {
	collector := &gridbook.Collector{}
	wb := newRecipeWorkbook(t, [][]any{
		{"Potion A", "Herb", "Water", ""},
	}, collector)

	registry := NewRegistry()
	index := NewIndex(collector)
	spec := ImportSpec{
		Table:            "Recipes",
		ProductColumn:    "Result",
		IngredientColumn: "Ingredient 1",
		IngredientSlots:  3,
		CreateMissing:    true,
	}

	result, err := Import(wb, registry, index, spec)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Rows != 1 || result.Processed != 1 || result.Skipped != 0 {
		t.Fatalf("result = %+v", result)
	}
	if index.Len() != 1 {
		t.Fatalf("Len = %d, expected 1", index.Len())
	}

	rec := index.Records()[0]
	if rec.Product.Name != "Potion A" {
		t.Errorf("product = %q", rec.Product.Name)
	}
	if len(rec.Ingredients) != 2 {
		t.Fatalf("ingredients = %v", rec.Ingredients)
	}
	if rec.Ingredients[0].Name != "Herb" || rec.Ingredients[1].Name != "Water" {
		t.Errorf("ingredient order = %v", rec.Ingredients)
	}

	// Combination lookup is order-independent.
	if product, ok := index.Find(registry, "Water", "Herb"); !ok || product.Name != "Potion A" {
		t.Errorf("Find = (%v, %v)", product, ok)
	}

	// Importing the same row again: record count stays at 1, one
	// duplicate diagnostic.
	before := len(collector.Diagnostics)
	result, err = Import(wb, registry, index, spec)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if result.Processed != 1 {
		t.Errorf("duplicate row still counts as processed, got %+v", result)
	}
	if index.Len() != 1 {
		t.Errorf("Len after re-import = %d, expected 1", index.Len())
	}
	dups := collector.Diagnostics[before:]
	if len(dups) != 1 || !strings.Contains(dups[0].Message, "duplicate recipe") {
		t.Errorf("expected one duplicate diagnostic, got %v", dups)
	}
}

func TestImportSkipsUnresolvableRows(t *testing.T) {
	wb := newRecipeWorkbook(t, [][]any{
		{"Potion A", "Herb", "", ""},
		{"Potion B", "", "", ""},
	}, nil)

	// No CreateMissing and a registry that only knows the first row's
	// names: the second row has nothing to resolve and is skipped.
	registry := NewRegistry()
	registry.FindOrCreate("Potion A", CategoryProduct)
	registry.FindOrCreate("Herb", CategoryIngredient)

	index := NewIndex(nil)
	result, err := Import(wb, registry, index, ImportSpec{
		Table:            "Recipes",
		ProductColumn:    "Result",
		IngredientColumn: "Ingredient 1",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Processed != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestImportUnknownTable(t *testing.T) {
	wb := newRecipeWorkbook(t, nil, nil)

	_, err := Import(wb, NewRegistry(), NewIndex(nil), ImportSpec{
		Table:            "Nope",
		ProductColumn:    "Result",
		IngredientColumn: "Ingredient 1",
	})
	if err == nil {
		t.Fatal("import against a missing table must fail")
	}
}

func TestImportUnknownColumn(t *testing.T) {
	wb := newRecipeWorkbook(t, [][]any{{"Potion A", "Herb", "", ""}}, nil)

	_, err := Import(wb, NewRegistry(), NewIndex(nil), ImportSpec{
		Table:            "Recipes",
		ProductColumn:    "Product",
		IngredientColumn: "Ingredient 1",
	})
	if err == nil {
		t.Fatal("import with a wrong product column must fail")
	}
}
