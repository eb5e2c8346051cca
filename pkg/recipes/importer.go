package recipes

import (
	"fmt"
	"strings"

	"github.com/SleepTightEgger/gridbook/pkg/gridbook"
)

// ImportSpec names the workbook table an import reads and the columns
// that carry the recipe data. The ingredient columns are a fixed-width
// block: only the first carries a header label, the rest sit
// immediately to its right.
type ImportSpec struct {
	Table            string
	ProductColumn    string
	IngredientColumn string
	IngredientSlots  int

	// CreateMissing registers unknown product and ingredient names
	// through the lookup's Creator side before resolving, so a fresh
	// catalog can be built straight from the sheet.
	CreateMissing bool
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Rows      int `json:"rows"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// Import reads the recipe table row by row into index. Rows that fail
// to resolve are skipped and counted, never fatal: a batch import
// finishes with partial results and the diagnostics tell the rest.
func Import(wb *gridbook.Workbook, lookup Lookup, index *Index, spec ImportSpec) (ImportResult, error) {
	slots := spec.IngredientSlots
	if slots <= 0 || slots > MaxIngredients {
		slots = MaxIngredients
	}

	table, err := wb.FindTable(spec.Table)
	if err != nil {
		return ImportResult{}, err
	}

	products := gridbook.ColumnValues[string](table, spec.ProductColumn)
	if products == nil {
		return ImportResult{}, fmt.Errorf("%w: %s in table %s",
			gridbook.ErrColumnNotFound, spec.ProductColumn, spec.Table)
	}
	block := gridbook.ColumnBlock[string](table, spec.IngredientColumn, slots)
	if block == nil {
		return ImportResult{}, fmt.Errorf("%w: %s in table %s",
			gridbook.ErrColumnNotFound, spec.IngredientColumn, spec.Table)
	}

	creator, canCreate := lookup.(Creator)

	result := ImportResult{Rows: len(products)}
	for i, product := range products {
		ingredients := block[i]

		if spec.CreateMissing && canCreate {
			if strings.TrimSpace(product) != "" {
				creator.FindOrCreate(product, CategoryProduct)
			}
			for _, name := range ingredients {
				if strings.TrimSpace(name) != "" {
					creator.FindOrCreate(name, CategoryIngredient)
				}
			}
		}

		if index.TryAdd(lookup, product, ingredients...) {
			result.Processed++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}
