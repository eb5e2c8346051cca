// Package main provides the gridimport CLI: inspect workbook
// structure, detect undeclared table regions, and import recipe
// tables into a composite-key index.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SleepTightEgger/gridbook/pkg/gridbook"
	"github.com/SleepTightEgger/gridbook/pkg/recipes"
)

var (
	logLevel  string
	logFormat string

	jsonOutput bool
	pretty     bool

	tableName        string
	productColumn    string
	ingredientColumn string
	ingredientSlots  int
	outputPath       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridimport",
		Short: "Typed workbook inspection and recipe import",
		Long: `gridimport reads xlsx workbooks through named table and range views
and cross-references recipe tables into an unordered-combination index.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel, logFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")

	inspectCmd := &cobra.Command{
		Use:   "inspect [workbook.xlsx]",
		Short: "List sheets, declared tables, and named ranges",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output raw JSON instead of a summary")
	inspectCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	detectCmd := &cobra.Command{
		Use:   "detect [workbook.xlsx]",
		Short: "Detect table-like regions in workbooks without declared tables",
		Args:  cobra.ExactArgs(1),
		RunE:  runDetect,
	}

	recipesCmd := &cobra.Command{
		Use:   "recipes [workbook.xlsx]",
		Short: "Import a recipe table into a combination index",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecipes,
	}
	recipesCmd.Flags().StringVar(&tableName, "table", "Recipes", "Name of the recipe table")
	recipesCmd.Flags().StringVar(&productColumn, "product-column", "Result", "Column holding the product name")
	recipesCmd.Flags().StringVar(&ingredientColumn, "ingredient-column", "Ingredient 1", "First column of the ingredient block")
	recipesCmd.Flags().IntVar(&ingredientSlots, "ingredients", recipes.MaxIngredients, "Width of the ingredient column block")
	recipesCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	recipesCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(inspectCmd, detectCmd, recipesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging configures the default slog logger from the root flags.
func setupLogging(level, format string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

type inspectReport struct {
	Sheets []string       `json:"sheets"`
	Tables []inspectTable `json:"tables"`
	Ranges []inspectRange `json:"ranges"`
}

type inspectTable struct {
	Name    string `json:"name"`
	Sheet   string `json:"sheet"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

type inspectRange struct {
	Name    string `json:"name"`
	Sheet   string `json:"sheet"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	wb, err := gridbook.Load(args[0], gridbook.LogReporter{})
	if err != nil {
		return err
	}
	defer wb.Close()

	report := inspectReport{Sheets: wb.Store().Sheets()}
	for _, name := range wb.TableNames() {
		t, err := wb.FindTable(name)
		if err != nil {
			continue
		}
		report.Tables = append(report.Tables, inspectTable{
			Name:    t.Name(),
			Sheet:   t.Sheet(),
			Rows:    t.RowCount(),
			Columns: t.ColumnCount(),
		})
	}
	for _, name := range wb.RangeNames() {
		r, err := wb.FindRange(name)
		if err != nil {
			continue
		}
		report.Ranges = append(report.Ranges, inspectRange{
			Name:    r.Name(),
			Sheet:   r.Sheet(),
			Rows:    r.RowCount(),
			Columns: r.ColumnCount(),
		})
	}

	if jsonOutput {
		return writeJSON(os.Stdout, report)
	}

	fmt.Printf("sheets: %s\n", strings.Join(report.Sheets, ", "))
	for _, t := range report.Tables {
		fmt.Printf("table %s (%s): %d rows, %d columns\n", t.Name, t.Sheet, t.Rows, t.Columns)
	}
	for _, r := range report.Ranges {
		fmt.Printf("range %s (%s): %d rows, %d columns\n", r.Name, r.Sheet, r.Rows, r.Columns)
	}
	return nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	store, err := gridbook.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	for _, sheet := range store.Sheets() {
		candidates, err := gridbook.DetectCandidates(store, sheet, gridbook.DefaultDetectionParams())
		if err != nil {
			return fmt.Errorf("detection failed on sheet %q: %w", sheet, err)
		}
		for _, span := range candidates {
			fmt.Printf("%s!%s\n", sheet, span)
		}
	}
	return nil
}

type recipeReport struct {
	Result  recipes.ImportResult `json:"result"`
	Records []recipes.Record     `json:"records"`
}

func runRecipes(cmd *cobra.Command, args []string) error {
	wb, err := gridbook.Load(args[0], gridbook.LogReporter{})
	if err != nil {
		return err
	}
	defer wb.Close()

	registry := recipes.NewRegistry()
	index := recipes.NewIndex(gridbook.LogReporter{})

	result, err := recipes.Import(wb, registry, index, recipes.ImportSpec{
		Table:            tableName,
		ProductColumn:    productColumn,
		IngredientColumn: ingredientColumn,
		IngredientSlots:  ingredientSlots,
		CreateMissing:    true,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	slog.Info("import finished",
		slog.Int("rows", result.Rows),
		slog.Int("processed", result.Processed),
		slog.Int("skipped", result.Skipped))

	report := recipeReport{Result: result, Records: index.Records()}
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		defer f.Close()
		return writeJSON(f, report)
	}
	return writeJSON(os.Stdout, report)
}

func writeJSON(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
