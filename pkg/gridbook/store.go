// Package gridbook provides typed, name-addressed views over the
// untyped cell grid of an xlsx workbook.
//
// The package layers three abstractions over a raw cell store: a
// column index that resolves header names to positions, typed cell
// accessors that coerce raw cell text to Go values, and two view
// shapes (TableView for header-bound tables, RangeView for anchored
// rectangles) that expose row/column addressed reads and growable
// writes. A Workbook ties the views together with name lookup.
package gridbook

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Span describes a rectangular region of a sheet: a 1-based anchor
// cell plus a row/column extent.
type Span struct {
	Row  int
	Col  int
	Rows int
	Cols int
}

// Contains reports whether the 1-based cell (row, col) lies inside the span.
func (s Span) Contains(row, col int) bool {
	return row >= s.Row && row < s.Row+s.Rows && col >= s.Col && col < s.Col+s.Cols
}

// String renders the span in A1 range notation.
func (s Span) String() string {
	start, _ := excelize.CoordinatesToCellName(s.Col, s.Row)
	end, _ := excelize.CoordinatesToCellName(s.Col+s.Cols-1, s.Row+s.Rows-1)
	return start + ":" + end
}

// TableInfo describes a declared table discovered in a sheet.
type TableInfo struct {
	Name      string
	Sheet     string
	Span      Span
	HeaderRow bool
	TotalsRow bool
}

// DefinedRange is a workbook-scoped named range as stored in the
// container: a name plus its raw qualified reference (e.g.
// "'Loot Tables'!$B$2:$D$9").
type DefinedRange struct {
	Name     string
	RefersTo string
}

// Store is the raw cell store the view layer is built on. It exposes
// untyped get/set by 1-based coordinates, structural row/column
// insertion, and discovery of declared tables and named ranges.
//
// Implementations are not safe for concurrent use; every view built on
// a Store assumes exclusive access during a call.
type Store interface {
	// Cell returns the raw text of a cell, or "" for an empty cell.
	Cell(sheet string, row, col int) (string, error)

	// SetCell writes a value into a cell. The value's native type is
	// preserved where the container supports it.
	SetCell(sheet string, row, col int, value any) error

	// InsertRows inserts count blank rows before the 1-based row at.
	InsertRows(sheet string, at, count int) error

	// InsertCols inserts count blank columns before the 1-based column at.
	InsertCols(sheet string, at, count int) error

	// Sheets lists sheet names in workbook order.
	Sheets() []string

	// Tables lists the declared tables of a sheet, including each
	// table's current extent. Extents reflect prior structural edits.
	Tables(sheet string) ([]TableInfo, error)

	// DefinedRanges lists workbook-scoped named ranges.
	DefinedRanges() ([]DefinedRange, error)

	// Save serializes the full store to path.
	Save(path string) error

	// Close releases the underlying file.
	Close() error
}

// ErrStoreNotFound indicates the workbook file does not exist.
var ErrStoreNotFound = errors.New("workbook file not found")

// FileStore is the excelize-backed Store implementation.
type FileStore struct {
	f *excelize.File
}

// OpenFile opens an xlsx workbook as a FileStore.
func OpenFile(path string) (*FileStore, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{f: f}, nil
}

// NewFileStore wraps an already-open excelize file.
func NewFileStore(f *excelize.File) *FileStore {
	return &FileStore{f: f}
}

// File exposes the underlying excelize handle for operations outside
// the Store contract (fixture construction, mostly).
func (s *FileStore) File() *excelize.File {
	return s.f
}

func (s *FileStore) Cell(sheet string, row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return s.f.GetCellValue(sheet, cell)
}

func (s *FileStore) SetCell(sheet string, row, col int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.f.SetCellValue(sheet, cell, value)
}

func (s *FileStore) InsertRows(sheet string, at, count int) error {
	return s.f.InsertRows(sheet, at, count)
}

func (s *FileStore) InsertCols(sheet string, at, count int) error {
	name, err := excelize.ColumnNumberToName(at)
	if err != nil {
		return err
	}
	return s.f.InsertCols(sheet, name, count)
}

func (s *FileStore) Sheets() []string {
	return s.f.GetSheetList()
}

func (s *FileStore) Tables(sheet string) ([]TableInfo, error) {
	tables, err := s.f.GetTables(sheet)
	if err != nil {
		return nil, err
	}

	var result []TableInfo
	for _, tbl := range tables {
		span, err := parseRange(tbl.Range)
		if err != nil {
			continue
		}
		info := TableInfo{
			Name:      tbl.Name,
			Sheet:     sheet,
			Span:      span,
			HeaderRow: tbl.ShowHeaderRow == nil || *tbl.ShowHeaderRow,
		}
		result = append(result, info)
	}
	return result, nil
}

func (s *FileStore) DefinedRanges() ([]DefinedRange, error) {
	var result []DefinedRange
	for _, dn := range s.f.GetDefinedName() {
		if dn.Scope != "Workbook" && dn.Scope != "" {
			continue
		}
		result = append(result, DefinedRange{Name: dn.Name, RefersTo: dn.RefersTo})
	}
	return result, nil
}

func (s *FileStore) Save(path string) error {
	return s.f.SaveAs(path)
}

func (s *FileStore) Close() error {
	return s.f.Close()
}

// parseRange converts an unqualified A1 range ("B2:D9") to a Span.
// A bare cell reference ("B2") is a 1x1 span.
func parseRange(ref string) (Span, error) {
	start := ref
	end := ref
	for i := 0; i < len(ref); i++ {
		if ref[i] == ':' {
			start, end = ref[:i], ref[i+1:]
			break
		}
	}

	c1, r1, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return Span{}, err
	}
	c2, r2, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return Span{}, err
	}
	return Span{Row: r1, Col: c1, Rows: r2 - r1 + 1, Cols: c2 - c1 + 1}, nil
}
