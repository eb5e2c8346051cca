package gridbook

import "fmt"

// RangeView is a named rectangular region addressed purely by 1-based
// (row, column) offsets from its anchor. No header, no column names.
//
// Unlike TableView, the extent is tracked by the view itself: the
// container does not reliably rewrite a defined name's reference after
// row or column insertion, so growth performed through this view
// updates the tracked extent directly. Structural edits made outside
// the view invalidate it; re-discover through the Workbook.
type RangeView struct {
	store    Store
	reporter Reporter
	name     string
	sheet    string
	anchor   Span
}

func newRangeView(store Store, name, sheet string, span Span, reporter Reporter) *RangeView {
	return &RangeView{
		store:    store,
		reporter: reporter,
		name:     name,
		sheet:    sheet,
		anchor:   span,
	}
}

// Name returns the range's registered name.
func (r *RangeView) Name() string { return r.name }

// Sheet returns the name of the sheet the range lives on.
func (r *RangeView) Sheet() string { return r.sheet }

// RowCount returns the range's current row extent.
func (r *RangeView) RowCount() int { return r.anchor.Rows }

// ColumnCount returns the range's current column extent.
func (r *RangeView) ColumnCount() int { return r.anchor.Cols }

func (r *RangeView) report(d Diagnostic) {
	if r.reporter != nil {
		r.reporter.Report(d)
	}
}

func (r *RangeView) checkCell(row, col int) bool {
	if row >= 1 && row <= r.anchor.Rows && col >= 1 && col <= r.anchor.Cols {
		return true
	}
	r.report(Diagnostic{
		Severity: SeverityError,
		Source:   r.name,
		Row:      row,
		Message: fmt.Sprintf("cell (%d, %d) outside range extent %dx%d",
			row, col, r.anchor.Rows, r.anchor.Cols),
	})
	return false
}

// ExpandToFit grows the backing region, without writing, until it
// holds at least rows x cols cells. New rows are inserted immediately
// after the anchor row, new columns immediately after the anchor
// column. Rows are inserted before columns; each axis is evaluated
// against the extent current at that point.
func (r *RangeView) ExpandToFit(rows, cols int) error {
	if rows > r.anchor.Rows {
		extra := rows - r.anchor.Rows
		if err := r.store.InsertRows(r.sheet, r.anchor.Row+1, extra); err != nil {
			return fmt.Errorf("%w: %v", ErrGrowth, err)
		}
		r.anchor.Rows += extra
	}
	if cols > r.anchor.Cols {
		extra := cols - r.anchor.Cols
		if err := r.store.InsertCols(r.sheet, r.anchor.Col+1, extra); err != nil {
			return fmt.Errorf("%w: %v", ErrGrowth, err)
		}
		r.anchor.Cols += extra
	}
	return nil
}

// NumberRows fills the first column of the range with 1..RowCount.
func (r *RangeView) NumberRows() error {
	for i := 1; i <= r.anchor.Rows; i++ {
		if err := r.store.SetCell(r.sheet, r.anchor.Row+i-1, r.anchor.Col, i); err != nil {
			return err
		}
	}
	return nil
}

// NumberColumns fills the first row of the range with 1..ColumnCount.
func (r *RangeView) NumberColumns() error {
	for i := 1; i <= r.anchor.Cols; i++ {
		if err := r.store.SetCell(r.sheet, r.anchor.Row, r.anchor.Col+i-1, i); err != nil {
			return err
		}
	}
	return nil
}

// RangeValue reads the cell at the 1-based offset (row, col) coerced
// to T. Out-of-extent offsets yield T's zero value after a diagnostic.
func RangeValue[T CellValue](r *RangeView, row, col int) T {
	var zero T
	if !r.checkCell(row, col) {
		return zero
	}
	raw, err := r.store.Cell(r.sheet, r.anchor.Row+row-1, r.anchor.Col+col-1)
	if err != nil {
		return zero
	}
	return coerce[T](raw)
}

// SetRangeValue writes value at the 1-based offset (row, col).
func SetRangeValue[T CellValue](r *RangeView, value T, row, col int) bool {
	if !r.checkCell(row, col) {
		return false
	}
	return r.store.SetCell(r.sheet, r.anchor.Row+row-1, r.anchor.Col+col-1, value) == nil
}

// RangeValues reads the full extent as a RowCount x ColumnCount grid.
func RangeValues[T CellValue](r *RangeView) [][]T {
	grid := make([][]T, r.anchor.Rows)
	for i := 0; i < r.anchor.Rows; i++ {
		grid[i] = make([]T, r.anchor.Cols)
		for j := 0; j < r.anchor.Cols; j++ {
			raw, err := r.store.Cell(r.sheet, r.anchor.Row+i, r.anchor.Col+j)
			if err != nil {
				continue
			}
			grid[i][j] = coerce[T](raw)
		}
	}
	return grid
}

// SetRangeValues writes grid into the range, growing the backing
// region first when the grid is larger in either dimension. Ragged
// grids are written as supplied; short rows leave trailing cells
// untouched.
func SetRangeValues[T CellValue](r *RangeView, grid [][]T) error {
	cols := 0
	for _, row := range grid {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if err := r.ExpandToFit(len(grid), cols); err != nil {
		return err
	}
	for i, row := range grid {
		for j, v := range row {
			if err := r.store.SetCell(r.sheet, r.anchor.Row+i, r.anchor.Col+j, v); err != nil {
				return err
			}
		}
	}
	return nil
}
