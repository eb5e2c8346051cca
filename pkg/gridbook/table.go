package gridbook

import (
	"fmt"
	"strings"
)

// TableView is a header-bound region of a sheet exposing name-addressed,
// row-count-bounded access to its data rows. Data rows are 1-based and
// exclude the header row and any trailing totals row.
//
// The view's extent is derived from the backing store on demand, never
// cached, so structural growth is reflected immediately. The column
// index is the one exception: it is built once from the header at
// construction time and grows only through AppendColumn.
type TableView struct {
	store    Store
	reporter Reporter
	name     string
	sheet    string
	header   bool
	totals   bool
	cols     *columnIndex
}

func newTableView(store Store, info TableInfo, reporter Reporter) (*TableView, error) {
	t := &TableView{
		store:    store,
		reporter: reporter,
		name:     info.Name,
		sheet:    info.Sheet,
		header:   info.HeaderRow,
		totals:   info.TotalsRow,
	}

	headers := make([]string, 0, info.Span.Cols)
	if info.HeaderRow {
		for c := 0; c < info.Span.Cols; c++ {
			raw, err := store.Cell(info.Sheet, info.Span.Row, info.Span.Col+c)
			if err != nil {
				return nil, &CellError{Source: info.Name, Row: 0, Column: fmt.Sprint(c + 1), Err: err}
			}
			headers = append(headers, raw)
		}
	}
	t.cols = newColumnIndex(headers)
	return t, nil
}

// Name returns the table's registered name.
func (t *TableView) Name() string { return t.name }

// Sheet returns the name of the sheet the table lives on.
func (t *TableView) Sheet() string { return t.sheet }

// span re-reads the table's current extent from the store.
func (t *TableView) span() (Span, error) {
	tables, err := t.store.Tables(t.sheet)
	if err != nil {
		return Span{}, err
	}
	for _, info := range tables {
		if info.Name == t.name {
			return info.Span, nil
		}
	}
	return Span{}, fmt.Errorf("%w: %s", ErrTableNotFound, t.name)
}

func (t *TableView) headerOffset() int {
	if t.header {
		return 1
	}
	return 0
}

func (t *TableView) totalsOffset() int {
	if t.totals {
		return 1
	}
	return 0
}

// RowCount returns the number of data rows: physical rows minus the
// header row and any totals row. A table with only a header has zero
// data rows.
func (t *TableView) RowCount() int {
	span, err := t.span()
	if err != nil {
		return 0
	}
	n := span.Rows - t.headerOffset() - t.totalsOffset()
	if n < 0 {
		return 0
	}
	return n
}

// ColumnCount returns the number of named columns, including any
// appended after construction.
func (t *TableView) ColumnCount() int {
	return t.cols.len()
}

// HasColumn reports whether name resolves in the header, without
// emitting a diagnostic.
func (t *TableView) HasColumn(name string) bool {
	_, ok := t.cols.resolve(name)
	return ok
}

// resolveColumn resolves name or reports a diagnostic listing every
// known column and flagging a case/whitespace-insensitive near match.
// There is no fallback: a near match is named to aid diagnosis but
// never resolves.
func (t *TableView) resolveColumn(name string) (int, bool) {
	if pos, ok := t.cols.resolve(name); ok {
		return pos, true
	}
	msg := fmt.Sprintf("column %q not found (known columns: %s)",
		name, strings.Join(t.cols.names, ", "))
	if near, ok := t.cols.nearMatch(name); ok {
		msg += fmt.Sprintf("; near match %q differs in case or whitespace", near)
	}
	t.report(Diagnostic{
		Severity: SeverityError,
		Source:   t.name,
		Column:   name,
		Message:  msg,
	})
	return 0, false
}

// checkRow validates a 1-based data-row index against the current row
// count, reporting a diagnostic when out of range.
func (t *TableView) checkRow(row int) bool {
	n := t.RowCount()
	if row >= 1 && row <= n {
		return true
	}
	t.report(Diagnostic{
		Severity: SeverityError,
		Source:   t.name,
		Row:      row,
		Message:  fmt.Sprintf("row %d outside valid range [1, %d]", row, n),
	})
	return false
}

func (t *TableView) report(d Diagnostic) {
	if t.reporter != nil {
		t.reporter.Report(d)
	}
}

// AppendColumn inserts one physical column immediately after the last
// known column, writes the header label, and registers the name at the
// next index position. Callers gate on HasColumn first; appending an
// existing name is not this operation's job.
func (t *TableView) AppendColumn(name string) error {
	span, err := t.span()
	if err != nil {
		return err
	}
	at := span.Col + t.cols.len()
	if err := t.store.InsertCols(t.sheet, at, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrGrowth, err)
	}
	if t.header {
		if err := t.store.SetCell(t.sheet, span.Row, at, name); err != nil {
			return err
		}
	}
	t.cols.add(strings.TrimSpace(name))
	return nil
}

// grow inserts extra blank rows immediately after the header, so a
// trailing totals row stays at the bottom. The row count is re-derived
// from the store afterward; growth is never retried on failure.
func (t *TableView) grow(extra int) error {
	span, err := t.span()
	if err != nil {
		return err
	}
	at := span.Row + t.headerOffset()
	if err := t.store.InsertRows(t.sheet, at, extra); err != nil {
		t.report(Diagnostic{
			Severity: SeverityError,
			Source:   t.name,
			Message:  fmt.Sprintf("inserting %d rows failed: %v", extra, err),
		})
		return fmt.Errorf("%w: %v", ErrGrowth, err)
	}
	return nil
}

// NumberRows writes 1..RowCount into the named column, one integer per
// data row in order. Convenience for synthetic row-index columns.
func (t *TableView) NumberRows(name string) bool {
	pos, ok := t.resolveColumn(name)
	if !ok {
		return false
	}
	span, err := t.span()
	if err != nil {
		return false
	}
	n := span.Rows - t.headerOffset() - t.totalsOffset()
	for r := 1; r <= n; r++ {
		phys := span.Row + t.headerOffset() + r - 1
		if err := t.store.SetCell(t.sheet, phys, span.Col+pos, r); err != nil {
			return false
		}
	}
	return true
}

// Value reads the cell at (row, name) coerced to T. Out-of-range rows
// and unresolvable columns yield T's zero value after a diagnostic;
// the caller is never crashed for a data-shape problem.
func Value[T CellValue](t *TableView, row int, name string) T {
	var zero T
	if !t.checkRow(row) {
		return zero
	}
	pos, ok := t.resolveColumn(name)
	if !ok {
		return zero
	}
	span, err := t.span()
	if err != nil {
		return zero
	}
	raw, err := t.store.Cell(t.sheet, span.Row+t.headerOffset()+row-1, span.Col+pos)
	if err != nil {
		return zero
	}
	return coerce[T](raw)
}

// SetValue writes value into the cell at (row, name). False on an
// out-of-range row or unresolvable column.
func SetValue[T CellValue](t *TableView, row int, name string, value T) bool {
	if !t.checkRow(row) {
		return false
	}
	pos, ok := t.resolveColumn(name)
	if !ok {
		return false
	}
	span, err := t.span()
	if err != nil {
		return false
	}
	return t.store.SetCell(t.sheet, span.Row+t.headerOffset()+row-1, span.Col+pos, value) == nil
}

// EnumValue reads the string cell at (row, name) and parses it against
// labels, case-sensitively. Blank cells return (zero, false) with no
// diagnostic; any other unmatched string returns (zero, false) after a
// diagnostic naming the bad value, the label type, and the location.
// Callers must check found, never infer meaning from the zero value.
func EnumValue[E any](t *TableView, row int, name string, labels map[string]E) (E, bool) {
	var zero E
	if !t.checkRow(row) {
		return zero, false
	}
	pos, ok := t.resolveColumn(name)
	if !ok {
		return zero, false
	}
	span, err := t.span()
	if err != nil {
		return zero, false
	}
	raw, err := t.store.Cell(t.sheet, span.Row+t.headerOffset()+row-1, span.Col+pos)
	if err != nil {
		return zero, false
	}
	value, found, blank := lookupEnum(raw, labels)
	if !found && !blank {
		t.report(Diagnostic{
			Severity: SeverityWarning,
			Source:   t.name,
			Row:      row,
			Column:   name,
			Message:  fmt.Sprintf("value %q is not a valid %T label", raw, zero),
		})
	}
	return value, found
}

// ColumnValues reads one full column top to bottom, one element per
// data row. Returns nil when the column does not resolve.
func ColumnValues[T CellValue](t *TableView, name string) []T {
	pos, ok := t.resolveColumn(name)
	if !ok {
		return nil
	}
	span, err := t.span()
	if err != nil {
		return nil
	}
	n := span.Rows - t.headerOffset() - t.totalsOffset()
	if n < 0 {
		n = 0
	}
	values := make([]T, n)
	for r := 0; r < n; r++ {
		raw, err := t.store.Cell(t.sheet, span.Row+t.headerOffset()+r, span.Col+pos)
		if err != nil {
			continue
		}
		values[r] = coerce[T](raw)
	}
	return values
}

// ColumnBlock reads width consecutive physical columns starting at
// startName's position. Only the first column is resolved by name; the
// trailing columns are addressed positionally past it. This is the
// escape hatch for fixed-width column groups where only the first
// column carries a header label.
func ColumnBlock[T CellValue](t *TableView, startName string, width int) [][]T {
	pos, ok := t.resolveColumn(startName)
	if !ok {
		return nil
	}
	span, err := t.span()
	if err != nil {
		return nil
	}
	n := span.Rows - t.headerOffset() - t.totalsOffset()
	if n < 0 {
		n = 0
	}
	grid := make([][]T, n)
	for r := 0; r < n; r++ {
		grid[r] = make([]T, width)
		for c := 0; c < width; c++ {
			raw, err := t.store.Cell(t.sheet, span.Row+t.headerOffset()+r, span.Col+pos+c)
			if err != nil {
				continue
			}
			grid[r][c] = coerce[T](raw)
		}
	}
	return grid
}

// SetColumnBlock writes a rectangular block starting at startName's
// position, growing the table first when the block has more rows than
// RowCount. The start column is resolved before any structural growth,
// so a bad name never leaves a partial, unrecoverable edit behind.
func SetColumnBlock[T CellValue](t *TableView, startName string, values [][]T) bool {
	pos, ok := t.resolveColumn(startName)
	if !ok {
		return false
	}
	return writeBlockAt(t, pos, values)
}

// SetColumn writes one full column. When the column is absent and
// appendIfAbsent is set, a new column is appended first; otherwise the
// write fails with the usual not-found diagnostic.
func SetColumn[T CellValue](t *TableView, name string, values []T, appendIfAbsent bool) bool {
	pos, ok := t.cols.resolve(name)
	if !ok {
		if !appendIfAbsent {
			_, _ = t.resolveColumn(name) // emit the diagnostic
			return false
		}
		if err := t.AppendColumn(name); err != nil {
			return false
		}
		pos, _ = t.cols.resolve(strings.TrimSpace(name))
	}

	block := make([][]T, len(values))
	for i, v := range values {
		block[i] = []T{v}
	}
	return writeBlockAt(t, pos, block)
}

func writeBlockAt[T CellValue](t *TableView, pos int, values [][]T) bool {
	if len(values) > t.RowCount() {
		if err := t.grow(len(values) - t.RowCount()); err != nil {
			return false
		}
	}
	span, err := t.span()
	if err != nil {
		return false
	}
	for r, rowValues := range values {
		phys := span.Row + t.headerOffset() + r
		for c, v := range rowValues {
			if err := t.store.SetCell(t.sheet, phys, span.Col+pos+c, v); err != nil {
				return false
			}
		}
	}
	return true
}
