package gridbook

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound indicates a column name did not resolve in a table's header.
var ErrColumnNotFound = errors.New("column not found")

// ErrTableNotFound indicates a table name is not registered in the workbook.
var ErrTableNotFound = errors.New("table not found")

// ErrRangeNotFound indicates a named range is not registered in the workbook.
var ErrRangeNotFound = errors.New("named range not found")

// ErrRowOutOfRange indicates a data-row index outside [1, RowCount].
var ErrRowOutOfRange = errors.New("row out of range")

// ErrGrowth indicates the backing store rejected a row or column
// insertion. Growth failures are fatal to the current operation and
// are not retried.
var ErrGrowth = errors.New("structural growth failed")

// CellError locates a failure at a specific cell of a view.
type CellError struct {
	Source string // table or range name
	Row    int    // 1-based data row
	Column string // column name or A1-style letter
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s row %d column %s: %v", e.Source, e.Row, e.Column, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
