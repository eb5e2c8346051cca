package gridbook

import (
	"fmt"
	"log/slog"
)

// Severity classifies a diagnostic for batch callers that need to
// decide between continuing and aborting.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a structured report of a recoverable data-shape
// problem: a missing column, an out-of-range row, an unparseable
// enum label. It carries enough context to locate the offending cell.
type Diagnostic struct {
	Severity Severity
	Source   string // table or range name
	Row      int    // 1-based data row, 0 if not row-specific
	Column   string // column name, "" if not column-specific
	Message  string
}

func (d Diagnostic) String() string {
	loc := d.Source
	if d.Column != "" {
		loc += " column " + d.Column
	}
	if d.Row > 0 {
		loc += fmt.Sprintf(" row %d", d.Row)
	}
	if loc == "" {
		return d.Message
	}
	return loc + ": " + d.Message
}

// Reporter receives diagnostics out of band. Accessors substitute a
// safe default value and report through the Reporter instead of
// failing the operation, so a batch import completes with partial
// results rather than halting on the first malformed row.
type Reporter interface {
	Report(d Diagnostic)
}

// LogReporter forwards diagnostics to a slog logger.
type LogReporter struct {
	Logger *slog.Logger
}

func (r LogReporter) Report(d Diagnostic) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{slog.String("source", d.Source)}
	if d.Column != "" {
		attrs = append(attrs, slog.String("column", d.Column))
	}
	if d.Row > 0 {
		attrs = append(attrs, slog.Int("row", d.Row))
	}
	switch d.Severity {
	case SeverityError:
		logger.Error(d.Message, attrs...)
	case SeverityWarning:
		logger.Warn(d.Message, attrs...)
	default:
		logger.Info(d.Message, attrs...)
	}
}

// Collector accumulates diagnostics in order. Useful in tests and for
// batch callers that inspect severity after a run.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// HasErrors reports whether any collected diagnostic is SeverityError.
func (c *Collector) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
