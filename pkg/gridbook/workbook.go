package gridbook

import (
	"fmt"
	"strings"
)

// Workbook indexes every declared table and workbook-scoped named
// range of a loaded store, exposing exact-name lookup of views.
//
// Lookups carry no diagnostics: the "expected name" context belongs to
// the caller. Name collisions within a namespace are resolved
// last-registration-wins, with a warning.
type Workbook struct {
	store    Store
	reporter Reporter
	tables   map[string]*TableView
	ranges   map[string]*RangeView
}

// Load opens path and indexes it. The returned Workbook owns the
// store; Close releases it.
func Load(path string, reporter Reporter) (*Workbook, error) {
	store, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	return New(store, reporter)
}

// New indexes an already-open store: every declared table in every
// sheet, plus every workbook-scoped named range, each registered under
// its own name.
func New(store Store, reporter Reporter) (*Workbook, error) {
	wb := &Workbook{
		store:    store,
		reporter: reporter,
		tables:   make(map[string]*TableView),
		ranges:   make(map[string]*RangeView),
	}

	for _, sheet := range store.Sheets() {
		infos, err := store.Tables(sheet)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			view, err := newTableView(store, info, reporter)
			if err != nil {
				return nil, err
			}
			if _, dup := wb.tables[info.Name]; dup {
				wb.report(Diagnostic{
					Severity: SeverityWarning,
					Source:   info.Name,
					Message:  "duplicate table name; keeping the later registration",
				})
			}
			wb.tables[info.Name] = view
		}
	}

	defined, err := store.DefinedRanges()
	if err != nil {
		return nil, err
	}
	for _, dr := range defined {
		sheet, span, err := ParseQualifiedRef(dr.RefersTo)
		if err != nil {
			wb.report(Diagnostic{
				Severity: SeverityWarning,
				Source:   dr.Name,
				Message:  fmt.Sprintf("skipping named range with unparseable reference %q", dr.RefersTo),
			})
			continue
		}
		if _, dup := wb.ranges[dr.Name]; dup {
			wb.report(Diagnostic{
				Severity: SeverityWarning,
				Source:   dr.Name,
				Message:  "duplicate range name; keeping the later registration",
			})
		}
		wb.ranges[dr.Name] = newRangeView(store, dr.Name, sheet, span, reporter)
	}

	return wb, nil
}

func (wb *Workbook) report(d Diagnostic) {
	if wb.reporter != nil {
		wb.reporter.Report(d)
	}
}

// FindTable returns the table registered under name.
func (wb *Workbook) FindTable(name string) (*TableView, error) {
	t, ok := wb.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// FindRange returns the named range registered under name.
func (wb *Workbook) FindRange(name string) (*RangeView, error) {
	r, ok := wb.ranges[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRangeNotFound, name)
	}
	return r, nil
}

// TableNames lists registered table names, unordered.
func (wb *Workbook) TableNames() []string {
	names := make([]string, 0, len(wb.tables))
	for name := range wb.tables {
		names = append(names, name)
	}
	return names
}

// RangeNames lists registered range names, unordered.
func (wb *Workbook) RangeNames() []string {
	names := make([]string, 0, len(wb.ranges))
	for name := range wb.ranges {
		names = append(names, name)
	}
	return names
}

// Store exposes the underlying cell store.
func (wb *Workbook) Store() Store { return wb.store }

// Save serializes the full backing store to path.
func (wb *Workbook) Save(path string) error {
	return wb.store.Save(path)
}

// Close releases the backing store. Views handed out by this Workbook
// must not be used afterward.
func (wb *Workbook) Close() error {
	return wb.store.Close()
}

// ParseQualifiedRef splits a sheet-qualified reference like
// "'Loot Tables'!$B$2:$D$9" into its owning sheet and span. The sheet
// prefix before '!' may be wrapped in single quotes (with '' escaping
// an embedded quote); '$' markers are stripped before parsing.
func ParseQualifiedRef(ref string) (sheet string, span Span, err error) {
	bang := strings.LastIndex(ref, "!")
	if bang < 0 {
		return "", Span{}, fmt.Errorf("missing sheet qualifier in %q", ref)
	}
	sheet = ref[:bang]
	if strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") && len(sheet) >= 2 {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}

	area := strings.ReplaceAll(ref[bang+1:], "$", "")
	span, err = parseRange(area)
	if err != nil {
		return "", Span{}, err
	}
	return sheet, span, nil
}
