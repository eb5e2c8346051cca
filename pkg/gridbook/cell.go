package gridbook

import (
	"strconv"
	"strings"
)

// CellValue is the set of Go types a raw cell can be coerced to or
// written as.
type CellValue interface {
	int | int64 | float64 | bool | string
}

// coerce converts raw cell text to T. Coercion failure yields T's zero
// value rather than an error: bulk import stays tolerant of partially
// filled sheets, and callers treat the zero value as "absent" where
// that matters.
func coerce[T CellValue](raw string) T {
	var out T
	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		*p = int(parseInteger(raw))
	case *int64:
		*p = parseInteger(raw)
	case *float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil {
			*p = f
		}
	case *bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err == nil {
			*p = b
		}
	}
	return out
}

// parseInteger reads an integer cell, accepting the decimal rendering
// the container uses for whole numbers ("3" as well as "3.0").
func parseInteger(raw string) int64 {
	s := strings.TrimSpace(raw)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// lookupEnum parses raw against the supplied label set, case-sensitively.
// blank reports whether raw was empty or whitespace-only, which callers
// use to suppress the diagnostic for legitimately empty cells.
func lookupEnum[E any](raw string, labels map[string]E) (value E, found bool, blank bool) {
	if strings.TrimSpace(raw) == "" {
		return value, false, true
	}
	value, found = labels[raw]
	return value, found, false
}
