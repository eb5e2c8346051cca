package gridbook

import "strings"

// columnIndex maps column names to zero-based positions within a
// table. It is built exactly once from the header row at view
// construction time and only grows when a column is appended.
//
// Lookup is case-sensitive and exact. Header labels are trimmed when
// the index is built, never at lookup time. Duplicate header names are
// not deduplicated; the later position wins, which mirrors what the
// backing store would resolve.
type columnIndex struct {
	names []string
	pos   map[string]int
}

func newColumnIndex(headers []string) *columnIndex {
	ci := &columnIndex{pos: make(map[string]int, len(headers))}
	for _, h := range headers {
		ci.add(strings.TrimSpace(h))
	}
	return ci
}

// add registers name at the next position and returns that position.
func (ci *columnIndex) add(name string) int {
	pos := len(ci.names)
	ci.names = append(ci.names, name)
	ci.pos[name] = pos
	return pos
}

// resolve returns the zero-based position of name.
func (ci *columnIndex) resolve(name string) (int, bool) {
	pos, ok := ci.pos[name]
	return pos, ok
}

func (ci *columnIndex) len() int {
	return len(ci.names)
}

// nearMatch looks for a known column that matches name when case and
// whitespace are ignored. It exists purely to sharpen the not-found
// diagnostic; a near match never resolves.
func (ci *columnIndex) nearMatch(name string) (string, bool) {
	want := foldName(name)
	for _, known := range ci.names {
		if known != name && foldName(known) == want {
			return known, true
		}
	}
	return "", false
}

func foldName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
