// Package denylist implements exact-name membership against a fixed
// set of known-risky process or service names.
package denylist

import (
	"sort"
	"strings"
)

// Denylist is an immutable name set. Matching is exact (no substring
// matches); case handling is fixed at construction because process
// names casing is unreliable across platforms while Windows service
// names are canonical identifiers.
type Denylist struct {
	foldCase bool
	names    map[string]struct{}
}

// New builds a Denylist from caller-supplied names.
func New(names []string, foldCase bool) Denylist {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if foldCase {
			n = strings.ToLower(n)
		}
		set[n] = struct{}{}
	}
	return Denylist{foldCase: foldCase, names: set}
}

// Match reports whether name is on the list.
func (d Denylist) Match(name string) bool {
	if d.foldCase {
		name = strings.ToLower(name)
	}
	_, ok := d.names[name]
	return ok
}

// Len returns the number of denylisted names.
func (d Denylist) Len() int { return len(d.names) }

// Names returns the list in sorted order, for report messages.
func (d Denylist) Names() []string {
	out := make([]string, 0, len(d.names))
	for n := range d.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
