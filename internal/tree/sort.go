package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marcus/birdeye/internal/gateway"
)

// SortMode orders siblings.
type SortMode int

const (
	// SortDirsFirst lists directories before other entries, each group by
	// case-insensitive name.
	SortDirsFirst SortMode = iota
	// SortByName ignores the kind and orders by case-insensitive name.
	SortByName
)

// Label returns the name shown in the tree header.
func (m SortMode) Label() string {
	switch m {
	case SortByName:
		return "name"
	}
	return "dirs first"
}

// ParseSortMode parses a config value ("dirs-first" or "name").
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dirs-first", "dirsfirst", "dirs first":
		return SortDirsFirst, nil
	case "name":
		return SortByName, nil
	}
	return SortDirsFirst, fmt.Errorf("unknown sort mode %q", s)
}

// less orders two siblings. Byte order breaks ties between names that only
// differ in case so the order is total.
func less(mode SortMode, aName string, aKind gateway.Kind, bName string, bKind gateway.Kind) bool {
	if mode == SortDirsFirst {
		aDir, bDir := aKind == gateway.KindDirectory, bKind == gateway.KindDirectory
		if aDir != bDir {
			return aDir
		}
	}
	al, bl := strings.ToLower(aName), strings.ToLower(bName)
	if al != bl {
		return al < bl
	}
	return aName < bName
}

func sortEntries(entries []gateway.Entry, mode SortMode) {
	sort.SliceStable(entries, func(i, j int) bool {
		return less(mode, entries[i].Name, entries[i].Kind, entries[j].Name, entries[j].Kind)
	})
}

// SortMode returns the current child order.
func (t *Tree) SortMode() SortMode { return t.sortMode }

// SetSortMode reorders every loaded directory's children. No listing is
// repeated.
func (t *Tree) SetSortMode(mode SortMode) {
	if mode == t.sortMode {
		return
	}
	t.sortMode = mode
	t.walk(RootID, func(id NodeID) bool {
		children := t.nodes[id].children
		sort.SliceStable(children, func(i, j int) bool {
			a, b := t.nodes[children[i]], t.nodes[children[j]]
			return less(mode, a.Name, a.Kind, b.Name, b.Kind)
		})
		return true
	})
}

// CycleSortMode switches to the next sort mode.
func (t *Tree) CycleSortMode() {
	if t.sortMode == SortDirsFirst {
		t.SetSortMode(SortByName)
		return
	}
	t.SetSortMode(SortDirsFirst)
}
