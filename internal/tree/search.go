package tree

import (
	"strings"

	"github.com/marcus/birdeye/internal/gateway"
)

// Search marks every node whose name contains query, ignoring case, and
// returns the matches in pre-order.
//
// The walk expands every directory it reaches, loading children as it
// goes, because a match can be arbitrarily deep. Those expansions are kept
// even when nothing matches. Ancestors of a match are marked MatchAncestor.
// Matches from a previous query are always cleared first; an empty query
// only clears them and leaves expand flags alone.
func (t *Tree) Search(query string) []NodeID {
	t.ClearMatches()
	if query == "" {
		return nil
	}

	s := searcher{tree: t, query: strings.ToLower(query)}
	s.visit(RootID)
	return s.matches
}

// ClearMatches resets the match state of every node.
func (t *Tree) ClearMatches() {
	for i := range t.nodes {
		t.nodes[i].Match = MatchNone
	}
}

type searcher struct {
	tree    *Tree
	query   string
	matches []NodeID
}

// visit reports whether id or anything below it matched.
func (s *searcher) visit(id NodeID) bool {
	t := s.tree

	direct := strings.Contains(strings.ToLower(t.nodes[id].Name), s.query)
	if direct {
		t.nodes[id].Match = MatchDirect
		s.matches = append(s.matches, id)
	}

	below := false
	if t.nodes[id].Kind == gateway.KindDirectory {
		t.Expand(id)
		for _, c := range t.nodes[id].children {
			if s.visit(c) {
				below = true
			}
		}
	}

	if below && !direct {
		t.nodes[id].Match = MatchAncestor
	}
	return direct || below
}
