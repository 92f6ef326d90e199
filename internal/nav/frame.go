package nav

import (
	"github.com/marcus/birdeye/internal/gateway"
	"github.com/marcus/birdeye/internal/tree"
)

// RowView is one visible row with everything a renderer needs.
type RowView struct {
	ID    tree.NodeID
	Depth int
	Name  string
	Path  string
	Kind  gateway.Kind

	Expanded bool
	Denied   bool
	// DeniedReason labels a directory whose listing failed.
	DeniedReason string

	IsMatch           bool
	IsAncestorOfMatch bool
	IsCursor          bool
}

// Frame is the controller state projected for rendering.
type Frame struct {
	Mode  Mode
	Query string
	Rows  []RowView
	// Cursor indexes Rows.
	Cursor int
	// MatchIndex is the 1-based position of the active match, 0 when the
	// cursor has not been sent to a match.
	MatchIndex int
	MatchCount int
	// Searching is set while a query or its match list is live.
	Searching bool
	Sort      tree.SortMode
}

// Frame builds the render state for the current view.
func (c *Controller) Frame() Frame {
	rows := c.view.Rows()
	f := Frame{
		Mode:   c.mode,
		Rows:   make([]RowView, 0, len(rows)),
		Cursor: c.cursor,
		Sort:   c.tree.SortMode(),
	}
	if c.search != nil {
		f.Searching = true
		f.Query = string(c.search.Query)
		f.MatchCount = len(c.search.Matches)
		f.MatchIndex = c.search.Active + 1
	}

	for i, r := range rows {
		n, _ := c.tree.Node(r.ID)
		rv := RowView{
			ID:                r.ID,
			Depth:             r.Depth,
			Name:              n.Name,
			Path:              n.Path,
			Kind:              n.Kind,
			Expanded:          n.Expanded,
			Denied:            n.Denied,
			IsMatch:           n.Match == tree.MatchDirect,
			IsAncestorOfMatch: n.Match == tree.MatchAncestor,
			IsCursor:          i == c.cursor,
		}
		if n.Denied {
			rv.DeniedReason = n.DeniedClass.Label()
		}
		f.Rows = append(f.Rows, rv)
	}
	return f
}
