// Package nav turns key events into tree operations and cursor moves.
//
// The Controller has two modes. Browse moves the cursor and expands or
// collapses directories; Search-Entry edits a query and re-runs the search
// after every keystroke. Every event is handled to completion, including
// any directory listings it triggers, before Handle returns.
package nav

import (
	"github.com/marcus/birdeye/internal/tree"
)

// Mode is the controller's input mode.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
)

// String returns the mode label shown in the status line.
func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "browse"
}

// SearchState exists while a query is being typed or its matches are
// being navigated.
type SearchState struct {
	Query   []rune
	Matches []tree.NodeID
	// Active is the match the cursor was last sent to, -1 before the
	// first jump.
	Active int
}

// Effect reports what the caller has to do after an event.
type Effect struct {
	Quit bool
	// Selected is the path chosen with Enter on a non-directory.
	Selected string
	// Yank is a path to copy to the clipboard.
	Yank string
}

// Controller owns the cursor and the mode state machine for one tree.
type Controller struct {
	tree     *tree.Tree
	view     *tree.View
	mode     Mode
	cursor   int
	cursorID tree.NodeID
	search   *SearchState
	pageSize int
}

// New creates a controller in Browse mode with the cursor on the root.
func New(t *tree.Tree) *Controller {
	c := &Controller{
		tree:     t,
		cursorID: t.Root(),
		pageSize: 10,
	}
	c.sync()
	return c
}

// SetPageSize sets how far PageUp and PageDown move.
func (c *Controller) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	c.pageSize = n
}

// Tree returns the tree being navigated.
func (c *Controller) Tree() *tree.Tree { return c.tree }

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// Cursor returns the cursor row.
func (c *Controller) Cursor() int { return c.cursor }

// CursorNode returns the node under the cursor.
func (c *Controller) CursorNode() tree.NodeID { return c.cursorID }

// Rows returns the number of visible rows.
func (c *Controller) Rows() int { return c.view.Len() }

// Query returns the search buffer, or "" without an active search.
func (c *Controller) Query() string {
	if c.search == nil {
		return ""
	}
	return string(c.search.Query)
}

// Matches returns the current match list.
func (c *Controller) Matches() []tree.NodeID {
	if c.search == nil {
		return nil
	}
	return c.search.Matches
}

// Refresh re-lists the loaded directories and re-runs an active search
// against the new listing.
func (c *Controller) Refresh() {
	c.tree.Refresh()
	c.rerunSearch()
	c.sync()
}

// Focus moves the cursor to id, revealing it first.
func (c *Controller) Focus(id tree.NodeID) {
	if !c.tree.Attached(id) {
		return
	}
	c.jump(id)
}

// SetCursor moves the cursor to a row, clamped to the view.
func (c *Controller) SetCursor(row int) {
	c.moveTo(row)
}

// Handle processes one key event.
func (c *Controller) Handle(k Key) Effect {
	if k.Type == KeyQuit {
		return Effect{Quit: true}
	}
	if c.mode == ModeSearch {
		return c.handleSearch(k)
	}
	return c.handleBrowse(k)
}

func (c *Controller) handleBrowse(k Key) Effect {
	if k.Type == KeyRune {
		t, ok := browseRunes[k.Rune]
		if !ok {
			return Effect{}
		}
		k = Press(t)
		if t == KeyQuit {
			return Effect{Quit: true}
		}
	}

	switch k.Type {
	case KeyUp:
		c.moveTo(c.cursor - 1)

	case KeyDown:
		c.moveTo(c.cursor + 1)

	case KeyTop:
		c.moveTo(0)

	case KeyBottom:
		c.moveTo(c.view.Len() - 1)

	case KeyPageUp:
		c.moveTo(c.cursor - c.pageSize)

	case KeyPageDown:
		c.moveTo(c.cursor + c.pageSize)

	case KeyRight:
		n, _ := c.tree.Node(c.cursorID)
		if n.IsDir() && !n.Expanded {
			c.tree.Expand(n.ID)
			c.sync()
		}

	case KeyLeft:
		n, _ := c.tree.Node(c.cursorID)
		if n.IsDir() && n.Expanded {
			c.tree.Collapse(n.ID)
		} else if n.Parent != tree.NoNode {
			c.cursorID = n.Parent
		}
		c.sync()

	case KeyEnter:
		n, _ := c.tree.Node(c.cursorID)
		if !n.IsDir() {
			return Effect{Quit: true, Selected: n.Path}
		}
		c.tree.Toggle(n.ID)
		c.sync()

	case KeySearch:
		c.tree.ClearMatches()
		c.search = &SearchState{Active: -1}
		c.mode = ModeSearch

	case KeyNextMatch:
		c.stepMatch(1)

	case KeyPrevMatch:
		c.stepMatch(-1)

	case KeyEscape:
		c.clearSearch()

	case KeyRefresh:
		c.Refresh()

	case KeySort:
		c.tree.CycleSortMode()
		c.rerunSearch()
		c.sync()

	case KeyYank:
		n, _ := c.tree.Node(c.cursorID)
		return Effect{Yank: n.Path}
	}
	return Effect{}
}

func (c *Controller) handleSearch(k Key) Effect {
	switch k.Type {
	case KeyRune:
		c.search.Query = append(c.search.Query, k.Rune)
		c.runSearch()

	case KeyBackspace:
		if q := c.search.Query; len(q) > 0 {
			c.search.Query = q[:len(q)-1]
			c.runSearch()
		}

	case KeyEnter:
		c.mode = ModeBrowse
		if len(c.search.Query) == 0 {
			c.search = nil
			return Effect{}
		}
		if len(c.search.Matches) > 0 {
			c.search.Active = 0
			c.jump(c.search.Matches[0])
		}

	case KeyEscape:
		c.clearSearch()
		c.mode = ModeBrowse

	case KeyUp:
		c.moveTo(c.cursor - 1)

	case KeyDown:
		c.moveTo(c.cursor + 1)
	}
	return Effect{}
}

// runSearch re-runs the query against the tree. The cursor stays on the
// same node even though expansions above it shift its row.
func (c *Controller) runSearch() {
	c.search.Matches = c.tree.Search(string(c.search.Query))
	c.search.Active = -1
	c.sync()
}

// rerunSearch refreshes the match list after the tree changed shape.
func (c *Controller) rerunSearch() {
	if c.search == nil || len(c.search.Query) == 0 {
		return
	}
	active := c.search.Active
	c.search.Matches = c.tree.Search(string(c.search.Query))
	if active >= len(c.search.Matches) {
		active = len(c.search.Matches) - 1
	}
	c.search.Active = active
}

func (c *Controller) clearSearch() {
	if c.search == nil {
		return
	}
	c.tree.ClearMatches()
	c.search = nil
}

// stepMatch moves to the next (+1) or previous (-1) match, wrapping at
// both ends.
func (c *Controller) stepMatch(dir int) {
	if c.search == nil || len(c.search.Matches) == 0 {
		return
	}
	n := len(c.search.Matches)
	next := c.search.Active + dir
	if c.search.Active < 0 && dir < 0 {
		next = n - 1
	}
	next = (next%n + n) % n
	c.search.Active = next
	c.jump(c.search.Matches[next])
}

// jump puts the cursor on id, expanding collapsed ancestors if needed.
func (c *Controller) jump(id tree.NodeID) {
	if c.view.RowOf(id) < 0 {
		c.tree.Reveal(id)
	}
	c.cursorID = id
	c.sync()
}

func (c *Controller) moveTo(row int) {
	if row < 0 {
		row = 0
	}
	if last := c.view.Len() - 1; row > last {
		row = last
	}
	c.cursor = row
	c.cursorID, _ = c.view.NodeAt(row)
}

// sync re-flattens the tree and puts the cursor back on its node. When
// that node is hidden or detached the cursor falls back to the nearest
// visible ancestor.
func (c *Controller) sync() {
	c.view = c.tree.View()
	for id := c.cursorID; id != tree.NoNode; id = c.tree.Parent(id) {
		if row := c.view.RowOf(id); row >= 0 {
			c.cursor = row
			c.cursorID = id
			return
		}
	}
	c.moveTo(c.cursor)
}
