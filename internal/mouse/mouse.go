// Package mouse maps terminal mouse events onto screen regions.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DoubleClickThreshold is the longest gap between two presses on the
	// same region that still counts as a double click.
	DoubleClickThreshold = 400 * time.Millisecond

	// ScrollDelta is the number of rows one wheel notch moves.
	ScrollDelta = 3
)

// Rect is a screen rectangle in cells. W and H are exclusive bounds.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a clickable area with caller data attached.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions of the last rendered frame.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region. Later regions sit on top of earlier ones.
func (h *HitMap) Add(id string, r Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: r, Data: data})
}

// AddRect is Add with the rectangle given inline.
func (h *HitMap) AddRect(id string, x, y, w, ht int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: ht}, data)
}

// Clear drops all regions.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Regions returns a copy of the registered regions.
func (h *HitMap) Regions() []Region {
	out := make([]Region, len(h.regions))
	copy(out, h.regions)
	return out
}

// ActionType classifies a decoded mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionScrollUp
	ActionScrollDown
)

// Action is the outcome of one mouse event.
type Action struct {
	Type   ActionType
	Region *Region
	// Delta is the signed row movement for scroll actions.
	Delta int
	X, Y  int
}

// ClickResult is the outcome of a press.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler decodes mouse messages against a hit map and tracks clicks.
type Handler struct {
	HitMap *HitMap

	now       func() time.Time
	lastID    string
	lastClick time.Time
}

// NewHandler returns a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), now: time.Now}
}

// Clear drops the hit map regions and any pending click.
func (h *Handler) Clear() {
	h.HitMap.Clear()
	h.lastID = ""
}

// HandleClick records a press at (x, y). A second press on the same
// region within DoubleClickThreshold is a double click, after which
// the click sequence starts over.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		h.lastID = ""
		return ClickResult{}
	}

	now := h.now()
	double := h.lastID == region.ID && now.Sub(h.lastClick) <= DoubleClickThreshold
	if double {
		h.lastID = ""
	} else {
		h.lastID = region.ID
		h.lastClick = now
	}
	return ClickResult{Region: region, IsDoubleClick: double}
}

// HandleMouse decodes a bubbletea mouse message. Only left presses and
// vertical wheel notches produce actions.
func (h *Handler) HandleMouse(m tea.MouseMsg) Action {
	if m.Action != tea.MouseActionPress {
		return Action{Type: ActionNone, X: m.X, Y: m.Y}
	}

	switch m.Button {
	case tea.MouseButtonLeft:
		res := h.HandleClick(m.X, m.Y)
		if res.Region == nil {
			return Action{Type: ActionNone, X: m.X, Y: m.Y}
		}
		typ := ActionClick
		if res.IsDoubleClick {
			typ = ActionDoubleClick
		}
		return Action{Type: typ, Region: res.Region, X: m.X, Y: m.Y}
	case tea.MouseButtonWheelUp:
		return Action{Type: ActionScrollUp, Region: h.HitMap.Test(m.X, m.Y), Delta: -ScrollDelta, X: m.X, Y: m.Y}
	case tea.MouseButtonWheelDown:
		return Action{Type: ActionScrollDown, Region: h.HitMap.Test(m.X, m.Y), Delta: ScrollDelta, X: m.X, Y: m.Y}
	}
	return Action{Type: ActionNone, X: m.X, Y: m.Y}
}
