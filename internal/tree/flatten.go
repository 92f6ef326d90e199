package tree

// Row is one visible line of the tree.
type Row struct {
	ID    NodeID
	Depth int
}

// Flatten returns the visible nodes in pre-order, starting with the root
// at depth 0. A node's children follow it only when it is expanded. The
// result depends on nothing but expand flags and child order, so two calls
// without a mutation in between return equal slices.
func (t *Tree) Flatten() []Row {
	rows := make([]Row, 0, len(t.nodes))
	t.flatten(RootID, 0, &rows)
	return rows
}

func (t *Tree) flatten(id NodeID, depth int, rows *[]Row) {
	*rows = append(*rows, Row{ID: id, Depth: depth})
	if !t.nodes[id].Expanded {
		return
	}
	for _, c := range t.nodes[id].children {
		t.flatten(c, depth+1, rows)
	}
}

// View is a flattened snapshot with row lookups in both directions.
type View struct {
	rows  []Row
	index map[NodeID]int
}

// NewView indexes rows.
func NewView(rows []Row) *View {
	index := make(map[NodeID]int, len(rows))
	for i, r := range rows {
		index[r.ID] = i
	}
	return &View{rows: rows, index: index}
}

// View flattens the tree into a new View.
func (t *Tree) View() *View {
	return NewView(t.Flatten())
}

// Rows returns the flattened rows.
func (v *View) Rows() []Row { return v.rows }

// Len returns the number of visible rows.
func (v *View) Len() int { return len(v.rows) }

// RowOf returns the row showing id, or -1 if id is not visible.
func (v *View) RowOf(id NodeID) int {
	if i, ok := v.index[id]; ok {
		return i
	}
	return -1
}

// NodeAt returns the node on row i.
func (v *View) NodeAt(i int) (NodeID, bool) {
	if i < 0 || i >= len(v.rows) {
		return NoNode, false
	}
	return v.rows[i].ID, true
}
