// Package tree holds the lazily populated directory tree birdeye navigates.
//
// Nodes live in an arena and refer to each other by NodeID. A directory's
// children are listed through a gateway the first time it is expanded and
// kept for the life of the tree; collapsing only flips a flag.
package tree

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/marcus/birdeye/internal/gateway"
)

// NodeID indexes a node in the tree's arena.
type NodeID int

const (
	// NoNode is the parent of the root and the result of failed lookups.
	NoNode NodeID = -1
	// RootID is always the navigation root.
	RootID NodeID = 0
)

// MatchState records how a node relates to the current search query.
type MatchState int

const (
	MatchNone MatchState = iota
	MatchDirect
	MatchAncestor
)

// Node is one filesystem entry.
type Node struct {
	ID       NodeID
	Parent   NodeID
	Path     string
	Name     string
	Kind     gateway.Kind
	Depth    int
	Expanded bool
	Match    MatchState

	// Denied is set when listing this directory failed. The directory is
	// then expanded with no children and DeniedClass says why.
	Denied      bool
	DeniedClass gateway.Class

	children []NodeID
	loaded   bool
	detached bool
}

// IsDir reports whether the node can be expanded.
func (n Node) IsDir() bool { return n.Kind == gateway.KindDirectory }

// Loaded reports whether the children have been listed. An unloaded
// directory and a loaded empty one are different states.
func (n Node) Loaded() bool { return n.loaded }

// Children returns the cached child ids in display order. The slice must
// not be modified.
func (n Node) Children() []NodeID { return n.children }

// Tree is the node arena rooted at a single directory.
type Tree struct {
	gw       gateway.Gateway
	nodes    []Node
	logger   *slog.Logger
	loads    int
	sortMode SortMode
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for listing failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithSortMode sets the initial child order.
func WithSortMode(mode SortMode) Option {
	return func(t *Tree) {
		t.sortMode = mode
	}
}

// New creates a tree rooted at root and expands the root.
func New(root string, gw gateway.Gateway, opts ...Option) *Tree {
	t := &Tree{
		gw:     gw,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.nodes = append(t.nodes, Node{
		ID:     RootID,
		Parent: NoNode,
		Path:   root,
		Name:   filepath.Base(root),
		Kind:   gateway.KindDirectory,
	})
	t.Expand(RootID)
	return t
}

// Root returns the root id.
func (t *Tree) Root() NodeID { return RootID }

// Len returns the number of nodes created so far, detached ones included.
func (t *Tree) Len() int { return len(t.nodes) }

// Loads returns how many times the gateway has been asked for a listing.
func (t *Tree) Loads() int { return t.loads }

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if !t.valid(id) {
		return Node{}, false
	}
	return t.nodes[id], true
}

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].Parent
}

// RelPath returns the path of id relative to the root ("" for the root).
func (t *Tree) RelPath(id NodeID) string {
	if !t.valid(id) || id == RootID {
		return ""
	}
	rel, err := filepath.Rel(t.nodes[RootID].Path, t.nodes[id].Path)
	if err != nil {
		return t.nodes[id].Path
	}
	return rel
}

// Expand loads the children of a directory on first use and marks it
// expanded. It is a no-op for anything that is not a directory.
func (t *Tree) Expand(id NodeID) {
	if !t.valid(id) || t.nodes[id].Kind != gateway.KindDirectory {
		return
	}
	if !t.nodes[id].loaded {
		t.load(id)
	}
	t.nodes[id].Expanded = true
}

// Collapse hides the children of id. The cached children are kept.
func (t *Tree) Collapse(id NodeID) {
	if !t.valid(id) {
		return
	}
	t.nodes[id].Expanded = false
}

// Toggle collapses an expanded node and expands a collapsed one.
func (t *Tree) Toggle(id NodeID) {
	if !t.valid(id) {
		return
	}
	if t.nodes[id].Expanded {
		t.Collapse(id)
		return
	}
	t.Expand(id)
}

// Reveal expands every ancestor of id so that it is visible.
func (t *Tree) Reveal(id NodeID) {
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		t.Expand(p)
	}
}

// load lists the directory and appends its children to the arena.
func (t *Tree) load(id NodeID) {
	path := t.nodes[id].Path
	t.loads++

	entries, err := t.gw.List(path)
	if err != nil {
		t.deny(id, err)
		return
	}
	sortEntries(entries, t.sortMode)

	ids := make([]NodeID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, t.add(id, e))
	}

	n := &t.nodes[id]
	n.children = ids
	n.loaded = true
	n.Denied = false
}

func (t *Tree) deny(id NodeID, err error) {
	class := gateway.Classify(err)
	t.logger.Debug("listing failed", "path", t.nodes[id].Path, "reason", class.Label(), "err", err)

	n := &t.nodes[id]
	n.children = nil
	n.loaded = true
	n.Denied = true
	n.DeniedClass = class
}

// add appends a child of parent built from e and returns its id.
func (t *Tree) add(parent NodeID, e gateway.Entry) NodeID {
	id := NodeID(len(t.nodes))
	p := t.nodes[parent]
	t.nodes = append(t.nodes, Node{
		ID:     id,
		Parent: parent,
		Path:   filepath.Join(p.Path, e.Name),
		Name:   e.Name,
		Kind:   e.Kind,
		Depth:  p.Depth + 1,
	})
	return id
}

// walk visits loaded nodes reachable from id in pre-order. Returning false
// from fn skips the node's children.
func (t *Tree) walk(id NodeID, fn func(id NodeID) bool) {
	if !fn(id) {
		return
	}
	for _, c := range t.nodes[id].children {
		t.walk(c, fn)
	}
}

// ExpandedPaths returns the root-relative paths of expanded directories
// below the root.
func (t *Tree) ExpandedPaths() map[string]bool {
	paths := make(map[string]bool)
	t.walk(RootID, func(id NodeID) bool {
		if id != RootID && t.nodes[id].Expanded {
			paths[t.RelPath(id)] = true
		}
		return true
	})
	return paths
}

// Open descends from the root along rel, a slash-separated root-relative
// path, loading each directory on the way. Directories passed through are
// not marked expanded.
func (t *Tree) Open(rel string) (NodeID, bool) {
	id := RootID
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == "" {
		return id, true
	}
	for _, part := range strings.Split(rel, "/") {
		n := &t.nodes[id]
		if n.Kind != gateway.KindDirectory {
			return NoNode, false
		}
		if !n.loaded {
			t.load(id)
		}
		next := NoNode
		for _, c := range t.nodes[id].children {
			if t.nodes[c].Name == part {
				next = c
				break
			}
		}
		if next == NoNode {
			return NoNode, false
		}
		id = next
	}
	return id, true
}

// OpenListings returns the cached listing of every expanded, readable
// directory whose children are on screen, the root included, keyed by
// absolute path. No directory is listed again.
func (t *Tree) OpenListings() map[string][]gateway.Entry {
	listings := make(map[string][]gateway.Entry)
	t.walk(RootID, func(id NodeID) bool {
		n := t.nodes[id]
		if !n.Expanded {
			return false
		}
		if !n.Denied {
			entries := make([]gateway.Entry, 0, len(n.children))
			for _, c := range n.children {
				entries = append(entries, gateway.Entry{Name: t.nodes[c].Name, Kind: t.nodes[c].Kind})
			}
			listings[n.Path] = entries
		}
		return true
	})
	return listings
}

// Refresh re-lists every loaded directory. Nodes whose entry still exists
// keep their id and their expand and match state; new entries get fresh
// nodes and removed ones are detached from their parent.
func (t *Tree) Refresh() {
	t.refresh(RootID)
}

func (t *Tree) refresh(id NodeID) {
	if !t.nodes[id].loaded {
		return
	}
	path := t.nodes[id].Path
	t.loads++

	entries, err := t.gw.List(path)
	if err != nil {
		t.detach(t.nodes[id].children)
		t.deny(id, err)
		return
	}
	sortEntries(entries, t.sortMode)

	existing := make(map[string]NodeID, len(t.nodes[id].children))
	for _, c := range t.nodes[id].children {
		existing[t.nodes[c].Name] = c
	}

	ids := make([]NodeID, 0, len(entries))
	for _, e := range entries {
		if c, ok := existing[e.Name]; ok && t.nodes[c].Kind == e.Kind {
			ids = append(ids, c)
			delete(existing, e.Name)
			continue
		}
		ids = append(ids, t.add(id, e))
	}
	for _, gone := range existing {
		t.detach([]NodeID{gone})
	}

	n := &t.nodes[id]
	n.children = ids
	n.Denied = false

	for _, c := range ids {
		t.refresh(c)
	}
}

func (t *Tree) detach(ids []NodeID) {
	for _, id := range ids {
		t.nodes[id].detached = true
		t.nodes[id].Expanded = false
		t.nodes[id].Match = MatchNone
	}
}

// Attached reports whether id is still reachable from the root.
func (t *Tree) Attached(id NodeID) bool {
	for ; t.valid(id); id = t.nodes[id].Parent {
		if t.nodes[id].detached {
			return false
		}
		if id == RootID {
			return true
		}
	}
	return false
}
