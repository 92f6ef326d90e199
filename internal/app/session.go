package app

import (
	"path/filepath"
	"sort"

	"github.com/marcus/birdeye/internal/nav"
	"github.com/marcus/birdeye/internal/state"
	"github.com/marcus/birdeye/internal/tree"
)

// restoreSession reopens the directories a session recorded and puts the
// cursor back. Paths that no longer exist are skipped.
func restoreSession(ctrl *nav.Controller, s state.Session) {
	t := ctrl.Tree()
	if mode, err := tree.ParseSortMode(s.Sort); err == nil && s.Sort != "" {
		t.SetSortMode(mode)
	}

	// Parents first, so a child's Open walks already loaded directories.
	dirs := append([]string(nil), s.Expanded...)
	sort.Strings(dirs)
	for _, rel := range dirs {
		if id, ok := t.Open(filepath.FromSlash(rel)); ok {
			t.Expand(id)
		}
	}

	if s.Cursor != "" {
		if id, ok := t.Open(filepath.FromSlash(s.Cursor)); ok {
			ctrl.Focus(id)
			return
		}
	}
	ctrl.Focus(ctrl.CursorNode())
}

// captureSession records the expanded directories and the cursor.
func captureSession(ctrl *nav.Controller) state.Session {
	t := ctrl.Tree()
	var s state.Session
	for rel := range t.ExpandedPaths() {
		s.Expanded = append(s.Expanded, filepath.ToSlash(rel))
	}
	sort.Strings(s.Expanded)
	s.Cursor = filepath.ToSlash(t.RelPath(ctrl.CursorNode()))
	s.Sort = t.SortMode().Label()
	return s
}
