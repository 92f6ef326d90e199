package gateway

import (
	"bytes"
	"errors"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// systemFiles are OS metadata entries that are never useful in the tree.
var systemFiles = map[string]bool{
	".DS_Store":               true,
	".Spotlight-V100":         true,
	".Trashes":                true,
	".fseventsd":              true,
	".TemporaryItems":         true,
	".DocumentRevisions-V100": true,
	"Thumbs.db":               true,
	"desktop.ini":             true,
	"$RECYCLE.BIN":            true,
}

// isSystemFile reports whether name is OS clutter (Finder, Explorer and
// AppleDouble resource forks).
func isSystemFile(name string) bool {
	if systemFiles[name] {
		return true
	}
	return strings.HasPrefix(name, "._")
}

// filtered drops entries from another gateway's listings.
type filtered struct {
	next Gateway
	drop func(dir string, entries []Entry) []Entry
}

func (f *filtered) List(path string) ([]Entry, error) {
	entries, err := f.next.List(path)
	if err != nil {
		return nil, err
	}
	return f.drop(path, entries), nil
}

func keepIf(entries []Entry, keep func(Entry) bool) []Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// WithoutSystemFiles hides OS metadata files such as .DS_Store.
func WithoutSystemFiles(gw Gateway) Gateway {
	return &filtered{next: gw, drop: func(_ string, entries []Entry) []Entry {
		return keepIf(entries, func(e Entry) bool { return !isSystemFile(e.Name) })
	}}
}

// WithoutHidden hides dot-entries.
func WithoutHidden(gw Gateway) Gateway {
	return &filtered{next: gw, drop: func(_ string, entries []Entry) []Entry {
		return keepIf(entries, func(e Entry) bool { return !strings.HasPrefix(e.Name, ".") })
	}}
}

// WithGitIgnore hides entries git ignores when root lies inside a work
// tree. Outside a work tree, or without git on PATH, gw is returned as is.
func WithGitIgnore(gw Gateway, root string, logger *slog.Logger) Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	top, err := gitTopLevel(root)
	if err != nil {
		logger.Debug("gitignore filtering disabled", "root", root, "err", err)
		return gw
	}
	logger.Debug("gitignore filtering enabled", "worktree", top)

	return &filtered{next: gw, drop: func(dir string, entries []Entry) []Entry {
		ignored, err := checkIgnore(dir, entries)
		if err != nil {
			// Show everything rather than hide a listing on a git failure.
			logger.Debug("git check-ignore failed", "dir", dir, "err", err)
			ignored = nil
		}
		return keepIf(entries, func(e Entry) bool {
			return e.Name != ".git" && !ignored[e.Name]
		})
	}}
}

func gitTopLevel(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// checkIgnore asks git which of entries are ignored, relative to dir.
func checkIgnore(dir string, entries []Entry) (map[string]bool, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	var stdin bytes.Buffer
	for _, e := range entries {
		stdin.WriteString(e.Name)
		if e.Kind == KindDirectory {
			// Directory-only patterns (build/) need the trailing slash.
			stdin.WriteByte('/')
		}
		stdin.WriteByte(0)
	}

	cmd := exec.Command("git", "check-ignore", "--stdin", "-z")
	cmd.Dir = dir
	cmd.Stdin = &stdin
	out, err := cmd.Output()
	if err != nil {
		// Exit status 1 means nothing matched.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, err
	}

	ignored := make(map[string]bool)
	for _, p := range bytes.Split(out, []byte{0}) {
		if len(p) == 0 {
			continue
		}
		name := strings.TrimSuffix(string(p), "/")
		ignored[filepath.Base(name)] = true
	}
	return ignored, nil
}
