package gateway

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Fake is an in-memory gateway that counts List calls per path.
type Fake struct {
	dirs  map[string][]Entry
	errs  map[string]error
	calls map[string]int
}

// NewFake builds a fake tree under root. Each path is relative to root;
// a trailing slash marks a directory and a trailing "@" a symlink.
// Parent directories are created implicitly.
//
//	NewFake("/r", "a.txt", "sub/", "sub/readme.md")
func NewFake(root string, paths ...string) *Fake {
	f := &Fake{
		dirs:  map[string][]Entry{root: nil},
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
	for _, p := range paths {
		f.add(root, p)
	}
	return f
}

func (f *Fake) add(root, p string) {
	kind := KindFile
	switch {
	case strings.HasSuffix(p, "/"):
		kind = KindDirectory
		p = strings.TrimSuffix(p, "/")
	case strings.HasSuffix(p, "@"):
		kind = KindSymlink
		p = strings.TrimSuffix(p, "@")
	}

	parts := strings.Split(p, "/")
	dir := root
	for i, part := range parts {
		k := KindDirectory
		if i == len(parts)-1 {
			k = kind
		}
		child := filepath.Join(dir, part)
		if !f.has(dir, part) {
			f.dirs[dir] = append(f.dirs[dir], Entry{Name: part, Kind: k})
		}
		if k == KindDirectory {
			if _, ok := f.dirs[child]; !ok {
				f.dirs[child] = nil
			}
		}
		dir = child
	}
}

func (f *Fake) has(dir, name string) bool {
	for _, e := range f.dirs[dir] {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Add inserts more paths under root after construction.
func (f *Fake) Add(root string, paths ...string) {
	for _, p := range paths {
		f.add(root, p)
	}
}

// Remove deletes name from the listing of dir.
func (f *Fake) Remove(dir, name string) {
	entries := f.dirs[dir]
	for i, e := range entries {
		if e.Name == name {
			f.dirs[dir] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Fail makes every later List of path return err.
func (f *Fake) Fail(path string, err error) {
	f.errs[path] = err
}

// List implements Gateway.
func (f *Fake) List(path string) ([]Entry, error) {
	f.calls[path]++
	if err, ok := f.errs[path]; ok {
		return nil, wrap("list", path, err)
	}
	entries, ok := f.dirs[path]
	if !ok {
		return nil, wrap("list", path, fs.ErrNotExist)
	}
	return append([]Entry(nil), entries...), nil
}

// Calls returns how many times path was listed.
func (f *Fake) Calls(path string) int {
	return f.calls[path]
}

// TotalCalls returns the number of List calls across all paths.
func (f *Fake) TotalCalls() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}
