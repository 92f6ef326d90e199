// Package gateway lists the immediate children of a directory. It is the
// only place birdeye touches the filesystem; the tree keeps its own cache.
package gateway

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Kind classifies a directory entry.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindSymlink
	KindUnreadable
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	case KindUnreadable:
		return "unreadable"
	}
	return "unknown"
}

// Entry is one child returned by a listing.
type Entry struct {
	Name string
	Kind Kind
}

// Gateway lists the entries of a single directory.
type Gateway interface {
	List(path string) ([]Entry, error)
}

// Class groups listing failures by how they are shown to the user.
type Class int

const (
	ClassIO Class = iota
	ClassPermission
	ClassNotFound
)

// Label returns the annotation rendered next to a directory whose listing
// failed with this class.
func (c Class) Label() string {
	switch c {
	case ClassPermission:
		return "access denied"
	case ClassNotFound:
		return "not found"
	}
	return "unreadable"
}

// Error is returned by gateways when a listing fails.
type Error struct {
	Op    string
	Path  string
	Class Class
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// wrap converts a raw filesystem error into an *Error.
func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var ge *Error
	if errors.As(err, &ge) {
		return err
	}
	return &Error{Op: op, Path: path, Class: classOf(err), Err: err}
}

func classOf(err error) Class {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return ClassPermission
	case errors.Is(err, fs.ErrNotExist):
		return ClassNotFound
	}
	return ClassIO
}

// Classify returns the class of a listing error. Errors that did not come
// from a gateway are classified by their underlying fs error.
func Classify(err error) Class {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Class
	}
	return classOf(err)
}

// OS lists directories on the local filesystem. Symlinks are reported as
// such and never followed.
type OS struct{}

// NewOS returns a gateway backed by the local filesystem.
func NewOS() *OS {
	return &OS{}
}

// List returns the entries of path in directory order.
func (OS) List(path string) ([]Entry, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, wrap("list", path, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		entries = append(entries, Entry{Name: d.Name(), Kind: kindOf(d)})
	}
	return entries, nil
}

func kindOf(d fs.DirEntry) Kind {
	t := d.Type()
	switch {
	case t&fs.ModeSymlink != 0:
		return KindSymlink
	case t.IsDir():
		return KindDirectory
	case t&fs.ModeIrregular != 0:
		// The dirent did not carry a usable type; fall back to lstat.
		info, err := d.Info()
		if err != nil {
			return KindUnreadable
		}
		if info.IsDir() {
			return KindDirectory
		}
	}
	return KindFile
}
