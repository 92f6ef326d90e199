// Package watcher reports when the listing of an open directory changes.
//
// fsnotify events are debounced per directory. When the debounce fires the
// directory is listed again through the same gateway the tree uses, and the
// listing is fingerprinted; only a changed fingerprint is reported. Writes
// that leave the set of names untouched, or that touch filtered entries,
// never reach the app.
package watcher

import (
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/marcus/birdeye/internal/gateway"
)

// DefaultDebounce is used when no debounce option is given.
const DefaultDebounce = 200 * time.Millisecond

// ChangedMsg lists the directories whose entries changed since the last
// report.
type ChangedMsg struct {
	Dirs []string
}

// ErrorMsg carries a watcher failure to the app.
type ErrorMsg struct {
	Err error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a directory must stay quiet before it is
// listed again.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watcher follows a set of directories.
type Watcher struct {
	gw       gateway.Gateway
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	prints  map[string]uint64 // watched dir -> last fingerprint
	pending map[string]bool
	timer   *time.Timer
	closed  bool

	changes chan ChangedMsg
	errs    chan error
	done    chan struct{}
}

// New starts a watcher that lists directories through gw.
func New(gw gateway.Gateway, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := newWatcher(gw, opts...)
	w.fsw = fsw
	go w.run()
	return w, nil
}

func newWatcher(gw gateway.Gateway, opts ...Option) *Watcher {
	w := &Watcher{
		gw:       gw,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		prints:   make(map[string]uint64),
		pending:  make(map[string]bool),
		changes:  make(chan ChangedMsg, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Sync makes the keys of listings the exact set of watched directories.
// Each directory's fingerprint is taken from the listing the tree holds,
// so a change made before the watch started is still reported, and Sync
// itself never lists a directory.
func (w *Watcher) Sync(listings map[string][]gateway.Entry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	for d := range w.prints {
		if _, ok := listings[d]; !ok {
			delete(w.prints, d)
			delete(w.pending, d)
			if w.fsw != nil {
				_ = w.fsw.Remove(d)
			}
		}
	}
	for d, entries := range listings {
		if _, ok := w.prints[d]; !ok && w.fsw != nil {
			if err := w.fsw.Add(d); err != nil {
				w.logger.Debug("watch failed", "dir", d, "err", err)
				continue
			}
		}
		w.prints[d] = Fingerprint(entries)
	}
}

// Watched returns the watched directories in sorted order.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	dirs := make([]string, 0, len(w.prints))
	for d := range w.prints {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Changes delivers change reports. Reports that arrive while one is still
// unread are merged into it.
func (w *Watcher) Changes() <-chan ChangedMsg {
	return w.changes
}

// Wait returns a command that blocks until the next report and yields it
// as a ChangedMsg or ErrorMsg. It yields nil once the watcher is closed.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case m := <-w.changes:
			return m
		case err := <-w.errs:
			return ErrorMsg{Err: err}
		case <-w.done:
			return nil
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.note(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Debug("watch error", "err", err)
			select {
			case w.errs <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// note marks the directory an event belongs to as pending and restarts
// the debounce timer.
func (w *Watcher) note(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	// Events name the entry; the watched directory is its parent, or the
	// entry itself when the directory was removed or renamed.
	dir := filepath.Dir(event.Name)
	if _, ok := w.prints[dir]; !ok {
		if _, self := w.prints[event.Name]; !self {
			return
		}
		dir = event.Name
	}
	w.pending[dir] = true

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush re-lists pending directories and reports those whose fingerprint
// moved. Listing happens without the lock so Sync is never held up by a
// slow gateway.
func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	dirs := make([]string, 0, len(w.pending))
	for d := range w.pending {
		delete(w.pending, d)
		dirs = append(dirs, d)
	}
	w.mu.Unlock()

	fresh := make(map[string]uint64, len(dirs))
	for _, d := range dirs {
		fresh[d] = w.fingerprint(d)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	var changed []string
	for d, fp := range fresh {
		old, ok := w.prints[d]
		if !ok || fp == old {
			continue
		}
		w.prints[d] = fp
		changed = append(changed, d)
	}
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)
	w.logger.Debug("directories changed", "dirs", changed)
	w.send(changed)
}

// send delivers dirs, folding them into a report the app has not read yet.
func (w *Watcher) send(dirs []string) {
	for {
		select {
		case w.changes <- ChangedMsg{Dirs: dirs}:
			return
		case prev := <-w.changes:
			dirs = mergeDirs(prev.Dirs, dirs)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) fingerprint(dir string) uint64 {
	entries, err := w.gw.List(dir)
	if err != nil {
		return xxhash.Sum64String("!" + gateway.Classify(err).Label())
	}
	return Fingerprint(entries)
}

// Fingerprint hashes the names and kinds of entries independent of their
// order.
func Fingerprint(entries []gateway.Entry) uint64 {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Kind.String() + ":" + e.Name
	}
	sort.Strings(keys)

	h := xxhash.New()
	for _, k := range keys {
		_, _ = h.WriteString(k)
		_, _ = h.WriteString("\x00")
	}
	return h.Sum64()
}

func mergeDirs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, d := range append(append([]string(nil), a...), b...) {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}
