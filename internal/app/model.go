// Package app is the bubbletea front end: it decodes terminal keys into
// controller events and paints the controller's frames.
package app

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/birdeye/internal/config"
	"github.com/marcus/birdeye/internal/keymap"
	"github.com/marcus/birdeye/internal/mouse"
	"github.com/marcus/birdeye/internal/nav"
	"github.com/marcus/birdeye/internal/state"
	"github.com/marcus/birdeye/internal/watcher"
)

const (
	headerHeight = 1
	statusHeight = 1
	footerHeight = 1
)

// Options wires the model to its collaborators.
type Options struct {
	Config *config.Config
	Keymap *keymap.Registry
	// Watcher is nil when automatic refresh is off.
	Watcher *watcher.Watcher
	Logger  *slog.Logger
	// CopyText replaces the system clipboard, mainly for tests.
	CopyText func(string) error
}

// Model is the root Bubble Tea model for birdeye.
type Model struct {
	ctrl    *nav.Controller
	keymap  *keymap.Registry
	cfg     *config.Config
	watcher *watcher.Watcher
	logger  *slog.Logger
	copy    func(string) error
	mouse   *mouse.Handler

	help     help.Model
	width    int
	height   int
	ready    bool
	offset   int // first tree row on screen
	showHelp bool
	helpView string

	// Status/toast messages
	toast      string
	toastError bool
	toastSeq   int

	selected string
}

// New creates the model around a controller.
func New(ctrl *nav.Controller, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	km := opts.Keymap
	if km == nil {
		km = keymap.NewRegistry()
		keymap.RegisterDefaults(km)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	copyText := opts.CopyText
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	m := Model{
		ctrl:    ctrl,
		keymap:  km,
		cfg:     cfg,
		watcher: opts.Watcher,
		logger:  logger,
		copy:    copyText,
		help:    help.New(),
		mouse:   mouse.NewHandler(),
	}
	if cfg.Tree.RestoreSession {
		if s, ok := state.GetSession(m.rootPath()); ok {
			restoreSession(ctrl, s)
		}
	}
	m.syncWatch()
	return m
}

// Init starts listening for watcher reports.
func (m Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Wait()
}

// Selected returns the path chosen with Enter, or "" if birdeye was quit
// without choosing a file.
func (m Model) Selected() string { return m.selected }

// Controller returns the navigation controller.
func (m Model) Controller() *nav.Controller { return m.ctrl }

func (m Model) rootPath() string {
	n, _ := m.ctrl.Tree().Node(m.ctrl.Tree().Root())
	return n.Path
}

// context returns the keymap context for the current input state.
func (m Model) context() string {
	switch {
	case m.showHelp:
		return keymap.ContextHelp
	case m.ctrl.Mode() == nav.ModeSearch:
		return keymap.ContextSearch
	default:
		return keymap.ContextBrowse
	}
}

// treeHeight is the number of rows available for the tree.
func (m Model) treeHeight() int {
	h := m.height - headerHeight - statusHeight
	if m.cfg.UI.ShowFooter {
		h -= footerHeight
	}
	return max(h, 1)
}

// scroll keeps the cursor row inside the visible window.
func (m *Model) scroll() {
	h := m.treeHeight()
	cursor := m.ctrl.Cursor()
	if cursor < m.offset {
		m.offset = cursor
	}
	if cursor >= m.offset+h {
		m.offset = cursor - h + 1
	}
	if last := m.ctrl.Rows() - h; m.offset > last {
		m.offset = max(last, 0)
	}
	m.layoutHits()
}

// layoutHits registers one click region per visible tree row. The pending
// click survives so a double click can span a re-layout.
func (m *Model) layoutHits() {
	m.mouse.HitMap.Clear()
	h := m.treeHeight()
	for i := 0; i < h && m.offset+i < m.ctrl.Rows(); i++ {
		row := m.offset + i
		m.mouse.HitMap.AddRect(fmt.Sprintf("row-%d", row), 0, headerHeight+i, m.width, 1, row)
	}
}

// syncWatch points the watcher at the directories currently open.
func (m Model) syncWatch() {
	if m.watcher == nil {
		return
	}
	m.watcher.Sync(m.ctrl.Tree().OpenListings())
}

// saveSession remembers the open directories and cursor for the root.
func (m Model) saveSession() {
	if !m.cfg.Tree.RestoreSession {
		return
	}
	if err := state.SetSession(m.rootPath(), captureSession(m.ctrl)); err != nil {
		m.logger.Warn("save session failed", "err", err)
	}
}
