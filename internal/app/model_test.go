package app

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/birdeye/internal/config"
	"github.com/marcus/birdeye/internal/gateway"
	"github.com/marcus/birdeye/internal/keymap"
	"github.com/marcus/birdeye/internal/msg"
	"github.com/marcus/birdeye/internal/nav"
	"github.com/marcus/birdeye/internal/tree"
	"github.com/marcus/birdeye/internal/watcher"
)

const root = "/root"

// newTestModel builds root/{a.txt, sub/readme.md} in name order with a
// 40x12 window and session restore off.
func newTestModel(t *testing.T, opts Options) (Model, *gateway.Fake) {
	t.Helper()
	fake := gateway.NewFake(root, "a.txt", "sub/", "sub/readme.md")
	tr := tree.New(root, fake, tree.WithSortMode(tree.SortByName))

	if opts.Config == nil {
		opts.Config = config.Default()
		opts.Config.Tree.RestoreSession = false
	}
	if opts.CopyText == nil {
		opts.CopyText = func(string) error { return nil }
	}
	m := New(nav.New(tr), opts)
	return update(t, m, tea.WindowSizeMsg{Width: 40, Height: 12}), fake
}

func update(t *testing.T, m Model, message tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(message)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keys(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range msgs {
		m = update(t, m, k)
	}
	return m
}

func cursorName(m Model) string {
	n, _ := m.ctrl.Tree().Node(m.ctrl.CursorNode())
	return n.Name
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestBrowseKeys(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = keys(t, m, runes("j"), runes("j"))
	if cursorName(m) != "sub" {
		t.Fatalf("cursor on %q, want sub", cursorName(m))
	}

	m = keys(t, m, runes("l"))
	if m.ctrl.Rows() != 4 {
		t.Errorf("got %d rows after expand, want 4", m.ctrl.Rows())
	}

	m = keys(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.ctrl.Rows() != 3 {
		t.Errorf("got %d rows after collapse, want 3", m.ctrl.Rows())
	}

	m = keys(t, m, runes("G"))
	if cursorName(m) != "sub" {
		t.Errorf("G should move to the last row, got %q", cursorName(m))
	}
	m = keys(t, m, runes("g"))
	if m.ctrl.Cursor() != 0 {
		t.Errorf("g should move to the top, got row %d", m.ctrl.Cursor())
	}
}

func TestSearchTypesUnboundKeys(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = keys(t, m, runes("/"), runes("r"), runes("q"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("e"))
	if m.ctrl.Mode() != nav.ModeSearch {
		t.Fatal("should still be in search mode")
	}
	if got := m.ctrl.Query(); got != "re" {
		t.Errorf("query = %q, want %q", got, "re")
	}

	// readme.md is found inside the collapsed sub directory.
	if len(m.ctrl.Matches()) != 1 {
		t.Errorf("got %d matches, want 1", len(m.ctrl.Matches()))
	}

	m = keys(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.ctrl.Mode() != nav.ModeBrowse || cursorName(m) != "readme.md" {
		t.Errorf("mode %v cursor %q, want browse on readme.md", m.ctrl.Mode(), cursorName(m))
	}
}

func TestSearchPaste(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = keys(t, m, runes("/"), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a.t"), Paste: true})
	if got := m.ctrl.Query(); got != "a.t" {
		t.Errorf("query = %q, want a.t", got)
	}
}

func TestEnterOnFileSelectsAndQuits(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = keys(t, m, runes("j"))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !isQuit(cmd) {
		t.Error("Enter on a file should quit")
	}
	if want := filepath.Join(root, "a.txt"); m.Selected() != want {
		t.Errorf("selected %q, want %q", m.Selected(), want)
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	_, cmd := m.Update(runes("q"))
	if !isQuit(cmd) {
		t.Error("q should quit in browse mode")
	}

	m = keys(t, m, runes("/"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) {
		t.Error("ctrl+c should quit in search mode")
	}
	if m.Selected() != "" {
		t.Error("quitting should not select anything")
	}
}

func TestYank(t *testing.T) {
	var copied string
	m, _ := newTestModel(t, Options{CopyText: func(s string) error {
		copied = s
		return nil
	}})
	m = keys(t, m, runes("j"))

	_, cmd := m.Update(runes("y"))
	if want := filepath.Join(root, "a.txt"); copied != want {
		t.Errorf("copied %q, want %q", copied, want)
	}
	toast, ok := cmd().(msg.ToastMsg)
	if !ok || toast.IsError {
		t.Errorf("got %#v, want a success toast", toast)
	}
}

func TestYank_ClipboardFailure(t *testing.T) {
	m, _ := newTestModel(t, Options{CopyText: func(string) error {
		return errors.New("no clipboard")
	}})

	_, cmd := m.Update(runes("y"))
	toast, ok := cmd().(msg.ToastMsg)
	if !ok || !toast.IsError || !strings.Contains(toast.Message, "no clipboard") {
		t.Errorf("got %#v, want an error toast", toast)
	}
}

func TestToastLifecycle(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = update(t, m, msg.ToastMsg{Message: "first", Duration: time.Second})
	m = update(t, m, msg.ToastMsg{Message: "second", Duration: time.Second})

	// The clear for the first toast must not remove the second.
	m = update(t, m, msg.ClearToastMsg{Seq: 1})
	if m.toast != "second" {
		t.Fatalf("toast = %q, want second", m.toast)
	}
	if !strings.Contains(ansi.Strip(m.View()), "second") {
		t.Error("view should show the toast")
	}

	m = update(t, m, msg.ClearToastMsg{Seq: 2})
	if m.toast != "" {
		t.Errorf("toast = %q, want cleared", m.toast)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = keys(t, m, runes("?"))
	if !m.showHelp || m.helpView == "" {
		t.Fatal("? should open the help overlay")
	}

	// Navigation keys are swallowed while help is open.
	m = keys(t, m, runes("j"))
	if m.ctrl.Cursor() != 0 {
		t.Error("keys should not reach the tree while help is open")
	}

	m = keys(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Error("esc should close the help overlay")
	}
}

func TestHelpMarkdown(t *testing.T) {
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	md := helpMarkdown(km)

	for _, want := range []string{"## Browse", "## Search", "`k` `up`", "| search |"} {
		if !strings.Contains(md, want) {
			t.Errorf("help markdown missing %q", want)
		}
	}
}

func TestKeymapOverride(t *testing.T) {
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	if err := km.ApplyOverrides(map[string]string{"ctrl+f": keymap.CmdSearch}); err != nil {
		t.Fatal(err)
	}
	m, _ := newTestModel(t, Options{Keymap: km})

	m = keys(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	if m.ctrl.Mode() != nav.ModeSearch {
		t.Error("ctrl+f should start a search after the override")
	}
}

func TestSearchTypesOverriddenQuitKey(t *testing.T) {
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	if err := km.ApplyOverrides(map[string]string{"Q": keymap.CmdQuit}); err != nil {
		t.Fatal(err)
	}
	m, _ := newTestModel(t, Options{Keymap: km})

	m = keys(t, m, runes("/"), runes("r"), runes("e"))
	next, cmd := m.Update(runes("Q"))
	m = next.(Model)
	if isQuit(cmd) {
		t.Fatal("Q should be typed into the query, not quit")
	}
	if got := m.ctrl.Query(); got != "reQ" {
		t.Errorf("query = %q, want reQ", got)
	}

	// Back in browse mode the override quits.
	m = keys(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, cmd := m.Update(runes("Q")); !isQuit(cmd) {
		t.Error("Q should quit in browse mode")
	}
}

func TestSearchIgnoresGlobalTextBinding(t *testing.T) {
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	// An explicit global binding still loses to typing in search.
	km.SetUserOverride("global:x", keymap.CmdQuit)
	m, _ := newTestModel(t, Options{Keymap: km})

	m = keys(t, m, runes("/"))
	next, cmd := m.Update(runes("x"))
	m = next.(Model)
	if isQuit(cmd) || m.ctrl.Query() != "x" {
		t.Errorf("query = %q quit=%v, want x typed", m.ctrl.Query(), isQuit(cmd))
	}

	// ctrl+c is not text and still quits from search.
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Error("ctrl+c should quit from search")
	}
}

func TestView(t *testing.T) {
	fake := gateway.NewFake(root, "open.txt", "secret/")
	fake.Fail(filepath.Join(root, "secret"), fs.ErrPermission)
	tr := tree.New(root, fake, tree.WithSortMode(tree.SortByName))
	cfg := config.Default()
	cfg.Tree.RestoreSession = false
	m := New(nav.New(tr), Options{Config: cfg})
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 10})

	m = keys(t, m, runes("j"), runes("j"), runes("l"))
	view := ansi.Strip(m.View())

	for _, want := range []string{"birdeye", "sort: name", "v ■ secret [access denied]", "· open.txt", "3/3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if n := len(strings.Split(view, "\n")); n != 10 {
		t.Errorf("view has %d lines, want 10", n)
	}
}

func TestPrintable(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain.txt", "plain.txt"},
		{"évé 日本.md", "évé 日本.md"},
		{"red\x1b[31mname", "redname"},
		{"bell\a", "bell?"},
		{"tab\tand\nnewline", "tab?and?newline"},
	}
	for _, tc := range tests {
		if got := printable(tc.in); got != tc.want {
			t.Errorf("printable(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestView_EscapesInNames(t *testing.T) {
	fake := gateway.NewFake(root, "evil\x1b]0;pwned\a.txt", "clear\x1b[2J.txt")
	tr := tree.New(root, fake, tree.WithSortMode(tree.SortByName))
	cfg := config.Default()
	cfg.Tree.RestoreSession = false
	cfg.UI.ShowIcons = false
	m := New(nav.New(tr), Options{Config: cfg})
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 10})

	view := m.View()
	for _, bad := range []string{"\x1b]0;", "\x1b[2J", "\a"} {
		if strings.Contains(view, bad) {
			t.Errorf("view contains raw %q", bad)
		}
	}
	plain := ansi.Strip(view)
	if !strings.Contains(plain, "clear.txt") {
		t.Errorf("sanitized name missing:\n%s", plain)
	}
}

func TestView_SearchBar(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = keys(t, m, runes("/"), runes("z"), runes("z"))
	if view := ansi.Strip(m.View()); !strings.Contains(view, "/zz█ (no matches)") {
		t.Errorf("search bar missing:\n%s", view)
	}

	m = keys(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, runes("a"))
	if view := ansi.Strip(m.View()); !strings.Contains(view, "matches)") {
		t.Errorf("match count missing:\n%s", view)
	}

	m = keys(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if view := ansi.Strip(m.View()); !strings.Contains(view, "/a (1/") {
		t.Errorf("active match missing:\n%s", view)
	}
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	paths := make([]string, 30)
	for i := range paths {
		paths[i] = fmt.Sprintf("many/f%02d", i)
	}
	fake := gateway.NewFake(root, paths...)
	tr := tree.New(root, fake, tree.WithSortMode(tree.SortByName))
	cfg := config.Default()
	cfg.Tree.RestoreSession = false
	m := New(nav.New(tr), Options{Config: cfg})
	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 8})

	m = keys(t, m, runes("j"), runes("l"), runes("G"))
	if m.offset == 0 {
		t.Fatal("view should scroll down to the last row")
	}
	h := m.treeHeight()
	if c := m.ctrl.Cursor(); c < m.offset || c >= m.offset+h {
		t.Errorf("cursor %d outside window [%d, %d)", c, m.offset, m.offset+h)
	}

	m = keys(t, m, runes("g"))
	if m.offset != 0 {
		t.Errorf("offset = %d after g, want 0", m.offset)
	}
}

func TestWatcherChangeRefreshes(t *testing.T) {
	// A root that does not exist on disk, so fsnotify watches nothing and
	// only the injected message drives the refresh.
	const root = "/birdeye-test-missing-root"
	fake := gateway.NewFake(root, "a.txt")
	w, err := watcher.New(fake)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	tr := tree.New(root, fake, tree.WithSortMode(tree.SortByName))
	cfg := config.Default()
	cfg.Tree.RestoreSession = false
	m := New(nav.New(tr), Options{Config: cfg, Watcher: w})

	fake.Add(root, "b.txt")
	next, cmd := m.Update(watcher.ChangedMsg{Dirs: []string{root}})
	m = next.(Model)
	if m.ctrl.Rows() != 3 {
		t.Errorf("got %d rows after change, want 3", m.ctrl.Rows())
	}
	if cmd == nil {
		t.Error("should keep listening for changes")
	}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: x, Y: y}
}

func TestMouseClickMovesCursor(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	// The header takes screen row 0, so tree row 2 is at y=3.
	m = update(t, m, click(5, 3))
	if cursorName(m) != "sub" {
		t.Fatalf("cursor on %q, want sub", cursorName(m))
	}

	// Below the last tree row nothing happens.
	m = update(t, m, click(5, 8))
	if cursorName(m) != "sub" {
		t.Errorf("click on empty space moved the cursor to %q", cursorName(m))
	}
}

func TestMouseDoubleClick(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = update(t, m, click(5, 3))
	m = update(t, m, click(5, 3))
	if m.ctrl.Rows() != 4 {
		t.Fatalf("double click on sub should expand it, got %d rows", m.ctrl.Rows())
	}

	m = update(t, m, click(5, 2))
	next, cmd := m.Update(click(5, 2))
	m = next.(Model)
	if !isQuit(cmd) {
		t.Error("double click on a file should select it and quit")
	}
	if want := filepath.Join(root, "a.txt"); m.Selected() != want {
		t.Errorf("selected %q, want %q", m.Selected(), want)
	}
}

func TestMouseWheel(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = keys(t, m, runes("j"), runes("j"), runes("l"))

	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown, X: 1, Y: 1})
	if m.ctrl.Cursor() != 3 {
		t.Errorf("wheel down: cursor = %d, want 3", m.ctrl.Cursor())
	}
	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp, X: 1, Y: 1})
	if m.ctrl.Cursor() != 0 {
		t.Errorf("wheel up: cursor = %d, want 0", m.ctrl.Cursor())
	}
}

func TestMouseIgnoredUnderHelp(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = keys(t, m, runes("?"))

	m = update(t, m, click(5, 3))
	if m.ctrl.Cursor() != 0 {
		t.Error("clicks should not reach the tree while help is open")
	}
}
