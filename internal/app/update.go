package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/birdeye/internal/keymap"
	"github.com/marcus/birdeye/internal/mouse"
	"github.com/marcus/birdeye/internal/msg"
	"github.com/marcus/birdeye/internal/nav"
	"github.com/marcus/birdeye/internal/watcher"
)

const (
	toastDuration      = 2 * time.Second
	errorToastDuration = 5 * time.Second
)

// commandKeys maps keymap commands onto controller events.
var commandKeys = map[string]nav.KeyType{
	keymap.CmdQuit:         nav.KeyQuit,
	keymap.CmdCursorUp:     nav.KeyUp,
	keymap.CmdCursorDown:   nav.KeyDown,
	keymap.CmdCursorTop:    nav.KeyTop,
	keymap.CmdCursorBottom: nav.KeyBottom,
	keymap.CmdPageUp:       nav.KeyPageUp,
	keymap.CmdPageDown:     nav.KeyPageDown,
	keymap.CmdExpand:       nav.KeyRight,
	keymap.CmdCollapse:     nav.KeyLeft,
	keymap.CmdSelect:       nav.KeyEnter,
	keymap.CmdBack:         nav.KeyEscape,
	keymap.CmdSearch:       nav.KeySearch,
	keymap.CmdNextMatch:    nav.KeyNextMatch,
	keymap.CmdPrevMatch:    nav.KeyPrevMatch,
	keymap.CmdRefresh:      nav.KeyRefresh,
	keymap.CmdYank:         nav.KeyYank,
	keymap.CmdSort:         nav.KeySort,
	keymap.CmdConfirm:      nav.KeyEnter,
	keymap.CmdCancel:       nav.KeyEscape,
	keymap.CmdDeleteChar:   nav.KeyBackspace,
}

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.MouseMsg:
		return m.handleMouse(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.help.Width = message.Width
		m.ctrl.SetPageSize(m.treeHeight())
		if m.showHelp {
			m.helpView = m.renderHelp()
		}
		m.scroll()
		return m, nil

	case msg.ToastMsg:
		m.toast = message.Message
		m.toastError = message.IsError
		m.toastSeq++
		return m, msg.ClearToastAfter(message.Duration, m.toastSeq)

	case msg.ClearToastMsg:
		if message.Seq == m.toastSeq {
			m.toast = ""
			m.toastError = false
		}
		return m, nil

	case watcher.ChangedMsg:
		m.logger.Debug("refresh after change", "dirs", message.Dirs)
		m.ctrl.Refresh()
		m.syncWatch()
		m.scroll()
		return m, m.watcher.Wait()

	case watcher.ErrorMsg:
		m.logger.Warn("watcher error", "err", message.Err)
		return m, tea.Batch(
			msg.ShowError("watch: "+message.Err.Error(), errorToastDuration),
			m.watcher.Wait(),
		)
	}
	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.context()
	cmd, bound := m.keymap.Lookup(k.String(), ctx)
	if ctx == keymap.ContextSearch && k.Type == tea.KeyRunes && !k.Alt {
		// Typed characters belong to the query unless search itself
		// binds them.
		cmd, bound = m.keymap.LookupIn(k.String(), ctx)
	}

	if cmd == keymap.CmdToggleHelp {
		m.showHelp = !m.showHelp
		if m.showHelp {
			m.helpView = m.renderHelp()
		}
		return m, nil
	}
	if m.showHelp && cmd != keymap.CmdQuit {
		return m, nil
	}

	var events []nav.Key
	switch {
	case bound:
		t, ok := commandKeys[cmd]
		if !ok {
			return m, nil
		}
		events = append(events, nav.Press(t))
	case ctx == keymap.ContextSearch && (k.Type == tea.KeyRunes || k.Type == tea.KeySpace):
		// Unbound printable keys are typed into the query, pastes included.
		for _, r := range k.Runes {
			events = append(events, nav.Rune(r))
		}
		if k.Type == tea.KeySpace && len(k.Runes) == 0 {
			events = append(events, nav.Rune(' '))
		}
	default:
		return m, nil
	}

	var cmds []tea.Cmd
	for _, ev := range events {
		eff := m.ctrl.Handle(ev)
		if c := m.apply(eff); c != nil {
			cmds = append(cmds, c)
		}
		if eff.Quit {
			break
		}
	}
	m.syncWatch()
	m.scroll()
	return m, tea.Batch(cmds...)
}

// handleMouse moves the cursor with the wheel and clicks. A double click
// acts like Enter in browse mode.
func (m Model) handleMouse(mm tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}

	var cmd tea.Cmd
	action := m.mouse.HandleMouse(mm)
	switch action.Type {
	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		m.ctrl.SetCursor(m.ctrl.Cursor() + action.Delta)
	case mouse.ActionClick, mouse.ActionDoubleClick:
		row, ok := action.Region.Data.(int)
		if !ok {
			return m, nil
		}
		m.ctrl.SetCursor(row)
		if action.Type == mouse.ActionDoubleClick && m.ctrl.Mode() == nav.ModeBrowse {
			cmd = m.apply(m.ctrl.Handle(nav.Press(nav.KeyEnter)))
		}
	default:
		return m, nil
	}

	m.syncWatch()
	m.scroll()
	return m, cmd
}

// apply carries out a controller effect.
func (m *Model) apply(eff nav.Effect) tea.Cmd {
	if eff.Selected != "" {
		m.selected = eff.Selected
	}
	if eff.Quit {
		m.saveSession()
		return tea.Quit
	}
	if eff.Yank != "" {
		if err := m.copy(eff.Yank); err != nil {
			m.logger.Warn("copy to clipboard failed", "err", err)
			return msg.ShowError("Copy failed: "+err.Error(), errorToastDuration)
		}
		return msg.ShowToast("Copied "+eff.Yank, toastDuration)
	}
	return nil
}
