package keymap

// Contexts a binding can belong to.
const (
	ContextGlobal = "global"
	ContextBrowse = "browse"
	ContextSearch = "search"
	ContextHelp   = "help"
)

// Commands understood by the app.
const (
	CmdQuit         = "quit"
	CmdCursorUp     = "cursor-up"
	CmdCursorDown   = "cursor-down"
	CmdCursorTop    = "cursor-top"
	CmdCursorBottom = "cursor-bottom"
	CmdPageUp       = "page-up"
	CmdPageDown     = "page-down"
	CmdExpand       = "expand"
	CmdCollapse     = "collapse"
	CmdSelect       = "select"
	CmdBack         = "back"
	CmdSearch       = "search"
	CmdNextMatch    = "next-match"
	CmdPrevMatch    = "prev-match"
	CmdRefresh      = "refresh"
	CmdYank         = "yank-path"
	CmdSort         = "cycle-sort"
	CmdToggleHelp   = "toggle-help"
	CmdConfirm      = "search-confirm"
	CmdCancel       = "search-cancel"
	CmdDeleteChar   = "delete-char"
)

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal},

		// Tree browsing
		{Key: "q", Command: CmdQuit, Context: ContextBrowse},
		{Key: "k", Command: CmdCursorUp, Context: ContextBrowse},
		{Key: "up", Command: CmdCursorUp, Context: ContextBrowse},
		{Key: "j", Command: CmdCursorDown, Context: ContextBrowse},
		{Key: "down", Command: CmdCursorDown, Context: ContextBrowse},
		{Key: "l", Command: CmdExpand, Context: ContextBrowse},
		{Key: "right", Command: CmdExpand, Context: ContextBrowse},
		{Key: "h", Command: CmdCollapse, Context: ContextBrowse},
		{Key: "left", Command: CmdCollapse, Context: ContextBrowse},
		{Key: "enter", Command: CmdSelect, Context: ContextBrowse},
		{Key: "g", Command: CmdCursorTop, Context: ContextBrowse},
		{Key: "home", Command: CmdCursorTop, Context: ContextBrowse},
		{Key: "G", Command: CmdCursorBottom, Context: ContextBrowse},
		{Key: "end", Command: CmdCursorBottom, Context: ContextBrowse},
		{Key: "ctrl+u", Command: CmdPageUp, Context: ContextBrowse},
		{Key: "pgup", Command: CmdPageUp, Context: ContextBrowse},
		{Key: "ctrl+d", Command: CmdPageDown, Context: ContextBrowse},
		{Key: "pgdown", Command: CmdPageDown, Context: ContextBrowse},
		{Key: "/", Command: CmdSearch, Context: ContextBrowse},
		{Key: "n", Command: CmdNextMatch, Context: ContextBrowse},
		{Key: "N", Command: CmdPrevMatch, Context: ContextBrowse},
		{Key: "esc", Command: CmdBack, Context: ContextBrowse},
		{Key: "r", Command: CmdRefresh, Context: ContextBrowse},
		{Key: "y", Command: CmdYank, Context: ContextBrowse},
		{Key: "s", Command: CmdSort, Context: ContextBrowse},
		{Key: "?", Command: CmdToggleHelp, Context: ContextBrowse},

		// Search entry: anything unbound is typed into the query
		{Key: "enter", Command: CmdConfirm, Context: ContextSearch},
		{Key: "esc", Command: CmdCancel, Context: ContextSearch},
		{Key: "backspace", Command: CmdDeleteChar, Context: ContextSearch},
		{Key: "up", Command: CmdCursorUp, Context: ContextSearch},
		{Key: "down", Command: CmdCursorDown, Context: ContextSearch},

		// Help overlay
		{Key: "?", Command: CmdToggleHelp, Context: ContextHelp},
		{Key: "esc", Command: CmdToggleHelp, Context: ContextHelp},
		{Key: "q", Command: CmdToggleHelp, Context: ContextHelp},
	}
}

// commandLabels are the short names shown in the footer and help.
var commandLabels = map[string]string{
	CmdQuit:         "quit",
	CmdCursorUp:     "up",
	CmdCursorDown:   "down",
	CmdCursorTop:    "top",
	CmdCursorBottom: "bottom",
	CmdPageUp:       "page up",
	CmdPageDown:     "page down",
	CmdExpand:       "expand",
	CmdCollapse:     "collapse",
	CmdSelect:       "open",
	CmdBack:         "clear",
	CmdSearch:       "search",
	CmdNextMatch:    "next",
	CmdPrevMatch:    "prev",
	CmdRefresh:      "refresh",
	CmdYank:         "yank",
	CmdSort:         "sort",
	CmdToggleHelp:   "help",
	CmdConfirm:      "confirm",
	CmdCancel:       "cancel",
	CmdDeleteChar:   "delete",
}

// Label returns the display name of a command.
func Label(command string) string {
	if l, ok := commandLabels[command]; ok {
		return l
	}
	return command
}
