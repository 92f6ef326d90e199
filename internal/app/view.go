package app

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/birdeye/internal/gateway"
	"github.com/marcus/birdeye/internal/keymap"
	"github.com/marcus/birdeye/internal/nav"
	"github.com/marcus/birdeye/internal/styles"
	"github.com/marcus/birdeye/internal/ui"
)

// icons are drawn before names when ui.showIcons is set.
var icons = map[gateway.Kind]string{
	gateway.KindDirectory:  "■",
	gateway.KindFile:       "·",
	gateway.KindSymlink:    "↪",
	gateway.KindUnreadable: "⊘",
}

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	f := m.ctrl.Frame()

	var b strings.Builder
	b.WriteString(m.renderHeader(f))
	b.WriteString("\n")
	b.WriteString(m.renderTree(f))
	b.WriteString("\n")
	b.WriteString(m.renderStatus(f))
	if m.cfg.UI.ShowFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	bg := b.String()
	if m.showHelp {
		return ui.Overlay(bg, styles.ModalBox.Render(m.helpView), m.width, m.height)
	}
	return bg
}

func (m Model) renderHeader(f nav.Frame) string {
	title := styles.Title.Render("birdeye")
	sortLabel := styles.Muted.Render("sort: " + f.Sort.Label())

	// The root path gets whatever is left between title and sort label.
	avail := m.width - lipgloss.Width(title) - lipgloss.Width(sortLabel) - 6
	root := ""
	if avail > 0 {
		root = truncateLeft(printable(m.rootPath()), avail)
	}

	left := title + "  " + root
	spacing := max(m.width-2-lipgloss.Width(left)-lipgloss.Width(sortLabel), 1)
	header := left + strings.Repeat(" ", spacing) + sortLabel
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(header)
}

// renderTree paints the visible window of rows, padded to the full tree
// height.
func (m Model) renderTree(f nav.Frame) string {
	h := m.treeHeight()
	lines := make([]string, 0, h)
	end := min(m.offset+h, len(f.Rows))
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(f.Rows[i], m.width))
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderRow draws one row: indent, expand marker, icon, name and the
// reason a directory could not be listed.
func (m Model) renderRow(r nav.RowView, width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.Depth))

	switch {
	case r.Kind != gateway.KindDirectory:
		b.WriteString("  ")
	case r.Expanded:
		b.WriteString("v ")
	default:
		b.WriteString("> ")
	}

	if m.cfg.UI.ShowIcons {
		b.WriteString(styles.TreeIcon.Render(icons[r.Kind]))
		b.WriteString(" ")
	}

	suffix := ""
	if r.Denied {
		suffix = " [" + r.DeniedReason + "]"
	}

	// Names are plain text, so cell widths come from runewidth; the
	// assembled line carries escapes and is measured with ansi.
	prefixWidth := ansi.StringWidth(b.String())
	nameRoom := max(width-prefixWidth-runewidth.StringWidth(suffix), 1)
	name := runewidth.Truncate(printable(r.Name), nameRoom, "…")

	b.WriteString(nameStyle(r).Render(name))
	if suffix != "" {
		b.WriteString(styles.TreeDenied.Render(suffix))
	}

	line := ansi.Truncate(b.String(), width, "")
	if r.IsCursor {
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return styles.TreeCursor.Render(line)
	}
	return line
}

func nameStyle(r nav.RowView) lipgloss.Style {
	switch {
	case r.IsMatch:
		return styles.SearchMatch
	case r.IsAncestorOfMatch:
		return styles.SearchAncestor
	}
	switch r.Kind {
	case gateway.KindDirectory:
		return styles.TreeDir
	case gateway.KindSymlink:
		return styles.TreeSymlink
	case gateway.KindUnreadable:
		return styles.TreeUnreadable
	}
	return styles.TreeFile
}

// renderStatus shows the search bar while a search is live, and the
// toast on the right.
func (m Model) renderStatus(f nav.Frame) string {
	var left string
	if f.Searching {
		left = styles.SearchBar.Render(searchLine(f))
	} else {
		left = styles.StatusBar.Render(fmt.Sprintf("%d/%d", f.Cursor+1, len(f.Rows)))
	}

	var right string
	if m.toast != "" {
		style := styles.ToastSuccess
		if m.toastError {
			style = styles.ToastError
		}
		right = style.Render(printable(m.toast))
	}

	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		return ansi.Truncate(left+" "+right, m.width, "…")
	}
	return left + strings.Repeat(" ", spacing) + right
}

// searchLine renders "/query█ (n matches)" while typing and
// "/query (i/n)" once the cursor has been sent to a match.
func searchLine(f nav.Frame) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(printable(f.Query))
	if f.Mode == nav.ModeSearch {
		b.WriteString("█")
	}
	switch {
	case f.Query == "":
	case f.MatchCount == 0:
		b.WriteString(" (no matches)")
	case f.MatchIndex == 0:
		b.WriteString(fmt.Sprintf(" (%d matches)", f.MatchCount))
	default:
		b.WriteString(fmt.Sprintf(" (%d/%d)", f.MatchIndex, f.MatchCount))
	}
	return b.String()
}

// footerCommands are the hints shown per context, most useful first.
var footerCommands = map[string][]string{
	keymap.ContextBrowse: {
		keymap.CmdCursorDown, keymap.CmdCursorUp, keymap.CmdExpand, keymap.CmdCollapse,
		keymap.CmdSelect, keymap.CmdSearch, keymap.CmdNextMatch, keymap.CmdYank,
		keymap.CmdSort, keymap.CmdToggleHelp, keymap.CmdQuit,
	},
	keymap.ContextSearch: {
		keymap.CmdConfirm, keymap.CmdCancel, keymap.CmdDeleteChar, keymap.CmdQuit,
	},
	keymap.ContextHelp: {
		keymap.CmdToggleHelp, keymap.CmdQuit,
	},
}

func (m Model) footerBindings() []key.Binding {
	ctx := m.context()
	return m.keymap.HelpBindings(ctx, footerCommands[ctx]...)
}

func (m Model) renderFooter() string {
	hints := m.help.ShortHelpView(m.footerBindings())
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(hints)
}

// printable makes a filesystem string safe to paint: escape sequences are
// removed and any other control character is shown as "?".
func printable(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return '?'
		}
		return r
	}, s)
}

// truncateLeft keeps the end of s, which is the informative part of a
// path, within width cells.
func truncateLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return "…" + ansi.TruncateLeft(s, runewidth.StringWidth(s)-width+1, "")
}
