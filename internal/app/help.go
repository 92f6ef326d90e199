package app

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/marcus/birdeye/internal/keymap"
	"github.com/marcus/birdeye/internal/styles"
)

// helpSections lists the contexts shown in the help overlay.
var helpSections = []struct {
	title   string
	context string
}{
	{"Browse", keymap.ContextBrowse},
	{"Search", keymap.ContextSearch},
	{"Anywhere", keymap.ContextGlobal},
}

// helpMarkdown builds the keybinding reference as markdown tables, one
// per context, with every key bound to a command on one row.
func helpMarkdown(km *keymap.Registry) string {
	var b strings.Builder
	b.WriteString("# Keyboard Shortcuts\n")

	for _, sec := range helpSections {
		bindings := km.BindingsForContext(sec.context)
		if len(bindings) == 0 {
			continue
		}
		b.WriteString("\n## " + sec.title + "\n\n")
		b.WriteString("| Key | Action |\n|-----|--------|\n")

		seen := make(map[string]bool)
		for _, binding := range bindings {
			if seen[binding.Command] {
				continue
			}
			seen[binding.Command] = true
			keys := km.KeysFor(binding.Command, sec.context)
			b.WriteString("| `" + strings.Join(keys, "` `") + "` | " + keymap.Label(binding.Command) + " |\n")
		}
	}

	b.WriteString("\nIn search mode every other key is typed into the query.\n")
	b.WriteString("Press ? or esc to close.\n")
	return b.String()
}

// renderHelp renders the help markdown for the current width. The raw
// markdown is shown if glamour fails.
func (m Model) renderHelp() string {
	md := helpMarkdown(m.keymap)
	width := min(max(m.width-8, 20), 80)

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GetMarkdownTheme()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.logger.Debug("help renderer failed", "err", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		m.logger.Debug("help render failed", "err", err)
		return md
	}
	return strings.Trim(out, "\n")
}
