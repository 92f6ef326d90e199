// Package styles holds the lipgloss colors and styles birdeye renders with.
// All styles are rebuilt by ApplyTheme.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - default dark theme
var (
	Primary = lipgloss.Color("#7C3AED") // Purple
	Accent  = lipgloss.Color("#F59E0B") // Amber

	Success = lipgloss.Color("#10B981") // Green
	Error   = lipgloss.Color("#EF4444") // Red

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")

	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	DirColor     = lipgloss.Color("#3B82F6") // Blue
	SymlinkColor = lipgloss.Color("#06B6D4") // Cyan

	ToastSuccessTextColor = lipgloss.Color("#000000")
	ToastErrorTextColor   = lipgloss.Color("#FFFFFF")

	// CurrentMarkdownTheme is the glamour style name for the help overlay.
	CurrentMarkdownTheme = "dark"
)

// Text styles
var (
	Title   lipgloss.Style
	Muted   lipgloss.Style
	KeyHint lipgloss.Style
)

// Tree row styles
var (
	TreeDir        lipgloss.Style
	TreeFile       lipgloss.Style
	TreeSymlink    lipgloss.Style
	TreeUnreadable lipgloss.Style
	TreeIcon       lipgloss.Style
	TreeDenied     lipgloss.Style

	// SearchMatch marks a row whose name contains the query.
	SearchMatch lipgloss.Style
	// SearchAncestor marks directories on the path to a match.
	SearchAncestor lipgloss.Style

	// TreeCursor is the background of the cursor row.
	TreeCursor lipgloss.Style
)

// Bars
var (
	Header    lipgloss.Style
	SearchBar lipgloss.Style
	StatusBar lipgloss.Style
	Footer    lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	ModalBox lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles() {
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)

	TreeDir = lipgloss.NewStyle().
		Foreground(DirColor).
		Bold(true)

	TreeFile = lipgloss.NewStyle().
		Foreground(TextPrimary)

	TreeSymlink = lipgloss.NewStyle().
		Foreground(SymlinkColor).
		Italic(true)

	TreeUnreadable = lipgloss.NewStyle().
		Foreground(TextMuted).
		Strikethrough(true)

	TreeIcon = lipgloss.NewStyle().
		Foreground(TextMuted)

	TreeDenied = lipgloss.NewStyle().
		Foreground(Error).
		Italic(true)

	SearchMatch = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true).
		Underline(true)

	SearchAncestor = lipgloss.NewStyle().
		Foreground(Accent)

	TreeCursor = lipgloss.NewStyle().
		Background(BgTertiary)

	Header = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgSecondary).
		Bold(true).
		Padding(0, 1)

	SearchBar = lipgloss.NewStyle().
		Foreground(Accent)

	StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary)

	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	ToastSuccess = lipgloss.NewStyle().
		Background(Success).
		Foreground(ToastSuccessTextColor).
		Bold(true).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Background(Error).
		Foreground(ToastErrorTextColor).
		Bold(true).
		Padding(0, 1)

	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)
}
