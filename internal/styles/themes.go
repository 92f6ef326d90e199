package styles

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects access to themeRegistry and currentTheme
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`

	Success string `json:"success"`
	Error   string `json:"error"`

	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`

	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	Directory string `json:"directory"`
	Symlink   string `json:"symlink"`

	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`

	MarkdownTheme string `json:"markdownTheme"` // Glamour theme name
}

// Theme represents a complete theme configuration
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	// DefaultTheme is the dark theme
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			Primary: "#7C3AED", // Purple
			Accent:  "#F59E0B", // Amber

			Success: "#10B981",
			Error:   "#EF4444",

			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",

			BgSecondary: "#1F2937",
			BgTertiary:  "#374151",

			Directory: "#3B82F6",
			Symlink:   "#06B6D4",

			ToastSuccessText: "#000000", // Black on green
			ToastErrorText:   "#FFFFFF", // White on red

			MarkdownTheme: "dark",
		},
	}

	// DraculaTheme is a Dracula-inspired dark theme with vibrant colors
	DraculaTheme = Theme{
		Name:        "dracula",
		DisplayName: "Dracula",
		Colors: ColorPalette{
			Primary: "#BD93F9", // Purple
			Accent:  "#FFB86C", // Orange

			Success: "#50FA7B",
			Error:   "#FF5555",

			TextPrimary:   "#F8F8F2",
			TextSecondary: "#BFBFBF",
			TextMuted:     "#6272A4", // Comment

			BgSecondary: "#343746",
			BgTertiary:  "#44475A", // Current Line

			Directory: "#8BE9FD", // Cyan
			Symlink:   "#FF79C6", // Pink

			ToastSuccessText: "#282A36",
			ToastErrorText:   "#F8F8F2",

			MarkdownTheme: "dracula",
		},
	}

	// LightTheme is for light terminal backgrounds
	LightTheme = Theme{
		Name:        "light",
		DisplayName: "Light",
		Colors: ColorPalette{
			Primary: "#6D28D9",
			Accent:  "#B45309",

			Success: "#047857",
			Error:   "#B91C1C",

			TextPrimary:   "#111827",
			TextSecondary: "#374151",
			TextMuted:     "#6B7280",

			BgSecondary: "#E5E7EB",
			BgTertiary:  "#D1D5DB",

			Directory: "#1D4ED8",
			Symlink:   "#0E7490",

			ToastSuccessText: "#FFFFFF",
			ToastErrorText:   "#FFFFFF",

			MarkdownTheme: "light",
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	"default": DefaultTheme,
	"dracula": DraculaTheme,
	"light":   LightTheme,
}

// currentTheme tracks the active theme name
var currentTheme = "default"

// IsValidHexColor checks if a string is a valid hex color code (#RRGGBB or #RRGGBBAA)
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme checks if a theme name exists in the registry
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return DefaultTheme
}

// GetCurrentThemeName returns the name of the currently active theme
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ListThemes returns the names of all available themes in sorted order
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheme applies a theme by name with color overrides from config.
// Unknown theme names and invalid colors are errors; nothing is applied
// in that case.
func ApplyTheme(name string, overrides map[string]string) error {
	if name == "" {
		name = "default"
	}
	if !IsValidTheme(name) {
		return fmt.Errorf("unknown theme %q (have %v)", name, ListThemes())
	}
	theme := GetTheme(name)
	if err := applyOverrides(&theme.Colors, overrides); err != nil {
		return err
	}

	ApplyThemeColors(theme)
	themeMu.Lock()
	currentTheme = name
	themeMu.Unlock()
	return nil
}

// applyOverrides applies color overrides to a palette.
func applyOverrides(palette *ColorPalette, overrides map[string]string) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := overrides[key]
		if key == "markdownTheme" {
			palette.MarkdownTheme = value
			continue
		}
		field := paletteField(palette, key)
		if field == nil {
			return fmt.Errorf("unknown color %q", key)
		}
		if !IsValidHexColor(value) {
			return fmt.Errorf("color %s: invalid hex value %q", key, value)
		}
		*field = value
	}
	return nil
}

func paletteField(p *ColorPalette, key string) *string {
	switch key {
	case "primary":
		return &p.Primary
	case "accent":
		return &p.Accent
	case "success":
		return &p.Success
	case "error":
		return &p.Error
	case "textPrimary":
		return &p.TextPrimary
	case "textSecondary":
		return &p.TextSecondary
	case "textMuted":
		return &p.TextMuted
	case "bgSecondary":
		return &p.BgSecondary
	case "bgTertiary":
		return &p.BgTertiary
	case "directory":
		return &p.Directory
	case "symlink":
		return &p.Symlink
	case "toastSuccessText":
		return &p.ToastSuccessText
	case "toastErrorText":
		return &p.ToastErrorText
	}
	return nil
}

// ApplyThemeColors updates the color variables and rebuilds every style.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Error = lipgloss.Color(c.Error)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)

	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)

	DirColor = lipgloss.Color(c.Directory)
	SymlinkColor = lipgloss.Color(c.Symlink)

	ToastSuccessTextColor = lipgloss.Color(c.ToastSuccessText)
	ToastErrorTextColor = lipgloss.Color(c.ToastErrorText)

	CurrentMarkdownTheme = c.MarkdownTheme

	rebuildStyles()
}

// GetMarkdownTheme returns the glamour style for the current theme.
func GetMarkdownTheme() string {
	return CurrentMarkdownTheme
}
