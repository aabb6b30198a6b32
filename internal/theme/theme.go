package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the full set of colors a theme provides.
type Palette struct {
	Accent    lipgloss.Color // primary accent, focused borders
	Highlight lipgloss.Color // secondary accent, titles
	Cursor    lipgloss.Color // selections and cursors
	Success   lipgloss.Color // additions, running indicators
	Danger    lipgloss.Color // deletions, errors
	Warn      lipgloss.Color // modified files, warnings

	BgBase  lipgloss.Color // application background
	BgPanel lipgloss.Color // panel background
	BgRaise lipgloss.Color // focused panel / popover background

	Text      lipgloss.Color // primary text
	TextSoft  lipgloss.Color // secondary text
	TextMuted lipgloss.Color // hints, disabled
	TextFaint lipgloss.Color // line numbers, inactive borders
}

// Theme pairs a palette with presentation switches.
type Theme struct {
	Name         string
	UseNerdFonts bool
	Colors       Palette
}

// Active color variables. Components read these; Apply rewrites them
// when the theme changes.
var (
	Accent    lipgloss.Color
	Highlight lipgloss.Color
	Cursor    lipgloss.Color
	Success   lipgloss.Color
	Danger    lipgloss.Color
	Warn      lipgloss.Color

	BgBase  lipgloss.Color
	BgPanel lipgloss.Color
	BgRaise lipgloss.Color

	Text      lipgloss.Color
	TextSoft  lipgloss.Color
	TextMuted lipgloss.Color
	TextFaint lipgloss.Color
)

// NightwaveTheme is the default dark theme.
func NightwaveTheme() *Theme {
	return &Theme{
		Name:         "Nightwave",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:    lipgloss.Color("#7AA2F7"),
			Highlight: lipgloss.Color("#2AC3DE"),
			Cursor:    lipgloss.Color("#BB9AF7"),
			Success:   lipgloss.Color("#9ECE6A"),
			Danger:    lipgloss.Color("#F7768E"),
			Warn:      lipgloss.Color("#E0AF68"),
			BgBase:    lipgloss.Color("#16161E"),
			BgPanel:   lipgloss.Color("#1A1B26"),
			BgRaise:   lipgloss.Color("#24283B"),
			Text:      lipgloss.Color("#C0CAF5"),
			TextSoft:  lipgloss.Color("#A9B1D6"),
			TextMuted: lipgloss.Color("#565F89"),
			TextFaint: lipgloss.Color("#3B4261"),
		},
	}
}

// HarborTheme is a muted blue-gray theme.
func HarborTheme() *Theme {
	return &Theme{
		Name:         "Harbor",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:    lipgloss.Color("#88C0D0"),
			Highlight: lipgloss.Color("#81A1C1"),
			Cursor:    lipgloss.Color("#B48EAD"),
			Success:   lipgloss.Color("#A3BE8C"),
			Danger:    lipgloss.Color("#BF616A"),
			Warn:      lipgloss.Color("#EBCB8B"),
			BgBase:    lipgloss.Color("#242933"),
			BgPanel:   lipgloss.Color("#2E3440"),
			BgRaise:   lipgloss.Color("#3B4252"),
			Text:      lipgloss.Color("#ECEFF4"),
			TextSoft:  lipgloss.Color("#D8DEE9"),
			TextMuted: lipgloss.Color("#7B88A1"),
			TextFaint: lipgloss.Color("#4C566A"),
		},
	}
}

// EmberTheme is a warm dark theme.
func EmberTheme() *Theme {
	return &Theme{
		Name:         "Ember",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:    lipgloss.Color("#FE8019"),
			Highlight: lipgloss.Color("#FABD2F"),
			Cursor:    lipgloss.Color("#D3869B"),
			Success:   lipgloss.Color("#B8BB26"),
			Danger:    lipgloss.Color("#FB4934"),
			Warn:      lipgloss.Color("#FABD2F"),
			BgBase:    lipgloss.Color("#1D2021"),
			BgPanel:   lipgloss.Color("#282828"),
			BgRaise:   lipgloss.Color("#3C3836"),
			Text:      lipgloss.Color("#EBDBB2"),
			TextSoft:  lipgloss.Color("#D5C4A1"),
			TextMuted: lipgloss.Color("#928374"),
			TextFaint: lipgloss.Color("#504945"),
		},
	}
}

var (
	themes       []*Theme
	currentIndex int
)

func init() {
	themes = []*Theme{
		NightwaveTheme(),
		HarborTheme(),
		EmberTheme(),
	}
	Apply(themes[0])
}

// All returns the registered themes.
func All() []*Theme {
	return themes
}

// Current returns the active theme.
func Current() *Theme {
	return themes[currentIndex]
}

// CurrentIndex returns the index of the active theme.
func CurrentIndex() int {
	return currentIndex
}

// Next cycles to the following theme and applies it.
func Next() *Theme {
	currentIndex = (currentIndex + 1) % len(themes)
	Apply(themes[currentIndex])
	return themes[currentIndex]
}

// SetIndex activates the theme at index. Returns false when the index
// is out of range, leaving the active theme untouched.
func SetIndex(index int) bool {
	if index < 0 || index >= len(themes) {
		return false
	}
	currentIndex = index
	Apply(themes[currentIndex])
	return true
}

// Apply copies the theme's palette into the active color variables and
// rebuilds the derived styles.
func Apply(t *Theme) {
	Accent = t.Colors.Accent
	Highlight = t.Colors.Highlight
	Cursor = t.Colors.Cursor
	Success = t.Colors.Success
	Danger = t.Colors.Danger
	Warn = t.Colors.Warn

	BgBase = t.Colors.BgBase
	BgPanel = t.Colors.BgPanel
	BgRaise = t.Colors.BgRaise

	Text = t.Colors.Text
	TextSoft = t.Colors.TextSoft
	TextMuted = t.Colors.TextMuted
	TextFaint = t.Colors.TextFaint

	regenerateStyles()
}

// FileIcon returns the icon for a file extension, honoring the nerd
// font switch.
func (t *Theme) FileIcon(ext string) string {
	if !t.UseNerdFonts {
		return IconFile
	}
	return iconForExt(ext)
}

// DirIcon returns the directory icon for the expansion state.
func (t *Theme) DirIcon(expanded bool) string {
	if expanded {
		return IconDirOpen
	}
	return IconDirClosed
}
