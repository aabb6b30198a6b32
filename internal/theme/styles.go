package theme

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// FocusBorder marks the panel holding keyboard focus.
var FocusBorder = lipgloss.Border{
	Top:         "━",
	Bottom:      "━",
	Left:        "┃",
	Right:       "┃",
	TopLeft:     "┏",
	TopRight:    "┓",
	BottomLeft:  "┗",
	BottomRight: "┛",
}

// SoftBorder is used for unfocused panels and popovers.
var SoftBorder = lipgloss.Border{
	Top:         "─",
	Bottom:      "─",
	Left:        "│",
	Right:       "│",
	TopLeft:     "╭",
	TopRight:    "╮",
	BottomLeft:  "╰",
	BottomRight: "╯",
}

// Panel styles
var (
	PanelFocused lipgloss.Style
	PanelBlurred lipgloss.Style
)

// Text styles
var (
	Title     lipgloss.Style
	Body      lipgloss.Style
	Soft      lipgloss.Style
	Muted     lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style
)

// Sidebar styles
var (
	SidebarDir      lipgloss.Style
	SidebarFile     lipgloss.Style
	SidebarSelected lipgloss.Style
)

// Git mark styles
var (
	MarkModifiedStyle  lipgloss.Style
	MarkAddedStyle     lipgloss.Style
	MarkDeletedStyle   lipgloss.Style
	MarkUntrackedStyle lipgloss.Style
	BranchStyle        lipgloss.Style
)

// Diff styles
var (
	DiffAdded   lipgloss.Style
	DiffRemoved lipgloss.Style
	DiffContext lipgloss.Style
	DiffHunk    lipgloss.Style
	LineNumber  lipgloss.Style
)

// Overlay and menu styles
var (
	PopoverItem     lipgloss.Style
	PopoverSelected lipgloss.Style
	PopoverDesc     lipgloss.Style
	PopoverKind     lipgloss.Style
)

// Status bar styles
var (
	StatusBar       lipgloss.Style
	StatusSection   lipgloss.Style
	StatusHighlight lipgloss.Style
	SpinnerStyle    lipgloss.Style
)

// regenerateStyles rebuilds every derived style from the active colors.
func regenerateStyles() {
	PanelFocused = lipgloss.NewStyle().
		Border(FocusBorder).
		BorderForeground(Accent)
	PanelBlurred = lipgloss.NewStyle().
		Border(SoftBorder).
		BorderForeground(TextFaint)

	Title = lipgloss.NewStyle().Bold(true).Foreground(Highlight)
	Body = lipgloss.NewStyle().Foreground(Text)
	Soft = lipgloss.NewStyle().Foreground(TextSoft)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Faint = lipgloss.NewStyle().Foreground(TextFaint).Faint(true)
	ErrorText = lipgloss.NewStyle().Foreground(Danger)

	SidebarDir = lipgloss.NewStyle().Foreground(Highlight).Bold(true)
	SidebarFile = lipgloss.NewStyle().Foreground(Text)
	SidebarSelected = lipgloss.NewStyle().Foreground(Cursor).Bold(true)

	MarkModifiedStyle = lipgloss.NewStyle().Foreground(Warn)
	MarkAddedStyle = lipgloss.NewStyle().Foreground(Success)
	MarkDeletedStyle = lipgloss.NewStyle().Foreground(Danger)
	MarkUntrackedStyle = lipgloss.NewStyle().Foreground(TextMuted)
	BranchStyle = lipgloss.NewStyle().Foreground(Highlight).Bold(true)

	DiffAdded = lipgloss.NewStyle().Foreground(Success)
	DiffRemoved = lipgloss.NewStyle().Foreground(Danger)
	DiffContext = lipgloss.NewStyle().Foreground(TextSoft)
	DiffHunk = lipgloss.NewStyle().Foreground(Cursor).Bold(true)
	LineNumber = lipgloss.NewStyle().Foreground(TextFaint).Width(4).Align(lipgloss.Right)

	PopoverItem = lipgloss.NewStyle().Foreground(Text)
	PopoverSelected = lipgloss.NewStyle().Foreground(BgBase).Background(Accent).Bold(true)
	PopoverDesc = lipgloss.NewStyle().Foreground(TextMuted)
	PopoverKind = lipgloss.NewStyle().Foreground(Highlight)

	StatusBar = lipgloss.NewStyle().Foreground(TextSoft).Padding(0, 1)
	StatusSection = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)
	StatusHighlight = lipgloss.NewStyle().Foreground(Highlight).Bold(true)
	SpinnerStyle = lipgloss.NewStyle().Foreground(Accent)
}

// PanelStyle returns the border style matching the focus state.
func PanelStyle(focused bool) lipgloss.Style {
	if focused {
		return PanelFocused
	}
	return PanelBlurred
}

// MarkStyle returns the style for a git status marker string.
func MarkStyle(mark string) lipgloss.Style {
	switch mark {
	case MarkModified:
		return MarkModifiedStyle
	case MarkAdded:
		return MarkAddedStyle
	case MarkDeleted:
		return MarkDeletedStyle
	case MarkUntracked:
		return MarkUntrackedStyle
	default:
		return Body
	}
}

// ScrollIndicator formats a scroll percentage, or "" at the bottom.
func ScrollIndicator(percent float64) string {
	if percent >= 99.9 || percent < 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", int(percent))
}

// StatusGlyph returns the running or idle indicator.
func StatusGlyph(running bool) string {
	if running {
		return StatusRunning
	}
	return StatusIdle
}

// PanelTitleOptions configures the decorations embedded in a panel
// border.
type PanelTitleOptions struct {
	Title         string
	StatusRunning bool
	ShowStatus    bool
	ScrollPercent float64 // negative hides the indicator
	BottomHints   string
}

// RenderPanel draws content inside a bordered box with the title woven
// into the top border and optional key hints in the bottom border.
func RenderPanel(content string, opts PanelTitleOptions, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return ""
	}

	border := SoftBorder
	borderColor := TextFaint
	titleColor := TextFaint
	if focused {
		border = FocusBorder
		borderColor = Accent
		titleColor = Highlight
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(TextMuted)
	scrollStyle := lipgloss.NewStyle().Foreground(TextFaint)
	statusStyle := lipgloss.NewStyle().Foreground(TextFaint)
	if opts.StatusRunning {
		statusStyle = lipgloss.NewStyle().Foreground(Success)
	}

	innerWidth := width - 2

	top := renderTopEdge(border, borderStyle, titleStyle, scrollStyle, statusStyle, opts, innerWidth)
	bottom := renderBottomEdge(border, borderStyle, hintStyle, opts.BottomHints, innerWidth)

	contentHeight := height - 2
	if contentHeight < 0 {
		contentHeight = 0
	}

	contentLines := strings.Split(content, "\n")
	rows := make([]string, contentHeight)
	clip := lipgloss.NewStyle().MaxWidth(innerWidth)
	left := borderStyle.Render(border.Left)
	right := borderStyle.Render(border.Right)
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		line = clip.Render(line)
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		rows[i] = left + line + right
	}

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n")
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")
	b.WriteString(bottom)
	return b.String()
}

func renderTopEdge(border lipgloss.Border, borderStyle, titleStyle, scrollStyle, statusStyle lipgloss.Style, opts PanelTitleOptions, innerWidth int) string {
	titleSegment := "[ " + titleStyle.Render(opts.Title)
	if opts.ShowStatus {
		titleSegment += " " + statusStyle.Render(StatusGlyph(opts.StatusRunning))
	}
	titleSegment += " ]"

	var scrollSegment string
	if text := ScrollIndicator(opts.ScrollPercent); opts.ScrollPercent >= 0 && text != "" {
		scrollSegment = "[ " + scrollStyle.Render(text) + " ]"
	}

	titleWidth := utf8.RuneCountInString(stripAnsi(titleSegment))
	scrollWidth := utf8.RuneCountInString(stripAnsi(scrollSegment))

	leftFill := 2
	rightFill := innerWidth - leftFill - titleWidth - scrollWidth
	if rightFill < 0 {
		rightFill = 0
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(border.TopLeft))
	b.WriteString(borderStyle.Render(strings.Repeat(border.Top, leftFill)))
	b.WriteString(titleSegment)
	if scrollSegment != "" {
		gap := rightFill - scrollWidth
		if gap < 0 {
			gap = 0
		}
		b.WriteString(borderStyle.Render(strings.Repeat(border.Top, gap)))
		b.WriteString(scrollSegment)
		b.WriteString(borderStyle.Render(strings.Repeat(border.Top, scrollWidth)))
	} else {
		b.WriteString(borderStyle.Render(strings.Repeat(border.Top, rightFill)))
	}
	b.WriteString(borderStyle.Render(border.TopRight))
	return b.String()
}

func renderBottomEdge(border lipgloss.Border, borderStyle, hintStyle lipgloss.Style, hints string, innerWidth int) string {
	if hints == "" {
		return borderStyle.Render(border.BottomLeft) +
			borderStyle.Render(strings.Repeat(border.Bottom, innerWidth)) +
			borderStyle.Render(border.BottomRight)
	}

	hintSegment := "[ " + hintStyle.Render(hints) + " ]"
	hintWidth := utf8.RuneCountInString(stripAnsi(hintSegment))

	leftFill := 2
	rightFill := innerWidth - leftFill - hintWidth
	if rightFill < 0 {
		rightFill = 0
	}

	var b strings.Builder
	b.WriteString(borderStyle.Render(border.BottomLeft))
	b.WriteString(borderStyle.Render(strings.Repeat(border.Bottom, leftFill)))
	b.WriteString(hintSegment)
	b.WriteString(borderStyle.Render(strings.Repeat(border.Bottom, rightFill)))
	b.WriteString(borderStyle.Render(border.BottomRight))
	return b.String()
}

// stripAnsi removes ANSI escape sequences.
func stripAnsi(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
