package layout

// Layout constants
const (
	DefaultSidebarPercent = 25
	MinSidebarPercent     = 15
	MaxSidebarPercent     = 60
	PreviewPercent        = 50 // preview takes half the work area when open
	TabBarHeight          = 1
	StatusBarHeight       = 1
	MinPanelWidth         = 20
	MinPanelHeight        = 5
)

// Layout holds calculated dimensions for all panels.
type Layout struct {
	TotalWidth  int
	TotalHeight int

	SidebarWidth int
	WorkWidth    int // everything right of the sidebar

	TerminalWidth int
	PreviewWidth  int

	MainHeight   int // rows below the tab bar, above the status bar
	TabHeight    int
	StatusHeight int

	SidebarVisible bool
	PreviewVisible bool
}

// Calculate computes panel dimensions for the terminal size.
// sidebarPercent controls the sidebar width; previewVisible splits the
// work area between the terminal and the preview panel.
func Calculate(width, height int, sidebarPercent int, sidebarVisible, previewVisible bool) Layout {
	l := Layout{
		TotalWidth:     width,
		TotalHeight:    height,
		TabHeight:      TabBarHeight,
		StatusHeight:   StatusBarHeight,
		SidebarVisible: sidebarVisible,
		PreviewVisible: previewVisible,
	}

	if sidebarPercent < MinSidebarPercent {
		sidebarPercent = MinSidebarPercent
	}
	if sidebarPercent > MaxSidebarPercent {
		sidebarPercent = MaxSidebarPercent
	}

	if sidebarVisible {
		l.SidebarWidth = max(width*sidebarPercent/100, MinPanelWidth)
	}
	l.WorkWidth = max(width-l.SidebarWidth, MinPanelWidth)
	if l.SidebarWidth+l.WorkWidth > width {
		l.WorkWidth = width - l.SidebarWidth
	}

	l.MainHeight = max(height-l.TabHeight-l.StatusHeight, MinPanelHeight)

	if previewVisible {
		l.PreviewWidth = max(l.WorkWidth*PreviewPercent/100, MinPanelWidth)
		l.TerminalWidth = max(l.WorkWidth-l.PreviewWidth, MinPanelWidth)
	} else {
		l.TerminalWidth = l.WorkWidth
		l.PreviewWidth = 0
	}

	return l
}

// ContentWidth returns the inner width for content (excluding borders).
func (l Layout) ContentWidth(panelWidth, borderWidth int) int {
	return max(panelWidth-borderWidth*2, 0)
}

// ContentHeight returns the inner height for content (excluding borders).
func (l Layout) ContentHeight(panelHeight, borderHeight int) int {
	return max(panelHeight-borderHeight*2, 0)
}

// SidebarBounds returns the position and size of the file sidebar.
func (l Layout) SidebarBounds() (x, y, width, height int) {
	if !l.SidebarVisible {
		return 0, 0, 0, 0
	}
	return 0, l.TabHeight, l.SidebarWidth, l.MainHeight
}

// TabBarBounds returns the position and size of the tab strip.
func (l Layout) TabBarBounds() (x, y, width, height int) {
	return 0, 0, l.TotalWidth, l.TabHeight
}

// TerminalBounds returns the position and size of the terminal panel.
func (l Layout) TerminalBounds() (x, y, width, height int) {
	return l.SidebarWidth, l.TabHeight, l.TerminalWidth, l.MainHeight
}

// PreviewBounds returns the position and size of the preview panel.
func (l Layout) PreviewBounds() (x, y, width, height int) {
	if !l.PreviewVisible {
		return 0, 0, 0, 0
	}
	return l.SidebarWidth + l.TerminalWidth, l.TabHeight, l.PreviewWidth, l.MainHeight
}

// StatusBarBounds returns the position and size of the status bar.
func (l Layout) StatusBarBounds() (x, y, width, height int) {
	return 0, l.TabHeight + l.MainHeight, l.TotalWidth, l.StatusHeight
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
