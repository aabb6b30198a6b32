package app

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/termdeck/termdeck/internal/completion"
	"github.com/termdeck/termdeck/internal/components/menu"
	"github.com/termdeck/termdeck/internal/components/overlay"
	"github.com/termdeck/termdeck/internal/components/preview"
	"github.com/termdeck/termdeck/internal/components/sidebar"
	"github.com/termdeck/termdeck/internal/components/terminal"
	"github.com/termdeck/termdeck/internal/git"
	"github.com/termdeck/termdeck/internal/history"
	"github.com/termdeck/termdeck/internal/layout"
	"github.com/termdeck/termdeck/internal/listing"
	"github.com/termdeck/termdeck/internal/logging"
	"github.com/termdeck/termdeck/internal/state"
	"github.com/termdeck/termdeck/internal/theme"
	"github.com/termdeck/termdeck/internal/watch"
)

// Version is set at build time via ldflags.
var Version = "dev"

// gitTickInterval is how often git status is polled between watcher events.
const gitTickInterval = 10 * time.Second

// PanelID identifies a focusable panel.
type PanelID int

const (
	PanelSidebar PanelID = iota
	PanelTerminal
	PanelPreview
)

func (p PanelID) String() string {
	switch p {
	case PanelSidebar:
		return "FILES"
	case PanelTerminal:
		return "TERMINAL"
	case PanelPreview:
		return "PREVIEW"
	}
	return "?"
}

// Model is the root application model.
type Model struct {
	// Child components
	tabs    []*terminal.Model
	active  int
	nextID  int
	sidebar *sidebar.Model
	preview *preview.Model
	overlay *overlay.Model
	menu    *menu.Model

	// Services
	scanner  *git.Scanner
	pipeline *completion.Pipeline
	monitor  *watch.Monitor

	// Git status for the status bar
	branch  string
	isRepo  bool
	isDirty bool

	// Focus and visibility
	focus          PanelID
	sidebarVisible bool
	previewVisible bool

	// Layout
	layout         layout.Layout
	sidebarPercent int
	width          int
	height         int
	ready          bool

	workDir string
	shell   string
	keys    KeyMap

	// send delivers messages from service goroutines into the program.
	send func(tea.Msg)
}

// New creates the application model rooted at workDir.
func New(workDir string) *Model {
	saved := state.Load()
	theme.SetIndex(saved.ThemeIndex)

	sidebarPercent := saved.SidebarPercent
	if sidebarPercent < layout.MinSidebarPercent || sidebarPercent > layout.MaxSidebarPercent {
		sidebarPercent = layout.DefaultSidebarPercent
	}

	shell := saved.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	scanner := git.NewScanner(git.ExecRunner{})
	svc := listing.NewService(scanner)

	sb := sidebar.New(svc, workDir)
	sb.SetShowHidden(saved.ShowHidden)

	m := &Model{
		sidebar:        sb,
		preview:        preview.New(),
		menu:           menu.New(),
		scanner:        scanner,
		focus:          PanelTerminal,
		sidebarVisible: saved.SidebarVisible,
		sidebarPercent: sidebarPercent,
		workDir:        workDir,
		shell:          shell,
		keys:           DefaultKeyMap(),
	}

	cfg := completion.Config{
		History: history.NewReader(),
		WorkDir: workDir,
		Shell:   shell,
		OnChange: func() {
			m.notify(CompletionChangedMsg{})
		},
	}
	if endpoint := os.Getenv("TERMDECK_COMPLETION_URL"); endpoint != "" {
		cfg.Client = completion.NewHTTPClient(endpoint)
	}
	m.pipeline = completion.NewPipeline(cfg)
	m.overlay = overlay.New(m.pipeline.Session())

	m.monitor = m.newMonitor(workDir)
	m.tabs = []*terminal.Model{terminal.New(m.nextID, shell, workDir)}
	m.nextID++

	return m
}

// SetSend installs the program's message injector. Must be called
// before Run.
func (m *Model) SetSend(send func(tea.Msg)) {
	m.send = send
}

func (m *Model) notify(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

func (m *Model) newMonitor(dir string) *watch.Monitor {
	mon := watch.NewMonitor(dir, watch.DefaultDebounce, func() {
		m.notify(FSChangedMsg{})
	})
	if err := mon.Start(); err != nil {
		logging.Logger.Debug("monitor start failed", "dir", dir, "err", err)
	}
	return mon
}

// Init starts the first terminal tab and the initial git scan.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.sidebar.Init(),
		m.refreshGit(),
		gitTick(),
	}
	for _, tab := range m.tabs {
		cmds = append(cmds, startTab(tab))
	}
	return tea.Batch(cmds...)
}

// startTab defers the PTY launch until the command runs.
func startTab(tab *terminal.Model) tea.Cmd {
	return func() tea.Msg {
		if cmd := tab.Start(); cmd != nil {
			return cmd()
		}
		return nil
	}
}

func gitTick() tea.Cmd {
	return tea.Tick(gitTickInterval, func(time.Time) tea.Msg {
		return gitTickMsg{}
	})
}

// refreshGit rescans the repository rooted at the sidebar's directory.
func (m *Model) refreshGit() tea.Cmd {
	scanner := m.scanner
	root := m.sidebar.Dir()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		scanner.Refresh(ctx, root)
		return GitRefreshedMsg{
			Branch: scanner.Branch(),
			IsRepo: scanner.IsRepository(),
			Dirty:  scanner.Entries() > 0,
		}
	}
}

func (m *Model) loadDiff(path string) tea.Cmd {
	scanner := m.scanner
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		diff, err := scanner.Diff(ctx, path)
		return DiffLoadedMsg{Path: path, Diff: diff, Err: err}
	}
}

// Update handles all application messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.routeMouse(msg)

	case terminal.OutputMsg:
		return m, m.routeToTab(msg.ID, msg)

	case terminal.ExitMsg:
		return m, m.handleTabExit(msg)

	case sidebar.ReloadedMsg:
		return m, m.sidebar.Update(msg)

	case sidebar.OpenMsg:
		m.previewVisible = true
		m.updateSizes()
		m.setFocus(PanelPreview)
		return m, preview.LoadFile(msg.Path)

	case sidebar.DirChangedMsg:
		m.monitor.Stop()
		m.monitor = m.newMonitor(msg.Dir)
		return m, m.refreshGit()

	case preview.FileLoadedMsg:
		return m, m.preview.Update(msg)

	case DiffLoadedMsg:
		if msg.Err != nil {
			logging.Logger.Debug("diff failed", "path", msg.Path, "err", msg.Err)
			return m, nil
		}
		m.previewVisible = true
		m.updateSizes()
		m.preview.ShowDiff(msg.Path, msg.Diff)
		m.setFocus(PanelPreview)
		return m, nil

	case menu.SelectedMsg:
		return m, m.handleMenuAction(msg.ID)

	case GitRefreshedMsg:
		m.branch = msg.Branch
		m.isRepo = msg.IsRepo
		m.isDirty = msg.Dirty
		return m, m.sidebar.Reload()

	case gitTickMsg:
		return m, tea.Batch(m.refreshGit(), gitTick())

	case FSChangedMsg:
		return m, tea.Batch(m.refreshGit(), m.sidebar.Reload())

	case CompletionChangedMsg:
		// Repaint; the overlay reads the session directly.
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The menu captures all input while open.
	if m.menu.IsOpen() {
		return m, m.menu.Update(msg)
	}

	// Completion overlay: tab accepts, navigation keys cycle.
	if m.overlay.Visible() && m.focus == PanelTerminal {
		switch msg.Type {
		case tea.KeyTab:
			m.acceptCompletion()
			return m, nil
		case tea.KeyUp, tea.KeyDown, tea.KeyEscape:
			return m, m.overlay.Update(msg)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.shutdown()
	case key.Matches(msg, m.keys.Menu):
		return m, m.menu.Open(m.menuItems())
	case key.Matches(msg, m.keys.FocusNext):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.FocusPrev):
		m.cycleFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarVisible = !m.sidebarVisible
		if !m.sidebarVisible && m.focus == PanelSidebar {
			m.setFocus(PanelTerminal)
		}
		m.updateSizes()
		return m, nil
	case key.Matches(msg, m.keys.TogglePreview):
		m.previewVisible = !m.previewVisible
		if !m.previewVisible && m.focus == PanelPreview {
			m.setFocus(PanelTerminal)
		}
		m.updateSizes()
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		theme.Next()
		return m, nil
	case key.Matches(msg, m.keys.NewTab):
		return m, m.openTab()
	case key.Matches(msg, m.keys.CloseTab):
		return m, m.closeTab(m.active)
	case key.Matches(msg, m.keys.NextTab):
		m.selectTab(m.active + 1)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.selectTab(m.active - 1)
		return m, nil
	}

	return m, m.routeToFocused(msg)
}

// routeToFocused delivers a key to the focused panel. Terminal
// keystrokes additionally drive the completion pipeline.
func (m *Model) routeToFocused(msg tea.KeyMsg) tea.Cmd {
	switch m.focus {
	case PanelSidebar:
		return m.sidebar.Update(msg)
	case PanelPreview:
		return m.preview.Update(msg)
	case PanelTerminal:
		tab := m.activeTab()
		if tab == nil {
			return nil
		}
		cmd := tab.Update(msg)
		if tab.InteractiveChild() {
			m.pipeline.Dismiss()
		} else {
			m.pipeline.Request(tab.InputLine(), tab.InputCursor())
		}
		return cmd
	}
	return nil
}

// acceptCompletion applies the selected completion to the shell line.
func (m *Model) acceptCompletion() {
	tab := m.activeTab()
	if tab == nil {
		m.pipeline.Dismiss()
		return
	}
	prefixLen := m.pipeline.Session().PrefixLength()
	comp, ok := m.overlay.Accept()
	if !ok {
		return
	}
	tab.ApplyCompletion(prefixLen, comp.Insert)
	m.pipeline.Dismiss()
}

// Tab management.

func (m *Model) activeTab() *terminal.Model {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

func (m *Model) openTab() tea.Cmd {
	tab := terminal.New(m.nextID, m.shell, m.sidebar.Dir())
	m.nextID++
	m.tabs = append(m.tabs, tab)
	m.active = len(m.tabs) - 1
	m.setFocus(PanelTerminal)
	m.updateSizes()
	return startTab(tab)
}

func (m *Model) closeTab(index int) tea.Cmd {
	if index < 0 || index >= len(m.tabs) {
		return nil
	}
	m.tabs[index].Stop()
	m.tabs = append(m.tabs[:index], m.tabs[index+1:]...)
	if len(m.tabs) == 0 {
		return m.shutdown()
	}
	if m.active >= len(m.tabs) {
		m.active = len(m.tabs) - 1
	}
	return nil
}

func (m *Model) selectTab(index int) {
	if len(m.tabs) == 0 {
		return
	}
	// Wrap around.
	index = ((index % len(m.tabs)) + len(m.tabs)) % len(m.tabs)
	m.active = index
	m.pipeline.Dismiss()
}

func (m *Model) routeToTab(id int, msg tea.Msg) tea.Cmd {
	for _, tab := range m.tabs {
		if tab.ID() == id {
			return tab.Update(msg)
		}
	}
	return nil
}

func (m *Model) handleTabExit(msg terminal.ExitMsg) tea.Cmd {
	for i, tab := range m.tabs {
		if tab.ID() == msg.ID {
			return m.closeTab(i)
		}
	}
	return nil
}

// shutdown stops all subsystems, persists state, and quits.
func (m *Model) shutdown() tea.Cmd {
	for _, tab := range m.tabs {
		tab.Stop()
	}
	m.monitor.Stop()
	m.saveState()
	return tea.Quit
}

func (m *Model) saveState() {
	err := state.Save(state.State{
		ThemeIndex:     theme.CurrentIndex(),
		SidebarPercent: m.sidebarPercent,
		SidebarVisible: m.sidebarVisible,
		ShowHidden:     m.sidebar.ShowHidden(),
		Shell:          m.shell,
	})
	if err != nil {
		logging.Logger.Debug("state save failed", "err", err)
	}
}

// Menu.

func (m *Model) menuItems() []menu.Item {
	items := []menu.Item{
		{ID: "new-tab", Title: "New terminal tab", Hint: "ctrl+n"},
		{ID: "close-tab", Title: "Close terminal tab", Hint: "ctrl+w"},
		{ID: "toggle-preview", Title: "Toggle preview panel", Hint: "ctrl+o"},
		{ID: "toggle-sidebar", Title: "Toggle sidebar", Hint: "ctrl+b"},
		{ID: "toggle-hidden", Title: "Toggle hidden files"},
		{ID: "cycle-theme", Title: "Cycle theme", Hint: "ctrl+g"},
	}
	if path := m.sidebar.SelectedPath(); path != "" && !m.sidebar.SelectedIsDir() {
		items = append([]menu.Item{
			{ID: "open", Title: "Open file in preview"},
			{ID: "copy-path", Title: "Copy file path"},
			{ID: "reveal-diff", Title: "Reveal git diff"},
		}, items...)
	}
	return items
}

func (m *Model) handleMenuAction(id string) tea.Cmd {
	switch id {
	case "open":
		if path := m.sidebar.SelectedPath(); path != "" {
			m.previewVisible = true
			m.updateSizes()
			m.setFocus(PanelPreview)
			return preview.LoadFile(path)
		}
	case "copy-path":
		if path := m.sidebar.SelectedPath(); path != "" {
			if err := clipboard.WriteAll(path); err != nil {
				logging.Logger.Debug("clipboard write failed", "err", err)
			}
		}
	case "reveal-diff":
		if path := m.sidebar.SelectedPath(); path != "" {
			return m.loadDiff(path)
		}
	case "new-tab":
		return m.openTab()
	case "close-tab":
		return m.closeTab(m.active)
	case "toggle-preview":
		m.previewVisible = !m.previewVisible
		m.updateSizes()
	case "toggle-sidebar":
		m.sidebarVisible = !m.sidebarVisible
		m.updateSizes()
	case "toggle-hidden":
		cmd := m.sidebar.SetShowHidden(!m.sidebar.ShowHidden())
		m.saveState()
		return cmd
	case "cycle-theme":
		theme.Next()
	}
	return nil
}

// Focus.

func (m *Model) setFocus(target PanelID) {
	m.sidebar.Blur()
	m.preview.Blur()
	for _, tab := range m.tabs {
		tab.Blur()
	}
	if target != PanelTerminal {
		m.pipeline.Dismiss()
	}

	m.focus = target
	switch target {
	case PanelSidebar:
		m.sidebar.Focus()
	case PanelPreview:
		m.preview.Focus()
	case PanelTerminal:
		if tab := m.activeTab(); tab != nil {
			tab.Focus()
		}
	}
}

func (m *Model) cycleFocus(dir int) {
	order := []PanelID{PanelTerminal}
	if m.sidebarVisible {
		order = append([]PanelID{PanelSidebar}, order...)
	}
	if m.previewVisible {
		order = append(order, PanelPreview)
	}

	cur := 0
	for i, p := range order {
		if p == m.focus {
			cur = i
			break
		}
	}
	next := ((cur+dir)%len(order) + len(order)) % len(order)
	m.setFocus(order[next])
}

// Layout.

func (m *Model) updateSizes() {
	if !m.ready {
		return
	}
	m.layout = layout.Calculate(m.width, m.height, m.sidebarPercent, m.sidebarVisible, m.previewVisible)

	_, _, sw, sh := m.layout.SidebarBounds()
	m.sidebar.SetSize(m.layout.ContentWidth(sw, 2), m.layout.ContentHeight(sh, 2))

	_, _, tw, th := m.layout.TerminalBounds()
	for _, tab := range m.tabs {
		tab.SetSize(m.layout.ContentWidth(tw, 2), m.layout.ContentHeight(th, 2))
	}

	_, _, pw, ph := m.layout.PreviewBounds()
	if m.previewVisible {
		m.preview.SetSize(m.layout.ContentWidth(pw, 2), m.layout.ContentHeight(ph, 2))
	}

	m.overlay.SetSize(min(44, m.layout.ContentWidth(tw, 2)), 10)
	m.menu.SetSize(min(64, m.width-4), 14)
}

// Mouse routing: translate to panel-local content coordinates and
// focus the panel under the press.
func (m *Model) routeMouse(msg tea.MouseMsg) tea.Cmd {
	target, ox, oy := m.panelAt(msg.X, msg.Y)

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && target != m.focus {
		m.setFocus(target)
	}

	// Translate to panel content coordinates, inside the border.
	local := msg
	local.X = msg.X - ox - 1
	local.Y = msg.Y - oy - 1

	switch target {
	case PanelSidebar:
		return m.sidebar.Update(local)
	case PanelPreview:
		return m.preview.Update(local)
	case PanelTerminal:
		if tab := m.activeTab(); tab != nil {
			return tab.Update(local)
		}
	}
	return nil
}

// panelAt returns the panel under the screen position and that panel's
// top-left corner.
func (m *Model) panelAt(x, y int) (PanelID, int, int) {
	within := func(bx, by, bw, bh int) bool {
		return x >= bx && x < bx+bw && y >= by && y < by+bh
	}

	if m.sidebarVisible {
		if bx, by, bw, bh := m.layout.SidebarBounds(); within(bx, by, bw, bh) {
			return PanelSidebar, bx, by
		}
	}
	if m.previewVisible {
		if bx, by, bw, bh := m.layout.PreviewBounds(); within(bx, by, bw, bh) {
			return PanelPreview, bx, by
		}
	}
	bx, by, _, _ := m.layout.TerminalBounds()
	return PanelTerminal, bx, by
}

// View renders the full screen.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	tabBar := m.renderTabBar()

	panels := make([]string, 0, 3)
	if m.sidebarVisible {
		panels = append(panels, m.renderSidebarPanel())
	}
	panels = append(panels, m.renderTerminalPanel())
	if m.previewVisible {
		panels = append(panels, m.renderPreviewPanel())
	}
	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, panels...)

	view := lipgloss.JoinVertical(lipgloss.Left, tabBar, mainArea, m.renderStatusBar())

	if m.menu.IsOpen() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.menu.View())
	}
	return view
}

func (m *Model) renderTabBar() string {
	var b strings.Builder
	for i, tab := range m.tabs {
		label := " " + tab.Title() + " "
		if i == m.active {
			b.WriteString(theme.StatusHighlight.Render(label))
		} else {
			b.WriteString(theme.StatusSection.Render(label))
		}
		b.WriteString(" ")
	}
	return theme.StatusBar.Width(m.width).Render(b.String())
}

func (m *Model) renderSidebarPanel() string {
	focused := m.focus == PanelSidebar
	var hints string
	if focused {
		hints = "↑↓:nav  enter:open  bksp:up"
	}
	opts := theme.PanelTitleOptions{
		Title:         "FILES",
		ScrollPercent: m.sidebar.ScrollPercent(),
		BottomHints:   hints,
	}
	_, _, w, h := m.layout.SidebarBounds()
	return theme.RenderPanel(m.sidebar.View(), opts, w, h, focused)
}

func (m *Model) renderTerminalPanel() string {
	focused := m.focus == PanelTerminal
	tab := m.activeTab()

	var content, title string
	running := false
	if tab != nil {
		content = tab.View()
		title = tab.Title()
		running = tab.Running()
	}

	// The completion overlay paints over the bottom of the terminal.
	if m.overlay.Visible() && focused {
		content = spliceOverlay(content, m.overlay.View())
	}

	opts := theme.PanelTitleOptions{
		Title:         title,
		StatusRunning: running,
		ShowStatus:    true,
		ScrollPercent: -1,
	}
	_, _, w, h := m.layout.TerminalBounds()
	return theme.RenderPanel(content, opts, w, h, focused)
}

func (m *Model) renderPreviewPanel() string {
	focused := m.focus == PanelPreview
	var hints string
	if focused {
		hints = "/:search  n/p:match"
	}
	title := "PREVIEW"
	if p := m.preview.Path(); p != "" {
		title = p
	}
	opts := theme.PanelTitleOptions{
		Title:         title,
		ScrollPercent: m.preview.ScrollPercent(),
		BottomHints:   hints,
	}
	_, _, w, h := m.layout.PreviewBounds()
	return theme.RenderPanel(m.preview.View(), opts, w, h, focused)
}

// spliceOverlay replaces the bottom lines of base with the overlay
// box, keeping the line count unchanged.
func spliceOverlay(base, over string) string {
	baseLines := strings.Split(base, "\n")
	overLines := strings.Split(over, "\n")
	if len(overLines) >= len(baseLines) {
		return base
	}
	start := len(baseLines) - len(overLines)
	copy(baseLines[start:], overLines)
	return strings.Join(baseLines, "\n")
}

func (m *Model) renderStatusBar() string {
	var branch string
	if m.isRepo && m.branch != "" {
		branch = " " + theme.BranchStyle.Render(theme.BranchIcon+" "+m.branch)
		if m.isDirty {
			branch += lipgloss.NewStyle().Foreground(theme.Warn).Render(" " + theme.DirtyMark)
		}
	}

	focusInfo := theme.StatusSection.Render(" │ " + m.focus.String())
	tabInfo := theme.StatusSection.Render(" │ " + itoa(len(m.tabs)) + " tabs")
	help := theme.StatusSection.Render(" │ ^P menu │ ^Q quit")

	themeName := theme.StatusHighlight.Render(theme.Current().Name)
	version := theme.StatusSection.Render(Version)

	left := branch + focusInfo + tabInfo + help
	right := themeName + " │ " + version

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}
	return theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var s string
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
