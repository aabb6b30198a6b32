package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termdeck/termdeck/internal/components/sidebar"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))

	m := New(dir)
	t.Cleanup(func() { m.monitor.Stop() })

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// reloadSidebar runs the sidebar's pending reload and feeds the result
// back through the root model.
func reloadSidebar(t *testing.T, m *Model) {
	t.Helper()
	msg := m.sidebar.Reload()()
	reloaded, ok := msg.(sidebar.ReloadedMsg)
	require.True(t, ok)
	m.Update(reloaded)
}

func TestInitialState(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, PanelTerminal, m.focus)
	assert.Len(t, m.tabs, 1)
	assert.True(t, m.ready)
}

func TestFocusCycle(t *testing.T) {
	m := newTestModel(t)
	m.sidebarVisible = true
	m.previewVisible = true
	m.updateSizes()

	m.cycleFocus(1)
	assert.Equal(t, PanelPreview, m.focus)
	m.cycleFocus(1)
	assert.Equal(t, PanelSidebar, m.focus)
	m.cycleFocus(1)
	assert.Equal(t, PanelTerminal, m.focus)

	m.cycleFocus(-1)
	assert.Equal(t, PanelSidebar, m.focus)
}

func TestFocusCycleSkipsHiddenPanels(t *testing.T) {
	m := newTestModel(t)
	m.sidebarVisible = false
	m.previewVisible = false
	m.updateSizes()

	m.cycleFocus(1)
	assert.Equal(t, PanelTerminal, m.focus)
}

func TestTabManagement(t *testing.T) {
	m := newTestModel(t)

	t.Run("open adds and activates", func(t *testing.T) {
		m.openTab()
		require.Len(t, m.tabs, 2)
		assert.Equal(t, 1, m.active)
		assert.NotEqual(t, m.tabs[0].ID(), m.tabs[1].ID())
	})

	t.Run("select wraps both directions", func(t *testing.T) {
		m.selectTab(2)
		assert.Equal(t, 0, m.active)
		m.selectTab(-1)
		assert.Equal(t, 1, m.active)
	})

	t.Run("close clamps active index", func(t *testing.T) {
		m.closeTab(1)
		require.Len(t, m.tabs, 1)
		assert.Equal(t, 0, m.active)
	})

	t.Run("close out of range is a no-op", func(t *testing.T) {
		m.closeTab(5)
		assert.Len(t, m.tabs, 1)
	})
}

func TestToggleSidebarKeepsFocusValid(t *testing.T) {
	m := newTestModel(t)
	m.sidebarVisible = true
	m.updateSizes()
	m.setFocus(PanelSidebar)

	m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.False(t, m.sidebarVisible)
	assert.Equal(t, PanelTerminal, m.focus)
}

func TestMenuItemsContextual(t *testing.T) {
	m := newTestModel(t)
	reloadSidebar(t, m)

	t.Run("file selected adds file actions", func(t *testing.T) {
		require.NotEmpty(t, m.sidebar.SelectedPath())
		ids := make([]string, 0)
		for _, it := range m.menuItems() {
			ids = append(ids, it.ID)
		}
		assert.Contains(t, ids, "open")
		assert.Contains(t, ids, "copy-path")
		assert.Contains(t, ids, "reveal-diff")
		assert.Contains(t, ids, "new-tab")
	})
}

func TestMenuActionTogglePreview(t *testing.T) {
	m := newTestModel(t)
	require.False(t, m.previewVisible)

	m.handleMenuAction("toggle-preview")
	assert.True(t, m.previewVisible)
	m.handleMenuAction("toggle-preview")
	assert.False(t, m.previewVisible)
}

func TestOpenMsgShowsPreview(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(sidebar.OpenMsg{Path: "/tmp/x.go"})

	assert.True(t, m.previewVisible)
	assert.Equal(t, PanelPreview, m.focus)
	assert.NotNil(t, cmd)
}

func TestGitRefreshUpdatesStatusBar(t *testing.T) {
	m := newTestModel(t)
	m.Update(GitRefreshedMsg{Branch: "main", IsRepo: true, Dirty: true})

	bar := m.renderStatusBar()
	assert.Contains(t, bar, "main")
}

func TestPanelAt(t *testing.T) {
	m := newTestModel(t)
	m.sidebarVisible = true
	m.previewVisible = false
	m.updateSizes()

	panel, _, _ := m.panelAt(1, 5)
	assert.Equal(t, PanelSidebar, panel)

	panel, _, _ = m.panelAt(m.width-2, 5)
	assert.Equal(t, PanelTerminal, panel)
}

func TestViewRendersPanels(t *testing.T) {
	m := newTestModel(t)
	m.sidebarVisible = true
	m.updateSizes()

	view := m.View()
	assert.Contains(t, view, "FILES")
	lines := strings.Split(view, "\n")
	assert.Equal(t, m.height, len(lines))
}

func TestSpliceOverlay(t *testing.T) {
	base := "a\nb\nc\nd"
	over := "X\nY"

	assert.Equal(t, "a\nb\nX\nY", spliceOverlay(base, over))

	t.Run("oversized overlay leaves base untouched", func(t *testing.T) {
		assert.Equal(t, base, spliceOverlay(base, "1\n2\n3\n4\n5"))
	})
}

func TestItoa(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "7", itoa(7))
	assert.Equal(t, "42", itoa(42))
	assert.Equal(t, "120", itoa(120))
}

func TestPanelIDString(t *testing.T) {
	assert.Equal(t, "FILES", PanelSidebar.String())
	assert.Equal(t, "TERMINAL", PanelTerminal.String())
	assert.Equal(t, "PREVIEW", PanelPreview.String())
}
