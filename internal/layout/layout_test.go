package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		previewVisible bool
		wantSidebar    int
		wantTerminal   int
		wantPreview    int
		wantMain       int
	}{
		{
			name:         "standard layout without preview",
			width:        100,
			height:       40,
			wantSidebar:  25,
			wantTerminal: 75,
			wantPreview:  0,
			wantMain:     38, // 40 - tab bar - status bar
		},
		{
			name:           "preview splits work area",
			width:          100,
			height:         40,
			previewVisible: true,
			wantSidebar:    25,
			wantTerminal:   38,
			wantPreview:    37,
			wantMain:       38,
		},
		{
			name:         "small terminal respects sidebar minimum",
			width:        60,
			height:       20,
			wantSidebar:  20,
			wantTerminal: 40,
			wantPreview:  0,
			wantMain:     18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Calculate(tt.width, tt.height, DefaultSidebarPercent, true, tt.previewVisible)

			assert.Equal(t, tt.width, l.TotalWidth)
			assert.Equal(t, tt.height, l.TotalHeight)
			assert.Equal(t, tt.wantSidebar, l.SidebarWidth)
			assert.Equal(t, tt.wantTerminal, l.TerminalWidth)
			assert.Equal(t, tt.wantPreview, l.PreviewWidth)
			assert.Equal(t, tt.wantMain, l.MainHeight)
		})
	}
}

func TestCalculateClampsSidebarPercent(t *testing.T) {
	low := Calculate(200, 50, 5, true, false)
	assert.Equal(t, 200*MinSidebarPercent/100, low.SidebarWidth)

	high := Calculate(200, 50, 90, true, false)
	assert.Equal(t, 200*MaxSidebarPercent/100, high.SidebarWidth)
}

func TestCalculateHiddenSidebar(t *testing.T) {
	l := Calculate(100, 40, DefaultSidebarPercent, false, false)
	assert.Equal(t, 0, l.SidebarWidth)
	assert.Equal(t, 100, l.TerminalWidth)

	x, y, w, h := l.SidebarBounds()
	assert.Equal(t, [4]int{0, 0, 0, 0}, [4]int{x, y, w, h})
}

func TestBounds(t *testing.T) {
	l := Calculate(100, 40, DefaultSidebarPercent, true, true)

	t.Run("sidebar", func(t *testing.T) {
		x, y, w, h := l.SidebarBounds()
		assert.Equal(t, 0, x)
		assert.Equal(t, TabBarHeight, y)
		assert.Equal(t, l.SidebarWidth, w)
		assert.Equal(t, l.MainHeight, h)
	})

	t.Run("terminal", func(t *testing.T) {
		x, y, w, h := l.TerminalBounds()
		assert.Equal(t, l.SidebarWidth, x)
		assert.Equal(t, TabBarHeight, y)
		assert.Equal(t, l.TerminalWidth, w)
		assert.Equal(t, l.MainHeight, h)
	})

	t.Run("preview", func(t *testing.T) {
		x, _, w, _ := l.PreviewBounds()
		assert.Equal(t, l.SidebarWidth+l.TerminalWidth, x)
		assert.Equal(t, l.PreviewWidth, w)
	})

	t.Run("preview hidden", func(t *testing.T) {
		l2 := Calculate(100, 40, DefaultSidebarPercent, true, false)
		x, y, w, h := l2.PreviewBounds()
		assert.Equal(t, [4]int{0, 0, 0, 0}, [4]int{x, y, w, h})
	})

	t.Run("status bar", func(t *testing.T) {
		x, y, w, h := l.StatusBarBounds()
		assert.Equal(t, 0, x)
		assert.Equal(t, l.TabHeight+l.MainHeight, y)
		assert.Equal(t, l.TotalWidth, w)
		assert.Equal(t, StatusBarHeight, h)
	})
}

func TestContentDimensions(t *testing.T) {
	l := Calculate(100, 40, DefaultSidebarPercent, true, false)

	assert.Equal(t, 48, l.ContentWidth(50, 1))
	assert.Equal(t, 46, l.ContentWidth(50, 2))
	assert.Equal(t, 28, l.ContentHeight(30, 1))
	assert.Equal(t, 0, l.ContentWidth(2, 2))
}
