package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeginAndExtend(t *testing.T) {
	m := New()
	m.Begin(5, 10)
	assert.True(t, m.Span.Active)
	assert.Equal(t, Position{Line: 5, Column: 10}, m.Span.Start)
	assert.Equal(t, Position{Line: 5, Column: 10}, m.Span.End)

	m.Extend(7, 15)
	assert.Equal(t, Position{Line: 5, Column: 10}, m.Span.Start)
	assert.Equal(t, Position{Line: 7, Column: 15}, m.Span.End)
}

func TestExtendWithoutBegin(t *testing.T) {
	m := New()
	m.Extend(7, 15)
	assert.False(t, m.Span.Active)
	assert.Equal(t, Position{}, m.Span.End)
}

func TestFinish(t *testing.T) {
	m := New()
	m.Begin(5, 10)
	m.Extend(7, 15)
	m.Finish()
	assert.False(t, m.Span.Active)
	assert.True(t, m.Span.Complete)

	// Finish with no selection in progress stays inert.
	m2 := New()
	m2.Finish()
	assert.False(t, m2.Span.Complete)
}

func TestClear(t *testing.T) {
	m := New()
	m.Begin(5, 10)
	m.Extend(7, 15)
	m.Finish()
	m.Clear()
	assert.False(t, m.HasSelection())
	assert.False(t, m.Span.Active)
}

func TestHasSelection(t *testing.T) {
	m := New()
	assert.False(t, m.HasSelection())

	m.Begin(5, 10)
	assert.False(t, m.HasSelection(), "active but not complete")

	m.Extend(7, 15)
	m.Finish()
	assert.True(t, m.HasSelection())

	// A click with no drag selects nothing.
	m2 := New()
	m2.Begin(5, 10)
	m2.Finish()
	assert.False(t, m2.HasSelection())
}

func TestTextSingleLine(t *testing.T) {
	m := New()
	m.SetContent([]string{"Hello, World!", "second"})
	m.Begin(0, 7)
	m.Extend(0, 12)
	m.Finish()
	assert.Equal(t, "World", m.Text())
}

func TestTextMultiLine(t *testing.T) {
	m := New()
	m.SetContent([]string{"First line", "Second line", "Third line"})
	m.Begin(0, 6)
	m.Extend(2, 5)
	m.Finish()
	assert.Equal(t, "line\nSecond line\nThird", m.Text())
}

func TestTextReverseDrag(t *testing.T) {
	m := New()
	m.SetContent([]string{"Hello, World!"})
	m.Begin(0, 12)
	m.Extend(0, 7)
	m.Finish()
	assert.Equal(t, "World", m.Text())
}

func TestTextEmptyContent(t *testing.T) {
	m := New()
	m.SetContent(nil)
	assert.Equal(t, "", m.Text())

	m.Begin(0, 0)
	m.Extend(0, 5)
	m.Finish()
	assert.Equal(t, "", m.Text())
}

func TestTextClampsBeyondContent(t *testing.T) {
	m := New()
	m.SetContent([]string{"only line"})
	m.Begin(0, 5)
	m.Extend(3, 2)
	m.Finish()
	assert.Equal(t, "line", m.Text())
}

func TestContains(t *testing.T) {
	m := New()
	m.SetContent([]string{"Line 0", "Line 1", "Line 2"})
	m.Begin(0, 3)
	m.Extend(2, 2)
	m.Finish()

	assert.False(t, m.Contains(0, 2))
	assert.True(t, m.Contains(0, 3))
	assert.True(t, m.Contains(1, 5))
	assert.True(t, m.Contains(2, 1))
	// End column is exclusive.
	assert.False(t, m.Contains(2, 2))
	assert.False(t, m.Contains(3, 0))
}

func TestIsCopyKey(t *testing.T) {
	assert.True(t, IsCopyKey("ctrl+c"))
	assert.True(t, IsCopyKey("y"))
	assert.True(t, IsCopyKey("ctrl+y"))

	assert.False(t, IsCopyKey("c"))
	assert.False(t, IsCopyKey("ctrl+v"))
	assert.False(t, IsCopyKey("enter"))
}
