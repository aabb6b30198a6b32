package selection

import (
	"strings"

	"github.com/atotto/clipboard"
)

// Position is a character position in rendered text, 0-indexed.
type Position struct {
	Line   int
	Column int
}

// Span is a selection range. While the mouse button is held Active is
// true; once released the span is Complete and can be copied.
type Span struct {
	Active   bool
	Start    Position
	End      Position
	Complete bool
}

// Model tracks a mouse-driven text selection over a slice of lines.
type Model struct {
	Span    Span
	content []string
}

func New() Model {
	return Model{}
}

// SetContent replaces the lines the selection indexes into.
func (m *Model) SetContent(lines []string) {
	m.content = lines
}

// Begin anchors a new selection at the given position.
func (m *Model) Begin(line, col int) {
	p := Position{Line: line, Column: col}
	m.Span = Span{Active: true, Start: p, End: p}
}

// Extend moves the selection end during a drag.
func (m *Model) Extend(line, col int) {
	if !m.Span.Active {
		return
	}
	m.Span.End = Position{Line: line, Column: col}
}

// Finish marks the selection complete on mouse release.
func (m *Model) Finish() {
	if !m.Span.Active {
		return
	}
	m.Span.Complete = true
	m.Span.Active = false
}

// Clear drops any selection.
func (m *Model) Clear() {
	m.Span = Span{}
}

// HasSelection reports whether a non-empty completed selection exists.
func (m Model) HasSelection() bool {
	return m.Span.Complete && m.Span.Start != m.Span.End
}

// Visible reports whether a non-empty selection should be highlighted,
// including one still being dragged.
func (m Model) Visible() bool {
	if !m.Span.Active && !m.Span.Complete {
		return false
	}
	return m.Span.Start != m.Span.End
}

// Text returns the selected text from the content.
func (m Model) Text() string {
	if !m.HasSelection() || len(m.content) == 0 {
		return ""
	}

	start, end := m.ordered()
	if start.Line < 0 {
		start.Line = 0
	}
	if start.Line >= len(m.content) {
		return ""
	}
	if end.Line >= len(m.content) {
		end.Line = len(m.content) - 1
		end.Column = len(m.content[end.Line])
	}

	if start.Line == end.Line {
		line := m.content[start.Line]
		a := clamp(start.Column, 0, len(line))
		b := clamp(end.Column, 0, len(line))
		if a > b {
			a, b = b, a
		}
		return line[a:b]
	}

	var b strings.Builder
	first := m.content[start.Line]
	b.WriteString(first[clamp(start.Column, 0, len(first)):])
	b.WriteString("\n")
	for i := start.Line + 1; i < end.Line; i++ {
		b.WriteString(m.content[i])
		b.WriteString("\n")
	}
	last := m.content[end.Line]
	b.WriteString(last[:clamp(end.Column, 0, len(last))])
	return b.String()
}

// Copy writes the selected text to the system clipboard. Copying an
// empty selection is a no-op.
func (m Model) Copy() error {
	text := m.Text()
	if text == "" {
		return nil
	}
	return clipboard.WriteAll(text)
}

// Contains reports whether the character at (line, col) falls inside
// the selection. The end column is exclusive.
func (m Model) Contains(line, col int) bool {
	if !m.Span.Complete && !m.Span.Active {
		return false
	}
	start, end := m.ordered()
	if line < start.Line || line > end.Line {
		return false
	}
	if line == start.Line && col < start.Column {
		return false
	}
	if line == end.Line && col >= end.Column {
		return false
	}
	return true
}

// ordered returns the span endpoints with start before end.
func (m Model) ordered() (Position, Position) {
	start, end := m.Span.Start, m.Span.End
	if start.Line > end.Line || (start.Line == end.Line && start.Column > end.Column) {
		start, end = end, start
	}
	return start, end
}

// IsCopyKey reports whether a key string triggers a copy. Cmd+C never
// reaches the application on macOS, so ctrl+c (when a selection
// exists), vim-style y, and ctrl+y all work.
func IsCopyKey(key string) bool {
	switch key {
	case "ctrl+c", "y", "ctrl+y":
		return true
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
