package preview

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/termdeck/termdeck/internal/components"
	"github.com/termdeck/termdeck/internal/theme"
)

// maxPreviewBytes is the largest file the preview will render.
const maxPreviewBytes = 1 << 20

// FileLoadedMsg is sent when a file has been read for preview.
type FileLoadedMsg struct {
	Path    string
	Content string
	Notice  string // set instead of Content for oversized/binary files
	Err     error
}

// Model is the file preview panel: syntax-highlighted file contents or
// a git diff, in a scrollable viewport with regex search.
type Model struct {
	components.Base

	viewport viewport.Model
	path     string
	content  string
	notice   string
	isDiff   bool
	ready    bool

	searching    bool
	searchInput  textinput.Model
	searchQuery  string
	searchRegex  *regexp.Regexp
	matchLines   []int
	currentMatch int
}

// New creates an empty preview.
func New() *Model {
	ti := textinput.New()
	ti.Placeholder = "regex pattern..."
	ti.CharLimit = 256
	ti.Width = 30
	return &Model{
		searchInput:  ti,
		currentMatch: -1,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// LoadFile reads a file for preview. Oversized and binary files
// produce a notice instead of content; this is the only user-facing
// error surface.
func LoadFile(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := os.Stat(path)
		if err != nil {
			return FileLoadedMsg{Path: path, Err: err}
		}
		if info.Size() > maxPreviewBytes {
			return FileLoadedMsg{
				Path:   path,
				Notice: fmt.Sprintf("file too large to preview (%.1f MB)", float64(info.Size())/(1<<20)),
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return FileLoadedMsg{Path: path, Err: err}
		}
		if isBinary(data) {
			return FileLoadedMsg{Path: path, Notice: "binary file, no preview"}
		}
		return FileLoadedMsg{Path: path, Content: string(data)}
	}
}

// isBinary sniffs for NUL bytes in the leading chunk.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FileLoadedMsg:
		m.isDiff = false
		m.path = msg.Path
		m.clearSearch()
		switch {
		case msg.Err != nil:
			m.content = ""
			m.notice = "could not read file: " + msg.Err.Error()
		case msg.Notice != "":
			m.content = ""
			m.notice = msg.Notice
		default:
			m.content = msg.Content
			m.notice = ""
		}
		if m.ready {
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
		}
		return nil

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return cmd
		}
		return nil

	case tea.KeyMsg:
		if !m.Focused() {
			return nil
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		switch msg.Type {
		case tea.KeyEscape:
			m.searching = false
			m.searchInput.Blur()
			return nil
		case tea.KeyEnter:
			query := m.searchInput.Value()
			if query != m.searchQuery {
				m.search(query)
			} else if len(m.matchLines) > 0 {
				m.currentMatch = (m.currentMatch + 1) % len(m.matchLines)
				m.scrollToMatch()
			}
			m.searching = false
			m.searchInput.Blur()
			m.viewport.SetContent(m.renderContent())
			return nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return textinput.Blink
	case "esc":
		if len(m.matchLines) > 0 {
			m.clearSearch()
			m.viewport.SetContent(m.renderContent())
			return nil
		}
	case "n":
		if len(m.matchLines) > 0 {
			m.currentMatch = (m.currentMatch + 1) % len(m.matchLines)
			m.scrollToMatch()
			m.viewport.SetContent(m.renderContent())
			return nil
		}
	case "N", "p":
		if len(m.matchLines) > 0 {
			m.currentMatch--
			if m.currentMatch < 0 {
				m.currentMatch = len(m.matchLines) - 1
			}
			m.scrollToMatch()
			m.viewport.SetContent(m.renderContent())
			return nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// View renders the viewport, with the search bar on the last row while
// searching.
func (m *Model) View() string {
	if !m.ready {
		return m.placeholder()
	}
	if m.searching {
		w, _ := m.Size()
		m.viewport.Height--
		content := m.viewport.View()
		m.viewport.Height++
		return lipgloss.JoinVertical(lipgloss.Left, content, m.renderSearchBar(w))
	}
	return m.viewport.View()
}

func (m *Model) placeholder() string {
	w, h := m.Size()
	return lipgloss.NewStyle().
		Width(w).
		Height(h).
		Foreground(theme.TextMuted).
		Align(lipgloss.Center, lipgloss.Center).
		Render("select a file to preview")
}

func (m *Model) renderContent() string {
	if m.notice != "" {
		return theme.Muted.Render(m.notice)
	}
	if m.content == "" {
		return theme.Muted.Render("(empty file)")
	}
	if m.isDiff {
		return m.renderDiff()
	}
	return m.renderFile()
}

// renderFile produces highlighted content with line numbers and search
// match markers.
func (m *Model) renderFile() string {
	highlighted := m.highlight()

	matchSet := make(map[int]bool, len(m.matchLines))
	for _, ln := range m.matchLines {
		matchSet[ln] = true
	}
	currentLine := -1
	if m.currentMatch >= 0 && m.currentMatch < len(m.matchLines) {
		currentLine = m.matchLines[m.currentMatch]
	}

	rawLines := strings.Split(m.content, "\n")
	hlLines := strings.Split(highlighted, "\n")

	sep := theme.Faint.Render(" │ ")
	matchSep := lipgloss.NewStyle().Foreground(theme.Warn).Render(" │ ")
	currentSep := lipgloss.NewStyle().Foreground(theme.Success).Render(" │ ")

	var b strings.Builder
	for i, line := range hlLines {
		num := theme.LineNumber.Render(fmt.Sprintf("%d", i+1))
		rowSep := sep
		switch {
		case i == currentLine:
			rowSep = currentSep
			if i < len(rawLines) {
				line = m.markMatches(rawLines[i], true)
			}
		case matchSet[i]:
			rowSep = matchSep
			if i < len(rawLines) {
				line = m.markMatches(rawLines[i], false)
			}
		}
		b.WriteString(num)
		b.WriteString(rowSep)
		b.WriteString(line)
		if i < len(hlLines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderDiff colors unified diff lines.
func (m *Model) renderDiff() string {
	lines := strings.Split(m.content, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			out[i] = theme.Title.Render(line)
		case strings.HasPrefix(line, "@@"):
			out[i] = theme.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			out[i] = theme.DiffAdded.Render(line)
		case strings.HasPrefix(line, "-"):
			out[i] = theme.DiffRemoved.Render(line)
		default:
			out[i] = theme.DiffContext.Render(line)
		}
	}
	return strings.Join(out, "\n")
}

// markMatches highlights regex matches within a search-hit line.
func (m *Model) markMatches(line string, current bool) string {
	if m.searchRegex == nil {
		return line
	}
	spans := m.searchRegex.FindAllStringIndex(line, -1)
	if len(spans) == 0 {
		return line
	}

	bg := theme.Warn
	if current {
		bg = theme.Success
	}
	style := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("0"))

	var b strings.Builder
	last := 0
	for _, span := range spans {
		if span[0] > last {
			b.WriteString(line[last:span[0]])
		}
		b.WriteString(style.Render(line[span[0]:span[1]]))
		last = span[1]
	}
	if last < len(line) {
		b.WriteString(line[last:])
	}
	return b.String()
}

func (m *Model) highlight() string {
	var lexer chroma.Lexer
	if m.path != "" {
		lexer = lexers.Match(filepath.Base(m.path))
	}
	if lexer == nil {
		lexer = lexers.Analyse(m.content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, m.content)
	if err != nil {
		return m.content
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return m.content
	}
	return buf.String()
}

// ShowDiff displays diff text in the panel.
func (m *Model) ShowDiff(path, diff string) {
	m.path = path
	m.content = diff
	m.notice = ""
	m.isDiff = true
	m.clearSearch()
	if m.ready {
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
	}
}

// Path returns the previewed file path.
func (m *Model) Path() string {
	return m.path
}

// Clear empties the panel.
func (m *Model) Clear() {
	m.path = ""
	m.content = ""
	m.notice = ""
	m.isDiff = false
	m.clearSearch()
	if m.ready {
		m.viewport.SetContent("")
	}
}

// SetSize resizes the viewport.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.viewport.MouseWheelEnabled = true
		m.viewport.MouseWheelDelta = 3
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	if m.content != "" || m.notice != "" {
		m.viewport.SetContent(m.renderContent())
	}
}

// ScrollPercent returns the scroll position as 0-100.
func (m *Model) ScrollPercent() float64 {
	if !m.ready {
		return 100
	}
	return m.viewport.ScrollPercent() * 100
}

// IsSearching reports whether the search input is active.
func (m *Model) IsSearching() bool {
	return m.searching
}

func (m *Model) renderSearchBar(width int) string {
	prefix := theme.Title.Render("/")
	var info string
	if m.searchQuery != "" {
		if len(m.matchLines) == 0 {
			info = theme.ErrorText.Render(" [no matches]")
		} else {
			info = lipgloss.NewStyle().Foreground(theme.Success).
				Render(fmt.Sprintf(" [%d/%d]", m.currentMatch+1, len(m.matchLines)))
		}
	}
	return lipgloss.NewStyle().
		Background(theme.BgRaise).
		Width(width).
		Render(prefix + m.searchInput.View() + info)
}

// search compiles the query (case-insensitive, falling back to a
// literal match on bad regex) and collects matching lines.
func (m *Model) search(query string) {
	m.searchQuery = query
	m.matchLines = nil
	m.currentMatch = -1
	m.searchRegex = nil

	if query == "" {
		return
	}

	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		re, err = regexp.Compile(regexp.QuoteMeta(query))
		if err != nil {
			return
		}
	}
	m.searchRegex = re

	for i, line := range strings.Split(m.content, "\n") {
		if re.MatchString(line) {
			m.matchLines = append(m.matchLines, i)
		}
	}
	if len(m.matchLines) > 0 {
		m.currentMatch = 0
		m.scrollToMatch()
	}
}

func (m *Model) scrollToMatch() {
	if m.currentMatch < 0 || m.currentMatch >= len(m.matchLines) {
		return
	}
	target := m.matchLines[m.currentMatch] - m.viewport.Height/2
	if target < 0 {
		target = 0
	}
	m.viewport.SetYOffset(target)
}

func (m *Model) clearSearch() {
	m.searching = false
	m.searchQuery = ""
	m.searchRegex = nil
	m.matchLines = nil
	m.currentMatch = -1
	m.searchInput.SetValue("")
	m.searchInput.Blur()
}
