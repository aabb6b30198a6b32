package completion

import "sync"

// Session holds the selection state for one input surface. It is reset
// wholesale on every new result set or dismissal, and mutated only by the
// pipeline that owns it. State changes are announced through an optional
// callback rather than any framework-specific observation.
type Session struct {
	mu          sync.Mutex
	completions []Completion
	selected    int
	visible     bool
	prefixLen   int
	onChange    func()
}

// NewSession creates an empty, hidden session. onChange may be nil.
func NewSession(onChange func()) *Session {
	return &Session{onChange: onChange}
}

// Set replaces the result list and shows the overlay with the first item
// selected. An empty list dismisses instead.
func (s *Session) Set(completions []Completion, prefixLen int) {
	s.mu.Lock()
	if len(completions) == 0 {
		s.resetLocked()
	} else {
		s.completions = completions
		s.selected = 0
		s.visible = true
		s.prefixLen = prefixLen
	}
	s.mu.Unlock()
	s.notify()
}

// Dismiss clears the list, hides the overlay, and resets the prefix length.
func (s *Session) Dismiss() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Session) resetLocked() {
	s.completions = nil
	s.selected = 0
	s.visible = false
	s.prefixLen = 0
}

// SelectNext advances the selection, wrapping past the end. No-op on an
// empty list.
func (s *Session) SelectNext() {
	s.mu.Lock()
	if len(s.completions) == 0 {
		s.mu.Unlock()
		return
	}
	s.selected = (s.selected + 1) % len(s.completions)
	s.mu.Unlock()
	s.notify()
}

// SelectPrevious moves the selection back, wrapping to the end from index
// zero. No-op on an empty list.
func (s *Session) SelectPrevious() {
	s.mu.Lock()
	if len(s.completions) == 0 {
		s.mu.Unlock()
		return
	}
	s.selected = (s.selected - 1 + len(s.completions)) % len(s.completions)
	s.mu.Unlock()
	s.notify()
}

// Completions returns the current list. The slice must not be mutated.
func (s *Session) Completions() []Completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completions
}

// Selected returns the index of the selected completion.
func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SelectedCompletion returns the selected completion, or false when the
// list is empty.
func (s *Session) SelectedCompletion() (Completion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.completions) {
		return Completion{}, false
	}
	return s.completions[s.selected], true
}

// Visible reports whether the overlay should be shown.
func (s *Session) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// PrefixLength returns how many trailing input characters the selected
// completion replaces.
func (s *Session) PrefixLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefixLen
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
