package git

// Status represents the scanner's classification of a single path.
type Status int

const (
	StatusNone Status = iota
	StatusModified
	StatusAdded
	StatusDeleted
	StatusUntracked
	StatusIgnored
)

// String returns the single-character indicator used in listings.
func (s Status) String() string {
	switch s {
	case StatusModified:
		return "M"
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusUntracked:
		return "?"
	case StatusIgnored:
		return "!"
	default:
		return ""
	}
}

// Annotates reports whether the status should be shown next to a file.
func (s Status) Annotates() bool {
	return s != StatusNone && s != StatusIgnored
}

// classifyCodes maps a porcelain XY code pair to a status. When both
// characters carry information the precedence is untracked, added, deleted,
// modified, ignored.
func classifyCodes(x, y byte) Status {
	pair := [2]byte{x, y}
	for _, c := range pair {
		if c == '?' {
			return StatusUntracked
		}
	}
	for _, c := range pair {
		if c == 'A' {
			return StatusAdded
		}
	}
	for _, c := range pair {
		if c == 'D' {
			return StatusDeleted
		}
	}
	for _, c := range pair {
		if c == 'M' || c == 'm' {
			return StatusModified
		}
	}
	for _, c := range pair {
		if c == '!' {
			return StatusIgnored
		}
	}
	return StatusNone
}
