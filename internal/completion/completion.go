// Package completion implements the autocomplete pipeline: debounced
// requests against a remote completion service, merged with local shell
// history, exposed through a navigable session state.
package completion

// Kind tags where a completion came from and what it completes.
type Kind string

const (
	KindCommand    Kind = "command"
	KindOption     Kind = "option"
	KindSubcommand Kind = "subcommand"
	KindArgument   Kind = "argument"
	KindFile       Kind = "file"
	KindDirectory  Kind = "directory"
	KindHistory    Kind = "history"
)

// MaxScore is the relevance assigned to history matches so they always rank
// at the top of the merged list.
const MaxScore = 100.0

// Completion is an immutable suggestion produced by the history matcher or
// the remote service.
type Completion struct {
	Display     string  `json:"text"`
	Kind        Kind    `json:"kind"`
	Description string  `json:"description,omitempty"`
	Insert      string  `json:"insertText"`
	Score       float64 `json:"score"`
}
