package app

// GitRefreshedMsg reports the result of a git scan.
type GitRefreshedMsg struct {
	Branch string
	IsRepo bool
	Dirty  bool
}

// FSChangedMsg is sent by the directory monitor after its debounce
// window closes.
type FSChangedMsg struct{}

// CompletionChangedMsg is sent when the completion session state
// changes off the UI goroutine.
type CompletionChangedMsg struct{}

// DiffLoadedMsg carries a file's working-tree diff for the preview.
type DiffLoadedMsg struct {
	Path string
	Diff string
	Err  error
}

type gitTickMsg struct{}
