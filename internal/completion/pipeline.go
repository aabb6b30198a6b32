package completion

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/termdeck/termdeck/internal/timing"
)

// DefaultDebounce is the quiet period after a keystroke before the remote
// request is issued.
const DefaultDebounce = 100 * time.Millisecond

// historyLimit caps how many history matches are merged ahead of remote
// completions.
const historyLimit = 5

// HistorySource answers prefix queries over shell history. Satisfied by
// *history.Reader.
type HistorySource interface {
	Matching(prefix string, limit int) []string
}

// Config wires a pipeline's collaborators.
type Config struct {
	Client   Client
	History  HistorySource
	WorkDir  string
	Shell    string
	Debounce time.Duration // zero means DefaultDebounce
	OnChange func()        // session change notification
}

// Pipeline debounces keystroke-driven requests, fetches remote completions,
// merges them with history matches, and maintains the session state. The
// most recent request always wins: a new request cancels the pending
// debounce, and a stale fetch result is discarded by generation check.
type Pipeline struct {
	client    Client
	history   HistorySource
	session   *Session
	debouncer *timing.Debouncer
	workDir   string
	shell     string
	gen       atomic.Uint64
}

// NewPipeline creates a pipeline with an empty session.
func NewPipeline(cfg Config) *Pipeline {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Pipeline{
		client:    cfg.Client,
		history:   cfg.History,
		session:   NewSession(cfg.OnChange),
		debouncer: timing.NewDebouncer(debounce),
		workDir:   cfg.WorkDir,
		shell:     cfg.Shell,
	}
}

// Session exposes the pipeline's selection state, read-only for consumers.
func (p *Pipeline) Session() *Session {
	return p.session
}

// Request schedules a completion fetch for the given input, cancelling any
// pending debounce. Empty input dismisses immediately.
func (p *Pipeline) Request(input string, cursorPos int) {
	gen := p.gen.Add(1)

	if input == "" {
		p.debouncer.Cancel()
		p.session.Dismiss()
		return
	}

	p.debouncer.Trigger(func() {
		p.fetch(gen, input, cursorPos)
	})
}

// Dismiss cancels any pending work and hides the overlay.
func (p *Pipeline) Dismiss() {
	p.gen.Add(1)
	p.debouncer.Cancel()
	p.session.Dismiss()
}

// fetch performs the remote call and applies the merged result unless a
// newer request has superseded this one. The remote call itself is not
// cancelled on supersession; its result is simply thrown away.
func (p *Pipeline) fetch(gen uint64, input string, cursorPos int) {
	var histMatches []string
	if p.history != nil {
		histMatches = p.history.Matching(input, historyLimit)
	}

	var resp Response
	var fetchErr error
	if p.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		resp, fetchErr = p.client.Complete(ctx, Request{
			Input:     input,
			CursorPos: cursorPos,
			WorkDir:   p.workDir,
			Shell:     p.shell,
		})
		cancel()
	}

	if p.gen.Load() != gen {
		return
	}

	var remote []Completion
	if fetchErr == nil {
		remote = resp.Completions
	}
	merged := Merge(histMatches, remote)

	if len(merged) == 0 {
		p.session.Dismiss()
		return
	}

	prefixLen := resp.PrefixLength
	if len(histMatches) > 0 {
		// History entries replace the whole line.
		prefixLen = len([]rune(input))
	}
	p.session.Set(merged, prefixLen)
}

// Merge places history matches first at maximum relevance, then appends
// remote completions whose insertion text does not duplicate a history
// match.
func Merge(histMatches []string, remote []Completion) []Completion {
	merged := make([]Completion, 0, len(histMatches)+len(remote))
	fromHistory := make(map[string]bool, len(histMatches))

	for _, cmd := range histMatches {
		fromHistory[cmd] = true
		merged = append(merged, Completion{
			Display: cmd,
			Kind:    KindHistory,
			Insert:  cmd,
			Score:   MaxScore,
		})
	}

	for _, c := range remote {
		if fromHistory[c.Insert] {
			continue
		}
		merged = append(merged, c)
	}

	return merged
}
