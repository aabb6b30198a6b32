// Package history reads shell history files and answers prefix/substring
// queries for the completion pipeline.
package history

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	cacheKey = "commands"
	cacheTTL = 30 * time.Second
)

// defaultSources lists well-known history files in priority order, relative
// to the home directory. The first one that exists wins.
var defaultSources = []string{".zsh_history", ".bash_history", ".history"}

// Reader loads shell history lazily and caches the parsed result for a
// timeout window. Consumers never mutate the returned entries.
type Reader struct {
	sources []string
	cache   *gocache.Cache
}

// NewReader creates a reader over the well-known history files in the
// user's home directory.
func NewReader() *Reader {
	home, _ := os.UserHomeDir()
	sources := make([]string, 0, len(defaultSources))
	for _, name := range defaultSources {
		sources = append(sources, filepath.Join(home, name))
	}
	return NewReaderWithSources(sources)
}

// NewReaderWithSources creates a reader over an explicit prioritized list
// of history file paths.
func NewReaderWithSources(sources []string) *Reader {
	return &Reader{
		sources: sources,
		cache:   gocache.New(cacheTTL, time.Minute),
	}
}

// Reload drops the cached history so the next query re-reads the file.
func (r *Reader) Reload() {
	r.cache.Delete(cacheKey)
}

// Matching returns up to limit distinct history entries matching prefix,
// most-recent-first. Entries whose lowercase form starts with the lowercased
// prefix rank before entries that merely contain it, and the prefix itself
// is never returned.
func (r *Reader) Matching(prefix string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	commands := r.commands()
	lower := strings.ToLower(prefix)

	var prefixed, contained []string
	seen := make(map[string]bool)

	// Scan newest to oldest. The 2*limit bound is a performance
	// short-circuit only; the final trim below decides correctness.
	for i := len(commands) - 1; i >= 0; i-- {
		cmd := commands[i]
		if cmd == prefix || seen[cmd] {
			continue
		}
		lc := strings.ToLower(cmd)
		if strings.HasPrefix(lc, lower) {
			prefixed = append(prefixed, cmd)
		} else if strings.Contains(lc, lower) {
			contained = append(contained, cmd)
		} else {
			continue
		}
		seen[cmd] = true
		if len(prefixed)+len(contained) >= 2*limit {
			break
		}
	}

	merged := append(prefixed, contained...)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// commands returns the parsed history, most-recent-last, loading it from
// disk when the cache window has elapsed.
func (r *Reader) commands() []string {
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.([]string)
	}
	commands := r.load()
	r.cache.Set(cacheKey, commands, gocache.DefaultExpiration)
	return commands
}

// load reads the first existing source file. A missing or unreadable file
// yields an empty history.
func (r *Reader) load() []string {
	for _, path := range r.sources {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		defer f.Close()

		var commands []string
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if cmd := parseLine(line); cmd != "" {
				commands = append(commands, cmd)
			}
		}
		// Lines past a scan error are lost; everything parsed so far
		// is still usable.
		return commands
	}
	return nil
}

// parseLine extracts the command from one history line, unwrapping the
// zsh extended format ": <epoch>:<flags>;<command>". Lines that do not
// match the extended shape are taken verbatim.
func parseLine(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if strings.HasPrefix(line, ": ") {
		if idx := strings.Index(line, ";"); idx >= 0 {
			return line[idx+1:]
		}
	}
	return line
}
