// Package git computes a per-path status cache for the sidebar by invoking
// read-only git subcommands. Invocation failures are swallowed: a directory
// that is not a repository, or a machine without git, simply yields an empty
// cache.
package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Scanner owns the status cache for one directory tree. The cache is rebuilt
// wholesale on every Refresh; consumers read it through Status and never
// mutate it.
type Scanner struct {
	runner Runner

	mu       sync.Mutex
	repoRoot string
	branch   string
	isRepo   bool
	cache    map[string]Status
}

// NewScanner creates a scanner backed by the given runner.
func NewScanner(runner Runner) *Scanner {
	return &Scanner{
		runner: runner,
		cache:  make(map[string]Status),
	}
}

// Refresh clears and repopulates the cache for the repository containing
// root. If root is not inside a repository, the cache is left empty and
// IsRepository reports false. Refresh never returns an error: every failure
// mode degrades to an empty cache.
func (s *Scanner) Refresh(ctx context.Context, root string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[string]Status)
	s.branch = ""
	s.isRepo = false
	s.repoRoot = ""

	repoRoot, ok := findRepoRoot(root)
	if !ok {
		return
	}
	s.repoRoot = repoRoot
	s.isRepo = true
	s.branch = s.currentBranch(ctx, repoRoot)

	out, err := s.runner.Run(ctx, repoRoot, "status", "--porcelain=v1", "-uall", "--ignored")
	if err != nil {
		return
	}
	s.populate(repoRoot, string(out))
}

// populate parses porcelain v1 output and fills the cache, propagating
// status to ancestor directories.
func (s *Scanner) populate(repoRoot, out string) {
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}

		status := classifyCodes(line[0], line[1])
		if status == StatusNone {
			continue
		}

		path := strings.TrimSpace(line[3:])
		// Renames are reported as "old -> new"; the new path is the one
		// that exists on disk.
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		path = strings.Trim(path, `"`)
		abs := filepath.Join(repoRoot, filepath.FromSlash(path))

		s.cache[abs] = status

		if status.Annotates() {
			s.propagate(repoRoot, abs)
		}
	}
}

// propagate marks every ancestor directory of path, up to but excluding the
// repository root, as modified unless it already holds a more specific
// entry.
func (s *Scanner) propagate(repoRoot, path string) {
	for dir := filepath.Dir(path); dir != repoRoot && len(dir) > len(repoRoot); dir = filepath.Dir(dir) {
		if _, exists := s.cache[dir]; !exists {
			s.cache[dir] = StatusModified
		}
	}
}

// currentBranch returns the checked-out branch name, or the short commit
// hash in parentheses when HEAD is detached. Failures yield "".
func (s *Scanner) currentBranch(ctx context.Context, repoRoot string) string {
	out, err := s.runner.Run(ctx, repoRoot, "branch", "--show-current")
	if err == nil {
		if name := strings.TrimSpace(string(out)); name != "" {
			return name
		}
	}
	out, err = s.runner.Run(ctx, repoRoot, "rev-parse", "--short", "HEAD")
	if err != nil {
		return ""
	}
	return "(" + strings.TrimSpace(string(out)) + ")"
}

// Status returns the cached status for an absolute path.
func (s *Scanner) Status(path string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[path]
}

// Branch returns the branch name from the last refresh.
func (s *Scanner) Branch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.branch
}

// IsRepository reports whether the last refresh found a repository.
func (s *Scanner) IsRepository() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRepo
}

// RepoRoot returns the repository root from the last refresh, or "".
func (s *Scanner) RepoRoot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repoRoot
}

// Entries returns the number of cached paths. Used by the status bar to
// show a dirty indicator.
func (s *Scanner) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Diff returns the working-tree diff for a single file. For files without
// unstaged changes the committed content is shown instead, so the preview
// pane always has something to render for tracked files.
func (s *Scanner) Diff(ctx context.Context, path string) (string, error) {
	s.mu.Lock()
	repoRoot := s.repoRoot
	s.mu.Unlock()

	if repoRoot == "" {
		return "", os.ErrNotExist
	}

	rel, err := filepath.Rel(repoRoot, path)
	if err != nil {
		return "", err
	}

	out, err := s.runner.Run(ctx, repoRoot, "diff", "--", rel)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(string(out))) > 0 {
		return string(out), nil
	}

	out, err = s.runner.Run(ctx, repoRoot, "show", "HEAD:"+filepath.ToSlash(rel))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// findRepoRoot walks ancestors of dir looking for a .git marker, stopping at
// the filesystem root.
func findRepoRoot(dir string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
