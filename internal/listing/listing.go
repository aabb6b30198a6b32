// Package listing produces sorted, git-annotated directory listings for the
// sidebar.
package listing

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/termdeck/termdeck/internal/git"
)

// Entry is one row of a directory listing. Entries are constructed fresh on
// every List call and never mutated afterwards.
type Entry struct {
	Path   string
	Name   string
	IsDir  bool
	Hidden bool
	Status git.Status
}

// StatusSource resolves the git status for an absolute path. Satisfied by
// *git.Scanner.
type StatusSource interface {
	Status(path string) git.Status
}

// Service lists directories, annotating entries from a status source.
type Service struct {
	statuses StatusSource
	collator *collate.Collator
}

// NewService creates a listing service. statuses may be nil, in which case
// entries carry no git annotation.
func NewService(statuses StatusSource) *Service {
	return &Service{
		statuses: statuses,
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
}

// List returns the entries of dir: dotfiles excluded, directories before
// files, each group in case-insensitive collation order. An unreadable
// directory yields an empty listing rather than an error; callers cannot
// distinguish it from a genuinely empty directory.
func (s *Service) List(dir string) []Entry {
	return s.ListWithHidden(dir, false)
}

// ListWithHidden is List with dotfiles optionally included.
func (s *Service) ListWithHidden(dir string, includeHidden bool) []Entry {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		hidden := strings.HasPrefix(name, ".")
		if hidden && !includeHidden {
			continue
		}

		path := filepath.Join(dir, name)
		e := Entry{
			Path:   path,
			Name:   name,
			IsDir:  de.IsDir(),
			Hidden: hidden,
		}
		if s.statuses != nil {
			e.Status = s.statuses.Status(path)
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return s.collator.CompareString(entries[i].Name, entries[j].Name) < 0
	})

	return entries
}
