// Package scan implements the shared project-tree scanner used by every
// checker: walk a root directory, select files by predicate, and read their
// content defensively. Unreadable files are reported as advisory findings and
// never abort a run.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mule-tools/mule-atlas/pkg/models/domain"
)

// File is one scanned artifact.
type File struct {
	Path    string
	Content string
}

// Filter selects files during a walk. All populated predicates must match.
type Filter struct {
	// Extensions is a list of lower-case extensions including the dot,
	// e.g. ".xml". Empty means any extension.
	Extensions []string
	// NameContains keeps a file when its lower-cased base name contains any
	// of the substrings. Empty means any name.
	NameContains []string
	// Names keeps a file only when its base name matches exactly.
	// Empty means any name.
	Names []string
	// PathExcludes drops a file when its path contains any of the
	// substrings.
	PathExcludes []string
}

func (f Filter) matches(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if len(f.Extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		found := false
		for _, e := range f.Extensions {
			if ext == e {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Names) > 0 {
		found := false
		for _, n := range f.Names {
			if base == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.NameContains) > 0 {
		found := false
		for _, s := range f.NameContains {
			if strings.Contains(base, s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, ex := range f.PathExcludes {
		if strings.Contains(path, ex) {
			return false
		}
	}
	return true
}

// Walk traverses root and returns the matching files sorted by path, so
// downstream reporting is reproducible across platforms. Files that cannot
// be read come back as advisory findings instead of errors.
func Walk(root string, filter Filter) ([]File, []domain.Finding) {
	var files []File
	var skipped []domain.Finding

	skip := func(path string, err error) {
		skipped = append(skipped, domain.Finding{
			Kind:     "unreadable-file",
			Severity: domain.SeverityLow,
			File:     path,
			Message:  fmt.Sprintf("could not read %s: %v", path, err),
		})
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			skip(path, err)
			return nil
		}
		if d.IsDir() {
			for _, ex := range filter.PathExcludes {
				if strings.Contains(path+string(filepath.Separator), ex) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !filter.matches(path) {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			skip(path, readErr)
			return nil
		}
		files = append(files, File{Path: path, Content: string(content)})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, skipped
}

// LineAt returns the 1-based line number of the byte offset in content.
func LineAt(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}
