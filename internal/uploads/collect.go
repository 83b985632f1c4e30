// Package uploads resolves the files a user asks to upload.
package uploads

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names never searched for uploads.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	"vendor",
	"__pycache__",
	".draftdesk",
	".venv",
	".idea",
	".vscode",
}

// File is one file selected for upload.
type File struct {
	Path string
	Name string
	Size int64
}

// Collect expands each pattern with doublestar (plain paths match
// themselves), drops files under DefaultExcludes directories or matching an
// exclude pattern, and returns the remaining files sorted by path with
// duplicates removed.
func Collect(patterns, excludes []string) ([]File, error) {
	seen := make(map[string]bool)
	var files []File
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, path := range matches {
			if seen[path] || inExcludedDir(path) || MatchesExclude(path, excludes) {
				continue
			}
			seen[path] = true

			info, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			files = append(files, File{Path: path, Name: filepath.Base(path), Size: info.Size()})
		}
	}
	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	return files, nil
}

// inExcludedDir reports whether any directory element of path is in
// DefaultExcludes.
func inExcludedDir(path string) bool {
	parts := strings.Split(filepath.ToSlash(filepath.Dir(path)), "/")
	for _, part := range parts {
		for _, excl := range DefaultExcludes {
			if strings.EqualFold(part, excl) {
				return true
			}
		}
	}
	return false
}

// MatchesExclude returns true if the given path matches any of the
// exclude patterns. If patterns is empty, nothing is excluded.
func MatchesExclude(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	normalized := filepath.ToSlash(path)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)

		// Try doublestar matching (supports **).
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}

		// Also try matching against just the filename.
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
