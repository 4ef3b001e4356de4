// Package scan collects the readable text files of a local directory tree for
// the fallback document builder.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"repograph/internal/infographic"
)

// DefaultMaxFileBytes caps how much of any single file is considered. Larger
// files are skipped rather than truncated.
const DefaultMaxFileBytes = 512 << 10

// FileVisit carries per-entry metadata to the optional callback.
type FileVisit struct {
	// Root-relative path using forward slashes (e.g. "src/app.go").
	Path string
	// True when the entry is a directory.
	IsDir bool
	// Lowercased extension (e.g. ".go"); empty for dirs or no-ext files.
	Ext string
	// File size in bytes; 0 for dirs.
	Size int64
	// True when the file was skipped (too large, unreadable, or binary).
	Skipped bool
}

// VisitFunc is invoked for every visited entry. Use a closure to accumulate
// custom stats such as extension counts.
type VisitFunc func(v FileVisit)

// Options tunes a collection walk. The zero value is usable.
type Options struct {
	// MaxFileBytes overrides DefaultMaxFileBytes when positive.
	MaxFileBytes int64
	// Visit, when set, observes every entry including skipped ones.
	Visit VisitFunc
}

// Collect walks root and returns its text files as fallback-builder input.
// VCS and dependency directories and dotfiles are skipped, as are files that
// are too large, unreadable, or not valid UTF-8.
func Collect(root string, opts Options) ([]infographic.LocalFile, error) {
	maxBytes := opts.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	rootClean := filepath.Clean(root)

	var files []infographic.LocalFile
	err := filepath.WalkDir(rootClean, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != rootClean && skipDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, err := filepath.Rel(rootClean, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		visit := FileVisit{Path: rel, Ext: strings.ToLower(filepath.Ext(rel))}
		if info, err := d.Info(); err == nil {
			visit.Size = info.Size()
		}

		var content string
		switch {
		case visit.Size > maxBytes:
			visit.Skipped = true
		default:
			raw, err := os.ReadFile(path)
			if err != nil || !utf8.Valid(raw) {
				visit.Skipped = true
			} else {
				content = string(raw)
			}
		}
		if opts.Visit != nil {
			opts.Visit(visit)
		}
		if visit.Skipped {
			return nil
		}

		files = append(files, infographic.LocalFile{Path: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// BuildDocument is the one-call path from a directory to a fallback document.
func BuildDocument(root string, opts Options) (*infographic.Document, error) {
	files, err := Collect(root, opts)
	if err != nil {
		return nil, err
	}
	return infographic.BuildLocal(filepath.Base(filepath.Clean(root)), files), nil
}

// skipDir filters VCS and dependency directories plus anything hidden.
func skipDir(name string) bool {
	switch name {
	case ".git", ".hg", ".svn", "node_modules", "vendor", "target", "build", ".next", ".cache":
		return true
	}
	return strings.HasPrefix(name, ".")
}
