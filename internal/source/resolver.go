// Package source resolves configured path patterns into the ordered,
// deduplicated list of PDF files to index.
package source

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	pserrors "github.com/Asaad47/pdf-search/internal/errors"
)

// File identifies a resolved source file. Identity is the absolute path.
type File struct {
	// Path is the resolved absolute path.
	Path string
}

// Resolver expands glob patterns (with recursive ** support) into
// source files. Patterns are expanded independently in the order given;
// duplicates keep their first-seen position.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil logger uses the default.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// Resolve expands the given patterns and returns the deduplicated,
// order-preserving list of source files. A pattern that matches nothing
// is reported and skipped; an empty final list is fatal.
func (r *Resolver) Resolve(patterns []string) ([]File, error) {
	var files []File
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			r.logger.Warn("invalid path pattern",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
			continue
		}
		if len(matches) == 0 {
			r.logger.Warn("no files found matching pattern", slog.String("pattern", pattern))
			continue
		}

		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				r.logger.Warn("skipping unresolvable match",
					slog.String("path", m),
					slog.String("error", err.Error()))
				continue
			}

			info, err := os.Stat(abs)
			if err != nil || info.IsDir() {
				continue
			}

			if seen[abs] {
				continue
			}
			seen[abs] = true
			files = append(files, File{Path: abs})
		}
	}

	if len(files) == 0 {
		return nil, pserrors.Newf(pserrors.ErrCodeNoSourcesFound,
			"no source files found for %d pattern(s)", len(patterns)).
			WithSuggestion("check the pdf_paths patterns in config.yaml")
	}

	return files, nil
}
