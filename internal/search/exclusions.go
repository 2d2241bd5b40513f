package search

import (
	"log/slog"
	"strings"

	"github.com/Asaad47/pdf-search/internal/source"
)

// ResolveExclusions maps user-supplied class tokens to the concrete
// source files they exclude. Each token claims the first configured
// pattern containing it as a substring, at most one pattern per token;
// that pattern is then expanded through the resolver. Tokens matching
// no pattern are reported back so the caller can warn, and do not fail
// the query.
func ResolveExclusions(resolver *source.Resolver, tokens []string, patterns []string) (excluded map[string]bool, unmatched []string) {
	excluded = make(map[string]bool)

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		matched := ""
		for _, pattern := range patterns {
			if strings.Contains(pattern, token) {
				matched = pattern
				break
			}
		}
		if matched == "" {
			unmatched = append(unmatched, token)
			continue
		}

		files, err := resolver.Resolve([]string{matched})
		if err != nil {
			// The pattern matched nothing on disk; nothing to exclude.
			slog.Debug("exclusion pattern resolved to no files",
				slog.String("token", token),
				slog.String("pattern", matched))
			continue
		}
		for _, f := range files {
			excluded[f.Path] = true
		}
	}

	return excluded, unmatched
}
