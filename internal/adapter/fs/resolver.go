package fs

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Resolver expands configured input paths into a concrete file list. A path
// may be a literal file or a doublestar glob such as
// data/NYC_Capital_Projects_*.csv covering several snapshot exports.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve expands each pattern in order. Matches within one pattern are
// sorted so snapshot globs load in a stable order; duplicates across
// patterns are dropped, keeping the earliest position. A literal path that
// does not exist, or a glob that matches nothing, is an error: silently
// embedding zero projects is never what the operator meant.
func (r *Resolver) Resolve(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no input paths configured")
	}

	seen := make(map[string]struct{})
	var files []string

	for _, pattern := range patterns {
		matches, err := r.expand(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	return files, nil
}

func (r *Resolver) expand(pattern string) ([]string, error) {
	if !hasGlobMeta(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, fmt.Errorf("input file not found: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("input path %s is a directory, expected a file or glob", pattern)
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("bad input pattern %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("input pattern %s matched no files", pattern)
	}

	sort.Strings(matches)
	return matches, nil
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
