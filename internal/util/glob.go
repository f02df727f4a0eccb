package util

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandGlobs resolves each pattern (which may use doublestar's ** segment)
// against the local filesystem, returning the deduplicated, sorted union of
// matches.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pat := range patterns {
		matches, err := doublestar.FilepathGlob(pat)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
