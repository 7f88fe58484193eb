package walk

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const globMeta = "*?[{"

// Glob expands the patterns on the host filesystem, ** matches any number
// of directories. A path without glob characters is kept as is. So is a
// pattern without a match, so Missing reports it. Matches of one pattern are
// sorted, the order of patterns is preserved.
func Glob(patterns []string) ([]string, error) {
	ret := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, globMeta) {
			ret = append(ret, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			ret = append(ret, pattern)
			continue
		}
		slices.Sort(matches)
		ret = append(ret, matches...)
	}
	return ret, nil
}
