// Package cli holds helpers shared by the passctl commands.
package cli

import (
	"fmt"

	"github.com/gobwas/glob"
)

// FilterPaths keeps the entry paths matching pattern. The pattern is a
// shell-style glob where '*' does not cross folder boundaries and '**'
// does. An empty pattern keeps everything.
func FilterPaths(paths []string, pattern string) ([]string, error) {
	if pattern == "" {
		return paths, nil
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	matched := []string{}
	for _, p := range paths {
		if g.Match(p) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
