package main

import (
	"strings"

	"github.com/agext/levenshtein"
)

// suggest returns the name among names closest to an unknown function name,
// ignoring case, or the empty string if none is close enough.
func suggest(name string, names []string) string {
	name = strings.ToLower(name)
	best, dist := "", 3
	for _, s := range names {
		if d := levenshtein.Distance(name, strings.ToLower(s), nil); d < dist {
			best, dist = s, d
		}
	}
	return best
}
