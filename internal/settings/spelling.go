package settings

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// suggestionCutoff is the minimum similarity ratio for a "did you mean" hint.
const suggestionCutoff = 0.6

// closestMatch returns the candidate most similar to word, ignoring case.
func closestMatch(word string, candidates []string) (string, bool) {
	target := chars(strings.ToLower(word))

	var (
		best      string
		bestRatio float64
	)
	for _, candidate := range candidates {
		ratio := difflib.NewMatcher(target, chars(strings.ToLower(candidate))).Ratio()
		if ratio > bestRatio {
			best, bestRatio = candidate, ratio
		}
	}
	return best, bestRatio >= suggestionCutoff
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
