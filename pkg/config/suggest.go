package config

import (
	"sort"
	"strings"
)

// maxSuggestDistance is the largest edit distance still offered as a suggestion.
const maxSuggestDistance = 4

// Suggest returns the candidate closest to unknown, or "" when nothing is close.
func Suggest(unknown string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range candidates {
		if d := levenshtein(unknown, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// UnknownKeys lists the leaf paths of doc that schema does not declare.
// Paths under a declared map or string_map field count as declared.
func UnknownKeys(doc *Document, schema *Schema) []string {
	declared := make(map[string]bool, len(schema.Fields))
	for _, f := range schema.Fields {
		declared[f.Path] = true
	}

	var unknown []string
	for path := range doc.Flatten() {
		if !coveredBy(path, declared) {
			unknown = append(unknown, path)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func coveredBy(path string, declared map[string]bool) bool {
	for {
		if declared[path] {
			return true
		}
		i := strings.LastIndexByte(path, '.')
		if i < 0 {
			return false
		}
		path = path[:i]
	}
}

// levenshtein computes the edit distance between two strings.
func levenshtein(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	a, b := []rune(s1), []rune(s2)

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
