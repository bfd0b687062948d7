package branchvers

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// MaxSuggestionDistance is the largest edit distance still offered as a suggestion
const MaxSuggestionDistance = 10

// SuggestVariables returns the names within MaxSuggestionDistance edits of
// target, sorted and without duplicates.
func SuggestVariables(target string, names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var suggestions []string
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		if levenshtein.ComputeDistance(name, target) <= MaxSuggestionDistance {
			suggestions = append(suggestions, name)
		}
	}

	sort.Strings(suggestions)
	return suggestions
}
