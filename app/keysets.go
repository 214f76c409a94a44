package app

import (
	"godescribe/domain/core"
	"godescribe/domain/describe"
	"godescribe/domain/run"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestionDistance bounds how different a suggested column name may be
const maxSuggestionDistance = 3

// ResolveKeySets splits key sets into those whose columns all exist in
// columns and those that must be skipped, with a reason for each skip.
func ResolveKeySets(keySets []describe.KeySet, columns []string) ([]describe.KeySet, []run.SkippedKeySet) {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var runnable []describe.KeySet
	skipped := []run.SkippedKeySet{}
	for _, ks := range keySets {
		missing := ""
		for _, col := range ks.Columns {
			if !present[col] {
				missing = col
				break
			}
		}
		if missing == "" {
			runnable = append(runnable, ks)
			continue
		}

		reason := core.NewUnknownColumnError(missing, SuggestColumn(missing, columns))
		skipped = append(skipped, run.SkippedKeySet{
			Name:    ks.Name,
			Columns: ks.Columns,
			Reason:  reason.Error(),
		})
	}
	return runnable, skipped
}

// SuggestColumn returns the column closest to name by edit distance, or ""
// when nothing is within maxSuggestionDistance.
func SuggestColumn(name string, columns []string) string {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	for _, c := range columns {
		d := levenshtein.DistanceForStrings([]rune(name), []rune(c), levenshtein.DefaultOptions)
		if d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best
}
