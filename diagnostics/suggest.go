package diagnostics

import "github.com/lithammer/fuzzysearch/fuzzy"

// Suggest returns the closest candidate to name by edit distance, or ""
// if nothing is close enough to be worth suggesting. Used to turn a
// bare "undeclared variable" or "undefined property" error into a
// "did you mean ...?" hint against the names actually in scope.
func Suggest(name string, candidates []string) string {
	best, bestDistance := "", -1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(name, c)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = c, d
		}
	}
	if bestDistance < 0 || bestDistance > 3 {
		return ""
	}
	return best
}
