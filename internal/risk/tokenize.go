package risk

import (
	"math"
	"regexp"
	"strings"
)

// #region tokenize
var tokenPattern = regexp.MustCompile(`[a-zA-Z']+`)

// tokenSet lower-cases text and collects the distinct runs of ASCII letters
// and apostrophes.
func tokenSet(text string) map[string]struct{} {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// #endregion tokenize

// #region disagreement
// Disagreement returns the Jaccard distance between the token sets of a and b,
// rounded to 3 decimals. Two token-free texts agree perfectly (0.0).
func Disagreement(a, b string) float64 {
	return Round3(jaccardDistance(tokenSet(a), tokenSet(b)))
}

func jaccardDistance(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return 1 - float64(shared)/float64(max(1, union))
}

// #endregion disagreement

// #region rounding
// Round3 rounds half away from zero at the third decimal. Aggregates use it
// too so every reported score rounds the same way.
func Round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// #endregion rounding
