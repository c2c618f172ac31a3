package city

import "strings"

// DefaultFuzzyThreshold is the minimum similarity score (0-100) at which a
// fuzzy match is proposed to the user. Below it the input is treated as
// unrecognized and re-prompted.
const DefaultFuzzyThreshold = 60

// Levenshtein computes the classic edit distance between two strings,
// counted in runes so accented city names score correctly.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity converts edit distance into a 0-100 score:
// (1 - distance/max(len)) * 100. Identical strings score 100.
func Similarity(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	return int((1 - float64(Levenshtein(a, b))/float64(longest)) * 100)
}

// FindClosest scores the input against every candidate's canonical name and
// returns the single best match when its score reaches the threshold. Callers
// must treat the result as a suggestion to confirm, never a committed fact.
func FindClosest(input string, candidates []City, threshold int) (City, int, bool) {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return "", 0, false
	}

	var (
		best      City
		bestScore = -1
	)
	for _, c := range candidates {
		score := Similarity(in, string(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < threshold {
		return "", 0, false
	}
	return best, bestScore, true
}
