// Package sentiment scores free text with an AFINN-style word-valence sum.
// The score is the sum of the valences of known tokens; unknown tokens
// contribute zero. Pure function, no state.
package sentiment

import "strings"

// Score tokenizes text and sums word valences. Zero means neutral or no
// recognized words.
func Score(text string) int {
	score := 0
	for _, tok := range tokenize(text) {
		score += valences[tok]
	}
	return score
}

func tokenize(text string) []string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, text)
	return strings.Fields(clean)
}
