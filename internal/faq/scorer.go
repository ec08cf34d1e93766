package faq

import "strings"

// Similarity computes a word-overlap ratio between two strings: the number of
// words in a that also occur in b, divided by the length of the longer word
// sequence. Case is folded and words are split on whitespace. Repeated words
// in a are counted once per occurrence (membership test only, no dedup), so
// the score is only symmetric when neither side repeats a word; trigger
// phrases are short and duplicate-free, which keeps matching symmetric in
// practice. Returns a value in [0, 1]; two empty strings score 0.
func Similarity(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))

	longer := len(wordsA)
	if len(wordsB) > longer {
		longer = len(wordsB)
	}
	if longer == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		inB[w] = struct{}{}
	}

	common := 0
	for _, w := range wordsA {
		if _, ok := inB[w]; ok {
			common++
		}
	}

	return float64(common) / float64(longer)
}
