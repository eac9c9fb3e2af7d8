package analyzer

import "github.com/rivo/uniseg"

// Sentences splits text at Unicode sentence boundaries (UAX #29).
// Each sentence keeps its terminal punctuation and trailing whitespace,
// so joining the result gives back text unchanged.
func Sentences(text string) []string {
	var sentences []string
	state := -1
	for len(text) > 0 {
		var sentence string
		sentence, text, state = uniseg.FirstSentenceInString(text, state)
		sentences = append(sentences, sentence)
	}
	return sentences
}

// Length returns the number of user-perceived characters in s.
func Length(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
