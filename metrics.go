package pagemd

import (
	"regexp"
	"strings"
)

// DefaultWordsPerMinute is the reading speed assumed by ReadingTime when
// the caller passes a non-positive rate.
const DefaultWordsPerMinute = 200

var punctuationRe = regexp.MustCompile(`[^\w\s]`)

// CountWords returns the number of words in text. Punctuation is stripped
// before splitting on whitespace, so "it's done." counts as three tokens
// would in prose ("its done" -> 2).
func CountWords(text string) int {
	cleaned := punctuationRe.ReplaceAllString(text, "")
	return len(strings.Fields(cleaned))
}

// ReadingTime estimates reading time in whole minutes, rounding up.
// Zero words yields zero minutes; the result is never negative.
func ReadingTime(text string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := CountWords(text)
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
