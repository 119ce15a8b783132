package pagemd_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/pagemd"
	"github.com/stretchr/testify/assert"
)

func TestCountWords_strips_punctuation_before_splitting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"plain", "one two three", 3},
		{"contractions merge", "it's done.", 2},
		{"punctuation only tokens vanish", "a ... b", 2},
		{"markdown syntax ignored", "**bold** and `code`", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pagemd.CountWords(tt.input))
		})
	}
}

func TestReadingTime_rounds_up_to_whole_minutes(t *testing.T) {
	t.Parallel()

	words := func(n int) string {
		return strings.TrimSpace(strings.Repeat("word ", n))
	}

	assert.Equal(t, 0, pagemd.ReadingTime("", 200))
	assert.Equal(t, 1, pagemd.ReadingTime(words(1), 200))
	assert.Equal(t, 1, pagemd.ReadingTime(words(200), 200))
	assert.Equal(t, 2, pagemd.ReadingTime(words(201), 200))
	assert.Equal(t, 2, pagemd.ReadingTime(words(400), 200))
}

func TestReadingTime_defaults_rate_when_non_positive(t *testing.T) {
	t.Parallel()

	text := strings.TrimSpace(strings.Repeat("word ", pagemd.DefaultWordsPerMinute))
	assert.Equal(t, 1, pagemd.ReadingTime(text, 0))
	assert.Equal(t, 1, pagemd.ReadingTime(text, -5))
}
