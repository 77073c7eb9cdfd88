package mood

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyScenarios(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Label
	}{
		{"grateful and happy", "I feel so happy and grateful today", Positive},
		{"anxious and scared", "I'm anxious and scared", Negative},
		{"repeated joy outweighs a little sadness", "I am happy happy happy but a little sad", Positive},
		{"no keywords", "I went to the store and bought some bread", Neutral},
		{"empty", "", Neutral},
		{"whitespace", "   \n\t", Neutral},
		{"case insensitive", "I am THRILLED", Positive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestAnalyzeIntensity(t *testing.T) {
	a := Analyze("I am happy happy happy but a little sad")
	assert.Equal(t, 3, a.PositiveIntensity)
	assert.Equal(t, 1, a.NegativeIntensity)
	assert.Equal(t, 1, a.PositiveCount)
	assert.Equal(t, 1, a.NegativeCount)
	assert.Equal(t, Positive, a.Label)

	a = Analyze("I'm anxious and scared")
	assert.Equal(t, 0, a.PositiveIntensity)
	assert.Equal(t, 2, a.NegativeIntensity)
	assert.Equal(t, Negative, a.Label)
}

func TestClassifyTieLeansNegative(t *testing.T) {
	// one match on each side, equal intensity
	a := Analyze("good but sad")
	assert.Equal(t, a.PositiveIntensity, a.NegativeIntensity)
	assert.Equal(t, Negative, a.Label)
}

func TestClassifyTieWithMorePositiveKeywords(t *testing.T) {
	// intensity 2 vs 2, but two distinct positive keywords against one negative
	a := Analyze("proud and lucky, hate hate")
	assert.Equal(t, 2, a.PositiveIntensity)
	assert.Equal(t, 2, a.NegativeIntensity)
	assert.Equal(t, 2, a.PositiveCount)
	assert.Equal(t, 1, a.NegativeCount)
	assert.Equal(t, Positive, a.Label)
}

func TestClassifyOnlyPositiveLexicon(t *testing.T) {
	for _, w := range PositiveWords() {
		assert.Equal(t, Positive, Classify(w), "word %q", w)
	}
	assert.Equal(t, Positive, Classify(strings.Join(PositiveWords(), " ")))
}

func TestClassifyOnlyNegativeLexicon(t *testing.T) {
	for _, w := range NegativeWords() {
		assert.Equal(t, Negative, Classify(w), "word %q", w)
	}
	assert.Equal(t, Negative, Classify(strings.Join(NegativeWords(), " ")))
}

// Substring matching over-matches inside longer words. This is a known
// limitation of the lexicon approach and is pinned here on purpose.
func TestClassifySubstringOverMatch(t *testing.T) {
	assert.Equal(t, Negative, Classify("sadly the bus was late"))
	assert.Equal(t, Positive, Classify("the table of contents"))
	assert.Equal(t, Negative, Classify("badminton tonight"))
}

func TestLexiconsAreDistinctAndLowercase(t *testing.T) {
	for _, words := range [][]string{PositiveWords(), NegativeWords()} {
		seen := map[string]bool{}
		for _, w := range words {
			assert.Equal(t, strings.ToLower(w), w)
			assert.False(t, seen[w], "duplicate keyword %q", w)
			seen[w] = true
		}
	}
}

func TestLexiconCopiesAreIndependent(t *testing.T) {
	words := PositiveWords()
	words[0] = "mutated"
	assert.Equal(t, "happy", PositiveWords()[0])
}
