package mood

import "strings"

// positiveWords and negativeWords are the curated lexicons used for
// keyword-intensity scoring. Entries are lower-case and matched as
// substrings, so "sadly" counts as "sad".
var positiveWords = []string{
	"happy", "joy", "great", "excellent", "wonderful", "good", "better", "best", "love",
	"excited", "grateful", "amazing", "fantastic", "awesome", "blessed", "thankful",
	"proud", "delighted", "cheerful", "optimistic", "hopeful", "satisfied", "pleased",
	"thrilled", "ecstatic", "elated", "joyful", "content", "lucky", "fortunate",
}

var negativeWords = []string{
	"sad", "depressed", "angry", "anxious", "worried", "bad", "terrible", "hate",
	"stressed", "upset", "lonely", "hopeless", "scared", "frustrated", "hurt",
	"pain", "crying", "afraid", "miserable", "overwhelmed", "exhausted", "tired",
	"broken", "lost", "empty", "numb", "helpless", "worthless", "panic",
	"anxiety", "depression", "stress", "fear", "anger", "grief", "disappointed",
}

// PositiveWords returns a copy of the positive lexicon.
func PositiveWords() []string { return append([]string(nil), positiveWords...) }

// NegativeWords returns a copy of the negative lexicon.
func NegativeWords() []string { return append([]string(nil), negativeWords...) }

// Analysis is the breakdown behind a classification.
type Analysis struct {
	Label             Label `json:"label"`
	PositiveCount     int   `json:"positiveCount"`
	NegativeCount     int   `json:"negativeCount"`
	PositiveIntensity int   `json:"positiveIntensity"`
	NegativeIntensity int   `json:"negativeIntensity"`
}

// Classify returns the sentiment label for text. It never fails; empty
// text is Neutral.
func Classify(text string) Label {
	return Analyze(text).Label
}

// Analyze scores text against both lexicons. Count is the number of
// distinct keywords present, intensity the total number of non-overlapping
// occurrences.
//
// Intensity decides first. On an intensity tie with at least one match the
// result leans Negative unless strictly more positive keywords matched, so
// mixed messages get the supportive branch.
func Analyze(text string) Analysis {
	lower := strings.ToLower(text)

	var a Analysis
	a.PositiveCount, a.PositiveIntensity = match(lower, positiveWords)
	a.NegativeCount, a.NegativeIntensity = match(lower, negativeWords)

	switch {
	case a.PositiveIntensity > a.NegativeIntensity && a.PositiveCount > 0:
		a.Label = Positive
	case a.NegativeIntensity > a.PositiveIntensity && a.NegativeCount > 0:
		a.Label = Negative
	case a.PositiveCount > 0 || a.NegativeCount > 0:
		if a.NegativeCount >= a.PositiveCount {
			a.Label = Negative
		} else {
			a.Label = Positive
		}
	default:
		a.Label = Neutral
	}
	return a
}

func match(lower string, words []string) (count, intensity int) {
	if lower == "" {
		return 0, 0
	}
	for _, w := range words {
		if n := strings.Count(lower, w); n > 0 {
			count++
			intensity += n
		}
	}
	return count, intensity
}
