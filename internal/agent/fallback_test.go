package agent

import (
	"testing"

	"github.com/soyeahso/moodai/internal/mood"
	"github.com/stretchr/testify/assert"
)

func TestFallbackIsPure(t *testing.T) {
	for _, label := range mood.Labels {
		assert.Equal(t, Fallback(label), Fallback(label))
	}
}

func TestFallbackNamesConcreteItems(t *testing.T) {
	named := map[mood.Label][]string{
		mood.Positive: {`"Happy" by Pharrell Williams`, "Don't Stop Me Now"},
		mood.Negative: {"4-7-8 Breathing", `"Weightless" by Marconi Union`, "Clair de Lune"},
		mood.Neutral:  {"5-4-3-2-1", `"River Flows In You" by Yiruma`, "Shut Up and Dance"},
	}
	for label, items := range named {
		for _, item := range items {
			assert.Contains(t, Fallback(label), item, label.String())
		}
	}
}

func TestFallbackDistinctPerLabel(t *testing.T) {
	assert.NotEqual(t, Fallback(mood.Positive), Fallback(mood.Negative))
	assert.NotEqual(t, Fallback(mood.Negative), Fallback(mood.Neutral))
	assert.NotEqual(t, Fallback(mood.Positive), Fallback(mood.Neutral))
}

func TestFallbackPanicsOnUnknownLabel(t *testing.T) {
	assert.Panics(t, func() { Fallback(mood.Label(42)) })
}
