package mood

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixedSource always yields the same value.
type fixedSource uint64

func (s fixedSource) Uint64() uint64 { return uint64(s) }

func TestScoreWithinBands(t *testing.T) {
	s := NewScorer(rand.NewPCG(1, 2))
	for _, label := range Labels {
		lo, hi := Band(label)
		for i := 0; i < 500; i++ {
			v := s.Score(label)
			assert.GreaterOrEqual(t, v, lo, "label %s", label)
			assert.LessOrEqual(t, v, hi, "label %s", label)
		}
	}
}

func TestScoreBandEdges(t *testing.T) {
	low := NewScorer(fixedSource(0))
	assert.Equal(t, 0.70, low.Score(Positive))
	assert.Equal(t, 0.00, low.Score(Negative))
	assert.Equal(t, 0.35, low.Score(Neutral))

	high := NewScorer(fixedSource(math.MaxUint64))
	assert.InDelta(t, 1.00, high.Score(Positive), 1e-9)
	assert.InDelta(t, 0.40, high.Score(Negative), 1e-9)
	assert.InDelta(t, 0.75, high.Score(Neutral), 1e-9)
}

func TestScoreUnknownLabelUsesNeutralBand(t *testing.T) {
	s := NewScorer(fixedSource(0))
	assert.Equal(t, NeutralMin, s.Score(Label(42)))
}

func TestScoreIsNotDegenerate(t *testing.T) {
	s := NewScorer(nil)
	for _, label := range Labels {
		seen := map[float64]bool{}
		for i := 0; i < 100; i++ {
			seen[s.Score(label)] = true
		}
		assert.Greater(t, len(seen), 1, "label %s produced a constant score", label)
	}
}

func TestScoreConcurrentUse(t *testing.T) {
	s := NewScorer(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				v := s.Score(Negative)
				if v < NegativeMin || v > NegativeMax {
					t.Errorf("score %f outside negative band", v)
				}
			}
		}()
	}
	wg.Wait()
}
