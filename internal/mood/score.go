package mood

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Score bands. Lower bounds are inclusive, upper bounds exclusive.
const (
	PositiveMin = 0.70
	PositiveMax = 1.00
	NegativeMin = 0.00
	NegativeMax = 0.40
	NeutralMin  = 0.35
	NeutralMax  = 0.75
)

// Scorer derives a randomized mood score from a label. It is safe for
// concurrent use.
type Scorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewScorer creates a Scorer drawing from src. A nil src seeds a PCG
// generator from the clock.
func NewScorer(src rand.Source) *Scorer {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>17|1)
	}
	return &Scorer{rng: rand.New(src)}
}

// Score returns a value uniformly drawn from the band for label.
func (s *Scorer) Score(label Label) float64 {
	lo, hi := Band(label)
	s.mu.Lock()
	u := s.rng.Float64()
	s.mu.Unlock()
	return lo + u*(hi-lo)
}

// Band returns the score interval for label. Labels outside the declared
// set score in the neutral band.
func Band(label Label) (lo, hi float64) {
	switch label {
	case Positive:
		return PositiveMin, PositiveMax
	case Negative:
		return NegativeMin, NegativeMax
	default:
		return NeutralMin, NeutralMax
	}
}
