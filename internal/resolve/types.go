package resolve

import (
	"math/rand/v2"
	"sync"
)

// DefaultDelta is the tolerance band used when none is configured.
const DefaultDelta = 0.05

// #region source
// Source yields uniform random values. Uniform returns a value in the open
// interval (lo, hi), or lo when hi <= lo.
type Source interface {
	Uniform(lo, hi float64) float64
}

// RandSource is a seeded generator owned by the caller. It is safe for
// concurrent use, though callers resolving from many goroutines should give
// each goroutine its own source.
type RandSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed uint64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Uniform implements Source.
func (s *RandSource) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return openInterval(lo, hi, s.rng.Float64)
}

type globalSource struct{}

func (globalSource) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return openInterval(lo, hi, rand.Float64)
}

// GlobalSource returns a source backed by the runtime's per-process generator,
// which is randomly seeded and safe for concurrent use.
func GlobalSource() Source {
	return globalSource{}
}

// openInterval maps draws from [0,1) onto (lo,hi), redrawing values that round
// onto an endpoint. Intervals too narrow to hold an interior float fall back to
// the midpoint.
func openInterval(lo, hi float64, next func() float64) float64 {
	for range 64 {
		v := lo + (hi-lo)*next()
		if v > lo && v < hi {
			return v
		}
	}
	return lo + (hi-lo)/2
}

// #endregion source
