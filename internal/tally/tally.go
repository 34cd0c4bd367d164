package tally

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region recorder
// Recorder counts evaluated states overall and per category.
type Recorder struct {
	mu         sync.Mutex
	states     Counts
	categories map[string]Counts
	start      time.Time
	now        func() time.Time
	counter    *prometheus.CounterVec
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock replaces time.Now for uptime.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder creates an empty recorder. When reg is non-nil the counts are
// also exported as ternary_states_total{category,state}.
func NewRecorder(reg prometheus.Registerer, opts ...Option) (*Recorder, error) {
	r := &Recorder{
		categories: make(map[string]Counts),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.start = r.now()

	if reg != nil {
		r.counter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ternary_states_total",
			Help: "Ternary states produced, by category and state.",
		}, []string{"category", "state"})
		if err := reg.Register(r.counter); err != nil {
			return nil, fmt.Errorf("register states counter: %w", err)
		}
	}
	return r, nil
}

// Record counts one occurrence of s under category.
func (r *Recorder) Record(s trit.State, category string) {
	r.mu.Lock()
	r.states = bump(r.states, s)
	r.categories[category] = bump(r.categories[category], s)
	r.mu.Unlock()

	if r.counter != nil {
		r.counter.WithLabelValues(category, s.String()).Inc()
	}
}

// Statistics returns a snapshot of the counts.
func (r *Recorder) Statistics() Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Statistics{
		Total:      r.states.Total(),
		States:     r.states,
		Uptime:     r.now().Sub(r.start),
		Categories: maps.Clone(r.categories),
	}
	if stats.Total > 0 {
		total := float64(stats.Total)
		stats.SuccessRate = float64(r.states.On) / total * 100
		stats.FailureRate = float64(r.states.Off) / total * 100
		stats.UncertainRate = float64(r.states.Uncertain) / total * 100
	}
	return stats
}

// #endregion recorder

// #region helpers
func bump(c Counts, s trit.State) Counts {
	switch s {
	case trit.Off:
		c.Off++
	case trit.On:
		c.On++
	default:
		c.Uncertain++
	}
	return c
}

// #endregion helpers
