package resolve

import (
	"math"

	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region resolver
// Resolver collapses an uncertain signal to On or Off by adding bounded noise
// and thresholding at the midpoint.
type Resolver struct {
	delta float64
	src   Source
}

// NewResolver creates a resolver with noise half-width delta. A nil src uses GlobalSource.
func NewResolver(delta float64, src Source) *Resolver {
	if src == nil {
		src = GlobalSource()
	}
	return &Resolver{delta: delta, src: src}
}

// Delta returns the noise half-width.
func (r *Resolver) Delta() float64 {
	return r.delta
}

// Resolve perturbs signal by a draw from (-delta, delta) and returns On when the
// result is at least 0.5, Off otherwise. It never returns Uncertain.
func (r *Resolver) Resolve(signal float64) trit.State {
	state, _ := r.resolve(signal)
	return state
}

// ResolveWithConfidence is Resolve plus how far the perturbed value landed from
// the midpoint, scaled by delta and capped at 1. Without a positive delta
// confidence is 1.
func (r *Resolver) ResolveWithConfidence(signal float64) (trit.State, float64) {
	state, perturbed := r.resolve(signal)
	if !(r.delta > 0) {
		return state, 1
	}
	return state, math.Min(1, math.Abs(perturbed-0.5)/r.delta)
}

// resolve draws no noise unless delta is positive, so a zero, negative or NaN
// delta is a plain threshold at 0.5.
func (r *Resolver) resolve(signal float64) (trit.State, float64) {
	perturbed := signal
	if r.delta > 0 {
		perturbed += r.src.Uniform(-r.delta, r.delta)
	}
	if perturbed >= 0.5 {
		return trit.On, perturbed
	}
	return trit.Off, perturbed
}

// #endregion resolver

// #region decision
// Decision classifies confidence scores with a fixed tolerance band.
type Decision struct {
	delta float64
}

// NewDecision creates a decision evaluator bound to delta.
func NewDecision(delta float64) Decision {
	return Decision{delta: delta}
}

// Delta returns the tolerance band half-width.
func (d Decision) Delta() float64 {
	return d.delta
}

// Decide applies trit.Classify with the bound delta.
func (d Decision) Decide(confidence float64) trit.State {
	return trit.Classify(confidence, d.delta)
}

// #endregion decision
