package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielpatrickdp/ternary-kernel/internal/codec"
	"github.com/danielpatrickdp/ternary-kernel/internal/tally"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region types

// ErrUnknownStep is returned for steps whose op the kernel does not provide.
var ErrUnknownStep = errors.New("unknown step op")

// ReplayResult captures the outcome of replaying one step.
type ReplayResult struct {
	StepID string
	Op     string
	State  trit.State
	Err    error // invalid step; State is meaningless when set
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalSteps int
	Matches    int
	Diverged   int
	Invalid    int
	States     tally.Counts
}

// #endregion types

// #region replay

// Replay runs steps in order against k. delta applies to classify and decide
// steps that carry no delta of their own. Kernel recording errors do not stop
// the run.
func Replay(ctx context.Context, k codec.Kernel, steps []Step, delta float64) []ReplayResult {
	results := make([]ReplayResult, 0, len(steps))
	for _, step := range steps {
		out, err := runStep(ctx, k, step, delta)
		results = append(results, ReplayResult{
			StepID: step.ID,
			Op:     step.Op,
			State:  out,
			Err:    err,
		})
	}
	return results
}

func runStep(ctx context.Context, k codec.Kernel, step Step, delta float64) (trit.State, error) {
	category := step.Category
	if category == "" {
		category = "replay"
	}
	if step.Delta != nil {
		delta = *step.Delta
	}

	var out trit.State
	switch step.Op {
	case "classify", "decide":
		out, _ = k.DecideWith(ctx, category, step.Value, delta)
	case "resolve":
		out, _ = k.Resolve(ctx, category, step.Value)
	case "not":
		a, err := trit.ParseState(step.A)
		if err != nil {
			return trit.Uncertain, fmt.Errorf("step %s: %w", step.ID, err)
		}
		out, _ = k.Negate(ctx, category, a)
	default:
		op, err := trit.ParseOp(step.Op)
		if err != nil {
			return trit.Uncertain, fmt.Errorf("step %s: %w: %q", step.ID, ErrUnknownStep, step.Op)
		}
		a, aerr := trit.ParseState(step.A)
		b, berr := trit.ParseState(step.B)
		if err := errors.Join(aerr, berr); err != nil {
			return trit.Uncertain, fmt.Errorf("step %s: %w", step.ID, err)
		}
		out, _ = k.Combine(ctx, category, op, a, b)
	}
	return out, nil
}

// Summarize compares results with the expected state names, position by position.
func Summarize(results []ReplayResult, expected []string) ReplaySummary {
	s := ReplaySummary{TotalSteps: len(results)}
	for i, r := range results {
		if r.Err != nil {
			s.Invalid++
			continue
		}
		switch r.State {
		case trit.On:
			s.States.On++
		case trit.Off:
			s.States.Off++
		default:
			s.States.Uncertain++
		}
		if i >= len(expected) {
			continue
		}
		if StatesMatch(expected[i], r.State) {
			s.Matches++
		} else {
			s.Diverged++
		}
	}
	return s
}

// StatesMatch reports whether expected names the same state as got.
func StatesMatch(expected string, got trit.State) bool {
	want, err := trit.ParseState(expected)
	return err == nil && want == got
}

// #endregion replay
