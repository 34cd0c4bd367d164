package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/ternary-kernel/internal/alert"
	"github.com/danielpatrickdp/ternary-kernel/internal/codec"
	"github.com/danielpatrickdp/ternary-kernel/internal/ledger"
	"github.com/danielpatrickdp/ternary-kernel/internal/resolve"
	"github.com/danielpatrickdp/ternary-kernel/internal/tally"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region engine
// Engine runs the kernel pipeline: a continuous value is classified or
// resolved into a trit.State, states are combined by the connectives, and
// every result is tallied, checked for uncertainty spikes and logged.
//
// Results are always returned. A non-nil error means only that recording the
// evaluation failed.
type Engine struct {
	decision resolve.Decision
	resolver *resolve.Resolver
	recorder *tally.Recorder
	monitor  *alert.Monitor
	ledger   Ledger
	logger   *zap.Logger
}

var _ codec.Kernel = (*Engine)(nil)

// New creates an engine bound to opts.Delta.
func New(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := opts.Recorder
	if recorder == nil {
		var err error
		if recorder, err = tally.NewRecorder(nil); err != nil {
			return nil, fmt.Errorf("new recorder: %w", err)
		}
	}
	monitor := opts.Monitor
	if monitor == nil {
		monitor = alert.NewMonitor(alert.DefaultConfig(), logger)
	}

	return &Engine{
		decision: resolve.NewDecision(opts.Delta),
		resolver: resolve.NewResolver(opts.Delta, opts.Source),
		recorder: recorder,
		monitor:  monitor,
		ledger:   opts.Ledger,
		logger:   logger,
	}, nil
}

// Delta returns the tolerance band the engine was built with.
func (e *Engine) Delta() float64 {
	return e.decision.Delta()
}

// Recorder returns the engine's state counter.
func (e *Engine) Recorder() *tally.Recorder {
	return e.recorder
}

// Monitor returns the engine's spike monitor.
func (e *Engine) Monitor() *alert.Monitor {
	return e.monitor
}

// #endregion engine

// #region operations
// Classify maps value with the engine's delta.
func (e *Engine) Classify(ctx context.Context, category string, value float64) (trit.State, error) {
	out := trit.Classify(value, e.decision.Delta())
	return out, e.record(ctx, "classify", category, map[string]any{"value": value, "delta": e.decision.Delta()}, out)
}

// Decide runs the bound decision evaluator on confidence.
func (e *Engine) Decide(ctx context.Context, category string, confidence float64) (trit.State, error) {
	out := e.decision.Decide(confidence)
	return out, e.record(ctx, "decide", category, map[string]any{"confidence": confidence, "delta": e.decision.Delta()}, out)
}

// DecideWith runs a decision evaluator built for delta.
func (e *Engine) DecideWith(ctx context.Context, category string, confidence, delta float64) (trit.State, error) {
	out := resolve.NewDecision(delta).Decide(confidence)
	return out, e.record(ctx, "decide", category, map[string]any{"confidence": confidence, "delta": delta}, out)
}

// Resolve collapses signal to On or Off with the engine's resolver.
func (e *Engine) Resolve(ctx context.Context, category string, signal float64) (trit.State, error) {
	out := e.resolver.Resolve(signal)
	return out, e.record(ctx, "resolve", category, map[string]any{"signal": signal, "delta": e.resolver.Delta()}, out)
}

// Combine applies a binary connective.
func (e *Engine) Combine(ctx context.Context, category string, op trit.Op, a, b trit.State) (trit.State, error) {
	out := op.Apply(a, b)
	return out, e.record(ctx, string(op), category, map[string]any{"a": a.String(), "b": b.String()}, out)
}

// Negate applies NOT.
func (e *Engine) Negate(ctx context.Context, category string, a trit.State) (trit.State, error) {
	out := trit.Not(a)
	return out, e.record(ctx, "not", category, map[string]any{"a": a.String()}, out)
}

// #endregion operations

// #region record
func (e *Engine) record(ctx context.Context, op, category string, inputs map[string]any, out trit.State) error {
	e.recorder.Record(out, category)
	raised, alerted := e.monitor.Record(out, category)

	e.logger.Debug("evaluated",
		zap.String("op", op),
		zap.String("category", category),
		zap.Any("inputs", inputs),
		zap.Stringer("result", out),
	)

	if e.ledger == nil {
		return nil
	}

	var errs []error
	inputsJSON, err := json.Marshal(jsonSafe(inputs))
	if err != nil {
		errs = append(errs, fmt.Errorf("marshal inputs: %w", err))
	}
	err = e.ledger.RecordEvaluation(ctx, ledger.Evaluation{
		Operation:  op,
		Category:   category,
		InputsJSON: string(inputsJSON),
		Result:     codec.Encode(out),
	})
	if err != nil {
		errs = append(errs, err)
	}
	if alerted {
		if err := e.ledger.RecordAlert(ctx, raised); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// jsonSafe replaces NaN and infinities, which JSON cannot carry, with their
// strconv spelling ("NaN", "+Inf", "-Inf").
func jsonSafe(inputs map[string]any) map[string]any {
	for k, v := range inputs {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			inputs[k] = strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return inputs
}

// #endregion record
