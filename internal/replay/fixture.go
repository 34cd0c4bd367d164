package replay

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/danielpatrickdp/ternary-kernel/internal/codec"
	"github.com/danielpatrickdp/ternary-kernel/internal/ledger"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Config          FixtureConfig           `json:"config"`
	Steps           []Step                  `json:"steps"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureConfig holds the kernel settings a fixture was recorded with.
type FixtureConfig struct {
	Delta float64 `json:"delta"`
	Seed  uint64  `json:"seed,omitempty"`
}

// Step is one kernel call. Value feeds classify, decide and resolve; A and B
// feed the connectives. Delta overrides the fixture delta when set.
type Step struct {
	ID       string   `json:"id"`
	Op       string   `json:"op"`
	Category string   `json:"category,omitempty"`
	Value    float64  `json:"value,omitempty"`
	Delta    *float64 `json:"delta,omitempty"`
	A        string   `json:"a,omitempty"`
	B        string   `json:"b,omitempty"`
}

// FixtureExpectedResult captures the expected state per step.
type FixtureExpectedResult struct {
	StepID string `json:"step_id"`
	State  string `json:"state"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Save writes f as indented JSON.
func (f *Fixture) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// Expected returns the expected states in step order.
func (f *Fixture) Expected() []string {
	out := make([]string, len(f.ExpectedResults))
	for i, e := range f.ExpectedResults {
		out[i] = e.State
	}
	return out
}

// #endregion fixture-loader

// #region ledger-export

// ledgerInputs mirrors the inputs_json written by the engine.
type ledgerInputs struct {
	Value      *float64 `json:"value"`
	Confidence *float64 `json:"confidence"`
	Signal     *float64 `json:"signal"`
	Delta      *float64 `json:"delta"`
	A          string   `json:"a"`
	B          string   `json:"b"`
}

// FixtureFromLedger rebuilds a fixture from evaluations as returned by
// ledger.Store.ListEvaluations (newest first). Steps come out oldest first.
// Resolve rows whose signal lies inside the noise band are dropped because
// their outcome depended on the random draw. Rows with unreadable inputs,
// including non-finite numbers stored as strings, are skipped and counted.
func FixtureFromLedger(evals []ledger.Evaluation, delta float64) (*Fixture, int) {
	ordered := slices.Clone(evals)
	slices.Reverse(ordered)
	slices.SortStableFunc(ordered, func(a, b ledger.Evaluation) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	f := &Fixture{
		Description: "exported from ledger",
		Config:      FixtureConfig{Delta: delta},
	}
	skipped := 0
	for _, e := range ordered {
		step, ok := stepFromEvaluation(e)
		if !ok {
			skipped++
			continue
		}
		if step.Op == "resolve" && !resolveIsDeterministic(step, delta) {
			continue
		}
		f.Steps = append(f.Steps, step)
		f.ExpectedResults = append(f.ExpectedResults, FixtureExpectedResult{
			StepID: step.ID,
			State:  codec.Decode(e.Result).String(),
		})
	}
	return f, skipped
}

func stepFromEvaluation(e ledger.Evaluation) (Step, bool) {
	var in ledgerInputs
	if err := json.Unmarshal([]byte(e.InputsJSON), &in); err != nil {
		return Step{}, false
	}
	step := Step{ID: e.ID, Op: e.Operation, Category: e.Category, Delta: in.Delta, A: in.A, B: in.B}

	switch e.Operation {
	case "classify":
		if in.Value == nil {
			return Step{}, false
		}
		step.Value = *in.Value
	case "decide":
		if in.Confidence == nil {
			return Step{}, false
		}
		step.Value = *in.Confidence
	case "resolve":
		if in.Signal == nil {
			return Step{}, false
		}
		step.Value = *in.Signal
	case "not":
		if in.A == "" {
			return Step{}, false
		}
	default:
		if _, err := trit.ParseOp(e.Operation); err != nil || in.A == "" || in.B == "" {
			return Step{}, false
		}
	}
	return step, true
}

// resolveIsDeterministic reports whether no draw in (-delta, delta) can move
// the signal across the midpoint, for both the recorded and the replay delta.
func resolveIsDeterministic(step Step, delta float64) bool {
	if step.Delta != nil {
		delta = max(delta, *step.Delta)
	}
	return math.Abs(step.Value-0.5) >= delta
}

// #endregion ledger-export
