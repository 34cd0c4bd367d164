package replay

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/ternary-kernel/internal/codec"
	"github.com/danielpatrickdp/ternary-kernel/internal/engine"
	"github.com/danielpatrickdp/ternary-kernel/internal/ledger"
	"github.com/danielpatrickdp/ternary-kernel/internal/resolve"
	"github.com/danielpatrickdp/ternary-kernel/internal/tally"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region fixture-tests

// TestFixture_KleeneSession is the regression baseline for thresholds and
// connectives: any drift in the kernel shows up as a diverged step.
func TestFixture_KleeneSession(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "kleene_session.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	eng, err := engine.New(engine.Options{
		Delta:  f.Config.Delta,
		Source: resolve.NewSeededSource(f.Config.Seed),
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	results := Replay(context.Background(), eng, f.Steps, f.Config.Delta)
	if len(results) != len(f.ExpectedResults) {
		t.Fatalf("expected %d results, got %d", len(f.ExpectedResults), len(results))
	}
	for i, expected := range f.ExpectedResults {
		got := results[i]
		if got.StepID != expected.StepID {
			t.Errorf("step %d: expected step_id=%s, got %s", i, expected.StepID, got.StepID)
		}
		if got.Err != nil {
			t.Errorf("step %s: %v", got.StepID, got.Err)
			continue
		}
		if !StatesMatch(expected.State, got.State) {
			t.Errorf("step %s (%s): expected %s, got %s", got.StepID, got.Op, expected.State, got.State)
		}
	}

	summary := Summarize(results, f.Expected())
	if summary.Diverged != 0 || summary.Matches != len(f.Steps) {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if eng.Recorder().Statistics().Total != len(f.Steps) {
		t.Fatal("engine did not tally every replayed step")
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}

func TestFixture_SaveRoundTrip(t *testing.T) {
	d := 0.2
	f := &Fixture{
		Description: "round trip",
		Config:      FixtureConfig{Delta: 0.05},
		Steps: []Step{
			{ID: "a", Op: "decide", Value: 0.9, Delta: &d},
			{ID: "b", Op: "or", A: "off", B: "psi"},
		},
		ExpectedResults: []FixtureExpectedResult{{StepID: "a", State: "on"}, {StepID: "b", State: "uncertain"}},
	}
	path := filepath.Join(t.TempDir(), "f.json")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if diff := cmp.Diff(f, got); diff != "" {
		t.Fatalf("fixture mismatch (-want +got):\n%s", diff)
	}
}

// #endregion fixture-tests

// #region harness-tests

func TestReplay_InvalidSteps(t *testing.T) {
	steps := []Step{
		{ID: "x1", Op: "nand", A: "on", B: "on"},
		{ID: "x2", Op: "and", A: "on", B: "sideways"},
		{ID: "x3", Op: "not", A: ""},
		{ID: "x4", Op: "or", A: "on", B: "off"},
	}
	results := Replay(context.Background(), codec.PureKernel{}, steps, 0.05)

	if !errors.Is(results[0].Err, ErrUnknownStep) {
		t.Errorf("x1: expected ErrUnknownStep, got %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, trit.ErrUnknownState) {
		t.Errorf("x2: expected ErrUnknownState, got %v", results[1].Err)
	}
	if results[2].Err == nil {
		t.Error("x3: expected error for empty operand")
	}
	if results[3].Err != nil || results[3].State != trit.On {
		t.Errorf("x4: got %v, %v", results[3].State, results[3].Err)
	}

	summary := Summarize(results, []string{"on", "on", "on", "on"})
	want := ReplaySummary{TotalSteps: 4, Matches: 1, Invalid: 3, States: tally.Counts{On: 1}}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_Divergence(t *testing.T) {
	results := []ReplayResult{
		{StepID: "1", State: trit.On},
		{StepID: "2", State: trit.Uncertain},
		{StepID: "3", State: trit.Off},
	}
	s := Summarize(results, []string{"on", "off"})
	if s.Matches != 1 || s.Diverged != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.States != (tally.Counts{Off: 1, Uncertain: 1, On: 1}) {
		t.Fatalf("unexpected state counts: %+v", s.States)
	}
}

// #endregion harness-tests

// #region ledger-tests

func TestFixtureFromLedger(t *testing.T) {
	store, err := ledger.NewStore(filepath.Join(t.TempDir(), "replay.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	eng, err := engine.New(engine.Options{Delta: 0.05, Ledger: store})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	ctx := context.Background()
	eng.Decide(ctx, "sensors", 0.99)
	eng.Combine(ctx, "logic", trit.OpAnd, trit.On, trit.Uncertain)
	eng.Resolve(ctx, "signals", 0.5) // inside the noise band, dropped
	eng.Resolve(ctx, "signals", 0.9)
	eng.Negate(ctx, "logic", trit.Off)

	evals, err := store.ListEvaluations(ctx, 100)
	if err != nil {
		t.Fatalf("ListEvaluations: %v", err)
	}
	if err := store.RecordEvaluation(ctx, ledger.Evaluation{
		Operation: "decide", Category: "broken", InputsJSON: "not json", Result: 1,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("RecordEvaluation: %v", err)
	}
	withBroken, err := store.ListEvaluations(ctx, 100)
	if err != nil {
		t.Fatalf("ListEvaluations: %v", err)
	}

	f, skipped := FixtureFromLedger(withBroken, 0.05)
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(f.Steps) != len(evals)-1 {
		t.Fatalf("steps = %d, want %d", len(f.Steps), len(evals)-1)
	}
	wantOps := []string{"decide", "and", "resolve", "not"}
	for i, step := range f.Steps {
		if step.Op != wantOps[i] {
			t.Fatalf("step %d op = %s, want %s", i, step.Op, wantOps[i])
		}
	}

	results := Replay(ctx, codec.PureKernel{Resolver: resolve.NewResolver(0.05, nil)}, f.Steps, f.Config.Delta)
	summary := Summarize(results, f.Expected())
	if summary.Diverged != 0 || summary.Matches != len(f.Steps) {
		t.Fatalf("ledger replay diverged: %+v", summary)
	}
}

// #endregion ledger-tests
