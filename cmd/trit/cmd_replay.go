package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/ternary-kernel/internal/engine"
	"github.com/danielpatrickdp/ternary-kernel/internal/replay"
	"github.com/danielpatrickdp/ternary-kernel/internal/resolve"
)

// #region replay
func newReplayCmd(a *app) *cobra.Command {
	var (
		fixturePath string
		exportPath  string
		limit       int
	)
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run a fixture or the ledger through the kernel and compare results",
		Long: `Without --fixture the ledger at --db is replayed: recorded evaluations are
turned into steps, run through a fresh kernel at --delta and compared with the
recorded results. Resolutions inside the noise band are left out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				f   *replay.Fixture
				err error
			)
			if fixturePath != "" {
				f, err = replay.LoadFixture(fixturePath)
				if err != nil {
					return err
				}
			} else {
				store, err := a.openStore()
				if err != nil {
					return err
				}
				evals, err := store.ListEvaluations(background(cmd), limit)
				if err != nil {
					return err
				}
				var skipped int
				f, skipped = replay.FixtureFromLedger(evals, a.delta)
				if skipped > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d unreadable ledger rows\n", skipped)
				}
			}

			if exportPath != "" {
				if err := f.Save(exportPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d steps to %s\n", len(f.Steps), exportPath)
				return nil
			}

			seed := f.Config.Seed
			if a.seed != 0 {
				seed = a.seed
			}
			opts := engine.Options{Delta: f.Config.Delta, Logger: a.logger}
			if seed != 0 {
				opts.Source = resolve.NewSeededSource(seed)
			}
			eng, err := engine.New(opts)
			if err != nil {
				return err
			}

			results := replay.Replay(background(cmd), eng, f.Steps, f.Config.Delta)
			summary := printComparison(cmd.OutOrStdout(), results, f.Expected())
			if summary.Diverged > 0 || summary.Invalid > 0 {
				return fmt.Errorf("%d diverged, %d invalid", summary.Diverged, summary.Invalid)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "fixture JSON to replay instead of the ledger")
	cmd.Flags().StringVar(&exportPath, "export", "", "write the steps as a fixture instead of replaying")
	cmd.Flags().IntVar(&limit, "limit", 10000, "ledger rows to read")
	return cmd
}

// #endregion replay

// #region output
func printComparison(w io.Writer, results []replay.ReplayResult, expected []string) replay.ReplaySummary {
	fmt.Fprintf(w, "%-38s| %-9s| %-10s| %-10s| %s\n", "Step", "Op", "Expected", "Replayed", "Match")
	fmt.Fprintf(w, "%-38s+%-10s+%-11s+%-11s+%s\n",
		"--------------------------------------", "----------", "-----------", "-----------", "------")

	for i, r := range results {
		exp := "-"
		if i < len(expected) {
			exp = expected[i]
		}
		got := r.State.String()
		match := "DIFF"
		switch {
		case r.Err != nil:
			got, match = "invalid", "ERR"
		case i < len(expected) && replay.StatesMatch(exp, r.State):
			match = "OK"
		}
		fmt.Fprintf(w, "%-38s| %-9s| %-10s| %-10s| %s\n", r.StepID, r.Op, exp, got, match)
	}

	summary := replay.Summarize(results, expected)
	fmt.Fprintf(w, "\nSummary: %d total, %d match, %d diverge, %d invalid\n",
		summary.TotalSteps, summary.Matches, summary.Diverged, summary.Invalid)
	return summary
}

// #endregion output
