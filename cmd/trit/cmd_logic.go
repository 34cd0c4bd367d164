package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/ternary-kernel/internal/resolve"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region classify
func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <value>",
		Short: "Map a number to off, uncertain or on using --delta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse value: %w", err)
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}
			out, err := eng.Classify(background(cmd), a.category, value)
			printState(cmd.OutOrStdout(), out)
			return err
		},
	}
}

// #endregion classify

// #region decide
func newDecideCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decide <confidence>",
		Short: "Threshold decision on a confidence in [0, 1]",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confidence, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse confidence: %w", err)
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}
			out, err := eng.Decide(background(cmd), a.category, confidence)
			printState(cmd.OutOrStdout(), out)
			return err
		},
	}
}

// #endregion decide

// #region resolve
func newResolveCmd(a *app) *cobra.Command {
	var (
		count      int
		confidence bool
	)
	cmd := &cobra.Command{
		Use:   "resolve <signal>",
		Short: "Collapse a signal to on or off with noise of width --delta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signal, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse signal: %w", err)
			}
			if count < 1 {
				return fmt.Errorf("count must be positive, got %d", count)
			}

			if confidence {
				var src resolve.Source
				if a.seed != 0 {
					src = resolve.NewSeededSource(a.seed)
				}
				r := resolve.NewResolver(a.delta, src)
				for range count {
					out, conf := r.ResolveWithConfidence(signal)
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s confidence=%.3f\n", out.Symbol(), out, conf)
				}
				return nil
			}

			eng, err := a.engine()
			if err != nil {
				return err
			}
			for range count {
				out, err := eng.Resolve(background(cmd), a.category, signal)
				printState(cmd.OutOrStdout(), out)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of independent resolutions")
	cmd.Flags().BoolVar(&confidence, "confidence", false, "also print distance from the midpoint relative to delta")
	return cmd
}

// #endregion resolve

// #region connectives
func newBinaryCmd(a *app, op trit.Op, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(op) + " <a> <b>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := parseStates(args)
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}
			out, err := eng.Combine(background(cmd), a.category, op, states[0], states[1])
			printState(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newNotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "not <a>",
		Short: "Kleene NOT of a state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := parseStates(args)
			if err != nil {
				return err
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}
			out, err := eng.Negate(background(cmd), a.category, states[0])
			printState(cmd.OutOrStdout(), out)
			return err
		},
	}
}

// #endregion connectives

// #region consensus
func newConsensusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "consensus <state>...",
		Short: "Majority vote; uncertain when more than a third abstain or on a tie",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := parseStates(args)
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), trit.Consensus(states...))
			return nil
		},
	}
}

// #endregion consensus

// #region symbols
func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the states with their symbols and numeric values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, s := range trit.States {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-9s %.1f\n", s.Symbol(), s, s.Numeric())
			}
			return nil
		},
	}
}

// #endregion symbols
