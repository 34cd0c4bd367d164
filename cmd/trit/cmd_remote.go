package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/ternary-kernel/internal/codec"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region ledger
func newLedgerCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show recent evaluations, result counts and alerts from the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			ctx := background(cmd)
			w := cmd.OutOrStdout()

			counts, err := store.CountByResult(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "=== Results ===")
			for _, s := range trit.States {
				fmt.Fprintf(w, "  %s %-9s %d\n", s.Symbol(), s, counts[codec.Encode(s)])
			}

			evals, err := store.ListEvaluations(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\n=== Recent evaluations (%d) ===\n", len(evals))
			for _, e := range evals {
				s := codec.Decode(e.Result)
				fmt.Fprintf(w, "  %s  %-8s %-10s %s %s  %s\n",
					e.CreatedAt.Format(time.RFC3339), e.Operation, e.Category, s.Symbol(), s, e.InputsJSON)
			}

			alerts, err := store.ListAlerts(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\n=== Alerts (%d) ===\n", len(alerts))
			for _, al := range alerts {
				fmt.Fprintf(w, "  %s  %-8s %s\n", al.CreatedAt.Format(time.RFC3339), al.Severity, al.Message)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "rows to show")
	return cmd
}

// #endregion ledger

// #region remote
func newRemoteCmd(a *app) *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "remote <op> <args>...",
		Short: "Evaluate on a running ternaryd (and, or, xor, not, decide, resolve)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := codec.NewCodecClient(addr)
			if err != nil {
				return fmt.Errorf("connect %s: %w", addr, err)
			}
			defer client.Close()
			client.Category = a.category

			ctx, cancel := context.WithTimeout(background(cmd), timeout)
			defer cancel()

			code, err := callRemote(ctx, client, a.delta, args[0], args[1:])
			if err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), codec.Decode(code))
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", a.cfg.GRPCAddr, "ternaryd gRPC address")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "per-call timeout")
	return cmd
}

func callRemote(ctx context.Context, client *codec.CodecClient, delta float64, op string, args []string) (codec.Code, error) {
	switch op {
	case "decide", "resolve":
		if len(args) != 1 {
			return 0, fmt.Errorf("%s takes one number", op)
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return 0, fmt.Errorf("parse %s input: %w", op, err)
		}
		if op == "decide" {
			return client.Decide(ctx, v, delta)
		}
		return client.Resolve(ctx, v)
	case "not", "not3":
		if len(args) != 1 {
			return 0, fmt.Errorf("not takes one state")
		}
		states, err := parseStates(args)
		if err != nil {
			return 0, err
		}
		return client.Not3(ctx, codec.Encode(states[0]))
	}

	binary, err := trit.ParseOp(op)
	if err != nil {
		return 0, err
	}
	if len(args) != 2 {
		return 0, fmt.Errorf("%s takes two states", binary)
	}
	states, err := parseStates(args)
	if err != nil {
		return 0, err
	}
	a, b := codec.Encode(states[0]), codec.Encode(states[1])
	switch binary {
	case trit.OpAnd:
		return client.And3(ctx, a, b)
	case trit.OpOr:
		return client.Or3(ctx, a, b)
	default:
		return client.Xor3(ctx, a, b)
	}
}

// #endregion remote
