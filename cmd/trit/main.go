package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danielpatrickdp/ternary-kernel/internal/codec"
	"github.com/danielpatrickdp/ternary-kernel/internal/config"
	"github.com/danielpatrickdp/ternary-kernel/internal/engine"
	"github.com/danielpatrickdp/ternary-kernel/internal/ledger"
	"github.com/danielpatrickdp/ternary-kernel/internal/resolve"
	"github.com/danielpatrickdp/ternary-kernel/internal/trit"
)

// #region main
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// #endregion main

// #region root
// app carries the state shared by every subcommand.
type app struct {
	cfg      config.Config
	envErr   error
	delta    float64
	seed     uint64
	category string
	record   bool
	verbose  bool

	logger *zap.Logger
	store  *ledger.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "trit",
		Short: "Three-valued logic from the command line",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	root.SilenceUsage = true

	// Flag defaults still need values when the environment is bad; setup
	// reports the parse error before any command runs.
	cfg, err := config.ParseEnv()
	if err != nil {
		a.envErr = err
		cfg = config.Config{Delta: resolve.DefaultDelta, DBPath: "ternary.db", GRPCAddr: "localhost:50061", LogLevel: "info"}
	}
	a.cfg = cfg

	flags := root.PersistentFlags()
	flags.Float64Var(&a.delta, "delta", cfg.Delta, "tolerance band half-width")
	flags.Uint64Var(&a.seed, "seed", cfg.Seed, "seed for probabilistic resolution (0 = unseeded)")
	flags.StringVar(&a.category, "category", "cli", "category recorded with each evaluation")
	flags.StringVar(&a.cfg.DBPath, "db", cfg.DBPath, "SQLite ledger path")
	flags.BoolVar(&a.record, "record", false, "append evaluations to the ledger")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newClassifyCmd(a),
		newDecideCmd(a),
		newResolveCmd(a),
		newBinaryCmd(a, trit.OpAnd, "Kleene AND of two states"),
		newBinaryCmd(a, trit.OpOr, "Kleene OR of two states"),
		newBinaryCmd(a, trit.OpXor, "XOR of two states; uncertain if either is"),
		newNotCmd(a),
		newConsensusCmd(a),
		newSymbolsCmd(),
		newLedgerCmd(a),
		newReplayCmd(a),
		newRemoteCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if a.envErr != nil {
		return fmt.Errorf("config: %w", a.envErr)
	}
	level := a.cfg.Level()
	if a.verbose {
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.logger = logger

	if a.delta < 0 || a.delta > 0.5 {
		a.logger.Warn("delta outside [0, 0.5]", zap.Float64("delta", a.delta))
	}
	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store != nil {
		err := a.store.Close()
		a.store = nil
		return err
	}
	return nil
}

// openStore opens the ledger once per invocation.
func (a *app) openStore() (*ledger.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := ledger.NewStore(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	a.store = store
	return store, nil
}

// engine builds a local engine honoring --delta, --seed and --record.
func (a *app) engine() (*engine.Engine, error) {
	opts := engine.Options{Delta: a.delta, Logger: a.logger}
	if a.seed != 0 {
		opts.Source = resolve.NewSeededSource(a.seed)
	}
	if a.record {
		store, err := a.openStore()
		if err != nil {
			return nil, err
		}
		opts.Ledger = store
	}
	return engine.New(opts)
}

// #endregion root

// #region output
func printState(w io.Writer, s trit.State) {
	fmt.Fprintf(w, "%s %s\n", s.Symbol(), s)
}

// parseStates accepts state names and, at this edge only, wire codes
// (0 off, 1 uncertain, 2 on; other bytes decode as uncertain).
func parseStates(args []string) ([]trit.State, error) {
	out := make([]trit.State, 0, len(args))
	for _, arg := range args {
		if n, err := strconv.ParseUint(arg, 10, 8); err == nil {
			out = append(out, codec.Decode(codec.Code(n)))
			continue
		}
		s, err := trit.ParseState(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// #endregion output
