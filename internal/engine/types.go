package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/ternary-kernel/internal/alert"
	"github.com/danielpatrickdp/ternary-kernel/internal/ledger"
	"github.com/danielpatrickdp/ternary-kernel/internal/resolve"
	"github.com/danielpatrickdp/ternary-kernel/internal/tally"
)

// #region ledger-interface
// Ledger persists evaluations and alerts. *ledger.Store satisfies it.
type Ledger interface {
	RecordEvaluation(ctx context.Context, e ledger.Evaluation) error
	RecordAlert(ctx context.Context, a alert.Alert) error
}

// #endregion ledger-interface

// #region options
// Options wires an Engine. Only Delta is required; nil collaborators are
// replaced by defaults (global random source, fresh recorder and monitor, no
// ledger, no-op logger).
type Options struct {
	Delta    float64
	Source   resolve.Source
	Recorder *tally.Recorder
	Monitor  *alert.Monitor
	Ledger   Ledger
	Logger   *zap.Logger
}

// #endregion options
