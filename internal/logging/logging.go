// Package logging builds the package-injected *zap.Logger used across the
// grounder/evaluator/CLI layers (§A.1). It mirrors the logger-construction
// shape of a typical cobra-based CLI: zap.NewProductionConfig() by default,
// with the debug level swapped in under --verbose, built once at startup and
// threaded through explicitly rather than reached for as a global singleton.
package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mimirplan/mimir/internal/mimirerr"
)

// Options controls logger construction.
type Options struct {
	// Verbose swaps the production config's level to Debug.
	Verbose bool
	// Quiet silences everything below Error.
	Quiet bool
}

// New builds a *zap.Logger per Options. Quiet takes precedence over Verbose
// when both are set, since §A.1 defines quiet as "silences everything below
// Error" unconditionally.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	switch {
	case opts.Quiet:
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	case opts.Verbose:
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// Nop returns a logger that discards everything, for callers (tests,
// library embedders) that don't want CLI-style output.
func Nop() *zap.Logger { return zap.NewNop() }

// GroundingCall logs one grounding call's summary at Debug: never called
// per-candidate-clique or per-iteration from inside binding.Generate or the
// axiom fixed point, only once per top-level grounding operation.
func GroundingCall(logger *zap.Logger, schemaName string, bindingCount int, elapsed time.Duration) {
	logger.Debug("grounded schema",
		zap.String("schema", schemaName),
		zap.Int("bindings", bindingCount),
		zap.Duration("elapsed", elapsed),
	)
}

// Err logs err at the level appropriate to its mimirerr.Kind: Cancelled is a
// routine outcome of a caller-provided deadline and logs at Warn; everything
// else in the taxonomy is an Error.
func Err(logger *zap.Logger, msg string, err error) {
	if me, ok := err.(*mimirerr.Error); ok {
		switch me.Kind {
		case mimirerr.Cancelled:
			logger.Warn(msg, zap.Error(err))
			return
		case mimirerr.UnstratifiableAxioms:
			logger.Error(msg, zap.Error(err), zap.Strings("cycle", me.Cycle))
			return
		}
	}
	logger.Error(msg, zap.Error(err))
}
