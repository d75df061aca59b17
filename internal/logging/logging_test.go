package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mimirplan/mimir/internal/logging"
	"github.com/mimirplan/mimir/internal/mimirerr"
)

func TestNewProductionLevelByDefault(t *testing.T) {
	l, err := logging.New(logging.Options{})
	require.NoError(t, err)
	defer l.Sync()
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	l, err := logging.New(logging.Options{Verbose: true})
	require.NoError(t, err)
	defer l.Sync()
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewQuietSilencesBelowError(t *testing.T) {
	l, err := logging.New(logging.Options{Quiet: true})
	require.NoError(t, err)
	defer l.Sync()
	assert.False(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestQuietOverridesVerbose(t *testing.T) {
	l, err := logging.New(logging.Options{Quiet: true, Verbose: true})
	require.NoError(t, err)
	defer l.Sync()
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestErrDoesNotPanicOnPlainError(t *testing.T) {
	l := logging.Nop()
	assert.NotPanics(t, func() {
		logging.Err(l, "boom", assertError{})
	})
}

func TestErrHandlesCancelledSentinel(t *testing.T) {
	l := logging.Nop()
	assert.NotPanics(t, func() {
		logging.Err(l, "cancelled", mimirerr.CancelledErr)
	})
}

type assertError struct{}

func (assertError) Error() string { return "plain error" }
