package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimirplan/mimir/internal/config"
)

func TestDefaultMatchesDocumentedDefaults(t *testing.T) {
	cfg := config.Default()
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.Quiet)
	assert.Equal(t, 1.0, cfg.ActionCostDefault)
	assert.Equal(t, 0, int(cfg.Deadline))
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mimir.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: true\naction_cost_default: 5\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 5.0, cfg.ActionCostDefault)
	assert.False(t, cfg.Quiet, "unset fields keep their default")
}

func TestValidateRejectsNegativeActionCostDefault(t *testing.T) {
	cfg := config.Default()
	cfg.ActionCostDefault = -1
	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidateRejectsNegativeDeadline(t *testing.T) {
	cfg := config.Default()
	cfg.Deadline = -1
	err := cfg.Validate()
	require.Error(t, err)
}
