package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FUNDLENS_DATA_DIR", t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 20, cfg.CandidatesPerType)
	assert.Contains(t, cfg.SearchBaseURL, "fundcode_search.js")
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FUNDLENS_DATA_DIR", t.TempDir())
	t.Setenv("GO_PORT", "9100")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("CANDIDATES_PER_TYPE", "5")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 5, cfg.CandidatesPerType)
}

func TestValidate_BadPort(t *testing.T) {
	cfg := &Config{Port: -1, CandidatesPerType: 20}

	assert.Error(t, cfg.Validate())
}

func TestValidate_BadCandidateCap(t *testing.T) {
	cfg := &Config{Port: 8001, CandidatesPerType: 0}

	assert.Error(t, cfg.Validate())
}
