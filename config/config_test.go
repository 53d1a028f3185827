package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/trip-engine/config"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoad_Json(t *testing.T) {
	path := writeFile(t, "engine.json", `{
		"advisor": {
			"targetMarginMin": 0.15,
			"targetMarginMax": 0.17,
			"bufferPurpose": "delivery run"
		},
		"logging": {"level": "debug"}
	}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.15, cfg.Advisor.TargetMarginMin)
	assert.Equal(t, 0.17, cfg.Advisor.TargetMarginMax)
	assert.Equal(t, "delivery run", cfg.Advisor.BufferPurpose)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset fill-up band falls back to the stock 1.05-1.20.
	assert.Equal(t, 1.05, cfg.Advisor.FillupMin)
	assert.Equal(t, 1.20, cfg.Advisor.FillupMax)
}

func TestLoad_Yaml(t *testing.T) {
	path := writeFile(t, "engine.yaml", `
advisor:
  fillupMin: 1.08
  fillupMax: 1.15
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1.08, cfg.Advisor.FillupMin)
	assert.Equal(t, 1.15, cfg.Advisor.FillupMax)
}

func TestLoad_EmptyFile_AllDefaults(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "engine.json", `{}`))
	require.NoError(t, err)

	assert.Equal(t, 0.16, cfg.Advisor.TargetMarginMin)
	assert.Equal(t, 0.19, cfg.Advisor.TargetMarginMax)
	assert.Equal(t, "business trip", cfg.Advisor.BufferPurpose)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TE_LOGGING__LEVEL", "warn")

	cfg, err := config.Load(writeFile(t, "engine.json", `{}`))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := config.Load(writeFile(t, "engine.toml", ``))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestLoad_TargetBandAboveCeiling_Rejected(t *testing.T) {
	path := writeFile(t, "engine.json", `{
		"advisor": {"targetMarginMin": 0.18, "targetMarginMax": 0.25}
	}`)

	_, err := config.Load(path)
	assert.Error(t, err, "a target at or above 20% would aim past the legal ceiling")
}

func TestLoad_InvertedBand_Rejected(t *testing.T) {
	path := writeFile(t, "engine.json", `{
		"advisor": {"targetMarginMin": 0.19, "targetMarginMax": 0.16}
	}`)

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_BadLogLevel_Rejected(t *testing.T) {
	path := writeFile(t, "engine.json", `{"logging": {"level": "chatty"}}`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

// =============================================================================
// ENGINE CONFIG CONVERSION
// =============================================================================

func TestEngineConfig_Conversion(t *testing.T) {
	path := writeFile(t, "engine.json", `{
		"advisor": {
			"targetMarginMin": 0.15,
			"targetMarginMax": 0.17,
			"bufferPurpose": "site visit"
		}
	}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	ec := cfg.EngineConfig()
	assert.True(t, ec.TargetBand.Min.Equal(d("0.15")))
	assert.True(t, ec.TargetBand.Max.Equal(d("0.17")))
	assert.True(t, ec.FillupBand.Min.Equal(d("1.05")))
	assert.Equal(t, "site visit", ec.BufferPurpose)
}
