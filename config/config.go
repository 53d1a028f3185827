// Package config loads engine settings from a JSON or YAML file with
// optional environment overrides (prefix TE_, __ as the key separator,
// e.g. TE_ADVISOR__BUFFERPURPOSE).
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/trip-engine/advisor"
	"github.com/warp/trip-engine/engine"
)

type Config struct {
	Advisor AdvisorConfig `json:"advisor"`
	Logging LoggingConfig `json:"logging"`
}

// AdvisorConfig tunes compensation and fill-up suggestions. Margins are
// fractions (0.18 = 18% over rated); fill-up bounds are multipliers of
// the rated figure.
type AdvisorConfig struct {
	TargetMarginMin float64 `json:"targetMarginMin"`
	TargetMarginMax float64 `json:"targetMarginMax"`
	FillupMin       float64 `json:"fillupMin"`
	FillupMax       float64 `json:"fillupMax"`
	BufferPurpose   string  `json:"bufferPurpose"`
}

type LoggingConfig struct {
	Level string `json:"level"`
}

func (l *LoggingConfig) SetDefaults() {
	if l.Level == "" {
		l.Level = zerolog.LevelInfoValue
	}
}

func (l LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return nil
}

func (a *AdvisorConfig) SetDefaults() {
	def := engine.DefaultConfig()
	if a.TargetMarginMin == 0 && a.TargetMarginMax == 0 {
		a.TargetMarginMin, _ = def.TargetBand.Min.Float64()
		a.TargetMarginMax, _ = def.TargetBand.Max.Float64()
	}
	if a.FillupMin == 0 && a.FillupMax == 0 {
		a.FillupMin, _ = def.FillupBand.Min.Float64()
		a.FillupMax, _ = def.FillupBand.Max.Float64()
	}
	if a.BufferPurpose == "" {
		a.BufferPurpose = def.BufferPurpose
	}
}

func (a AdvisorConfig) Validate() error {
	if a.TargetMarginMin > a.TargetMarginMax {
		return fmt.Errorf("advisor: targetMarginMin %v above targetMarginMax %v", a.TargetMarginMin, a.TargetMarginMax)
	}
	// The target band must stay strictly below the 20% legal ceiling,
	// otherwise compensation would aim at non-compliance.
	if a.TargetMarginMax >= 0.20 {
		return fmt.Errorf("advisor: targetMarginMax %v not below the 0.20 legal ceiling", a.TargetMarginMax)
	}
	if a.FillupMin > a.FillupMax {
		return fmt.Errorf("advisor: fillupMin %v above fillupMax %v", a.FillupMin, a.FillupMax)
	}
	return nil
}

// Load reads a .json/.yaml/.yml file, applies TE_ environment overrides,
// fills defaults, and validates.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("TE_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "te_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Advisor.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Advisor.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EngineConfig converts the loaded settings into the engine's config.
func (c Config) EngineConfig() engine.Config {
	return engine.Config{
		TargetBand: advisor.Band{
			Min: decimal.NewFromFloat(c.Advisor.TargetMarginMin),
			Max: decimal.NewFromFloat(c.Advisor.TargetMarginMax),
		},
		FillupBand: advisor.Band{
			Min: decimal.NewFromFloat(c.Advisor.FillupMin),
			Max: decimal.NewFromFloat(c.Advisor.FillupMax),
		},
		BufferPurpose: c.Advisor.BufferPurpose,
	}
}
