package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering, in ascending precedence:
//  1. Default()
//  2. YAML file named by SHUTTLEMETRICS_CONFIG, if set
//  3. SHUTTLEMETRICS_* environment variables
//     (SHUTTLEMETRICS_SPEED_PEAK_RATIO → speed_peak_ratio, ...)
func Load() (*Config, error) {
	base := Default()

	k := koanf.New(".")

	if path := os.Getenv("SHUTTLEMETRICS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("SHUTTLEMETRICS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "shuttlemetrics_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.DirectionChangeDeg <= 0 || c.DirectionChangeDeg >= 180:
		return errors.New("direction_change_deg must be in (0, 180)")
	case c.SpeedPeakRatio <= 1:
		return errors.New("speed_peak_ratio must exceed 1")
	case c.StateWindow < 1:
		return errors.New("state_window must be at least 1")
	case c.TopK < 1:
		return errors.New("top_k must be at least 1")
	case c.MovementWeight < 0 || c.OpenCourtWeight < 0 || c.RiskWeight < 0 || c.AngleWeight < 0:
		return errors.New("scoring weights must be non-negative")
	case c.TimePressureCapMS <= 0:
		return errors.New("time_pressure_cap_ms must be positive")
	case c.SpeedNorm <= 0 || c.HeightNormMS <= 0:
		return errors.New("feature norms must be positive")
	}
	return nil
}
