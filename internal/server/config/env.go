package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays PORTFOLIO_* environment variables onto config. Unset
// variables leave the current value alone; malformed values panic, matching
// the other configuration layers.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
