package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the daemon configuration, read from the environment.
type Config struct {
	// Addr is the listen address. Loopback by default: the engine serves a
	// local front end, not the open network.
	Addr string `env:"NEUROMINT_ADDR" envDefault:"127.0.0.1:8089"`

	// DBPath is the SQLite database file. Empty disables persistence;
	// sessions still run, best records are not kept.
	DBPath string `env:"NEUROMINT_DB" envDefault:"neuromint.db"`

	// SessionTTL is how long an idle session is kept alive.
	SessionTTL time.Duration `env:"NEUROMINT_SESSION_TTL" envDefault:"30m"`

	// Diagnostics logs ignored inputs and other no-op transitions.
	Diagnostics bool `env:"NEUROMINT_DIAGNOSTICS" envDefault:"false"`

	ReadTimeout  time.Duration `env:"NEUROMINT_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"NEUROMINT_WRITE_TIMEOUT" envDefault:"10s"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Addr == "" {
		return Config{}, fmt.Errorf("listen address must not be empty")
	}
	return cfg, nil
}
