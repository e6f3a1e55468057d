package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig is the process configuration read from the environment.
// Command-line flags override these values when set.
type ServerConfig struct {
	Host            string        `env:"ARCADE_HOST"             envDefault:"localhost"`
	Port            int           `env:"ARCADE_PORT"             envDefault:"8080"`
	Debug           bool          `env:"ARCADE_DEBUG"            envDefault:"false"`
	PresetsFile     string        `env:"ARCADE_PRESETS_FILE"`
	ScoresDB        string        `env:"ARCADE_SCORES_DB"        envDefault:"arcade.db"`
	SessionTTL      time.Duration `env:"ARCADE_SESSION_TTL"      envDefault:"24h"`
	CleanupInterval time.Duration `env:"ARCADE_CLEANUP_INTERVAL" envDefault:"1h"`
	RNGSeed         int64         `env:"ARCADE_RNG_SEED"`

	NgrokEnabled bool   `env:"NGROK_ENABLED"`
	NgrokToken   string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain  string `env:"NGROK_DOMAIN"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServerConfig reads ServerConfig from the environment
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// Validate checks ranges that env parsing cannot express
func (c ServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be between 0 and 65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive, got %s", ErrInvalidConfig, c.SessionTTL)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("%w: cleanup interval must be positive, got %s", ErrInvalidConfig, c.CleanupInterval)
	}
	if c.NgrokEnabled && c.NgrokToken == "" {
		return fmt.Errorf("%w: NGROK_AUTHTOKEN is required when ngrok is enabled", ErrInvalidConfig)
	}
	return nil
}

// Addr returns host:port
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
