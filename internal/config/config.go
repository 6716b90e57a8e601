// Package config loads process configuration from the environment.
//
// Configuration is parsed once at startup into an immutable struct and
// passed explicitly into constructors. Nothing reads ambient environment
// state after Load returns — the secret key and the token issuer/audience
// strings travel through the dependency graph as plain values.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/mentor-match.db"`

	// JWTSecret signs and verifies tokens. Required — the server refuses
	// to start without one. Generate with: openssl rand -hex 32
	JWTSecret     string `env:"JWT_SECRET,required"`
	TokenIssuer   string `env:"TOKEN_ISSUER" envDefault:"mentor-match-api"`
	TokenAudience string `env:"TOKEN_AUDIENCE" envDefault:"mentor-match-users"`
}

// Load reads a .env file if one exists, then parses the environment.
// A missing .env is not an error — production deployments set real
// environment variables and ship no file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
