// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is the shared prefix of every statboard environment variable.
const EnvPrefix = "STATBOARD_"

// ParseEnv loads configuration from environment variables into target.
//
// target must be a pointer to a struct carrying `env` tags; unset variables
// fall back to their `envDefault` tag.
func ParseEnv(target any) error {
	if target == nil {
		return errors.New("parse env: config target is required")
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
