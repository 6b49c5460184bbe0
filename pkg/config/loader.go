// Package config parses service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the process environment using `env` struct tags.
//
// Example:
//
//	type Config struct {
//	    RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
//	    CartTTLHours int    `env:"CART_TTL_HOURS" envDefault:"72"`
//	}
//
// Cross-field validation stays with the caller; Load only reports parse
// failures such as a non-numeric value in a numeric field.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
