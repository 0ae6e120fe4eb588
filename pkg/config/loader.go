package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the process environment using `env` struct tags.
// Fields carrying an `envDefault` fall back to it when the variable is
// unset or empty, so a bare environment still yields a runnable
// development config. Validating the parsed values is the caller's job.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment config: %w", err)
	}
	return nil
}
