// Package config is a thin wrapper over caarlos0/env so every component
// loads its settings from `env`-tagged structs the same way.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg (a pointer to an env-tagged struct) from the process
// environment, applying envDefault values for unset variables.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
