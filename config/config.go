// Package config loads the dice roller's settings from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by every CLI command. Flags given on the
// command line take precedence over these values.
type Config struct {
	// FilesDir holds the per-user character sheets (<user>.json).
	FilesDir string `env:"DIEROLL_FILES_DIR" envDefault:"files"`
	// ConfigDir holds the attribute configs (<name>.com).
	ConfigDir string `env:"DIEROLL_CONFIG_DIR" envDefault:"cfgs"`
	// DatabasePath enables the SQLite character store when set.
	DatabasePath string `env:"DIEROLL_DATABASE_PATH"`
	User         string `env:"DIEROLL_USER" envDefault:"local"`
	// Seed fixes the dice; 0 seeds from the clock.
	Seed    int64 `env:"DIEROLL_SEED" envDefault:"0"`
	NoColor bool  `env:"DIEROLL_NO_COLOR" envDefault:"false"`
	// Converter turns an imported PDF sheet into JSON.
	Converter string `env:"DIEROLL_CONVERTER" envDefault:"pdf2json"`
}

// Load reads Config from the DIEROLL_* variables, falling back to the
// defaults for unset ones.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("read DIEROLL_* settings: %w", err)
	}
	return cfg, nil
}

// Fatal reports a setup failure of the dieroll binary on stderr and exits
// with status 1.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "dieroll: %v\n", err)
	os.Exit(1)
}
