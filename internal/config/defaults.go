package config

import (
	"github.com/mrz1836/configrepo/internal/constants"
)

// DefaultConfig returns a new Config with the built-in defaults.
// The cipher key file is left empty here and resolved against the home
// directory by DefaultKeyFile when the config is loaded.
func DefaultConfig() *Config {
	return &Config{
		Conversion: ConversionConfig{
			// Parallelism: sequential conversion keeps log output ordered.
			Parallelism: constants.DefaultParallelism,

			Timeout: constants.DefaultConversionTimeout,
		},
		Output: OutputConfig{
			Format: constants.OutputText,
		},
	}
}
