package config

import (
	"slices"

	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/errors"
)

// ValidOutputFormats returns the accepted output.format values.
func ValidOutputFormats() []string {
	return []string{constants.OutputText, constants.OutputJSON, constants.OutputYAML}
}

// IsValidOutputFormat reports whether format is an accepted output.format value.
func IsValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats(), format)
}

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - conversion.parallelism must be between 1 and 64
//   - conversion.timeout must be positive
//   - cipher.key_file must not be empty
//   - output.format must be text, json or yaml
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateConversionConfig(&cfg.Conversion); err != nil {
		return err
	}

	if cfg.Cipher.KeyFile == "" {
		return errors.Wrap(errors.ErrConfigInvalidCipher, "cipher.key_file must not be empty")
	}

	if !IsValidOutputFormat(cfg.Output.Format) {
		return errors.Wrapf(errors.ErrInvalidOutputFormat,
			"output.format %q must be one of %v", cfg.Output.Format, ValidOutputFormats())
	}

	return nil
}

// validateConversionConfig checks conversion-specific configuration values.
func validateConversionConfig(cfg *ConversionConfig) error {
	if cfg.Parallelism < 1 || cfg.Parallelism > constants.MaxParallelism {
		return errors.Wrapf(errors.ErrConfigInvalidConversion,
			"conversion.parallelism must be between 1 and %d, got %d", constants.MaxParallelism, cfg.Parallelism)
	}

	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidConversion,
			"conversion.timeout must be positive, got %s", cfg.Timeout)
	}

	return nil
}
