// Package config provides configuration management for configrepo with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (CONFIGREPO_* prefix)
//  3. Project config (.configrepo/config.yaml)
//  4. Global config (~/.configrepo/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for configrepo.
type Config struct {
	// Cipher contains settings for decrypting secure values.
	Cipher CipherConfig `yaml:"cipher" mapstructure:"cipher"`

	// Snapshot contains settings for the shared package and SCM definitions.
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`

	// Conversion contains settings for converting config repos.
	Conversion ConversionConfig `yaml:"conversion" mapstructure:"conversion"`

	// Output contains settings for CLI reports.
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// CipherConfig contains settings for the cipher used on secure values.
type CipherConfig struct {
	// KeyFile is the path of the hex-encoded AES key.
	// A key is generated there on first use when the file does not exist.
	// Default: ~/.configrepo/cipher.key
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`
}

// SnapshotConfig contains settings for the configuration snapshot.
type SnapshotConfig struct {
	// Path is the YAML or JSON file holding package repositories and SCMs.
	// Empty means materials referencing packages or SCMs cannot be resolved.
	Path string `yaml:"path" mapstructure:"path"`
}

// ConversionConfig contains settings for converting config repos.
type ConversionConfig struct {
	// Parallelism is how many pipelines of one config repo, and how many config
	// repos, are converted at once.
	// Default: 1, Valid range: 1-64
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism"`

	// Timeout bounds a whole multi-repo parse.
	// Default: 1 minute
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig contains settings for CLI reports.
type OutputConfig struct {
	// Format is one of text, json or yaml.
	// Default: text
	Format string `yaml:"format" mapstructure:"format"`
}
