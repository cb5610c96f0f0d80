package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/errors"
)

// GlobalConfigDir returns the path to the global configrepo directory.
// CONFIGREPO_HOME overrides it; otherwise it is ~/.configrepo.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv(constants.HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.AppHome), nil
}

// ProjectConfigDir returns the relative path to the project configuration directory.
// This is always .configrepo relative to the project root.
func ProjectConfigDir() string {
	return constants.AppHome
}

// GlobalConfigPath returns the full path to the global configuration file.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .configrepo/config.yaml relative to the project root.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.GlobalConfigName)
}

// DefaultKeyFile returns the cipher key path used when cipher.key_file is not set.
func DefaultKeyFile() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get default key file: %w", err)
	}
	return filepath.Join(dir, constants.CipherKeyFileName), nil
}
