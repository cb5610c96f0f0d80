package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/configrepo/internal/constants"
)

func TestGlobalConfigDir(t *testing.T) {
	t.Run("home override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(constants.HomeEnvVar, dir)

		got, err := GlobalConfigDir()
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	})

	t.Run("user home", func(t *testing.T) {
		t.Setenv(constants.HomeEnvVar, "")

		got, err := GlobalConfigDir()
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, constants.AppHome, filepath.Base(got))
	})
}

func TestConfigPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(constants.HomeEnvVar, dir)

	global, err := GlobalConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), global)

	key, err := DefaultKeyFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cipher.key"), key)

	assert.Equal(t, constants.AppHome, ProjectConfigDir())
	assert.Equal(t, filepath.Join(".configrepo", "config.yaml"), ProjectConfigPath())
}
