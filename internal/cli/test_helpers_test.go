package cli

// This file contains test utilities for exercising the CLI end to end.
// These helpers are only available in test files (*_test.go).

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/configrepo/internal/constants"
)

// isolate points the configrepo home at a temp dir, moves into an empty
// project dir and clears CONFIGREPO_* variables. It returns the project dir.
// Tests using it cannot run in parallel.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, constants.EnvPrefix+"_") {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	t.Setenv(constants.HomeEnvVar, filepath.Join(dir, "home"))
	t.Setenv("NO_COLOR", "1")

	project := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(project, 0o750))
	t.Chdir(project)
	return project
}

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	CloseLogFile()
	return out.String(), err
}

// writeFile writes content to name under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validParseResult = `
pipelines:
  - name: build
    group: apps
    materials:
      - type: git
        url: https://git.example.com/app.git
    stages:
      - name: compile
        jobs:
          - name: make
            tasks:
              - type: exec
                command: make
environments:
  - name: dev
    pipelines: [build]
`

const missingPackageParseResult = `
pipelines:
  - name: deploy
    materials:
      - type: package
        package_id: pkg-1
    stages:
      - name: ship
        jobs:
          - name: push
            tasks:
              - type: exec
                command: ./push.sh
`

const selfDependencyParseResult = `
pipelines:
  - name: loop
    timer:
      spec: "every day"
    materials:
      - type: dependency
        pipeline: loop
        stage: run
    stages:
      - name: run
        jobs:
          - name: once
            tasks:
              - type: exec
                command: "true"
`

const timerWarningParseResult = `
pipelines:
  - name: nightly
    timer:
      spec: "every day"
    materials:
      - type: git
        url: https://git.example.com/app.git
    stages:
      - name: run
        jobs:
          - name: once
            tasks:
              - type: exec
                command: "true"
`

const packageSnapshot = `
package_repositories:
  - id: repo-1
    name: npm
    plugin_id: npm-plugin
    packages:
      - id: pkg-1
        name: left-pad
`
