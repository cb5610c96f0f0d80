package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/configrepo/internal/errors"
)

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, want := range []string{"configrepo", "convert", "lint", "encrypt", "config", "--output", "--snapshot", "--key-file"} {
		assert.Contains(t, output, want)
	}
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		info           BuildInfo
		expectContains []string
	}{
		{
			name:           "full version info",
			info:           BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-01-01"},
			expectContains: []string{"1.0.0", "abc1234", "2026-01-01"},
		},
		{
			name:           "default dev version",
			info:           BuildInfo{},
			expectContains: []string{"dev", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRootCmd(&GlobalFlags{}, tc.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{"--version"})

			require.NoError(t, cmd.Execute())
			for _, want := range tc.expectContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	isolate(t)

	_, err := execute(t, nil, "encrypt", "value", "-o", "xml")
	require.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_VerboseAndQuietAreExclusive(t *testing.T) {
	isolate(t)

	_, err := execute(t, nil, "encrypt", "value", "-v", "-q")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit code 2 wrapper", errors.NewExitCode2Error(errors.ErrEmptyValue), ExitInvalidInput},
		{"invalid output format", fmt.Errorf("%w: xml", errors.ErrInvalidOutputFormat), ExitInvalidInput},
		{"unknown flag", fmt.Errorf("unknown flag: --nope"), ExitInvalidInput},                        //nolint:err113 // Simulates cobra
		{"missing args", fmt.Errorf("requires at least 1 arg(s), only received 0"), ExitInvalidInput}, //nolint:err113 // Simulates cobra
		{"conversion failure", errors.ErrConversionFailed, ExitError},
		{"lint failure", errors.ErrLintFindings, ExitError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}

func TestGlobalFlags_Overrides(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{Output: "json", KeyFile: "/k", Snapshot: "/s.yaml", Parallelism: 4}
	o := flags.overrides()

	assert.Equal(t, "/k", o.Cipher.KeyFile)
	assert.Equal(t, "/s.yaml", o.Snapshot.Path)
	assert.Equal(t, 4, o.Conversion.Parallelism)
	assert.Equal(t, "json", o.Output.Format)
	assert.Zero(t, o.Conversion.Timeout)
}
