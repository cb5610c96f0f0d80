package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/crypto/aes"
	"github.com/mrz1836/configrepo/internal/errors"
)

func decryptWithKey(t *testing.T, keyFile, envelope string) string {
	t.Helper()
	km := aes.NewKeyManager(keyFile)
	require.NoError(t, km.Load())
	c, err := km.NewCipher()
	require.NoError(t, err)
	plain, err := c.Decrypt(envelope)
	require.NoError(t, err)
	return plain
}

func TestEncrypt_Argument(t *testing.T) {
	isolate(t)

	out, err := execute(t, nil, "encrypt", "s3cret")
	require.NoError(t, err)

	envelope := strings.TrimSpace(out)
	assert.True(t, aes.IsEncrypted(envelope))

	keyFile := filepath.Join(os.Getenv(constants.HomeEnvVar), constants.CipherKeyFileName)
	assert.FileExists(t, keyFile)
	assert.Equal(t, "s3cret", decryptWithKey(t, keyFile, envelope))
}

func TestEncrypt_StdinAndKeyFileFlag(t *testing.T) {
	project := isolate(t)
	keyFile := filepath.Join(project, "keys", "server.key")

	out, err := execute(t, strings.NewReader("from-stdin\nignored\n"), "encrypt", "--key-file", keyFile, "-o", "json")
	require.NoError(t, err)

	var result encryptResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "from-stdin", decryptWithKey(t, keyFile, result.EncryptedValue))
}

func TestEncrypt_SameKeyAcrossRuns(t *testing.T) {
	isolate(t)

	first, err := execute(t, nil, "encrypt", "one")
	require.NoError(t, err)
	second, err := execute(t, nil, "encrypt", "one")
	require.NoError(t, err)

	keyFile := filepath.Join(os.Getenv(constants.HomeEnvVar), constants.CipherKeyFileName)
	assert.Equal(t, "one", decryptWithKey(t, keyFile, strings.TrimSpace(first)))
	assert.Equal(t, "one", decryptWithKey(t, keyFile, strings.TrimSpace(second)))
}

func TestEncrypt_EmptyValue(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "empty argument", args: []string{"encrypt", ""}},
		{name: "empty stdin", stdin: "", args: []string{"encrypt"}},
		{name: "blank line on stdin", stdin: "\n", args: []string{"encrypt"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)

			_, err := execute(t, strings.NewReader(tc.stdin), tc.args...)
			require.ErrorIs(t, err, errors.ErrEmptyValue)
			assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
		})
	}
}

func TestEncrypt_TooManyArgs(t *testing.T) {
	isolate(t)

	_, err := execute(t, nil, "encrypt", "a", "b")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
