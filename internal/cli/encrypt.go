package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/errors"
)

// encryptResult is the json/yaml form of the encrypt output.
type encryptResult struct {
	EncryptedValue string `json:"encrypted_value" yaml:"encrypted_value"`
}

// AddEncryptCommand adds the encrypt command to the root command.
func AddEncryptCommand(root *cobra.Command, global *GlobalFlags) {
	root.AddCommand(newEncryptCmd(global))
}

func newEncryptCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt [value]",
		Short: "Encrypt a value for an encrypted_value or encrypted_password field",
		Long: `Encrypt a value with the cipher key so it can be committed to a config repo
as an encrypted_value or encrypted_password.

The value is read from the argument, or from the first line of stdin when no
argument is given. A key is generated at cipher.key_file when none exists.

Examples:
  configrepo encrypt 's3cret'
  echo -n 's3cret' | configrepo encrypt -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncrypt(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), global, args)
		},
	}
}

func runEncrypt(ctx context.Context, in io.Reader, w io.Writer, global *GlobalFlags, args []string) error {
	value, err := encryptInput(in, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, global)
	if err != nil {
		return err
	}

	c, err := loadCipher(cfg)
	if err != nil {
		return err
	}

	envelope, err := c.Encrypt(value)
	if err != nil {
		return errors.Wrap(err, "failed to encrypt value")
	}

	switch cfg.Output.Format {
	case constants.OutputJSON:
		return writeJSON(w, encryptResult{EncryptedValue: envelope})
	case constants.OutputYAML:
		return writeYAML(w, encryptResult{EncryptedValue: envelope})
	default:
		_, err = fmt.Fprintln(w, envelope)
		return err
	}
}

// encryptInput returns the value to encrypt from args or the first line of in.
func encryptInput(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		if args[0] == "" {
			return "", errors.NewExitCode2Error(errors.ErrEmptyValue)
		}
		return args[0], nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !stderrors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "failed to read value from stdin")
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.NewExitCode2Error(errors.ErrEmptyValue)
	}
	return line, nil
}
