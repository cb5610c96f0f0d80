package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/configrepo/internal/errors"
)

// ConvertFlags holds flags specific to the convert command.
type ConvertFlags struct {
	Material materialFlags
}

// AddConvertCommand adds the convert command to the root command.
func AddConvertCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &ConvertFlags{}
	root.AddCommand(newConvertCmd(global, flags))
}

func newConvertCmd(global *GlobalFlags, flags *ConvertFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <parse-result>...",
		Short: "Convert config repo parse results into pipeline configuration",
		Long: `Convert one or more config repo parse results (YAML or JSON) into pipeline
configuration and report what each one contributes.

Each file is treated as its own config repo named after the file. A failing
config repo does not stop the others from converting.

Examples:
  configrepo convert build.gocd.yaml
  configrepo convert repos/*.json --snapshot snapshot.yaml -o json
  configrepo convert app.yaml --material-url https://git.example.com/app.git --material-branch main`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd.OutOrStdout(), global, flags, args)
		},
	}

	addMaterialFlags(cmd, &flags.Material)
	return cmd
}

// addMaterialFlags registers the flags describing the config repo material.
func addMaterialFlags(cmd *cobra.Command, m *materialFlags) {
	cmd.Flags().StringVar(&m.URL, "material-url", "", "URL the config repos are checked out from")
	cmd.Flags().StringVar(&m.Branch, "material-branch", "", "branch the config repos are checked out from")
	cmd.Flags().StringVar(&m.Type, "material-type", "git", "type of the config repo material (git|hg|svn)")
}

func runConvert(ctx context.Context, w io.Writer, global *GlobalFlags, flags *ConvertFlags, paths []string) error {
	report, format, err := convertFiles(ctx, global, flags.Material, paths)
	if err != nil {
		return err
	}

	if err := writeReport(w, format, report, false); err != nil {
		return err
	}

	if report.Failed > 0 {
		return errors.ErrConversionFailed
	}
	return nil
}

// convertFiles loads and converts every parse result, returning the report and
// the effective output format.
func convertFiles(ctx context.Context, global *GlobalFlags, mf materialFlags, paths []string) (*Report, string, error) {
	m, err := mf.material()
	if err != nil {
		return nil, "", err
	}

	rt, err := newRuntime(ctx, global)
	if err != nil {
		return nil, "", err
	}

	reqs, err := loadRequests(paths, m)
	if err != nil {
		return nil, "", err
	}

	outcomes, err := rt.service.ParseAll(ctx, reqs)
	if err != nil {
		return nil, "", errors.Wrap(err, "conversion interrupted")
	}

	return newReport(outcomes), rt.cfg.Output.Format, nil
}
