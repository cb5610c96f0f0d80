package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/configrepo/internal/errors"
	"github.com/mrz1836/configrepo/internal/lint"
)

// LintFlags holds flags specific to the lint command.
type LintFlags struct {
	Material materialFlags
	// Strict treats warnings as errors.
	Strict bool
}

// AddLintCommand adds the lint command to the root command.
func AddLintCommand(root *cobra.Command, global *GlobalFlags) {
	flags := &LintFlags{}
	root.AddCommand(newLintCmd(global, flags))
}

func newLintCmd(global *GlobalFlags, flags *LintFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <parse-result>...",
		Short: "Convert config repo parse results and report advisory findings",
		Long: `Convert config repo parse results and check the resulting configuration for
problems that conversion accepts: unparseable timer specs, invalid filter
patterns, duplicate pipelines, environments naming unknown pipelines,
self dependencies and fetch tasks from stages that have not run yet.

Exits non-zero when a config repo fails to convert or when a finding has
error severity (any finding with --strict).

Examples:
  configrepo lint build.gocd.yaml
  configrepo lint repos/*.yaml --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd.Context(), cmd.OutOrStdout(), global, flags, args)
		},
	}

	addMaterialFlags(cmd, &flags.Material)
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "treat warnings as errors")
	return cmd
}

func runLint(ctx context.Context, w io.Writer, global *GlobalFlags, flags *LintFlags, paths []string) error {
	report, format, err := convertFiles(ctx, global, flags.Material, paths)
	if err != nil {
		return err
	}

	if err := writeReport(w, format, report, true); err != nil {
		return err
	}

	if report.Failed > 0 {
		return errors.ErrConversionFailed
	}
	if lintFails(report, flags.Strict) {
		return errors.ErrLintFindings
	}
	return nil
}

// lintFails reports whether the findings in report should fail the run.
func lintFails(report *Report, strict bool) bool {
	for _, rr := range report.Repos {
		for _, f := range rr.Findings {
			if strict || f.Severity == lint.SeverityError {
				return true
			}
		}
	}
	return false
}
