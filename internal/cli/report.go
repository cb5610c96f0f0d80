package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/configrepo/internal/configrepo"
	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/errors"
	"github.com/mrz1836/configrepo/internal/lint"
)

// Repo statuses shown in reports.
const (
	statusConverted = "converted"
	statusFailed    = "failed"
)

// RepoReport is the reported result of converting one config repo.
type RepoReport struct {
	Repo         string         `json:"repo" yaml:"repo"`
	ConversionID string         `json:"conversion_id" yaml:"conversion_id"`
	Status       string         `json:"status" yaml:"status"`
	Groups       int            `json:"groups" yaml:"groups"`
	Pipelines    []string       `json:"pipelines,omitempty" yaml:"pipelines,omitempty"`
	Environments []string       `json:"environments,omitempty" yaml:"environments,omitempty"`
	Findings     []lint.Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
	Error        string         `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind    string         `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Action       string         `json:"action,omitempty" yaml:"action,omitempty"`
	DurationMS   int64          `json:"duration_ms" yaml:"duration_ms"`
}

// Report is the reported result of one convert or lint run.
type Report struct {
	Repos     []RepoReport `json:"repos" yaml:"repos"`
	Converted int          `json:"converted" yaml:"converted"`
	Failed    int          `json:"failed" yaml:"failed"`
}

// newReport builds the report view of service outcomes.
func newReport(outcomes []*configrepo.Outcome) *Report {
	r := &Report{Repos: make([]RepoReport, 0, len(outcomes))}
	for _, o := range outcomes {
		r.Repos = append(r.Repos, newRepoReport(o))
		if o.Succeeded() {
			r.Converted++
		} else {
			r.Failed++
		}
	}
	return r
}

func newRepoReport(o *configrepo.Outcome) RepoReport {
	rr := RepoReport{
		Repo:         o.RepoID,
		ConversionID: o.ConversionID,
		DurationMS:   o.Duration.Milliseconds(),
	}

	if !o.Succeeded() {
		rr.Status = statusFailed
		rr.Error = o.Err.Error()
		if ce, ok := errors.AsConversionError(o.Err); ok && ce.Kind != nil {
			rr.ErrorKind = ce.Kind.Error()
		}
		_, rr.Action = errors.Actionable(o.Err)
		return rr
	}

	rr.Status = statusConverted
	rr.Groups = len(o.Config.Groups)
	for _, p := range o.Config.Pipelines() {
		rr.Pipelines = append(rr.Pipelines, p.Name.String())
	}
	for _, env := range o.Config.Environments {
		rr.Environments = append(rr.Environments, env.Name.String())
	}
	if o.Lint != nil {
		rr.Findings = o.Lint.Findings
	}
	return rr
}

// findingCounts returns the number of error and warning findings in a repo report.
func (rr RepoReport) findingCounts() (errs, warnings int) {
	for _, f := range rr.Findings {
		if f.Severity == lint.SeverityError {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}

// reportStyles contains styling for text reports.
type reportStyles struct {
	ok      lipgloss.Style
	failed  lipgloss.Style
	warning lipgloss.Style
	dim     lipgloss.Style
}

func newReportStyles() *reportStyles {
	return &reportStyles{
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF87")),
		failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// writeReport renders the report in the given output format.
func writeReport(w io.Writer, format string, r *Report, withFindings bool) error {
	switch format {
	case constants.OutputJSON:
		return writeJSON(w, r)
	case constants.OutputYAML:
		return writeYAML(w, r)
	default:
		writeTextReport(w, r, withFindings)
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// writeTextReport prints a summary table followed by errors and, when asked, findings.
func writeTextReport(w io.Writer, r *Report, withFindings bool) {
	styles := newReportStyles()

	repoWidth := len("REPO")
	for _, rr := range r.Repos {
		repoWidth = max(repoWidth, runewidth.StringWidth(rr.Repo))
	}

	table := NewTable(w, []TableColumn{
		{Name: "REPO", Width: min(repoWidth, 40)},
		{Name: "STATUS", Width: 9},
		{Name: "GROUPS", Width: 6, Align: AlignRight},
		{Name: "PIPELINES", Width: 9, Align: AlignRight},
		{Name: "ENVS", Width: 4, Align: AlignRight},
		{Name: "ERRORS", Width: 6, Align: AlignRight},
		{Name: "WARNINGS", Width: 8, Align: AlignRight},
	})
	table.WriteHeader()

	for _, rr := range r.Repos {
		errs, warnings := rr.findingCounts()
		style := styles.ok
		if rr.Status == statusFailed {
			style = styles.failed
		}
		table.WriteStyledRow([]string{
			rr.Repo,
			rr.Status,
			strconv.Itoa(rr.Groups),
			strconv.Itoa(len(rr.Pipelines)),
			strconv.Itoa(len(rr.Environments)),
			strconv.Itoa(errs),
			strconv.Itoa(warnings),
		}, 1, style)
	}

	for _, rr := range r.Repos {
		if rr.Status != statusFailed {
			continue
		}
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.failed.Render("✗ "+rr.Error))
		if rr.Action != "" {
			_, _ = fmt.Fprintln(w, styles.dim.Render("  "+rr.Action))
		}
	}

	if withFindings {
		for _, rr := range r.Repos {
			if len(rr.Findings) == 0 {
				continue
			}
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, rr.Repo+":")
			for _, f := range rr.Findings {
				style := styles.warning
				if f.Severity == lint.SeverityError {
					style = styles.failed
				}
				_, _ = fmt.Fprintf(w, "  %s [%s] %s: %s\n", style.Render(f.Severity.String()), f.Rule, f.Location, f.Message)
			}
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%d converted, %d failed\n", r.Converted, r.Failed)
}
