// Package lint runs advisory checks over converted configuration.
// Findings never fail a conversion; callers decide what to do with them.
package lint

import (
	"fmt"
	"strings"

	"github.com/mrz1836/configrepo/internal/domain"
)

// Severity ranks a finding.
type Severity string

// Severities.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// String returns the severity name.
func (s Severity) String() string {
	return string(s)
}

// Rule identifiers.
const (
	RuleTimerSpec          = "timer-spec"
	RuleFilterPattern      = "filter-pattern"
	RuleDuplicatePipeline  = "duplicate-pipeline"
	RuleUnknownEnvPipeline = "environment-pipeline"
	RuleDuplicateEnvMember = "environment-membership"
	RuleSelfDependency     = "self-dependency"
	RuleFetchUnknownStage  = "fetch-stage"
	RuleManualTimerStage   = "manual-timer-stage"
)

// Finding is one problem found in the configuration.
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Rule     string   `json:"rule" yaml:"rule"`
	Location string   `json:"location" yaml:"location"`
	Message  string   `json:"message" yaml:"message"`
}

// String formats the finding on one line.
func (f Finding) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", f.Severity, f.Rule, f.Location, f.Message)
}

// Report is the ordered list of findings of one run.
type Report struct {
	Findings []Finding `json:"findings" yaml:"findings"`
}

// HasErrors reports whether any finding has error severity.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of findings with severity s.
func (r *Report) Count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

func (r *Report) add(severity Severity, rule, location, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity: severity,
		Rule:     rule,
		Location: location,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Check lints cfg. Findings follow declaration order: pipelines group by group,
// then environments.
func Check(cfg *domain.PartialConfig) *Report {
	r := &Report{}
	if cfg == nil {
		return r
	}

	known := make(map[string]string)
	for _, group := range cfg.Groups {
		for _, p := range group.Pipelines {
			loc := pipelineLocation(group.Name, p)
			key := p.Name.ToLower()
			if first, dup := known[key]; dup {
				r.add(SeverityError, RuleDuplicatePipeline, loc,
					"pipeline %q is already defined at %s", p.Name.String(), first)
			} else {
				known[key] = loc
			}
			checkPipeline(r, loc, p)
		}
	}

	for _, env := range cfg.Environments {
		checkEnvironment(r, env, known)
	}
	return r
}

func pipelineLocation(group string, p *domain.Pipeline) string {
	return fmt.Sprintf("%s/%s", group, p.Name.String())
}

func checkPipeline(r *Report, loc string, p *domain.Pipeline) {
	if p.Timer != nil {
		if err := ValidateTimerSpec(p.Timer.Spec); err != nil {
			r.add(SeverityWarning, RuleTimerSpec, loc, "timer spec %q cannot be parsed: %v", p.Timer.Spec, err)
		}
	}

	for i, m := range p.Materials {
		mloc := fmt.Sprintf("%s material %d", loc, i+1)
		for _, pattern := range InvalidPatterns(m.Filter()) {
			r.add(SeverityWarning, RuleFilterPattern, mloc, "filter pattern %q is not a valid glob", pattern)
		}
		if dep, ok := m.(*domain.DependencyMaterial); ok && dep.PipelineName.Equal(p.Name) {
			r.add(SeverityError, RuleSelfDependency, mloc, "pipeline depends on itself")
		}
	}

	if len(p.Stages) > 0 && p.Stages[0].Approval.IsManual() && p.Timer != nil {
		r.add(SeverityWarning, RuleManualTimerStage, loc,
			"first stage %q needs manual approval, so the timer never runs it", p.Stages[0].Name.String())
	}

	checkFetchTasks(r, loc, p)
}

// checkFetchTasks flags fetch tasks of the own pipeline that name a stage which
// does not run before the fetching stage.
func checkFetchTasks(r *Report, loc string, p *domain.Pipeline) {
	for si, stage := range p.Stages {
		for _, job := range stage.Jobs {
			for ti, task := range job.Tasks {
				stageName, ok := localFetchStage(task)
				if !ok {
					continue
				}
				if !stageRunsBefore(p.Stages, si, stageName) {
					r.add(SeverityWarning, RuleFetchUnknownStage,
						fmt.Sprintf("%s stage %s job %s task %d", loc, stage.Name.String(), job.Name.String(), ti+1),
						"fetches from stage %q which does not run before this stage", stageName.String())
				}
			}
		}
	}
}

func localFetchStage(task domain.Task) (domain.CaseInsensitiveString, bool) {
	switch t := task.(type) {
	case *domain.FetchTask:
		return t.Stage, t.PipelineName.IsBlank()
	case *domain.FetchPluggableArtifactTask:
		return t.Stage, t.PipelineName.IsBlank()
	default:
		return domain.CaseInsensitiveString{}, false
	}
}

func stageRunsBefore(stages []*domain.Stage, current int, name domain.CaseInsensitiveString) bool {
	for i := 0; i < current && i < len(stages); i++ {
		if stages[i].Name.Equal(name) {
			return true
		}
	}
	return false
}

func checkEnvironment(r *Report, env *domain.Environment, known map[string]string) {
	loc := "environment " + env.Name.String()
	seen := make(map[string]bool, len(env.Pipelines))
	for _, p := range env.Pipelines {
		key := p.ToLower()
		if seen[key] {
			r.add(SeverityWarning, RuleDuplicateEnvMember, loc, "pipeline %q is listed twice", p.String())
			continue
		}
		seen[key] = true
		if _, ok := known[key]; !ok {
			r.add(SeverityWarning, RuleUnknownEnvPipeline, loc,
				"pipeline %q is not defined in this config repo", strings.TrimSpace(p.String()))
		}
	}
}
