package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

func (cv *conversion) job(v *crmodel.Job) (*domain.Job, error) {
	if v == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrMissingMandatoryField, "job declaration is empty")
	}

	vars, err := cv.variables(v.EnvironmentVariables)
	if err != nil {
		return nil, err
	}

	job := &domain.Job{
		Name:             domain.NewCaseInsensitiveString(v.Name),
		Variables:        vars,
		Tabs:             toTabs(v.Tabs),
		ElasticProfileID: v.ElasticProfileID,
		Properties:       toProperties(v.Properties),
	}

	// Resources and an elastic profile are mutually exclusive; the profile wins.
	if v.ElasticProfileID == "" && len(v.Resources) > 0 {
		job.Resources = append([]string(nil), v.Resources...)
	}

	for _, a := range v.Artifacts {
		if a == nil {
			continue
		}
		artifact, err := ToArtifact(a)
		if err != nil {
			return nil, err
		}
		job.Artifacts = append(job.Artifacts, artifact)
	}

	for _, a := range v.PluggableArtifacts {
		if a == nil {
			continue
		}
		artifact, err := cv.pluggableArtifact(a)
		if err != nil {
			return nil, err
		}
		job.PluggableArtifacts = append(job.PluggableArtifacts, artifact)
	}

	if err := applyRunInstanceCount(job, v.RunInstanceCount); err != nil {
		return nil, err
	}

	switch {
	case v.Timeout < 0:
		return nil, crerrors.NewConversionError(crerrors.ErrInvalidFieldValue,
			"timeout must not be negative, got %d", v.Timeout)
	case v.Timeout > 0:
		job.Timeout = strconv.Itoa(v.Timeout)
	}

	job.Tasks = make([]domain.Task, 0, len(v.Tasks))
	for i, spec := range v.Tasks {
		task, err := cv.task(spec.Task)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		job.Tasks = append(job.Tasks, task)
	}

	return job, nil
}

// applyRunInstanceCount maps the count token: unset runs one instance, "all" runs
// one per agent, a positive number runs that many.
func applyRunInstanceCount(job *domain.Job, count crmodel.RunInstanceCount) error {
	token := strings.TrimSpace(count.String())
	switch {
	case token == "":
		return nil
	case strings.EqualFold(token, constants.RunOnAllAgentsToken):
		job.RunOnAllAgents = true
		return nil
	}

	n, err := strconv.Atoi(token)
	if err != nil || n < 1 {
		return crerrors.NewConversionError(crerrors.ErrInvalidFieldValue,
			"run_instance_count must be a positive number or %q, got %q", constants.RunOnAllAgentsToken, token)
	}
	job.RunInstanceCount = token
	return nil
}

// ToArtifact converts an artifact. A test artifact without destination goes to the
// test output folder; a build artifact without destination goes to the root.
func ToArtifact(a *crmodel.Artifact) (domain.ArtifactConfig, error) {
	switch a.Type {
	case "", crmodel.ArtifactTypeBuild:
		return domain.ArtifactConfig{
			Type:        domain.ArtifactTypeBuild,
			Source:      a.Source,
			Destination: a.Destination,
		}, nil
	case crmodel.ArtifactTypeTest:
		return domain.ArtifactConfig{
			Type:        domain.ArtifactTypeTest,
			Source:      a.Source,
			Destination: orDefault(a.Destination, constants.TestArtifactDestination),
		}, nil
	default:
		return domain.ArtifactConfig{}, crerrors.NewConversionError(crerrors.ErrUnknownVariant,
			"unknown artifact type %q", a.Type)
	}
}

// ToPluggableArtifact converts an artifact published to an artifact store.
func (c *Converter) ToPluggableArtifact(a *crmodel.PluggableArtifact) (domain.PluggableArtifactConfig, error) {
	return c.newConversion(nil).pluggableArtifact(a)
}

func (cv *conversion) pluggableArtifact(a *crmodel.PluggableArtifact) (domain.PluggableArtifactConfig, error) {
	cfg, err := cv.configuration(a.Configuration)
	if err != nil {
		return domain.PluggableArtifactConfig{}, err
	}
	return domain.PluggableArtifactConfig{ID: a.ID, StoreID: a.StoreID, Configuration: cfg}, nil
}

func toTabs(tabs []*crmodel.Tab) []domain.Tab {
	if len(tabs) == 0 {
		return nil
	}
	out := make([]domain.Tab, 0, len(tabs))
	for _, t := range tabs {
		if t != nil {
			out = append(out, domain.Tab{Name: t.Name, Path: t.Path})
		}
	}
	return out
}

func toProperties(props []*crmodel.PropertyGenerator) []domain.PropertyGenerator {
	if len(props) == 0 {
		return nil
	}
	out := make([]domain.PropertyGenerator, 0, len(props))
	for _, p := range props {
		if p != nil {
			out = append(out, domain.PropertyGenerator{Name: p.Name, Source: p.Source, XPath: p.XPath})
		}
	}
	return out
}

func (cv *conversion) variables(vars []*crmodel.EnvironmentVariable) (domain.EnvironmentVariables, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	out := make(domain.EnvironmentVariables, 0, len(vars))
	for _, v := range vars {
		if v == nil {
			continue
		}
		ev, err := cv.resolver.EnvironmentVariable(v.Name, v.Value, v.EncryptedValue)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
