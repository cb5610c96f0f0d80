package convert

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// GroupName returns the pipeline group for a declared group name.
// Blank names resolve to the default group.
func GroupName(declared string) string {
	if strings.TrimSpace(declared) == "" {
		return constants.DefaultGroupName
	}
	return declared
}

// GroupedPipeline is a converted pipeline tagged with its declared group.
type GroupedPipeline struct {
	Group    string
	Pipeline *domain.Pipeline
}

// GroupPipelines partitions pipelines by group. Groups appear in first-encounter
// order and pipelines keep their order within a group.
func GroupPipelines(pipelines []GroupedPipeline) []*domain.PipelineGroup {
	var groups []*domain.PipelineGroup
	index := make(map[string]*domain.PipelineGroup)

	for _, gp := range pipelines {
		name := GroupName(gp.Group)
		group, ok := index[name]
		if !ok {
			group = &domain.PipelineGroup{Name: name}
			index[name] = group
			groups = append(groups, group)
		}
		group.Pipelines = append(group.Pipelines, gp.Pipeline)
	}
	return groups
}

// ToPartialConfig converts everything one config repo declares.
// Pipelines are converted concurrently up to the configured parallelism; the result
// does not depend on it. When several pipelines fail, the error of the first one in
// declaration order is returned.
func (c *Converter) ToPartialConfig(ctx context.Context, result *crmodel.ParseResult, lc LoadContext) (*domain.PartialConfig, error) {
	if result == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrMissingMandatoryField, "parse result is empty")
	}

	cv := c.newConversion(lc)

	converted := make([]GroupedPipeline, len(result.Pipelines))
	errs := make([]error, len(result.Pipelines))

	// Siblings keep converting after a failure; the lowest index error is reported.
	var g errgroup.Group
	g.SetLimit(c.parallelism)

	for i, crp := range result.Pipelines {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			p, err := cv.pipeline(crp)
			if err != nil {
				if crp != nil {
					err = fmt.Errorf("pipeline %q: %w", crp.Name, err)
				}
				errs[i] = err
				return err
			}
			converted[i] = GroupedPipeline{Group: crp.Group, Pipeline: p}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	// Cancellation is not a conversion failure and is returned unwrapped.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	envs := make([]*domain.Environment, 0, len(result.Environments))
	for _, cre := range result.Environments {
		env, err := cv.environment(cre)
		if err != nil {
			if cre != nil {
				return nil, fmt.Errorf("environment %q: %w", cre.Name, err)
			}
			return nil, err
		}
		envs = append(envs, env)
	}

	return &domain.PartialConfig{
		Groups:       GroupPipelines(converted),
		Environments: envs,
	}, nil
}

func (cv *conversion) environment(v *crmodel.Environment) (*domain.Environment, error) {
	if v == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrMissingMandatoryField, "environment declaration is empty")
	}

	vars, err := cv.variables(v.EnvironmentVariables)
	if err != nil {
		return nil, err
	}

	env := &domain.Environment{
		Name:      domain.NewCaseInsensitiveString(v.Name),
		Variables: vars,
		Pipelines: domain.NewCaseInsensitiveStrings(v.Pipelines),
	}
	if len(v.Agents) > 0 {
		env.Agents = append([]string(nil), v.Agents...)
	}
	return env, nil
}
