package convert

import (
	"fmt"
	"strings"

	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

func (cv *conversion) pipeline(v *crmodel.Pipeline) (*domain.Pipeline, error) {
	if v == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrMissingMandatoryField, "pipeline declaration is empty")
	}

	lock, err := toLockBehavior(v.LockBehavior)
	if err != nil {
		return nil, err
	}

	vars, err := cv.variables(v.EnvironmentVariables)
	if err != nil {
		return nil, err
	}

	p := &domain.Pipeline{
		Name:          domain.NewCaseInsensitiveString(v.Name),
		LabelTemplate: orDefault(v.LabelTemplate, constants.CountLabelTemplate),
		LockBehavior:  lock,
		Variables:     vars,
		Params:        toParams(v.Parameters),
	}

	if v.TrackingTool != nil {
		p.TrackingTool = &domain.TrackingTool{Link: v.TrackingTool.Link, Regex: v.TrackingTool.Regex}
	}

	if v.Timer != nil {
		timer, err := ToTimer(v.Timer)
		if err != nil {
			return nil, err
		}
		p.Timer = timer
	}

	p.Materials = make([]domain.Material, 0, len(v.Materials))
	for i, spec := range v.Materials {
		m, err := cv.material(spec.Material)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i+1, err)
		}
		p.Materials = append(p.Materials, m)
	}

	// A template reference replaces inline stages.
	if strings.TrimSpace(v.Template) != "" {
		p.TemplateName = domain.NewCaseInsensitiveString(v.Template)
		return p, nil
	}

	p.Stages = make([]*domain.Stage, 0, len(v.Stages))
	for _, s := range v.Stages {
		stage, err := cv.stage(s)
		if err != nil {
			if s != nil {
				return nil, fmt.Errorf("stage %q: %w", s.Name, err)
			}
			return nil, err
		}
		p.Stages = append(p.Stages, stage)
	}
	return p, nil
}

func toLockBehavior(value string) (domain.LockBehavior, error) {
	if value == "" {
		return domain.LockBehaviorNone, nil
	}
	lock := domain.LockBehavior(value)
	if !lock.IsValid() {
		return "", crerrors.NewConversionError(crerrors.ErrInvalidFieldValue,
			"lock_behavior must be one of %s, %s or %s, got %q",
			constants.LockOnFailure, constants.UnlockWhenFinished, constants.LockNone, value)
	}
	return lock, nil
}

// ToTimer converts a timer. The cron spec is mandatory.
func ToTimer(t *crmodel.Timer) (*domain.Timer, error) {
	if strings.TrimSpace(t.Spec) == "" {
		return nil, crerrors.NewConversionError(crerrors.ErrMissingMandatoryField, "timer spec is required")
	}
	timer := &domain.Timer{Spec: t.Spec}
	if t.OnlyOnChanges != nil {
		timer.OnlyOnChanges = *t.OnlyOnChanges
	}
	return timer, nil
}

func toParams(params []*crmodel.Parameter) []domain.Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]domain.Param, 0, len(params))
	for _, prm := range params {
		if prm != nil {
			out = append(out, domain.Param{Name: prm.Name, Value: prm.Value})
		}
	}
	return out
}
