package convert

import (
	"fmt"
	"time"

	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

func (cv *conversion) task(t crmodel.Task) (domain.Task, error) {
	if t == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrMissingMandatoryField, "task declaration is empty")
	}

	base, err := cv.taskBase(t.Base())
	if err != nil {
		return nil, err
	}

	switch v := t.(type) {
	case *crmodel.BuildTask:
		return buildTask(base, v)
	case *crmodel.ExecTask:
		return execTask(base, v), nil
	case *crmodel.FetchTask:
		return &domain.FetchTask{
			TaskBase:          base,
			PipelineName:      domain.NewCaseInsensitiveString(v.Pipeline),
			Stage:             domain.NewCaseInsensitiveString(v.Stage),
			Job:               domain.NewCaseInsensitiveString(v.Job),
			Source:            v.Source,
			SourceIsDirectory: v.SourceIsDirectory,
			Dest:              v.Destination,
		}, nil
	case *crmodel.FetchPluggableArtifactTask:
		cfg, err := cv.configuration(v.Configuration)
		if err != nil {
			return nil, err
		}
		return &domain.FetchPluggableArtifactTask{
			TaskBase:      base,
			PipelineName:  domain.NewCaseInsensitiveString(v.Pipeline),
			Stage:         domain.NewCaseInsensitiveString(v.Stage),
			Job:           domain.NewCaseInsensitiveString(v.Job),
			ArtifactID:    v.ArtifactID,
			Configuration: cfg,
		}, nil
	case *crmodel.PluggableTask:
		cfg, err := cv.configuration(v.Configuration)
		if err != nil {
			return nil, err
		}
		return &domain.PluggableTask{
			TaskBase: base,
			Plugin: domain.PluginConfiguration{
				ID:      v.PluginConfiguration.ID,
				Version: v.PluginConfiguration.Version,
			},
			Configuration: cfg,
		}, nil
	default:
		return nil, unknownTask(t.Kind())
	}
}

func unknownTask(kind string) error {
	return crerrors.NewConversionError(crerrors.ErrUnknownVariant, "unknown task type %q", kind)
}

// taskBase converts the run condition and, recursively, the cancel task.
func (cv *conversion) taskBase(b *crmodel.TaskBase) (domain.TaskBase, error) {
	runIf, err := toRunIf(b.Condition())
	if err != nil {
		return domain.TaskBase{}, err
	}

	base := domain.TaskBase{Condition: runIf}
	if b.OnCancel != nil && b.OnCancel.Task != nil {
		cancel, err := cv.task(b.OnCancel.Task)
		if err != nil {
			return domain.TaskBase{}, fmt.Errorf("on_cancel: %w", err)
		}
		base.Cancel = cancel
	}
	return base, nil
}

func toRunIf(condition string) (domain.RunIfConfig, error) {
	switch condition {
	case crmodel.RunIfPassed:
		return domain.RunIfPassed, nil
	case crmodel.RunIfFailed:
		return domain.RunIfFailed, nil
	case crmodel.RunIfAny:
		return domain.RunIfAny, nil
	default:
		return "", crerrors.NewConversionError(crerrors.ErrUnknownVariant, "unknown run_if %q", condition)
	}
}

func buildTask(base domain.TaskBase, v *crmodel.BuildTask) (domain.Task, error) {
	fields := domain.BuildTask{
		TaskBase:         base,
		BuildFile:        v.BuildFile,
		Target:           v.Target,
		WorkingDirectory: v.WorkingDirectory,
	}

	switch v.Framework {
	case crmodel.TaskKindRake:
		t := &domain.RakeTask{BuildTask: fields}
		t.BuildFile = orDefault(t.BuildFile, t.DefaultBuildFile())
		return t, nil
	case crmodel.TaskKindAnt:
		t := &domain.AntTask{BuildTask: fields}
		t.BuildFile = orDefault(t.BuildFile, t.DefaultBuildFile())
		return t, nil
	case crmodel.TaskKindNant:
		t := &domain.NantTask{BuildTask: fields, NantPath: v.NantPath}
		t.BuildFile = orDefault(t.BuildFile, t.DefaultBuildFile())
		return t, nil
	default:
		return nil, unknownTask(v.Framework)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// execTask converts an exec task. Without an explicit cancel task, cancelling
// kills every child process.
func execTask(base domain.TaskBase, v *crmodel.ExecTask) *domain.ExecTask {
	if base.Cancel == nil {
		base.Cancel = &domain.KillAllChildProcessTask{}
	}

	var args []domain.Argument
	if len(v.Arguments) > 0 {
		args = make([]domain.Argument, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = domain.Argument(a)
		}
	}

	var timeout time.Duration
	if v.Timeout > 0 {
		timeout = time.Duration(v.Timeout) * time.Second
	}

	return &domain.ExecTask{
		TaskBase:         base,
		Command:          v.Command,
		Args:             args,
		WorkingDirectory: v.WorkingDirectory,
		Timeout:          timeout,
	}
}

// configuration resolves plugin settings. A nil list yields an empty configuration.
func (cv *conversion) configuration(props []*crmodel.ConfigurationProperty) (domain.Configuration, error) {
	if len(props) == 0 {
		return domain.Configuration{}, nil
	}
	cfg := make(domain.Configuration, 0, len(props))
	for _, p := range props {
		if p == nil {
			continue
		}
		prop, err := cv.resolver.ConfigurationProperty(p.Key, p.Value, p.EncryptedValue)
		if err != nil {
			return nil, err
		}
		cfg = append(cfg, prop)
	}
	return cfg, nil
}
