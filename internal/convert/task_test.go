package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

func TestToTask_PluggableTask(t *testing.T) {
	c, _ := newTestConverter(nil)

	got, err := c.ToTask(&crmodel.PluggableTask{
		TaskBase:            crmodel.TaskBase{RunIf: crmodel.RunIfAny},
		PluginConfiguration: crmodel.PluginConfiguration{ID: "myplugin", Version: "1"},
		Configuration:       []*crmodel.ConfigurationProperty{{Key: "k", Value: "m"}},
	})
	require.NoError(t, err)

	task, ok := got.(*domain.PluggableTask)
	require.True(t, ok)
	assert.Equal(t, "myplugin", task.Plugin.ID)
	assert.Equal(t, "1", task.Plugin.Version)
	require.NotNil(t, task.Configuration.Property("k"))
	assert.Equal(t, "m", task.Configuration.Property("k").Value.Value)
	assert.Equal(t, domain.RunIfAny, task.RunIf())
}

func TestToTask_PluggableTaskWithEncryptedProperty(t *testing.T) {
	c, _ := newTestConverter(nil)

	got, err := c.ToTask(&crmodel.PluggableTask{
		PluginConfiguration: crmodel.PluginConfiguration{ID: "p"},
		Configuration:       []*crmodel.ConfigurationProperty{{Key: "token", EncryptedValue: "encryptedvalue"}},
	})
	require.NoError(t, err)

	prop := got.(*domain.PluggableTask).Configuration.Property("token")
	require.NotNil(t, prop)
	assert.True(t, prop.Value.Secure)
	assert.Equal(t, "secret", prop.Value.Value)
}

func rakeTask(runIf string) *crmodel.BuildTask {
	return &crmodel.BuildTask{
		TaskBase:  crmodel.TaskBase{RunIf: runIf},
		Framework: crmodel.TaskKindRake, BuildFile: "Rakefile.rb", Target: "build", WorkingDirectory: "src",
	}
}

func assertRakeTask(t *testing.T, task domain.Task) {
	t.Helper()
	rake, ok := task.(*domain.RakeTask)
	require.True(t, ok)
	assert.Equal(t, domain.RunIfFailed, rake.RunIf())
	assert.Equal(t, "Rakefile.rb", rake.BuildFile)
	assert.Equal(t, "build", rake.Target)
	assert.Equal(t, "src", rake.WorkingDirectory)
}

func TestToTask_BuildTasks(t *testing.T) {
	c, _ := newTestConverter(nil)

	t.Run("rake", func(t *testing.T) {
		got, err := c.ToTask(rakeTask(crmodel.RunIfFailed))
		require.NoError(t, err)
		assertRakeTask(t, got)
		assert.Nil(t, got.OnCancel(), "build tasks get no default cancel task")
	})

	t.Run("ant with rake cancel task", func(t *testing.T) {
		cancel := crmodel.NewTaskSpec(rakeTask(crmodel.RunIfFailed))
		got, err := c.ToTask(&crmodel.BuildTask{
			TaskBase:  crmodel.TaskBase{RunIf: crmodel.RunIfFailed, OnCancel: &cancel},
			Framework: crmodel.TaskKindAnt, BuildFile: "ant", Target: "build", WorkingDirectory: "src",
		})
		require.NoError(t, err)

		ant, ok := got.(*domain.AntTask)
		require.True(t, ok)
		assert.Equal(t, domain.RunIfFailed, ant.RunIf())
		assert.Equal(t, "ant", ant.BuildFile)
		assertRakeTask(t, ant.OnCancel())
	})

	t.Run("nant", func(t *testing.T) {
		got, err := c.ToTask(&crmodel.BuildTask{
			TaskBase:  crmodel.TaskBase{RunIf: crmodel.RunIfPassed},
			Framework: crmodel.TaskKindNant, BuildFile: "nant", Target: "build", WorkingDirectory: "src", NantPath: "path",
		})
		require.NoError(t, err)

		nant, ok := got.(*domain.NantTask)
		require.True(t, ok)
		assert.Equal(t, domain.RunIfPassed, nant.RunIf())
		assert.Equal(t, "nant", nant.BuildFile)
		assert.Equal(t, "path", nant.NantPath)
	})

	defaults := []struct {
		framework string
		want      string
	}{
		{crmodel.TaskKindRake, "rakefile"},
		{crmodel.TaskKindAnt, "build.xml"},
		{crmodel.TaskKindNant, "default.build"},
	}
	for _, tc := range defaults {
		t.Run("default build file "+tc.framework, func(t *testing.T) {
			got, err := c.ToTask(&crmodel.BuildTask{Framework: tc.framework})
			require.NoError(t, err)
			assert.Equal(t, domain.RunIfPassed, got.RunIf())

			switch task := got.(type) {
			case *domain.RakeTask:
				assert.Equal(t, tc.want, task.BuildFile)
			case *domain.AntTask:
				assert.Equal(t, tc.want, task.BuildFile)
			case *domain.NantTask:
				assert.Equal(t, tc.want, task.BuildFile)
			default:
				t.Fatalf("unexpected task %T", got)
			}
		})
	}
}

func TestToTask_ExecTask(t *testing.T) {
	c, _ := newTestConverter(nil)
	exec := func(onCancel *crmodel.TaskSpec) *crmodel.ExecTask {
		return &crmodel.ExecTask{
			TaskBase:         crmodel.TaskBase{RunIf: crmodel.RunIfFailed, OnCancel: onCancel},
			Command:          "bash",
			Arguments:        []string{"1", "2"},
			WorkingDirectory: "work",
			Timeout:          120,
		}
	}

	t.Run("cancel not specified", func(t *testing.T) {
		got, err := c.ToTask(exec(nil))
		require.NoError(t, err)

		task, ok := got.(*domain.ExecTask)
		require.True(t, ok)
		assert.Equal(t, domain.RunIfFailed, task.RunIf())
		assert.Equal(t, "bash", task.Command)
		assert.Equal(t, []domain.Argument{"1", "2"}, task.Args)
		assert.Equal(t, []string{"1", "2"}, task.ArgList())
		assert.Equal(t, "work", task.WorkingDirectory)
		assert.Equal(t, 120*time.Second, task.Timeout)
		assert.IsType(t, &domain.KillAllChildProcessTask{}, task.OnCancel())
	})

	t.Run("cancel specified", func(t *testing.T) {
		cancel := crmodel.NewTaskSpec(&crmodel.ExecTask{Command: "kill"})
		got, err := c.ToTask(exec(&cancel))
		require.NoError(t, err)

		task := got.(*domain.ExecTask)
		cancelTask, ok := task.OnCancel().(*domain.ExecTask)
		require.True(t, ok)
		assert.Equal(t, "kill", cancelTask.Command)
		assert.IsType(t, &domain.KillAllChildProcessTask{}, cancelTask.OnCancel(),
			"the nested exec task gets its own default")
	})

	t.Run("no timeout", func(t *testing.T) {
		got, err := c.ToTask(&crmodel.ExecTask{Command: "ls"})
		require.NoError(t, err)
		assert.Zero(t, got.(*domain.ExecTask).Timeout)
		assert.Empty(t, got.(*domain.ExecTask).Args)
	})
}

func TestToTask_FetchTask(t *testing.T) {
	c, _ := newTestConverter(nil)

	tests := []struct {
		name         string
		task         *crmodel.FetchTask
		wantRunIf    domain.RunIfConfig
		wantPipeline string
		wantDest     string
		wantFile     bool
	}{
		{
			name:         "pipeline not specified",
			task:         &crmodel.FetchTask{Stage: "stage", Job: "job", Source: "src"},
			wantRunIf:    domain.RunIfPassed,
			wantPipeline: "",
			wantDest:     "",
			wantFile:     true,
		},
		{
			name:         "destination not specified",
			task:         &crmodel.FetchTask{Pipeline: "upstream", Stage: "stage", Job: "job", Source: "src"},
			wantRunIf:    domain.RunIfPassed,
			wantPipeline: "upstream",
			wantDest:     "",
			wantFile:     true,
		},
		{
			name: "source is directory",
			task: &crmodel.FetchTask{
				TaskBase: crmodel.TaskBase{RunIf: crmodel.RunIfFailed},
				Pipeline: "upstream", Stage: "stage", Job: "job", Source: "src", Destination: "dest", SourceIsDirectory: true,
			},
			wantRunIf:    domain.RunIfFailed,
			wantPipeline: "upstream",
			wantDest:     "dest",
			wantFile:     false,
		},
		{
			name: "source is file",
			task: &crmodel.FetchTask{
				TaskBase: crmodel.TaskBase{RunIf: crmodel.RunIfFailed},
				Pipeline: "upstream", Stage: "stage", Job: "job", Source: "src", Destination: "dest",
			},
			wantRunIf:    domain.RunIfFailed,
			wantPipeline: "upstream",
			wantDest:     "dest",
			wantFile:     true,
		},
		{
			name:         "directory-looking path is still a file unless flagged",
			task:         &crmodel.FetchTask{Stage: "stage", Job: "job", Source: "build/"},
			wantRunIf:    domain.RunIfPassed,
			wantPipeline: "",
			wantFile:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.ToTask(tc.task)
			require.NoError(t, err)

			fetch, ok := got.(*domain.FetchTask)
			require.True(t, ok)
			assert.Equal(t, tc.wantRunIf, fetch.RunIf())
			assert.Equal(t, tc.wantDest, fetch.Dest)
			assert.Equal(t, "job", fetch.Job.ToLower())
			assert.Equal(t, tc.wantPipeline, fetch.PipelineName.ToLower())
			assert.Equal(t, tc.task.Source, fetch.Source)
			assert.Equal(t, tc.wantFile, fetch.IsSourceAFile())
			assert.Equal(t, !tc.wantFile, fetch.SourceIsDirectory)
		})
	}
}

func TestToTask_FetchPluggableArtifactTask(t *testing.T) {
	c, _ := newTestConverter(nil)

	t.Run("with configuration", func(t *testing.T) {
		got, err := c.ToTask(&crmodel.FetchPluggableArtifactTask{
			Stage: "stage", Job: "job", ArtifactID: "artifactId",
			Configuration: []*crmodel.ConfigurationProperty{{Key: "k1", Value: "v1"}},
		})
		require.NoError(t, err)

		task, ok := got.(*domain.FetchPluggableArtifactTask)
		require.True(t, ok)
		assert.Equal(t, domain.RunIfPassed, task.RunIf())
		assert.Equal(t, "job", task.Job.ToLower())
		assert.Empty(t, task.PipelineName.ToLower())
		assert.Equal(t, "artifactId", task.ArtifactID)
		assert.Equal(t, "v1", task.Configuration.Property("k1").Value.Value)
	})

	t.Run("configuration not set", func(t *testing.T) {
		got, err := c.ToTask(&crmodel.FetchPluggableArtifactTask{Stage: "stage", Job: "JOB", ArtifactID: "artifactId"})
		require.NoError(t, err)

		task := got.(*domain.FetchPluggableArtifactTask)
		assert.Equal(t, "job", task.Job.ToLower())
		assert.Empty(t, task.PipelineName.String())
		assert.NotNil(t, task.Configuration)
		assert.True(t, task.Configuration.IsEmpty())
	})
}

func TestToTask_Errors(t *testing.T) {
	c, _ := newTestConverter(nil)

	tests := []struct {
		name     string
		task     crmodel.Task
		kind     error
		contains string
	}{
		{"unknown kind", &crmodel.UnknownTask{Type: "sorcery"}, crerrors.ErrUnknownVariant, `unknown task type "sorcery"`},
		{"unknown framework", &crmodel.BuildTask{Framework: "make"}, crerrors.ErrUnknownVariant, `"make"`},
		{"unknown run_if", &crmodel.ExecTask{TaskBase: crmodel.TaskBase{RunIf: "sometimes"}}, crerrors.ErrUnknownVariant, `run_if "sometimes"`},
		{"nil task", nil, crerrors.ErrMissingMandatoryField, "empty"},
		{
			"bad secret",
			&crmodel.PluggableTask{Configuration: []*crmodel.ConfigurationProperty{{Key: "k", EncryptedValue: "junk"}}},
			crerrors.ErrSecretResolution, `configuration property "k"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.ToTask(tc.task)
			require.Error(t, err)
			assert.Nil(t, got)
			require.ErrorIs(t, err, tc.kind)
			assert.Contains(t, err.Error(), tc.contains)

			_, ok := crerrors.AsConversionError(err)
			assert.True(t, ok)
		})
	}

	t.Run("nested cancel failure names its location", func(t *testing.T) {
		cancel := crmodel.NewTaskSpec(&crmodel.UnknownTask{Type: "nope"})
		_, err := c.ToTask(&crmodel.ExecTask{TaskBase: crmodel.TaskBase{OnCancel: &cancel}})
		require.ErrorIs(t, err, crerrors.ErrUnknownVariant)
		assert.Contains(t, err.Error(), "on_cancel: ")
	})
}

func TestToTask_DeepCancelChain(t *testing.T) {
	c, _ := newTestConverter(nil)

	inner := crmodel.NewTaskSpec(&crmodel.ExecTask{Command: "level3"})
	middle := crmodel.NewTaskSpec(&crmodel.ExecTask{Command: "level2", TaskBase: crmodel.TaskBase{OnCancel: &inner}})
	got, err := c.ToTask(&crmodel.ExecTask{Command: "level1", TaskBase: crmodel.TaskBase{OnCancel: &middle}})
	require.NoError(t, err)

	level2 := got.OnCancel().(*domain.ExecTask)
	level3 := level2.OnCancel().(*domain.ExecTask)
	assert.Equal(t, "level3", level3.Command)
}
