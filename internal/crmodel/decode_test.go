package crmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

const samplePipelineYAML = `
pipelines:
  - name: pipe1
    group: group1
    lock_behavior: lockOnFailure
    timer:
      spec: "0 15 * * 6"
    materials:
      - type: git
        name: repo
        url: https://example.com/repo.git
        filter:
          whitelist: ["src/**"]
      - type: configrepo
        destination: dest1
      - type: dependency
        pipeline: upstream
        stage: build
      - type: darcs
        name: weird
    stages:
      - name: build
        approval:
          type: manual
          roles: [admins]
        jobs:
          - name: compile
            run_instance_count: all
            timeout: 30
            tasks:
              - type: exec
                command: make
                arguments: ["all"]
                timeout: 120
                on_cancel:
                  type: exec
                  command: kill
              - type: rake
                target: test
                run_if: failed
              - type: fetch-pluggable-artifact
                stage: build
                job: compile
                artifact_id: docker
              - type: sorcery
environments:
  - name: dev
    agents: ["12"]
    pipelines: [pipe1]
`

func TestDecode_YAML(t *testing.T) {
	result, err := Decode([]byte(samplePipelineYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, result.Pipelines, 1)
	require.Len(t, result.Environments, 1)

	p := result.Pipelines[0]
	assert.Equal(t, "pipe1", p.Name)
	assert.Equal(t, "group1", p.Group)
	require.NotNil(t, p.Timer)
	assert.Nil(t, p.Timer.OnlyOnChanges)

	t.Run("materials", func(t *testing.T) {
		require.Len(t, p.Materials, 4)

		git, ok := p.Materials[0].Material.(*GitMaterial)
		require.True(t, ok)
		assert.Equal(t, "repo", git.MaterialName())
		assert.Equal(t, "https://example.com/repo.git", git.URL)
		assert.True(t, git.ShouldAutoUpdate())
		assert.True(t, git.Filter.IsWhitelist())
		assert.Equal(t, []string{"src/**"}, git.Filter.Patterns())

		cfg, ok := p.Materials[1].Material.(*ConfigRepoMaterial)
		require.True(t, ok)
		assert.Equal(t, "dest1", cfg.Destination)
		assert.Nil(t, cfg.Filter)

		dep, ok := p.Materials[2].Material.(*DependencyMaterial)
		require.True(t, ok)
		assert.Equal(t, "upstream", dep.Pipeline)

		unknown, ok := p.Materials[3].Material.(*UnknownMaterial)
		require.True(t, ok)
		assert.Equal(t, "darcs", unknown.Kind())
		assert.Equal(t, "weird", unknown.MaterialName())
	})

	t.Run("stage and job", func(t *testing.T) {
		require.Len(t, p.Stages, 1)
		stage := p.Stages[0]
		assert.True(t, stage.ShouldFetchMaterials())
		require.NotNil(t, stage.Approval)
		assert.Equal(t, ApprovalManual, stage.Approval.Type)

		job := stage.Jobs[0]
		assert.Equal(t, RunInstanceCount("all"), job.RunInstanceCount)
		assert.Equal(t, 30, job.Timeout)
	})

	t.Run("tasks", func(t *testing.T) {
		tasks := p.Stages[0].Jobs[0].Tasks
		require.Len(t, tasks, 4)

		exec, ok := tasks[0].Task.(*ExecTask)
		require.True(t, ok)
		assert.Equal(t, "make", exec.Command)
		assert.Equal(t, int64(120), exec.Timeout)
		assert.Equal(t, RunIfPassed, exec.Condition())
		require.NotNil(t, exec.OnCancel)
		cancel, ok := exec.OnCancel.Task.(*ExecTask)
		require.True(t, ok)
		assert.Equal(t, "kill", cancel.Command)

		rake, ok := tasks[1].Task.(*BuildTask)
		require.True(t, ok)
		assert.Equal(t, TaskKindRake, rake.Kind())
		assert.Equal(t, RunIfFailed, rake.Condition())

		fetch, ok := tasks[2].Task.(*FetchPluggableArtifactTask)
		require.True(t, ok)
		assert.Empty(t, fetch.Pipeline)
		assert.Equal(t, "docker", fetch.ArtifactID)

		unknown, ok := tasks[3].Task.(*UnknownTask)
		require.True(t, ok)
		assert.Equal(t, "sorcery", unknown.Kind())
	})
}

func TestDecode_JSON(t *testing.T) {
	data := []byte(`{
  "pipelines": [{
    "name": "pipe1",
    "materials": [
      {"type": "svn", "url": "svn://x", "username": "u", "encrypted_password": "AES:a:b", "auto_update": false},
      {"type": "plugin", "scm_id": "scm-1", "filter": {"ignore": ["*.md"]}}
    ],
    "stages": [{
      "name": "s",
      "fetch_materials": false,
      "jobs": [{
        "name": "j",
        "run_instance_count": 5,
        "tasks": [
          {"type": "nant", "nant_path": "/opt/nant"},
          {"type": "fetch", "pipeline": "up", "stage": "s", "job": "j", "source": "bin", "source_is_directory": true},
          {"type": "pluggable", "plugin_configuration": {"id": "curl", "version": "1"},
           "configuration": [{"key": "url", "value": "http://x"}]}
        ]
      }]
    }]
  }]
}`)

	result, err := Decode(data, FormatJSON)
	require.NoError(t, err)

	p := result.Pipelines[0]
	svn, ok := p.Materials[0].Material.(*SvnMaterial)
	require.True(t, ok)
	assert.False(t, svn.ShouldAutoUpdate())
	assert.Equal(t, "AES:a:b", svn.EncryptedPassword)

	scm, ok := p.Materials[1].Material.(*PluggableSCMMaterial)
	require.True(t, ok)
	assert.False(t, scm.Filter.IsWhitelist())

	stage := p.Stages[0]
	assert.False(t, stage.ShouldFetchMaterials())
	job := stage.Jobs[0]
	assert.Equal(t, RunInstanceCount("5"), job.RunInstanceCount)

	nant, ok := job.Tasks[0].Task.(*BuildTask)
	require.True(t, ok)
	assert.Equal(t, TaskKindNant, nant.Kind())
	assert.Equal(t, "/opt/nant", nant.NantPath)

	fetch, ok := job.Tasks[1].Task.(*FetchTask)
	require.True(t, ok)
	assert.True(t, fetch.SourceIsDirectory)

	plug, ok := job.Tasks[2].Task.(*PluggableTask)
	require.True(t, ok)
	assert.Equal(t, "curl", plug.PluginConfiguration.ID)
	require.Len(t, plug.Configuration, 1)
	assert.Equal(t, "http://x", plug.Configuration[0].Value)
}

func TestDecode_RejectsConflictingFilter(t *testing.T) {
	data := []byte(`
pipelines:
  - name: p
    materials:
      - type: hg
        url: u
        filter:
          ignore: [a]
          whitelist: [b]
`)
	_, err := Decode(data, FormatYAML)
	require.Error(t, err)
	require.ErrorIs(t, err, crerrors.ErrParseResultInvalid)
	require.ErrorIs(t, err, crerrors.ErrInvalidFieldValue)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("{not json"), FormatJSON)
	require.ErrorIs(t, err, crerrors.ErrParseResultInvalid)

	_, err = Decode([]byte("pipelines: [unterminated"), FormatYAML)
	require.ErrorIs(t, err, crerrors.ErrParseResultInvalid)
}

func TestRunInstanceCount(t *testing.T) {
	tests := []struct {
		name string
		json string
		want RunInstanceCount
		err  bool
	}{
		{"number", `7`, "7", false},
		{"string", `"all"`, "all", false},
		{"null", `null`, "", false},
		{"object", `{}`, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got RunInstanceCount
			err := got.UnmarshalJSON([]byte(tc.json))
			if tc.err {
				require.ErrorIs(t, err, crerrors.ErrInvalidFieldValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want != "", got.IsSet())
		})
	}
}

func TestFilter(t *testing.T) {
	var none *Filter
	assert.Nil(t, none.Patterns())
	assert.False(t, none.IsWhitelist())
	require.NoError(t, none.Validate())

	assert.Equal(t, []string{"a"}, NewIgnoreFilter("a").Patterns())
	assert.True(t, NewWhitelistFilter("b").IsWhitelist())
	assert.False(t, NewWhitelistFilter().IsWhitelist())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "result.yaml")
		require.NoError(t, os.WriteFile(path, []byte(samplePipelineYAML), 0o600))

		result, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, result.Pipelines, 1)
	})

	t.Run("json by extension", func(t *testing.T) {
		path := filepath.Join(dir, "result.JSON")
		require.NoError(t, os.WriteFile(path, []byte(`{"environments":[{"name":"dev"}]}`), 0o600))

		result, err := LoadFile(path)
		require.NoError(t, err)
		require.Len(t, result.Environments, 1)
		assert.Equal(t, "dev", result.Environments[0].Name)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "absent.yaml"))
		require.ErrorIs(t, err, crerrors.ErrParseResultNotFound)
	})
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("a.json"))
	assert.Equal(t, FormatYAML, DetectFormat("a.yml"))
	assert.Equal(t, FormatYAML, DetectFormat("a"))
}
