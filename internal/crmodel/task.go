package crmodel

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Task kind tags as they appear in the "type" field.
const (
	TaskKindRake                   = "rake"
	TaskKindAnt                    = "ant"
	TaskKindNant                   = "nant"
	TaskKindExec                   = "exec"
	TaskKindFetch                  = "fetch"
	TaskKindFetchPluggableArtifact = "fetch-pluggable-artifact"
	TaskKindPluggable              = "pluggable"
)

// Run conditions.
const (
	RunIfPassed = "passed"
	RunIfFailed = "failed"
	RunIfAny    = "any"
)

// Task is implemented by every task variant.
type Task interface {
	// Kind returns the type tag.
	Kind() string

	// Base returns the fields every task carries.
	Base() *TaskBase
}

// TaskBase holds the run condition and the optional cancel task.
type TaskBase struct {
	RunIf    string    `yaml:"run_if,omitempty" json:"run_if,omitempty"`
	OnCancel *TaskSpec `yaml:"on_cancel,omitempty" json:"on_cancel,omitempty"`
}

// Base implements Task.
func (b *TaskBase) Base() *TaskBase { return b }

// Condition returns the run condition, passed when not declared.
func (b *TaskBase) Condition() string {
	if b.RunIf == "" {
		return RunIfPassed
	}
	return b.RunIf
}

// BuildTask runs a rake, ant or nant target. Framework holds the type tag.
type BuildTask struct {
	TaskBase `yaml:",inline"`

	Framework        string `yaml:"-" json:"-"`
	BuildFile        string `yaml:"build_file,omitempty" json:"build_file,omitempty"`
	Target           string `yaml:"target,omitempty" json:"target,omitempty"`
	WorkingDirectory string `yaml:"working_directory,omitempty" json:"working_directory,omitempty"`

	// NantPath is only read for nant.
	NantPath string `yaml:"nant_path,omitempty" json:"nant_path,omitempty"`
}

// Kind implements Task.
func (t *BuildTask) Kind() string { return t.Framework }

// ExecTask runs a command. Timeout is in seconds, zero for none.
type ExecTask struct {
	TaskBase `yaml:",inline"`

	Command          string   `yaml:"command" json:"command"`
	Arguments        []string `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	WorkingDirectory string   `yaml:"working_directory,omitempty" json:"working_directory,omitempty"`
	Timeout          int64    `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Kind implements Task.
func (t *ExecTask) Kind() string { return TaskKindExec }

// FetchTask fetches a built artifact. An empty Pipeline means the current pipeline.
type FetchTask struct {
	TaskBase `yaml:",inline"`

	Pipeline          string `yaml:"pipeline,omitempty" json:"pipeline,omitempty"`
	Stage             string `yaml:"stage" json:"stage"`
	Job               string `yaml:"job" json:"job"`
	Source            string `yaml:"source" json:"source"`
	Destination       string `yaml:"destination,omitempty" json:"destination,omitempty"`
	SourceIsDirectory bool   `yaml:"source_is_directory,omitempty" json:"source_is_directory,omitempty"`
}

// Kind implements Task.
func (t *FetchTask) Kind() string { return TaskKindFetch }

// FetchPluggableArtifactTask fetches an artifact from an artifact store.
type FetchPluggableArtifactTask struct {
	TaskBase `yaml:",inline"`

	Pipeline      string                   `yaml:"pipeline,omitempty" json:"pipeline,omitempty"`
	Stage         string                   `yaml:"stage" json:"stage"`
	Job           string                   `yaml:"job" json:"job"`
	ArtifactID    string                   `yaml:"artifact_id" json:"artifact_id"`
	Configuration []*ConfigurationProperty `yaml:"configuration,omitempty" json:"configuration,omitempty"`
}

// Kind implements Task.
func (t *FetchPluggableArtifactTask) Kind() string { return TaskKindFetchPluggableArtifact }

// PluginConfiguration identifies a plugin.
type PluginConfiguration struct {
	ID      string `yaml:"id" json:"id"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// PluggableTask runs a task plugin.
type PluggableTask struct {
	TaskBase `yaml:",inline"`

	PluginConfiguration PluginConfiguration      `yaml:"plugin_configuration" json:"plugin_configuration"`
	Configuration       []*ConfigurationProperty `yaml:"configuration,omitempty" json:"configuration,omitempty"`
}

// Kind implements Task.
func (t *PluggableTask) Kind() string { return TaskKindPluggable }

// UnknownTask keeps a task whose type tag is not recognized so the converter can reject it.
type UnknownTask struct {
	TaskBase

	Type string
}

// Kind implements Task.
func (t *UnknownTask) Kind() string { return t.Type }

// TaskSpec wraps a task variant selected by its "type" field.
type TaskSpec struct {
	Task
}

// NewTaskSpec wraps task.
func NewTaskSpec(task Task) TaskSpec {
	return TaskSpec{Task: task}
}

type kindHeader struct {
	Type string `yaml:"type" json:"type"`
}

func newTask(kind string) Task {
	switch kind {
	case TaskKindRake, TaskKindAnt, TaskKindNant:
		return &BuildTask{Framework: kind}
	case TaskKindExec:
		return &ExecTask{}
	case TaskKindFetch:
		return &FetchTask{}
	case TaskKindFetchPluggableArtifact:
		return &FetchPluggableArtifactTask{}
	case TaskKindPluggable:
		return &PluggableTask{}
	default:
		return &UnknownTask{Type: kind}
	}
}

// UnmarshalJSON decodes the variant named by "type".
func (s *TaskSpec) UnmarshalJSON(data []byte) error {
	var head kindHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode task: %w", err)
	}
	task := newTask(head.Type)
	if _, unknown := task.(*UnknownTask); !unknown {
		if err := json.Unmarshal(data, task); err != nil {
			return fmt.Errorf("decode %s task: %w", head.Type, err)
		}
	}
	s.Task = task
	return nil
}

// UnmarshalYAML decodes the variant named by "type".
func (s *TaskSpec) UnmarshalYAML(node *yaml.Node) error {
	var head kindHeader
	if err := node.Decode(&head); err != nil {
		return fmt.Errorf("decode task: %w", err)
	}
	task := newTask(head.Type)
	if _, unknown := task.(*UnknownTask); !unknown {
		if err := node.Decode(task); err != nil {
			return fmt.Errorf("decode %s task: %w", head.Type, err)
		}
	}
	s.Task = task
	return nil
}
