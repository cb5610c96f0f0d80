package domain

import (
	"time"

	"github.com/mrz1836/configrepo/internal/constants"
)

// TaskType identifies the concrete task variant.
type TaskType string

// Task types.
const (
	TaskTypeRake                    TaskType = "rake"
	TaskTypeAnt                     TaskType = "ant"
	TaskTypeNant                    TaskType = "nant"
	TaskTypeExec                    TaskType = "exec"
	TaskTypeFetch                   TaskType = "fetch"
	TaskTypeFetchPluggableArtifact  TaskType = "fetch_pluggable_artifact"
	TaskTypePluggable               TaskType = "pluggable_task"
	TaskTypeKillAllChildProcessTask TaskType = "killallchildprocess"
)

// String returns the string representation of the TaskType.
func (t TaskType) String() string {
	return string(t)
}

// RunIfConfig is the build outcome a task runs on.
type RunIfConfig string

// Run conditions.
const (
	RunIfPassed RunIfConfig = "passed"
	RunIfFailed RunIfConfig = "failed"
	RunIfAny    RunIfConfig = "any"
)

// String returns the string representation of the RunIfConfig.
func (r RunIfConfig) String() string {
	return string(r)
}

// Task is the capability every task variant shares.
// The variant set is closed: only types in this package implement it.
type Task interface {
	// Type returns the concrete variant.
	Type() TaskType

	// RunIf returns the condition the task runs on.
	RunIf() RunIfConfig

	// OnCancel returns the task run when this one is cancelled, or nil.
	OnCancel() Task

	sealedTask()
}

// TaskBase holds the run condition and cancel task every task carries.
type TaskBase struct {
	Condition RunIfConfig
	Cancel    Task
}

// RunIf implements Task. An unset condition means passed.
func (b TaskBase) RunIf() RunIfConfig {
	if b.Condition == "" {
		return RunIfPassed
	}
	return b.Condition
}

// OnCancel implements Task.
func (b TaskBase) OnCancel() Task { return b.Cancel }

func (b TaskBase) sealedTask() {}

// BuildTask holds the fields shared by build-tool tasks.
type BuildTask struct {
	TaskBase

	BuildFile        string
	Target           string
	WorkingDirectory string
}

// RakeTask runs a rake target.
type RakeTask struct {
	BuildTask
}

// Type implements Task.
func (t *RakeTask) Type() TaskType { return TaskTypeRake }

// DefaultBuildFile returns the file rake reads when none is given.
func (t *RakeTask) DefaultBuildFile() string { return constants.RakeDefaultBuildFile }

// AntTask runs an ant target.
type AntTask struct {
	BuildTask
}

// Type implements Task.
func (t *AntTask) Type() TaskType { return TaskTypeAnt }

// DefaultBuildFile returns the file ant reads when none is given.
func (t *AntTask) DefaultBuildFile() string { return constants.AntDefaultBuildFile }

// NantTask runs a nant target.
type NantTask struct {
	BuildTask

	// NantPath is the directory holding the nant executable, "" for the agent PATH.
	NantPath string
}

// Type implements Task.
func (t *NantTask) Type() TaskType { return TaskTypeNant }

// DefaultBuildFile returns the file nant reads when none is given.
func (t *NantTask) DefaultBuildFile() string { return constants.NantDefaultBuildFile }

// Argument is a single command argument passed to the process as one unit.
type Argument string

// String returns the argument text.
func (a Argument) String() string {
	return string(a)
}

// ExecTask runs a command.
type ExecTask struct {
	TaskBase

	Command          string
	Args             []Argument
	WorkingDirectory string

	// Timeout is zero when the command may run indefinitely.
	Timeout time.Duration
}

// Type implements Task.
func (t *ExecTask) Type() TaskType { return TaskTypeExec }

// ArgList returns the arguments as strings.
func (t *ExecTask) ArgList() []string {
	out := make([]string, len(t.Args))
	for i, a := range t.Args {
		out[i] = a.String()
	}
	return out
}

// FetchTask copies a built artifact from an upstream job.
// An empty PipelineName means the current pipeline.
type FetchTask struct {
	TaskBase

	PipelineName CaseInsensitiveString
	Stage        CaseInsensitiveString
	Job          CaseInsensitiveString

	Source            string
	SourceIsDirectory bool
	Dest              string
}

// Type implements Task.
func (t *FetchTask) Type() TaskType { return TaskTypeFetch }

// IsSourceAFile reports whether Source names a file.
func (t *FetchTask) IsSourceAFile() bool { return !t.SourceIsDirectory }

// FetchPluggableArtifactTask fetches an artifact published through an artifact store plugin.
// An empty PipelineName means the current pipeline.
type FetchPluggableArtifactTask struct {
	TaskBase

	PipelineName CaseInsensitiveString
	Stage        CaseInsensitiveString
	Job          CaseInsensitiveString

	ArtifactID    string
	Configuration Configuration
}

// Type implements Task.
func (t *FetchPluggableArtifactTask) Type() TaskType { return TaskTypeFetchPluggableArtifact }

// PluginConfiguration identifies a task plugin.
type PluginConfiguration struct {
	ID      string
	Version string
}

// PluggableTask runs a task plugin.
type PluggableTask struct {
	TaskBase

	Plugin        PluginConfiguration
	Configuration Configuration
}

// Type implements Task.
func (t *PluggableTask) Type() TaskType { return TaskTypePluggable }

// KillAllChildProcessTask terminates every process spawned by the cancelled task.
type KillAllChildProcessTask struct {
	TaskBase
}

// Type implements Task.
func (t *KillAllChildProcessTask) Type() TaskType { return TaskTypeKillAllChildProcessTask }

// Compile-time checks.
var (
	_ Task = (*RakeTask)(nil)
	_ Task = (*AntTask)(nil)
	_ Task = (*NantTask)(nil)
	_ Task = (*ExecTask)(nil)
	_ Task = (*FetchTask)(nil)
	_ Task = (*FetchPluggableArtifactTask)(nil)
	_ Task = (*PluggableTask)(nil)
	_ Task = (*KillAllChildProcessTask)(nil)
)

// ConfigurationProperty is a plugin setting.
type ConfigurationProperty struct {
	Key   string
	Value SecureValue
}

// Configuration is an ordered list of plugin settings.
type Configuration []ConfigurationProperty

// IsEmpty reports whether no property is set.
func (c Configuration) IsEmpty() bool {
	return len(c) == 0
}

// Property returns the property with key, or nil.
func (c Configuration) Property(key string) *ConfigurationProperty {
	for i := range c {
		if c[i].Key == key {
			return &c[i]
		}
	}
	return nil
}

// Keys returns the property keys in order.
func (c Configuration) Keys() []string {
	keys := make([]string, len(c))
	for i, p := range c {
		keys[i] = p.Key
	}
	return keys
}
