// Package crmodel provides the loose configuration model produced by config-repo plugins.
//
// Every field is optional. Missing values are resolved by internal/convert, never here,
// except where the model itself documents a default (task run condition, stage
// fetch-materials flag, material auto-update flag).
//
// Field names use snake_case in both JSON and YAML.
package crmodel

// ParseResult is everything one config repo declares.
type ParseResult struct {
	Pipelines    []*Pipeline    `yaml:"pipelines,omitempty" json:"pipelines,omitempty"`
	Environments []*Environment `yaml:"environments,omitempty" json:"environments,omitempty"`
}

// EnvironmentVariable is a variable given either in plain text or encrypted.
type EnvironmentVariable struct {
	Name           string `yaml:"name" json:"name"`
	Value          string `yaml:"value,omitempty" json:"value,omitempty"`
	EncryptedValue string `yaml:"encrypted_value,omitempty" json:"encrypted_value,omitempty"`
}

// ConfigurationProperty is a plugin setting given either in plain text or encrypted.
type ConfigurationProperty struct {
	Key            string `yaml:"key" json:"key"`
	Value          string `yaml:"value,omitempty" json:"value,omitempty"`
	EncryptedValue string `yaml:"encrypted_value,omitempty" json:"encrypted_value,omitempty"`
}

// Environment groups agents and pipelines.
type Environment struct {
	Name                 string                 `yaml:"name" json:"name"`
	EnvironmentVariables []*EnvironmentVariable `yaml:"environment_variables,omitempty" json:"environment_variables,omitempty"`
	Agents               []string               `yaml:"agents,omitempty" json:"agents,omitempty"`
	Pipelines            []string               `yaml:"pipelines,omitempty" json:"pipelines,omitempty"`
}

// Pipeline is a pipeline declaration. Stages and Template are mutually exclusive;
// when both are given the template wins.
type Pipeline struct {
	Name                 string                 `yaml:"name" json:"name"`
	Group                string                 `yaml:"group,omitempty" json:"group,omitempty"`
	LabelTemplate        string                 `yaml:"label_template,omitempty" json:"label_template,omitempty"`
	LockBehavior         string                 `yaml:"lock_behavior,omitempty" json:"lock_behavior,omitempty"`
	TrackingTool         *TrackingTool          `yaml:"tracking_tool,omitempty" json:"tracking_tool,omitempty"`
	Timer                *Timer                 `yaml:"timer,omitempty" json:"timer,omitempty"`
	EnvironmentVariables []*EnvironmentVariable `yaml:"environment_variables,omitempty" json:"environment_variables,omitempty"`
	Parameters           []*Parameter           `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Materials            []MaterialSpec         `yaml:"materials,omitempty" json:"materials,omitempty"`
	Stages               []*Stage               `yaml:"stages,omitempty" json:"stages,omitempty"`
	Template             string                 `yaml:"template,omitempty" json:"template,omitempty"`
}

// TrackingTool links commit messages to an issue tracker.
type TrackingTool struct {
	Link  string `yaml:"link" json:"link"`
	Regex string `yaml:"regex" json:"regex"`
}

// Timer is a cron trigger. OnlyOnChanges is nil when not declared.
type Timer struct {
	Spec          string `yaml:"spec,omitempty" json:"spec,omitempty"`
	OnlyOnChanges *bool  `yaml:"only_on_changes,omitempty" json:"only_on_changes,omitempty"`
}

// Parameter is a pipeline parameter.
type Parameter struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

// Stage is a stage declaration.
type Stage struct {
	Name                  string                 `yaml:"name" json:"name"`
	FetchMaterials        *bool                  `yaml:"fetch_materials,omitempty" json:"fetch_materials,omitempty"`
	CleanWorkingDirectory bool                   `yaml:"clean_working_directory,omitempty" json:"clean_working_directory,omitempty"`
	NeverCleanupArtifacts bool                   `yaml:"never_cleanup_artifacts,omitempty" json:"never_cleanup_artifacts,omitempty"`
	Approval              *Approval              `yaml:"approval,omitempty" json:"approval,omitempty"`
	EnvironmentVariables  []*EnvironmentVariable `yaml:"environment_variables,omitempty" json:"environment_variables,omitempty"`
	Jobs                  []*Job                 `yaml:"jobs,omitempty" json:"jobs,omitempty"`
}

// ShouldFetchMaterials returns the fetch-materials flag, true when not declared.
func (s *Stage) ShouldFetchMaterials() bool {
	return s.FetchMaterials == nil || *s.FetchMaterials
}

// Approval condition values.
const (
	ApprovalManual  = "manual"
	ApprovalSuccess = "success"
)

// Approval is a stage trigger rule.
type Approval struct {
	Type  string   `yaml:"type" json:"type"`
	Roles []string `yaml:"roles,omitempty" json:"roles,omitempty"`
	Users []string `yaml:"users,omitempty" json:"users,omitempty"`
}

// Job is a job declaration.
type Job struct {
	Name                 string                 `yaml:"name" json:"name"`
	EnvironmentVariables []*EnvironmentVariable `yaml:"environment_variables,omitempty" json:"environment_variables,omitempty"`
	Tabs                 []*Tab                 `yaml:"tabs,omitempty" json:"tabs,omitempty"`
	Resources            []string               `yaml:"resources,omitempty" json:"resources,omitempty"`
	ElasticProfileID     string                 `yaml:"elastic_profile_id,omitempty" json:"elastic_profile_id,omitempty"`
	Artifacts            []*Artifact            `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
	PluggableArtifacts   []*PluggableArtifact   `yaml:"pluggable_artifacts,omitempty" json:"pluggable_artifacts,omitempty"`
	Properties           []*PropertyGenerator   `yaml:"properties,omitempty" json:"properties,omitempty"`
	RunInstanceCount     RunInstanceCount       `yaml:"run_instance_count,omitempty" json:"run_instance_count,omitempty"`

	// Timeout is in minutes. Zero means the server default.
	Timeout int `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	Tasks []TaskSpec `yaml:"tasks,omitempty" json:"tasks,omitempty"`
}

// Tab is a custom job tab.
type Tab struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// Artifact type values.
const (
	ArtifactTypeBuild = "build"
	ArtifactTypeTest  = "test"
)

// Artifact is a file or directory uploaded after the job. Type defaults to build.
type Artifact struct {
	Source      string `yaml:"source" json:"source"`
	Destination string `yaml:"destination,omitempty" json:"destination,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
}

// PluggableArtifact is an artifact published to an artifact store.
type PluggableArtifact struct {
	ID            string                   `yaml:"id" json:"id"`
	StoreID       string                   `yaml:"store_id" json:"store_id"`
	Configuration []*ConfigurationProperty `yaml:"configuration,omitempty" json:"configuration,omitempty"`
}

// PropertyGenerator extracts a job property from a file.
type PropertyGenerator struct {
	Name   string `yaml:"name" json:"name"`
	Source string `yaml:"source" json:"source"`
	XPath  string `yaml:"xpath" json:"xpath"`
}
