package domain

// EnvironmentVariable is a named value exported to tasks.
type EnvironmentVariable struct {
	Name  string
	Value SecureValue
}

// IsSecure reports whether the value was supplied encrypted.
func (v EnvironmentVariable) IsSecure() bool {
	return v.Value.Secure
}

// EnvironmentVariables is an ordered list of variables.
type EnvironmentVariables []EnvironmentVariable

// Get returns the variable named name, or nil.
func (vs EnvironmentVariables) Get(name string) *EnvironmentVariable {
	for i := range vs {
		if vs[i].Name == name {
			return &vs[i]
		}
	}
	return nil
}

// Has reports whether a variable named name exists.
func (vs EnvironmentVariables) Has(name string) bool {
	return vs.Get(name) != nil
}

// Tab is a custom tab shown on the job details page.
type Tab struct {
	Name string
	Path string
}

// ArtifactType is the kind of artifact a job publishes.
type ArtifactType string

// Artifact types.
const (
	ArtifactTypeBuild ArtifactType = "build"
	ArtifactTypeTest  ArtifactType = "test"
)

// String returns the string representation of the ArtifactType.
func (a ArtifactType) String() string {
	return string(a)
}

// ArtifactConfig is a file or directory uploaded to the server after the job.
type ArtifactConfig struct {
	Type        ArtifactType
	Source      string
	Destination string
}

// PluggableArtifactConfig is an artifact published to an external artifact store.
type PluggableArtifactConfig struct {
	ID            string
	StoreID       string
	Configuration Configuration
}

// PropertyGenerator extracts a job property from a file with an XPath expression.
type PropertyGenerator struct {
	Name   string
	Source string
	XPath  string
}

// Job is a set of tasks run on one agent.
type Job struct {
	Name      CaseInsensitiveString
	Variables EnvironmentVariables
	Tabs      []Tab

	// Resources is empty whenever ElasticProfileID is set.
	Resources        []string
	ElasticProfileID string

	Artifacts          []ArtifactConfig
	PluggableArtifacts []PluggableArtifactConfig
	Properties         []PropertyGenerator

	RunOnAllAgents bool

	// RunInstanceCount is "" when a single instance runs.
	RunInstanceCount string

	// Timeout is the inactivity timeout in minutes, "" for the server default.
	Timeout string

	Tasks []Task
}

// IsRunOnAllAgents reports whether one instance runs on every matching agent.
func (j *Job) IsRunOnAllAgents() bool {
	return j.RunOnAllAgents
}

// IsRunMultipleInstanceType reports whether an explicit instance count is set.
func (j *Job) IsRunMultipleInstanceType() bool {
	return j.RunInstanceCount != ""
}

// Tab returns the first tab named name. Later tabs with the same name are hidden.
func (j *Job) Tab(name string) *Tab {
	for i := range j.Tabs {
		if j.Tabs[i].Name == name {
			return &j.Tabs[i]
		}
	}
	return nil
}

// UsesElasticAgent reports whether the job runs on an elastic agent profile.
func (j *Job) UsesElasticAgent() bool {
	return j.ElasticProfileID != ""
}
