package domain

// ApprovalType decides how a stage is triggered.
type ApprovalType string

// Approval types.
const (
	// ApprovalSuccess triggers the stage when the previous stage passes.
	ApprovalSuccess ApprovalType = "success"

	// ApprovalManual waits for an authorized user to trigger the stage.
	ApprovalManual ApprovalType = "manual"
)

// String returns the string representation of the ApprovalType.
func (a ApprovalType) String() string {
	return string(a)
}

// AuthConfig lists who may operate a stage.
type AuthConfig struct {
	Roles []CaseInsensitiveString
	Users []CaseInsensitiveString
}

// IsEmpty reports whether no role or user is listed.
func (a AuthConfig) IsEmpty() bool {
	return len(a.Roles) == 0 && len(a.Users) == 0
}

// Approval is the trigger rule of a stage.
type Approval struct {
	Type          ApprovalType
	Authorization AuthConfig
}

// IsManual reports whether the stage waits for a manual trigger.
func (a Approval) IsManual() bool {
	return a.Type == ApprovalManual
}

// IsAuthorizationDefined reports whether at least one role or user is authorized.
func (a Approval) IsAuthorizationDefined() bool {
	return !a.Authorization.IsEmpty()
}

// Stage is an ordered set of jobs run in parallel.
type Stage struct {
	Name CaseInsensitiveString

	FetchMaterials            bool
	CleanWorkingDir           bool
	ArtifactCleanupProhibited bool

	Approval  Approval
	Variables EnvironmentVariables
	Jobs      []*Job
}

// Job returns the job named name, or nil.
func (s *Stage) Job(name string) *Job {
	for _, j := range s.Jobs {
		if j.Name.EqualString(name) {
			return j
		}
	}
	return nil
}
