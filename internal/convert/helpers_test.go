package convert

import (
	"errors"
	"sync/atomic"

	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
)

var errBadCipherText = errors.New("bad cipher text")

// stubCipher decrypts "encryptedvalue" to "secret" and fails on anything else.
type stubCipher struct{}

func (stubCipher) Encrypt(plain string) (string, error) {
	if plain == "secret" {
		return "encryptedvalue", nil
	}
	return "enc:" + plain, nil
}

func (stubCipher) Decrypt(cipherText string) (string, error) {
	switch cipherText {
	case "encryptedvalue":
		return "secret", nil
	default:
		return "", errBadCipherText
	}
}

// staticProvider serves a fixed snapshot and counts how often it was asked.
type staticProvider struct {
	snapshot *domain.Snapshot
	calls    atomic.Int32
}

func (p *staticProvider) CurrentConfig() *domain.Snapshot {
	p.calls.Add(1)
	return p.snapshot
}

func newTestConverter(snapshot *domain.Snapshot, opts ...Option) (*Converter, *staticProvider) {
	provider := &staticProvider{snapshot: snapshot}
	return New(stubCipher{}, provider, opts...), provider
}

func configMaterial(m domain.Material) LoadContext {
	return LoadContextFunc(func() domain.Material { return m })
}

func boolPtr(b bool) *bool { return &b }

func testSnapshot() (*domain.Snapshot, *domain.PackageDefinition, *domain.SCM) {
	def := &domain.PackageDefinition{ID: "package-id", Name: "n", AutoUpdate: true}
	repo := &domain.PackageRepository{ID: "repo-id", Packages: []*domain.PackageDefinition{def}}
	def.Repository = repo
	scm := &domain.SCM{ID: "scmid", Name: "myscm", AutoUpdate: true}
	return &domain.Snapshot{
		PackageRepositories: []*domain.PackageRepository{repo},
		SCMs:                []*domain.SCM{scm},
	}, def, scm
}

func filterPatterns() []string { return []string{"filter"} }

func crEnvVars() []*crmodel.EnvironmentVariable {
	return []*crmodel.EnvironmentVariable{{Name: "key", Value: "value"}}
}

func crFetchTask() crmodel.TaskSpec {
	return crmodel.NewTaskSpec(&crmodel.FetchTask{
		TaskBase: crmodel.TaskBase{RunIf: crmodel.RunIfFailed},
		Pipeline: "upstream", Stage: "stage", Job: "job", Source: "src", Destination: "dest",
	})
}

func crJob() *crmodel.Job {
	return &crmodel.Job{
		Name:                 "name",
		EnvironmentVariables: crEnvVars(),
		Tabs:                 []*crmodel.Tab{{Name: "tabname", Path: "tabpath"}},
		Resources:            []string{"resource1"},
		Artifacts:            []*crmodel.Artifact{{Source: "src", Destination: "dest"}},
		Properties:           []*crmodel.PropertyGenerator{{Name: "name", Source: "src", XPath: "path"}},
		RunInstanceCount:     "5",
		Timeout:              120,
		Tasks:                []crmodel.TaskSpec{crFetchTask()},
	}
}

func crStage() *crmodel.Stage {
	return &crmodel.Stage{
		Name:                  "stageName",
		FetchMaterials:        boolPtr(true),
		CleanWorkingDirectory: true,
		NeverCleanupArtifacts: true,
		Approval:              &crmodel.Approval{Type: crmodel.ApprovalManual, Roles: []string{"authRole"}, Users: []string{"authUser"}},
		EnvironmentVariables:  crEnvVars(),
		Jobs:                  []*crmodel.Job{crJob()},
	}
}

func crGit() *crmodel.GitMaterial {
	return &crmodel.GitMaterial{
		MaterialBase: crmodel.MaterialBase{
			Name: "name", Destination: "folder", AutoUpdate: boolPtr(true),
			Filter: crmodel.NewIgnoreFilter(filterPatterns()...),
		},
		URL: "url", Branch: "branch",
	}
}

func crPipeline(name, group string) *crmodel.Pipeline {
	return &crmodel.Pipeline{
		Name:                 name,
		Group:                group,
		LabelTemplate:        "label",
		LockBehavior:         "lockOnFailure",
		TrackingTool:         &crmodel.TrackingTool{Link: "link", Regex: "regex"},
		Timer:                &crmodel.Timer{Spec: "timer", OnlyOnChanges: boolPtr(true)},
		EnvironmentVariables: crEnvVars(),
		Materials:            []crmodel.MaterialSpec{crmodel.NewMaterialSpec(crGit())},
		Stages:               []*crmodel.Stage{crStage()},
	}
}
