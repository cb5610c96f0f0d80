package domain

import (
	"strings"

	"github.com/mrz1836/configrepo/internal/constants"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// MaterialType identifies the concrete material variant.
type MaterialType string

// Material types.
const (
	MaterialTypeGit          MaterialType = "git"
	MaterialTypeHg           MaterialType = "hg"
	MaterialTypeSvn          MaterialType = "svn"
	MaterialTypeP4           MaterialType = "p4"
	MaterialTypeTfs          MaterialType = "tfs"
	MaterialTypeDependency   MaterialType = "dependency"
	MaterialTypePackage      MaterialType = "package"
	MaterialTypePluggableSCM MaterialType = "plugin"
)

// String returns the string representation of the MaterialType.
func (t MaterialType) String() string {
	return string(t)
}

// Material is the capability every material variant shares.
// The variant set is closed: only types in this package implement it.
type Material interface {
	// Type returns the concrete variant.
	Type() MaterialType

	// Name returns the material name, or nil when the name is unset.
	Name() *CaseInsensitiveString

	// SetName sets the name. A blank name unsets it.
	SetName(name string)

	// Folder returns the destination folder, "" when the material has none.
	Folder() string

	// Filter returns the material filter.
	Filter() Filter

	// InvertFilter reports whether the filter is a whitelist.
	InvertFilter() bool

	// FilterAsString returns the filter patterns joined by the canonical separator.
	FilterAsString() string

	// AutoUpdate reports whether the material is polled automatically.
	AutoUpdate() bool

	// IsChangeRelevant reports whether a modification touching paths should trigger the pipeline.
	IsChangeRelevant(paths []string) bool

	// Clone returns a copy. Shared package and SCM definitions are not copied.
	Clone() Material

	sealedMaterial()
}

// Filterable is implemented by materials that carry a destination folder and a filter.
type Filterable interface {
	Material

	// SetFolder sets the destination folder.
	SetFolder(folder string)

	// SetFilter sets the filter and whether it is a whitelist.
	SetFilter(filter Filter, invert bool) error
}

// materialName holds the optional material name.
type materialName struct {
	name *CaseInsensitiveString
}

func (m *materialName) Name() *CaseInsensitiveString {
	if m.name == nil {
		return nil
	}
	n := *m.name
	return &n
}

func (m *materialName) SetName(name string) {
	if strings.TrimSpace(name) == "" {
		m.name = nil
		return
	}
	n := NewCaseInsensitiveString(name)
	m.name = &n
}

func (m *materialName) sealedMaterial() {}

// scmFields are the fields shared by materials checked out into the working directory.
type scmFields struct {
	materialName

	folder       string
	filter       Filter
	invertFilter bool
	autoUpdate   bool
}

func newSCMFields() scmFields {
	return scmFields{autoUpdate: true}
}

func (s *scmFields) Folder() string           { return s.folder }
func (s *scmFields) SetFolder(folder string)  { s.folder = folder }
func (s *scmFields) Filter() Filter           { return s.filter }
func (s *scmFields) InvertFilter() bool       { return s.invertFilter }
func (s *scmFields) FilterAsString() string   { return s.filter.String() }
func (s *scmFields) AutoUpdate() bool         { return s.autoUpdate }
func (s *scmFields) SetAutoUpdate(value bool) { s.autoUpdate = value }

// SetFilter sets the filter. An empty filter is never inverted.
func (s *scmFields) SetFilter(filter Filter, invert bool) error {
	s.filter = filter
	s.invertFilter = invert && !filter.IsEmpty()
	return nil
}

func (s *scmFields) IsChangeRelevant(paths []string) bool {
	return isChangeRelevant(s.filter, s.invertFilter, paths)
}

// Credentials are the optional username and password of an SCM material.
type Credentials struct {
	Username string
	Password SecureValue
}

// GitMaterial is a git repository.
type GitMaterial struct {
	scmFields
	Credentials

	URL          string
	Branch       string
	ShallowClone bool
}

// NewGitMaterial creates a git material tracking the default branch.
func NewGitMaterial(url string) *GitMaterial {
	return &GitMaterial{scmFields: newSCMFields(), URL: url, Branch: constants.DefaultGitBranch}
}

// Type implements Material.
func (m *GitMaterial) Type() MaterialType { return MaterialTypeGit }

// Clone implements Material.
func (m *GitMaterial) Clone() Material {
	c := *m
	return &c
}

// HgMaterial is a mercurial repository.
type HgMaterial struct {
	scmFields
	Credentials

	URL    string
	Branch string
}

// NewHgMaterial creates a mercurial material.
func NewHgMaterial(url string) *HgMaterial {
	return &HgMaterial{scmFields: newSCMFields(), URL: url}
}

// Type implements Material.
func (m *HgMaterial) Type() MaterialType { return MaterialTypeHg }

// Clone implements Material.
func (m *HgMaterial) Clone() Material {
	c := *m
	return &c
}

// SvnMaterial is a subversion repository.
type SvnMaterial struct {
	scmFields
	Credentials

	URL            string
	CheckExternals bool
}

// NewSvnMaterial creates a subversion material.
func NewSvnMaterial(url string) *SvnMaterial {
	return &SvnMaterial{scmFields: newSCMFields(), URL: url}
}

// Type implements Material.
func (m *SvnMaterial) Type() MaterialType { return MaterialTypeSvn }

// Clone implements Material.
func (m *SvnMaterial) Clone() Material {
	c := *m
	return &c
}

// P4Material is a Perforce depot view.
type P4Material struct {
	scmFields
	Credentials

	ServerAndPort string
	UseTickets    bool
	View          string
}

// NewP4Material creates a Perforce material.
func NewP4Material(serverAndPort, view string) *P4Material {
	return &P4Material{scmFields: newSCMFields(), ServerAndPort: serverAndPort, View: view}
}

// Type implements Material.
func (m *P4Material) Type() MaterialType { return MaterialTypeP4 }

// Clone implements Material.
func (m *P4Material) Clone() Material {
	c := *m
	return &c
}

// TfsMaterial is a Team Foundation Server project.
type TfsMaterial struct {
	scmFields
	Credentials

	URL         string
	Domain      string
	ProjectPath string
}

// NewTfsMaterial creates a TFS material.
func NewTfsMaterial(url, projectPath string) *TfsMaterial {
	return &TfsMaterial{scmFields: newSCMFields(), URL: url, ProjectPath: projectPath}
}

// Type implements Material.
func (m *TfsMaterial) Type() MaterialType { return MaterialTypeTfs }

// Clone implements Material.
func (m *TfsMaterial) Clone() Material {
	c := *m
	return &c
}

// DependencyMaterial triggers on the completion of an upstream pipeline stage.
// It has no folder, no filter and no polling.
type DependencyMaterial struct {
	materialName

	PipelineName CaseInsensitiveString
	StageName    CaseInsensitiveString
}

// NewDependencyMaterial creates a dependency on pipeline/stage.
func NewDependencyMaterial(pipeline, stage string) *DependencyMaterial {
	return &DependencyMaterial{
		PipelineName: NewCaseInsensitiveString(pipeline),
		StageName:    NewCaseInsensitiveString(stage),
	}
}

// Type implements Material.
func (m *DependencyMaterial) Type() MaterialType { return MaterialTypeDependency }

// Folder implements Material.
func (m *DependencyMaterial) Folder() string { return "" }

// Filter implements Material.
func (m *DependencyMaterial) Filter() Filter { return Filter{} }

// InvertFilter implements Material.
func (m *DependencyMaterial) InvertFilter() bool { return false }

// FilterAsString implements Material.
func (m *DependencyMaterial) FilterAsString() string { return "" }

// AutoUpdate implements Material.
func (m *DependencyMaterial) AutoUpdate() bool { return true }

// IsChangeRelevant implements Material.
func (m *DependencyMaterial) IsChangeRelevant([]string) bool { return true }

// Clone implements Material.
func (m *DependencyMaterial) Clone() Material {
	c := *m
	return &c
}

// PackageMaterial tracks a package defined in a package repository.
// Definition points into the snapshot the material was resolved against.
type PackageMaterial struct {
	materialName

	PackageID  string
	Definition *PackageDefinition
}

// NewPackageMaterial creates a package material sharing def.
func NewPackageMaterial(def *PackageDefinition) *PackageMaterial {
	return &PackageMaterial{PackageID: def.ID, Definition: def}
}

// Type implements Material.
func (m *PackageMaterial) Type() MaterialType { return MaterialTypePackage }

// Folder implements Material.
func (m *PackageMaterial) Folder() string { return "" }

// Filter implements Material.
func (m *PackageMaterial) Filter() Filter { return Filter{} }

// InvertFilter implements Material.
func (m *PackageMaterial) InvertFilter() bool { return false }

// FilterAsString implements Material.
func (m *PackageMaterial) FilterAsString() string { return "" }

// AutoUpdate follows the package definition.
func (m *PackageMaterial) AutoUpdate() bool {
	return m.Definition == nil || m.Definition.AutoUpdate
}

// IsChangeRelevant implements Material.
func (m *PackageMaterial) IsChangeRelevant([]string) bool { return true }

// Clone implements Material.
func (m *PackageMaterial) Clone() Material {
	c := *m
	return &c
}

// PluggableSCMMaterial is an SCM served by a plugin.
// SCM points into the snapshot the material was resolved against.
// Its filter can only ever be a blacklist.
type PluggableSCMMaterial struct {
	scmFields

	SCMID string
	SCM   *SCM
}

// NewPluggableSCMMaterial creates a pluggable SCM material sharing scm.
func NewPluggableSCMMaterial(scm *SCM) *PluggableSCMMaterial {
	return &PluggableSCMMaterial{scmFields: newSCMFields(), SCMID: scm.ID, SCM: scm}
}

// Type implements Material.
func (m *PluggableSCMMaterial) Type() MaterialType { return MaterialTypePluggableSCM }

// AutoUpdate follows the SCM definition.
func (m *PluggableSCMMaterial) AutoUpdate() bool {
	return m.SCM == nil || m.SCM.AutoUpdate
}

// SetFilter rejects whitelists.
func (m *PluggableSCMMaterial) SetFilter(filter Filter, invert bool) error {
	if invert && !filter.IsEmpty() {
		return crerrors.NewConversionError(crerrors.ErrUnsupportedFilterCombination,
			"pluggable SCMs do not support whitelisting")
	}
	return m.scmFields.SetFilter(filter, false)
}

// Clone implements Material.
func (m *PluggableSCMMaterial) Clone() Material {
	c := *m
	return &c
}

// Compile-time checks.
var (
	_ Filterable = (*GitMaterial)(nil)
	_ Filterable = (*HgMaterial)(nil)
	_ Filterable = (*SvnMaterial)(nil)
	_ Filterable = (*P4Material)(nil)
	_ Filterable = (*TfsMaterial)(nil)
	_ Filterable = (*PluggableSCMMaterial)(nil)
	_ Material   = (*DependencyMaterial)(nil)
	_ Material   = (*PackageMaterial)(nil)
)
