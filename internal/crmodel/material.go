package crmodel

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// Material kind tags as they appear in the "type" field.
const (
	MaterialKindGit          = "git"
	MaterialKindHg           = "hg"
	MaterialKindSvn          = "svn"
	MaterialKindP4           = "p4"
	MaterialKindTfs          = "tfs"
	MaterialKindDependency   = "dependency"
	MaterialKindPackage      = "package"
	MaterialKindPluggableSCM = "plugin"
	MaterialKindConfigRepo   = "configrepo"
)

// Material is implemented by every material variant.
type Material interface {
	// Kind returns the type tag.
	Kind() string

	// MaterialName returns the declared name, "" when not declared.
	MaterialName() string
}

// Filter lists ignored or whitelisted paths. At most one list may be given.
type Filter struct {
	Ignore    []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`
	Whitelist []string `yaml:"whitelist,omitempty" json:"whitelist,omitempty"`
}

// NewIgnoreFilter creates a blacklist filter.
func NewIgnoreFilter(patterns ...string) *Filter {
	return &Filter{Ignore: patterns}
}

// NewWhitelistFilter creates a whitelist filter.
func NewWhitelistFilter(patterns ...string) *Filter {
	return &Filter{Whitelist: patterns}
}

// Validate rejects a filter declaring both lists.
func (f *Filter) Validate() error {
	if f != nil && len(f.Ignore) > 0 && len(f.Whitelist) > 0 {
		return fmt.Errorf("%w: filter declares both ignore and whitelist", crerrors.ErrInvalidFieldValue)
	}
	return nil
}

// Patterns returns the declared patterns.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	if f.IsWhitelist() {
		return f.Whitelist
	}
	return f.Ignore
}

// IsWhitelist reports whether the patterns are included rather than ignored.
func (f *Filter) IsWhitelist() bool {
	return f != nil && len(f.Whitelist) > 0
}

// MaterialBase holds the fields shared by materials checked out into the working directory.
type MaterialBase struct {
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	Destination string  `yaml:"destination,omitempty" json:"destination,omitempty"`
	AutoUpdate  *bool   `yaml:"auto_update,omitempty" json:"auto_update,omitempty"`
	Filter      *Filter `yaml:"filter,omitempty" json:"filter,omitempty"`
}

// MaterialName implements Material.
func (b *MaterialBase) MaterialName() string { return b.Name }

// ShouldAutoUpdate returns the auto-update flag, true when not declared.
func (b *MaterialBase) ShouldAutoUpdate() bool {
	return b.AutoUpdate == nil || *b.AutoUpdate
}

// Credentials are the optional username and password of an SCM material.
// At most one of Password and EncryptedPassword is expected.
type Credentials struct {
	Username          string `yaml:"username,omitempty" json:"username,omitempty"`
	Password          string `yaml:"password,omitempty" json:"password,omitempty"`
	EncryptedPassword string `yaml:"encrypted_password,omitempty" json:"encrypted_password,omitempty"`
}

// GitMaterial is a git repository.
type GitMaterial struct {
	MaterialBase `yaml:",inline"`
	Credentials  `yaml:",inline"`

	URL          string `yaml:"url" json:"url"`
	Branch       string `yaml:"branch,omitempty" json:"branch,omitempty"`
	ShallowClone bool   `yaml:"shallow_clone,omitempty" json:"shallow_clone,omitempty"`
}

// Kind implements Material.
func (m *GitMaterial) Kind() string { return MaterialKindGit }

// HgMaterial is a mercurial repository.
type HgMaterial struct {
	MaterialBase `yaml:",inline"`
	Credentials  `yaml:",inline"`

	URL    string `yaml:"url" json:"url"`
	Branch string `yaml:"branch,omitempty" json:"branch,omitempty"`
}

// Kind implements Material.
func (m *HgMaterial) Kind() string { return MaterialKindHg }

// SvnMaterial is a subversion repository.
type SvnMaterial struct {
	MaterialBase `yaml:",inline"`
	Credentials  `yaml:",inline"`

	URL            string `yaml:"url" json:"url"`
	CheckExternals bool   `yaml:"check_externals,omitempty" json:"check_externals,omitempty"`
}

// Kind implements Material.
func (m *SvnMaterial) Kind() string { return MaterialKindSvn }

// P4Material is a Perforce depot view.
type P4Material struct {
	MaterialBase `yaml:",inline"`
	Credentials  `yaml:",inline"`

	Port       string `yaml:"port" json:"port"`
	UseTickets bool   `yaml:"use_tickets,omitempty" json:"use_tickets,omitempty"`
	View       string `yaml:"view" json:"view"`
}

// Kind implements Material.
func (m *P4Material) Kind() string { return MaterialKindP4 }

// TfsMaterial is a Team Foundation Server project.
type TfsMaterial struct {
	MaterialBase `yaml:",inline"`
	Credentials  `yaml:",inline"`

	URL     string `yaml:"url" json:"url"`
	Domain  string `yaml:"domain,omitempty" json:"domain,omitempty"`
	Project string `yaml:"project" json:"project"`
}

// Kind implements Material.
func (m *TfsMaterial) Kind() string { return MaterialKindTfs }

// DependencyMaterial depends on an upstream pipeline stage.
type DependencyMaterial struct {
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Pipeline string `yaml:"pipeline" json:"pipeline"`
	Stage    string `yaml:"stage" json:"stage"`
}

// Kind implements Material.
func (m *DependencyMaterial) Kind() string { return MaterialKindDependency }

// MaterialName implements Material.
func (m *DependencyMaterial) MaterialName() string { return m.Name }

// PackageMaterial references a package definition by id.
type PackageMaterial struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	PackageID string `yaml:"package_id" json:"package_id"`
}

// Kind implements Material.
func (m *PackageMaterial) Kind() string { return MaterialKindPackage }

// MaterialName implements Material.
func (m *PackageMaterial) MaterialName() string { return m.Name }

// PluggableSCMMaterial references a shared SCM definition by id.
type PluggableSCMMaterial struct {
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	SCMID       string  `yaml:"scm_id" json:"scm_id"`
	Destination string  `yaml:"destination,omitempty" json:"destination,omitempty"`
	Filter      *Filter `yaml:"filter,omitempty" json:"filter,omitempty"`
}

// Kind implements Material.
func (m *PluggableSCMMaterial) Kind() string { return MaterialKindPluggableSCM }

// MaterialName implements Material.
func (m *PluggableSCMMaterial) MaterialName() string { return m.Name }

// ConfigRepoMaterial stands for the material the config repo itself is checked out from.
// Any field left out is inherited from that material.
type ConfigRepoMaterial struct {
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	Destination string  `yaml:"destination,omitempty" json:"destination,omitempty"`
	Filter      *Filter `yaml:"filter,omitempty" json:"filter,omitempty"`
}

// Kind implements Material.
func (m *ConfigRepoMaterial) Kind() string { return MaterialKindConfigRepo }

// MaterialName implements Material.
func (m *ConfigRepoMaterial) MaterialName() string { return m.Name }

// UnknownMaterial keeps a material whose type tag is not recognized so the converter can reject it.
type UnknownMaterial struct {
	Type string
	Name string
}

// Kind implements Material.
func (m *UnknownMaterial) Kind() string { return m.Type }

// MaterialName implements Material.
func (m *UnknownMaterial) MaterialName() string { return m.Name }

// MaterialSpec wraps a material variant selected by its "type" field.
type MaterialSpec struct {
	Material
}

// NewMaterialSpec wraps material.
func NewMaterialSpec(material Material) MaterialSpec {
	return MaterialSpec{Material: material}
}

type materialHeader struct {
	Type string `yaml:"type" json:"type"`
	Name string `yaml:"name" json:"name"`
}

func newMaterial(head materialHeader) Material {
	switch head.Type {
	case MaterialKindGit:
		return &GitMaterial{}
	case MaterialKindHg:
		return &HgMaterial{}
	case MaterialKindSvn:
		return &SvnMaterial{}
	case MaterialKindP4:
		return &P4Material{}
	case MaterialKindTfs:
		return &TfsMaterial{}
	case MaterialKindDependency:
		return &DependencyMaterial{}
	case MaterialKindPackage:
		return &PackageMaterial{}
	case MaterialKindPluggableSCM:
		return &PluggableSCMMaterial{}
	case MaterialKindConfigRepo:
		return &ConfigRepoMaterial{}
	default:
		return &UnknownMaterial{Type: head.Type, Name: head.Name}
	}
}

// UnmarshalJSON decodes the variant named by "type".
func (s *MaterialSpec) UnmarshalJSON(data []byte) error {
	var head materialHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode material: %w", err)
	}
	material := newMaterial(head)
	if _, unknown := material.(*UnknownMaterial); !unknown {
		if err := json.Unmarshal(data, material); err != nil {
			return fmt.Errorf("decode %s material: %w", head.Type, err)
		}
	}
	s.Material = material
	return nil
}

// UnmarshalYAML decodes the variant named by "type".
func (s *MaterialSpec) UnmarshalYAML(node *yaml.Node) error {
	var head materialHeader
	if err := node.Decode(&head); err != nil {
		return fmt.Errorf("decode material: %w", err)
	}
	material := newMaterial(head)
	if _, unknown := material.(*UnknownMaterial); !unknown {
		if err := node.Decode(material); err != nil {
			return fmt.Errorf("decode %s material: %w", head.Type, err)
		}
	}
	s.Material = material
	return nil
}
