// Package snapshot loads the shared package repository and SCM definitions that
// config repo materials reference by id, and serves them to conversions.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/crypto"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
	"github.com/mrz1836/configrepo/internal/secret"
)

// FileSnapshot is the YAML/JSON layout of a snapshot file.
type FileSnapshot struct {
	PackageRepositories []FilePackageRepository `yaml:"package_repositories,omitempty" json:"package_repositories,omitempty"`
	SCMs                []FileSCM               `yaml:"scms,omitempty" json:"scms,omitempty"`
}

// FilePackageRepository is a package repository and the packages it defines.
type FilePackageRepository struct {
	ID            string                           `yaml:"id" json:"id"`
	Name          string                           `yaml:"name" json:"name"`
	PluginID      string                           `yaml:"plugin_id" json:"plugin_id"`
	Configuration []*crmodel.ConfigurationProperty `yaml:"configuration,omitempty" json:"configuration,omitempty"`
	Packages      []FilePackage                    `yaml:"packages,omitempty" json:"packages,omitempty"`
}

// FilePackage is a package definition. AutoUpdate defaults to true.
type FilePackage struct {
	ID            string                           `yaml:"id" json:"id"`
	Name          string                           `yaml:"name" json:"name"`
	AutoUpdate    *bool                            `yaml:"auto_update,omitempty" json:"auto_update,omitempty"`
	Configuration []*crmodel.ConfigurationProperty `yaml:"configuration,omitempty" json:"configuration,omitempty"`
}

// FileSCM is a pluggable SCM definition. AutoUpdate defaults to true.
type FileSCM struct {
	ID            string                           `yaml:"id" json:"id"`
	Name          string                           `yaml:"name" json:"name"`
	PluginID      string                           `yaml:"plugin_id" json:"plugin_id"`
	PluginVersion string                           `yaml:"plugin_version,omitempty" json:"plugin_version,omitempty"`
	AutoUpdate    *bool                            `yaml:"auto_update,omitempty" json:"auto_update,omitempty"`
	Configuration []*crmodel.ConfigurationProperty `yaml:"configuration,omitempty" json:"configuration,omitempty"`
}

// Loader reads snapshot files. Encrypted configuration values are decrypted with
// the decrypter it was created with.
type Loader struct {
	resolver *secret.Resolver
}

// NewLoader creates a Loader. d may be nil when no snapshot value is encrypted.
func NewLoader(d crypto.Decrypter) *Loader {
	return &Loader{resolver: secret.NewResolver(d)}
}

// LoadFile reads a snapshot from a YAML or JSON file.
// The format is detected from the extension (.json for JSON, otherwise YAML).
func (l *Loader) LoadFile(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is resolved from user config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", crerrors.ErrSnapshotNotFound, path)
		}
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return l.Decode(data, crmodel.DetectFormat(path))
}

// Decode parses and links a snapshot in the given format.
func (l *Loader) Decode(data []byte, format crmodel.Format) (*domain.Snapshot, error) {
	var file FileSnapshot
	switch format {
	case crmodel.FormatJSON:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: %w", crerrors.ErrSnapshotInvalid, err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: %w", crerrors.ErrSnapshotInvalid, err)
		}
	}

	snap, err := l.toSnapshot(&file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", crerrors.ErrSnapshotInvalid, err)
	}
	return snap, nil
}

// toSnapshot converts the file layout and links every package to its repository.
// Ids must be unique across all packages and across all SCMs.
func (l *Loader) toSnapshot(f *FileSnapshot) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}
	seenRepos := make(map[string]bool)
	seenPackages := make(map[string]bool)
	seenSCMs := make(map[string]bool)

	for i := range f.PackageRepositories {
		fr := &f.PackageRepositories[i]
		if err := checkID("package repository", fr.ID, seenRepos); err != nil {
			return nil, err
		}

		cfg, err := l.configuration(fr.Configuration)
		if err != nil {
			return nil, fmt.Errorf("package repository %q: %w", fr.ID, err)
		}
		repo := &domain.PackageRepository{ID: fr.ID, Name: fr.Name, PluginID: fr.PluginID, Configuration: cfg}

		for j := range fr.Packages {
			fp := &fr.Packages[j]
			if err := checkID("package", fp.ID, seenPackages); err != nil {
				return nil, err
			}
			pkgCfg, err := l.configuration(fp.Configuration)
			if err != nil {
				return nil, fmt.Errorf("package %q: %w", fp.ID, err)
			}
			repo.Packages = append(repo.Packages, &domain.PackageDefinition{
				ID:            fp.ID,
				Name:          fp.Name,
				AutoUpdate:    fp.AutoUpdate == nil || *fp.AutoUpdate,
				Configuration: pkgCfg,
				Repository:    repo,
			})
		}
		snap.PackageRepositories = append(snap.PackageRepositories, repo)
	}

	for i := range f.SCMs {
		fs := &f.SCMs[i]
		if err := checkID("scm", fs.ID, seenSCMs); err != nil {
			return nil, err
		}
		cfg, err := l.configuration(fs.Configuration)
		if err != nil {
			return nil, fmt.Errorf("scm %q: %w", fs.ID, err)
		}
		snap.SCMs = append(snap.SCMs, &domain.SCM{
			ID:            fs.ID,
			Name:          fs.Name,
			PluginID:      fs.PluginID,
			PluginVersion: fs.PluginVersion,
			AutoUpdate:    fs.AutoUpdate == nil || *fs.AutoUpdate,
			Configuration: cfg,
		})
	}

	return snap, nil
}

func checkID(what, id string, seen map[string]bool) error {
	if id == "" {
		return fmt.Errorf("%s without id", what)
	}
	if seen[id] {
		return fmt.Errorf("duplicate %s id %q", what, id)
	}
	seen[id] = true
	return nil
}

func (l *Loader) configuration(props []*crmodel.ConfigurationProperty) (domain.Configuration, error) {
	if len(props) == 0 {
		return nil, nil
	}
	cfg := make(domain.Configuration, 0, len(props))
	for _, p := range props {
		if p == nil {
			continue
		}
		prop, err := l.resolver.ConfigurationProperty(p.Key, p.Value, p.EncryptedValue)
		if err != nil {
			return nil, err
		}
		cfg = append(cfg, prop)
	}
	return cfg, nil
}
