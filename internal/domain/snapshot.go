package domain

// PackageRepository is a repository of packages served by a package plugin.
type PackageRepository struct {
	ID            string
	Name          string
	PluginID      string
	Configuration Configuration
	Packages      []*PackageDefinition
}

// PackageDefinition is a package in a package repository.
type PackageDefinition struct {
	ID            string
	Name          string
	AutoUpdate    bool
	Configuration Configuration

	// Repository is the owning repository.
	Repository *PackageRepository
}

// SCM is a shared pluggable SCM definition.
type SCM struct {
	ID            string
	Name          string
	PluginID      string
	PluginVersion string
	AutoUpdate    bool
	Configuration Configuration
}

// Snapshot is a read-only view of the shared definitions in the server configuration.
// Lookups return pointers into the snapshot so materials share definitions with it.
type Snapshot struct {
	PackageRepositories []*PackageRepository
	SCMs                []*SCM
}

// FindPackage returns the package with id, or nil.
func (s *Snapshot) FindPackage(id string) *PackageDefinition {
	if s == nil {
		return nil
	}
	for _, repo := range s.PackageRepositories {
		if repo == nil {
			continue
		}
		for _, pkg := range repo.Packages {
			if pkg != nil && pkg.ID == id {
				return pkg
			}
		}
	}
	return nil
}

// FindSCM returns the SCM with id, or nil.
func (s *Snapshot) FindSCM(id string) *SCM {
	if s == nil {
		return nil
	}
	for _, scm := range s.SCMs {
		if scm != nil && scm.ID == id {
			return scm
		}
	}
	return nil
}

// PackageCount returns the number of packages across all repositories.
func (s *Snapshot) PackageCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, repo := range s.PackageRepositories {
		if repo == nil {
			continue
		}
		for _, pkg := range repo.Packages {
			if pkg != nil {
				n++
			}
		}
	}
	return n
}
