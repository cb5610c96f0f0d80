package convert

import (
	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// scmMaterial is a checked-out material whose polling can be switched off.
type scmMaterial interface {
	domain.Filterable
	SetAutoUpdate(value bool)
}

func (cv *conversion) material(m crmodel.Material) (domain.Material, error) {
	if m == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrMissingMandatoryField, "material declaration is empty")
	}

	switch v := m.(type) {
	case *crmodel.GitMaterial:
		git := domain.NewGitMaterial(v.URL)
		git.Branch = orDefault(v.Branch, git.Branch)
		git.ShallowClone = v.ShallowClone
		return cv.scm(git, &git.Credentials, &v.MaterialBase, &v.Credentials)
	case *crmodel.HgMaterial:
		hg := domain.NewHgMaterial(v.URL)
		hg.Branch = v.Branch
		return cv.scm(hg, &hg.Credentials, &v.MaterialBase, &v.Credentials)
	case *crmodel.SvnMaterial:
		svn := domain.NewSvnMaterial(v.URL)
		svn.CheckExternals = v.CheckExternals
		return cv.scm(svn, &svn.Credentials, &v.MaterialBase, &v.Credentials)
	case *crmodel.P4Material:
		p4 := domain.NewP4Material(v.Port, v.View)
		p4.UseTickets = v.UseTickets
		return cv.scm(p4, &p4.Credentials, &v.MaterialBase, &v.Credentials)
	case *crmodel.TfsMaterial:
		tfs := domain.NewTfsMaterial(v.URL, v.Project)
		tfs.Domain = v.Domain
		return cv.scm(tfs, &tfs.Credentials, &v.MaterialBase, &v.Credentials)
	case *crmodel.DependencyMaterial:
		dep := domain.NewDependencyMaterial(v.Pipeline, v.Stage)
		dep.SetName(v.Name)
		return dep, nil
	case *crmodel.PackageMaterial:
		return cv.packageMaterial(v)
	case *crmodel.PluggableSCMMaterial:
		return cv.pluggableSCMMaterial(v)
	case *crmodel.ConfigRepoMaterial:
		return cv.configRepoMaterial(v)
	default:
		return nil, crerrors.NewConversionError(crerrors.ErrUnknownVariant, "unknown material type %q", m.Kind())
	}
}

// scm applies the fields shared by checked-out materials. Only the password is
// resolved as a secret; the username is plain text.
func (cv *conversion) scm(target scmMaterial, creds *domain.Credentials,
	base *crmodel.MaterialBase, crCreds *crmodel.Credentials,
) (domain.Material, error) {
	target.SetName(base.Name)
	target.SetFolder(base.Destination)
	target.SetAutoUpdate(base.ShouldAutoUpdate())
	if err := applyFilter(target, base.Filter); err != nil {
		return nil, err
	}

	password, err := cv.resolver.Resolve("password", crCreds.Password, crCreds.EncryptedPassword)
	if err != nil {
		return nil, err
	}
	creds.Username = crCreds.Username
	creds.Password = password
	return target, nil
}

func (cv *conversion) packageMaterial(v *crmodel.PackageMaterial) (domain.Material, error) {
	def := cv.currentSnapshot().FindPackage(v.PackageID)
	if def == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrUnresolvedReference,
			"failed to find referenced package %q", v.PackageID)
	}
	pkg := domain.NewPackageMaterial(def)
	pkg.SetName(v.Name)
	return pkg, nil
}

func (cv *conversion) findSCM(id string) (*domain.SCM, error) {
	scm := cv.currentSnapshot().FindSCM(id)
	if scm == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrUnresolvedReference,
			"failed to find referenced scm %q", id)
	}
	return scm, nil
}

func (cv *conversion) pluggableSCMMaterial(v *crmodel.PluggableSCMMaterial) (domain.Material, error) {
	scm, err := cv.findSCM(v.SCMID)
	if err != nil {
		return nil, err
	}
	m := domain.NewPluggableSCMMaterial(scm)
	m.SetName(v.Name)
	m.SetFolder(v.Destination)
	if err := applyFilter(m, v.Filter); err != nil {
		return nil, err
	}
	return m, nil
}

// configRepoMaterial merges the declared overrides onto a copy of the material the
// config repo is checked out from. The name is always taken from the declaration,
// so it is unset unless declared.
func (cv *conversion) configRepoMaterial(v *crmodel.ConfigRepoMaterial) (domain.Material, error) {
	var fetched domain.Material
	if cv.loadContext != nil {
		fetched = cv.loadContext.ConfigMaterial()
	}
	if fetched == nil {
		return nil, crerrors.NewConversionError(crerrors.ErrUnresolvedReference,
			"no config repo material is available to inherit from")
	}

	merged := fetched.Clone()
	if pluggable, ok := merged.(*domain.PluggableSCMMaterial); ok {
		scm, err := cv.findSCM(pluggable.SCMID)
		if err != nil {
			return nil, err
		}
		pluggable.SCM = scm
	}

	merged.SetName(v.Name)

	if v.Destination == "" && v.Filter == nil {
		return merged, nil
	}

	filterable, ok := merged.(domain.Filterable)
	if !ok {
		// An empty filter is a no-op on materials without one.
		if v.Destination == "" && len(v.Filter.Patterns()) == 0 {
			return merged, nil
		}
		return nil, crerrors.NewConversionError(crerrors.ErrUnresolvedReference,
			"config repo material of type %s cannot take a destination or filter", merged.Type())
	}

	if v.Destination != "" {
		filterable.SetFolder(v.Destination)
	}
	if v.Filter != nil {
		if err := applyFilter(filterable, v.Filter); err != nil {
			return nil, err
		}
	}
	return filterable, nil
}
