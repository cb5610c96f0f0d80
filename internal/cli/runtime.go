package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/configrepo/internal/config"
	"github.com/mrz1836/configrepo/internal/configrepo"
	"github.com/mrz1836/configrepo/internal/convert"
	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/crypto/aes"
	"github.com/mrz1836/configrepo/internal/domain"
	"github.com/mrz1836/configrepo/internal/errors"
	"github.com/mrz1836/configrepo/internal/snapshot"
)

// runtime holds what the conversion commands share: the effective configuration,
// the cipher, the snapshot store and the conversion service built on them.
type runtime struct {
	cfg     *config.Config
	cipher  *aes.Cipher
	store   *snapshot.Store
	service *configrepo.Service
}

// loadConfig loads the effective configuration with the global flag overrides applied.
func loadConfig(ctx context.Context, flags *GlobalFlags) (*config.Config, error) {
	cfg, err := config.LoadWithOverrides(ctx, flags.overrides())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// loadCipher loads (or generates) the key named by the configuration.
func loadCipher(cfg *config.Config) (*aes.Cipher, error) {
	km := aes.NewKeyManager(cfg.Cipher.KeyFile)
	if err := km.Load(); err != nil {
		return nil, errors.Wrapf(err, "failed to load cipher key %s", km.Path())
	}
	return km.NewCipher()
}

// newRuntime builds the conversion stack. The snapshot is loaded once when a
// snapshot path is configured; without one, package and SCM references fail to resolve.
func newRuntime(ctx context.Context, flags *GlobalFlags) (*runtime, error) {
	cfg, err := loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	c, err := loadCipher(cfg)
	if err != nil {
		return nil, err
	}

	store := snapshot.NewStore(snapshot.NewLoader(c), cfg.Snapshot.Path)
	if cfg.Snapshot.Path != "" {
		if err := store.Reload(); err != nil {
			return nil, errors.Wrap(err, "failed to load snapshot")
		}
		snap := store.CurrentConfig()
		zerolog.Ctx(ctx).Debug().
			Str("path", cfg.Snapshot.Path).
			Int("package_repositories", len(snap.PackageRepositories)).
			Int("scms", len(snap.SCMs)).
			Msg("snapshot loaded")
	}

	converter := convert.New(c, store, convert.WithParallelism(cfg.Conversion.Parallelism))
	service := configrepo.NewService(converter,
		configrepo.WithTimeout(cfg.Conversion.Timeout),
		configrepo.WithParallelism(cfg.Conversion.Parallelism),
	)

	return &runtime{cfg: cfg, cipher: c, store: store, service: service}, nil
}

// materialFlags describe the material the converted config repos are checked out from.
type materialFlags struct {
	URL    string
	Branch string
	Type   string
}

// material builds the config repo material, or nil when no URL was given.
func (f materialFlags) material() (domain.Material, error) {
	if f.URL == "" {
		return nil, nil //nolint:nilnil // No material means config repo materials cannot be resolved
	}
	switch strings.ToLower(f.Type) {
	case "", string(domain.MaterialTypeGit):
		m := domain.NewGitMaterial(f.URL)
		if f.Branch != "" {
			m.Branch = f.Branch
		}
		return m, nil
	case string(domain.MaterialTypeHg):
		m := domain.NewHgMaterial(f.URL)
		m.Branch = f.Branch
		return m, nil
	case string(domain.MaterialTypeSvn):
		return domain.NewSvnMaterial(f.URL), nil
	default:
		return nil, errors.NewExitCode2Error(
			errors.Wrapf(errors.ErrUnknownVariant, "material type %q (use git, hg or svn)", f.Type))
	}
}

// loadRequests reads every parse result file into a conversion request.
// The repo id of each request is the file name without its extension.
func loadRequests(paths []string, m domain.Material) ([]configrepo.Request, error) {
	reqs := make([]configrepo.Request, 0, len(paths))
	for _, path := range paths {
		result, err := crmodel.LoadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", path)
		}
		reqs = append(reqs, configrepo.Request{
			RepoID:   repoID(path),
			Result:   result,
			Material: m,
		})
	}
	return reqs, nil
}

func repoID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
