// Package convert turns the loose config-repo model into the strict domain model.
//
// Conversion is all or nothing: every exported conversion returns either a fully
// resolved domain value or a nil value and an error whose chain holds exactly one
// *errors.ConversionError. The one exception is ToPartialConfig when ctx ends
// first, which returns ctx.Err() as is. The package never logs; reporting is the
// caller's job.
package convert

import (
	"sync"

	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/crypto"
	"github.com/mrz1836/configrepo/internal/domain"
	"github.com/mrz1836/configrepo/internal/secret"
)

// LoadContext supplies the material a config repo is checked out from.
// ConfigMaterial may be called several times during one conversion and must return
// equivalent materials each time.
type LoadContext interface {
	ConfigMaterial() domain.Material
}

// LoadContextFunc adapts a function to LoadContext.
type LoadContextFunc func() domain.Material

// ConfigMaterial implements LoadContext.
func (f LoadContextFunc) ConfigMaterial() domain.Material { return f() }

// ConfigProvider supplies the shared definitions package and SCM ids are resolved against.
// The returned snapshot must not be modified while a conversion uses it.
type ConfigProvider interface {
	CurrentConfig() *domain.Snapshot
}

// Option configures a Converter.
type Option func(*Converter)

// WithParallelism sets how many pipelines of one parse result are converted at once.
// Values below 1 are treated as 1.
func WithParallelism(n int) Option {
	return func(c *Converter) {
		c.parallelism = max(n, 1)
	}
}

// Converter converts config-repo declarations into domain configuration.
// It holds no per-conversion state and is safe for concurrent use.
type Converter struct {
	resolver    *secret.Resolver
	provider    ConfigProvider
	parallelism int
}

// New creates a Converter decrypting secure values with decrypter and resolving
// package and SCM ids against provider.
func New(decrypter crypto.Decrypter, provider ConfigProvider, opts ...Option) *Converter {
	c := &Converter{
		resolver:    secret.NewResolver(decrypter),
		provider:    provider,
		parallelism: constants.DefaultParallelism,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parallelism returns the configured pipeline parallelism.
func (c *Converter) Parallelism() int {
	return c.parallelism
}

// conversion is the state of one top-level call. The snapshot is fetched at most
// once so every lookup in the call sees the same definitions.
type conversion struct {
	resolver    *secret.Resolver
	provider    ConfigProvider
	loadContext LoadContext

	snapshotOnce sync.Once
	snapshot     *domain.Snapshot
}

func (c *Converter) newConversion(lc LoadContext) *conversion {
	return &conversion{resolver: c.resolver, provider: c.provider, loadContext: lc}
}

func (cv *conversion) currentSnapshot() *domain.Snapshot {
	cv.snapshotOnce.Do(func() {
		if cv.provider != nil {
			cv.snapshot = cv.provider.CurrentConfig()
		}
	})
	return cv.snapshot
}

// ToTask converts a single task and its cancel task.
func (c *Converter) ToTask(task crmodel.Task) (domain.Task, error) {
	return c.newConversion(nil).task(task)
}

// ToMaterial converts a single material. lc is only consulted for config repo materials.
func (c *Converter) ToMaterial(material crmodel.Material, lc LoadContext) (domain.Material, error) {
	return c.newConversion(lc).material(material)
}

// ToJob converts a job.
func (c *Converter) ToJob(job *crmodel.Job) (*domain.Job, error) {
	return c.newConversion(nil).job(job)
}

// ToStage converts a stage.
func (c *Converter) ToStage(stage *crmodel.Stage) (*domain.Stage, error) {
	return c.newConversion(nil).stage(stage)
}

// ToPipeline converts a pipeline. lc is consulted for config repo materials.
func (c *Converter) ToPipeline(pipeline *crmodel.Pipeline, lc LoadContext) (*domain.Pipeline, error) {
	return c.newConversion(lc).pipeline(pipeline)
}

// ToEnvironment converts an environment.
func (c *Converter) ToEnvironment(env *crmodel.Environment) (*domain.Environment, error) {
	return c.newConversion(nil).environment(env)
}

// ToEnvironmentVariable converts a single variable.
func (c *Converter) ToEnvironmentVariable(v *crmodel.EnvironmentVariable) (domain.EnvironmentVariable, error) {
	return c.resolver.EnvironmentVariable(v.Name, v.Value, v.EncryptedValue)
}
