// Package configrepo turns the parse results of config repositories into partial
// configurations, attributing every failure to the repository it came from.
package configrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/configrepo/internal/constants"
	"github.com/mrz1836/configrepo/internal/convert"
	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
	"github.com/mrz1836/configrepo/internal/lint"
)

// Request is one config repository to convert.
type Request struct {
	// RepoID identifies the config repository.
	RepoID string

	// Result is what the repository's plugin parsed.
	Result *crmodel.ParseResult

	// Material is the material the repository is checked out from. It is what
	// config repo materials in the result inherit from.
	Material domain.Material
}

// Outcome is the result of converting one config repository.
// Exactly one of Config and Err is set.
type Outcome struct {
	RepoID       string
	ConversionID string
	Config       *domain.PartialConfig
	Lint         *lint.Report
	Err          error
	StartedAt    time.Time
	Duration     time.Duration
}

// Succeeded reports whether the conversion produced a configuration.
func (o *Outcome) Succeeded() bool {
	return o.Err == nil
}

// Service converts config repositories and remembers the last outcome of each.
// It is safe for concurrent use.
type Service struct {
	converter   *convert.Converter
	timeout     time.Duration
	parallelism int

	mu   sync.RWMutex
	last map[string]*Outcome

	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each Parse and each ParseAll call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = max(d, 0)
	}
}

// WithParallelism sets how many repositories ParseAll converts at once.
func WithParallelism(n int) Option {
	return func(s *Service) {
		s.parallelism = max(n, 1)
	}
}

// NewService creates a Service using converter.
func NewService(converter *convert.Converter, opts ...Option) *Service {
	s := &Service{
		converter:   converter,
		timeout:     constants.DefaultConversionTimeout,
		parallelism: constants.DefaultParallelism,
		last:        make(map[string]*Outcome),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse converts one repository. The returned outcome is also recorded as the
// repository's last outcome. Conversion failures are reported in the outcome
// rather than as an error; the error is only set when ctx ends first.
func (s *Service) Parse(ctx context.Context, req Request) (*Outcome, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	outcome := s.parse(ctx, req)
	s.record(outcome)

	if err := ctx.Err(); err != nil && !outcome.Succeeded() {
		return outcome, err
	}
	return outcome, nil
}

// ParseAll converts every repository. A failing repository does not affect the
// others. Outcomes are returned in request order.
func (s *Service) ParseAll(ctx context.Context, reqs []Request) ([]*Outcome, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	outcomes := make([]*Outcome, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i, req := range reqs {
		g.Go(func() error {
			outcomes[i] = s.parse(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		s.record(o)
	}

	log := zerolog.Ctx(ctx)
	failed := 0
	for _, o := range outcomes {
		if !o.Succeeded() {
			failed++
		}
	}
	log.Info().
		Str("component", "configrepo").
		Int("repos", len(reqs)).
		Int("failed", failed).
		Msg("config repos parsed")

	return outcomes, ctx.Err()
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) parse(ctx context.Context, req Request) *Outcome {
	outcome := &Outcome{
		RepoID:       req.RepoID,
		ConversionID: uuid.New().String(),
		StartedAt:    s.now(),
	}

	logger := zerolog.Ctx(ctx).With().
		Str("component", "configrepo").
		Str("repo", req.RepoID).
		Str("conversion_id", outcome.ConversionID).
		Logger()

	lc := convert.LoadContextFunc(func() domain.Material { return req.Material })
	cfg, err := s.converter.ToPartialConfig(ctx, req.Result, lc)
	outcome.Duration = s.now().Sub(outcome.StartedAt)

	if err != nil {
		outcome.Err = fmt.Errorf("config repo %q: %w", req.RepoID, err)
		event := logger.Error().Err(err)
		if ce, ok := crerrors.AsConversionError(err); ok {
			event = event.Str("kind", ce.Kind.Error())
		}
		event.Msg("config repo conversion failed")
		return outcome
	}

	outcome.Config = cfg
	outcome.Lint = lint.Check(cfg)
	for _, f := range outcome.Lint.Findings {
		logger.Warn().
			Str("rule", f.Rule).
			Str("location", f.Location).
			Msg(f.Message)
	}

	logger.Info().
		Int("groups", len(cfg.Groups)).
		Int("pipelines", cfg.PipelineCount()).
		Int("environments", len(cfg.Environments)).
		Dur("duration", outcome.Duration).
		Msg("config repo converted")
	return outcome
}

func (s *Service) record(o *Outcome) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[o.RepoID] = o
}

// LastOutcome returns the last recorded outcome of a repository.
func (s *Service) LastOutcome(repoID string) (*Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.last[repoID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", crerrors.ErrRepoNotFound, repoID)
	}
	return o, nil
}

// Failures returns the repositories whose last outcome failed, ordered by id.
func (s *Service) Failures() []*Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var failed []*Outcome
	for _, o := range s.last {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i].RepoID < failed[j].RepoID })
	return failed
}

// Forget drops the recorded outcome of a repository.
func (s *Service) Forget(repoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.last, repoID)
}
