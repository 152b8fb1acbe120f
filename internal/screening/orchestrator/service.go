// Package orchestrator runs a full screening: roster, the four sanctions
// sources in parallel, then matching.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sanctionscan/internal/screening/matcher"
	"sanctionscan/internal/screening/metrics"
	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/roster"
	"sanctionscan/internal/screening/sources"
	"sanctionscan/pkg/requestcontext"
)

const tracerName = "sanctionscan/screening"

// Service wires the roster, the source registry and the matcher.
type Service struct {
	roster        roster.Source
	registry      *sources.Registry
	matcher       *matcher.Matcher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	tracer        trace.Tracer
	sourceTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithSourceTimeout bounds each source load. Zero leaves loads bounded only
// by the caller's context and the fetch client.
func WithSourceTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.sourceTimeout = d
	}
}

func New(rosterSource roster.Source, registry *sources.Registry, m *matcher.Matcher, opts ...Option) (*Service, error) {
	if rosterSource == nil {
		return nil, errors.New("roster source is required")
	}
	if registry == nil {
		return nil, errors.New("source registry is required")
	}
	if m == nil {
		return nil, errors.New("matcher is required")
	}

	s := &Service{
		roster:   rosterSource,
		registry: registry,
		matcher:  m,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run performs one screening. Roster failures and fatal source failures
// abort the run; any other source failure leaves that list empty.
func (s *Service) Run(ctx context.Context) (report *models.MatchReport, err error) {
	start := time.Now()
	if requestcontext.RunID(ctx) == "" {
		ctx = requestcontext.WithRunID(ctx, uuid.NewString())
	}
	runID := requestcontext.RunID(ctx)

	ctx, span := s.tracer.Start(ctx, "screening.run", trace.WithAttributes(attribute.String("run_id", runID)))
	defer func() {
		s.metrics.ObserveRunLatency(time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.metrics.IncrementRun("failed")
			s.logger.ErrorContext(ctx, "screening run failed", "run_id", runID, "error", err)
		} else {
			s.metrics.IncrementRun("ok")
			s.logger.InfoContext(ctx, "screening run completed",
				"run_id", runID,
				"matches", report.Total(),
				"duration", time.Since(start),
			)
		}
		span.End()
	}()

	entities, err := s.roster.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	s.logger.InfoContext(ctx, "roster fetched", "run_id", runID, "entities", len(entities))

	corpora, err := s.LoadCorpora(ctx)
	if err != nil {
		return nil, err
	}

	ctx, matchSpan := s.tracer.Start(ctx, "screening.match")
	report, err = s.matcher.MatchAll(ctx, entities, corpora)
	matchSpan.End()
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}

	for _, list := range models.Lists {
		s.metrics.AddMatches(string(list), len(report.Bucket(list)))
	}
	return report, nil
}

// LoadCorpora loads every registered source in parallel. The returned map
// has an entry, possibly empty, for every list in models.Lists.
func (s *Service) LoadCorpora(ctx context.Context) (map[models.List]models.Corpus, error) {
	adapters := s.registry.All()
	loaded := make([]models.Corpus, len(adapters))

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range adapters {
		g.Go(func() error {
			corpus, err := s.loadSource(gctx, adapter)
			if err != nil {
				return err
			}
			loaded[i] = corpus
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	corpora := make(map[models.List]models.Corpus, len(models.Lists))
	for _, list := range models.Lists {
		corpora[list] = models.Corpus{}
	}
	for i, adapter := range adapters {
		corpora[adapter.List()] = loaded[i]
	}
	return corpora, nil
}

// loadSource runs one adapter. It only returns an error for fatal failures;
// soft failures are logged and yield an empty corpus.
func (s *Service) loadSource(ctx context.Context, adapter sources.Adapter) (models.Corpus, error) {
	list := adapter.List()
	if s.sourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.sourceTimeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "screening.source",
		trace.WithAttributes(
			attribute.String("list", string(list)),
			attribute.String("format", string(adapter.Format())),
		))
	defer span.End()

	start := time.Now()
	corpus, err := adapter.Load(ctx)
	s.metrics.ObserveSourceLatency(string(list), time.Since(start))

	if err != nil {
		kind := sources.GetKind(err)
		s.metrics.IncrementSourceFailure(string(list), string(kind))
		span.RecordError(err)

		if sources.IsFatal(err) {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		s.logger.WarnContext(ctx, "sanctions source unavailable, continuing with empty list",
			"run_id", requestcontext.RunID(ctx),
			"list", list,
			"kind", kind,
			"error", err,
		)
		corpus = models.Corpus{}
	}
	if corpus == nil {
		corpus = models.Corpus{}
	}

	span.SetAttributes(attribute.Int("corpus.size", len(corpus)))
	s.metrics.SetCorpusSize(string(list), len(corpus))
	s.logger.InfoContext(ctx, "sanctions source loaded",
		"run_id", requestcontext.RunID(ctx),
		"list", list,
		"entries", len(corpus),
		"duration", time.Since(start),
	)
	return corpus, nil
}
