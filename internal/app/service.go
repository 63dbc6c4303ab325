// Package service runs the Points+ pipeline: optional fetch, ingestion,
// computation, publication and snapshot refresh.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pointsplus/internal/adapters/fetch"
	"github.com/okian/pointsplus/internal/adapters/publish"
	"github.com/okian/pointsplus/internal/adapters/source"
	"github.com/okian/pointsplus/internal/domain/pointsplus"
	"github.com/okian/pointsplus/internal/ingest"
	"github.com/okian/pointsplus/pkg/logger"
	"github.com/okian/pointsplus/pkg/metrics"
)

// Fetcher downloads raw tables into a sink.
type Fetcher interface {
	FetchAll(ctx context.Context, endpoints []fetch.Endpoint, sink source.Sink) error
}

// Publisher writes a bundle somewhere durable.
type Publisher interface {
	Write(ctx context.Context, b *publish.Bundle) (int, error)
}

// Snapshotter holds the latest bundle for readers.
type Snapshotter interface {
	Publish(ctx context.Context, b *publish.Bundle) error
}

// Report summarizes one run.
type Report struct {
	RunID        string
	StartedAt    time.Time
	Duration     time.Duration
	Counts       ingest.Counts
	Result       *pointsplus.Result
	Bundle       *publish.Bundle
	FilesWritten int
}

// Service wires the pipeline stages together.
type Service struct {
	mu sync.Mutex

	// Stages
	source    source.Source
	fetcher   Fetcher
	fetchSink source.Sink
	publisher Publisher
	store     Snapshotter

	// Configuration
	season          string
	asOfDate        string
	minGames        int
	minMPG          float64
	metricsTextfile string

	now   func() time.Time
	runID func() string

	last *Report

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where raw tables are read from.
func WithSource(src source.Source) Option {
	return func(s *Service) { s.source = src }
}

// WithFetcher enables fetching endpoints into sink before each run.
func WithFetcher(f Fetcher, sink source.Sink) Option {
	return func(s *Service) {
		s.fetcher = f
		s.fetchSink = sink
	}
}

// WithPublisher sets the artifact writer.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithSnapshotter sets the store refreshed after each run.
func WithSnapshotter(st Snapshotter) Option {
	return func(s *Service) { s.store = st }
}

// WithSeason sets the season label and the as-of date reported in metadata.
func WithSeason(season, asOfDate string) Option {
	return func(s *Service) {
		if season != "" {
			s.season = season
		}
		s.asOfDate = asOfDate
	}
}

// WithThresholds sets the qualifying thresholds.
func WithThresholds(minGames int, minMPG float64) Option {
	return func(s *Service) {
		if minGames > 0 {
			s.minGames = minGames
		}
		if minMPG >= 0 {
			s.minMPG = minMPG
		}
	}
}

// WithMetricsTextfile writes the metric registry to path after each run.
func WithMetricsTextfile(path string) Option {
	return func(s *Service) { s.metricsTextfile = path }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunID sets the run id generator.
func WithRunID(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.runID = gen
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		season:   "2025-26",
		minGames: pointsplus.DefaultMinGames,
		minMPG:   pointsplus.DefaultMinMPG,
		now:      time.Now,
		runID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Run executes one full pipeline pass. Runs are serialized.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return nil, ErrNoSource
	}

	rep := &Report{RunID: s.runID(), StartedAt: s.now()}
	log := s.logger.Named("run")
	log.Info(ctx, "run started", logger.String("runId", rep.RunID), logger.String("season", s.season))

	err := s.run(ctx, rep, log)
	rep.Duration = s.now().Sub(rep.StartedAt)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordRun(status, rep.Duration.Seconds())
	s.writeTextfile(ctx, log)

	if err != nil {
		log.Error(ctx, "run failed", logger.String("runId", rep.RunID), logger.Error(err))
		return nil, err
	}
	s.last = rep
	log.Info(ctx, "run finished",
		logger.String("runId", rep.RunID),
		logger.Int("qualifiers", len(rep.Result.Leaderboard)),
		logger.Int("files", rep.FilesWritten),
		logger.String("duration", rep.Duration.String()))
	return rep, nil
}

func (s *Service) run(ctx context.Context, rep *Report, log logger.Logger) error {
	if s.fetcher != nil && s.fetchSink != nil {
		err := s.stage("fetch", func() error {
			return s.fetcher.FetchAll(ctx, fetch.Endpoints(s.season), s.fetchSink)
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFetch, err)
		}
	}

	var in pointsplus.Input
	err := s.stage("ingest", func() error {
		var err error
		in, rep.Counts, err = ingest.Load(ctx, s.source, func(table string, err error) {
			log.Warn(ctx, "optional table skipped", logger.String("table", table), logger.Error(err))
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIngest, err)
	}
	metrics.SetRowsIngested(source.GameLogs, rep.Counts.Games)
	metrics.SetRowsIngested(source.TeamStats, rep.Counts.Teams)
	metrics.SetRowsIngested(source.PlayerIndex, rep.Counts.PlayerIndex)
	metrics.SetRowsIngested(source.PlayerAdvanced, rep.Counts.PlayerAdvanced)
	log.Info(ctx, "tables ingested",
		logger.Int("games", rep.Counts.Games),
		logger.Int("teams", rep.Counts.Teams),
		logger.Int("playerIndex", rep.Counts.PlayerIndex),
		logger.Int("playerAdvanced", rep.Counts.PlayerAdvanced))

	engine := pointsplus.NewEngine(
		pointsplus.WithMinGames(s.minGames),
		pointsplus.WithMinMPG(s.minMPG),
	)
	_ = s.stage("compute", func() error {
		rep.Result = engine.Compute(in)
		return nil
	})
	s.reportDiagnostics(ctx, log, rep.Result)

	rep.Bundle = publish.Build(rep.Result, publish.RunInfo{
		RunID:       rep.RunID,
		Season:      s.season,
		AsOfDate:    s.asOfDate,
		GeneratedAt: rep.StartedAt,
		MinGames:    engine.MinGames(),
		MinMPG:      engine.MinMPG(),
	})

	if s.publisher != nil {
		err := s.stage("publish", func() error {
			var err error
			rep.FilesWritten, err = s.publisher.Write(ctx, rep.Bundle)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPublish, err)
		}
	}

	if s.store != nil {
		if err := s.store.Publish(ctx, rep.Bundle); err != nil {
			return fmt.Errorf("%w: %w", ErrPublish, err)
		}
	}
	return nil
}

func (s *Service) reportDiagnostics(ctx context.Context, log logger.Logger, res *pointsplus.Result) {
	d := res.Diagnostics
	metrics.SetPlayers(d.Players, d.Qualifiers)
	if res.HasBaseline {
		metrics.SetBaseline(res.Baseline)
	}
	metrics.AddContextFallbacks("opponent", d.UnknownOpponents)
	metrics.AddContextFallbacks("def_rating", d.DefFallbacks)
	metrics.AddContextFallbacks("pace", d.PaceFallbacks)

	log.Info(ctx, "points+ computed",
		logger.Int("players", d.Players),
		logger.Int("qualifiers", d.Qualifiers),
		logger.Int("teams", d.Teams),
		logger.Float64("baseline", res.Baseline),
		logger.Bool("hasBaseline", res.HasBaseline),
		logger.Int("buckets", len(res.Distribution)))

	if !res.HasBaseline {
		log.Warn(ctx, "no player qualified; leaderboard is empty",
			logger.Int("minGames", s.minGames),
			logger.Float64("minMpg", s.minMPG))
	}
	if d.UnknownOpponents > 0 || d.DefFallbacks > 0 || d.PaceFallbacks > 0 {
		log.Warn(ctx, "league average used for missing team context",
			logger.Int("unknownOpponents", d.UnknownOpponents),
			logger.Int("defFallbacks", d.DefFallbacks),
			logger.Int("paceFallbacks", d.PaceFallbacks))
	}
	if len(d.UnresolvedTeams) > 0 {
		log.Warn(ctx, "team ids without an abbreviation", logger.Any("teamIds", d.UnresolvedTeams))
	}
}

func (s *Service) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.ObserveStage(name, time.Since(start).Seconds())
	return err
}

func (s *Service) writeTextfile(ctx context.Context, log logger.Logger) {
	if s.metricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(s.metricsTextfile); err != nil {
		log.Warn(ctx, "metrics textfile not written", logger.String("path", s.metricsTextfile), logger.Error(err))
	}
}

// LastReport returns the most recent successful run, or nil.
func (s *Service) LastReport() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// GetStats returns a summary of the last run for diagnostics.
func (s *Service) GetStats() map[string]any {
	rep := s.LastReport()
	if rep == nil {
		return map[string]any{"runs": false}
	}
	d := rep.Result.Diagnostics
	return map[string]any{
		"runs":             true,
		"runId":            rep.RunID,
		"startedAt":        rep.StartedAt,
		"duration":         rep.Duration.String(),
		"games":            d.Games,
		"players":          d.Players,
		"qualifiers":       d.Qualifiers,
		"baseline":         rep.Result.Baseline,
		"unknownOpponents": d.UnknownOpponents,
		"defFallbacks":     d.DefFallbacks,
		"paceFallbacks":    d.PaceFallbacks,
		"filesWritten":     rep.FilesWritten,
	}
}
