package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/okian/pointsplus/internal/adapters/fetch"
	"github.com/okian/pointsplus/internal/adapters/http/api"
	"github.com/okian/pointsplus/internal/adapters/http/site"
	"github.com/okian/pointsplus/internal/adapters/http/swagger"
	"github.com/okian/pointsplus/internal/adapters/publish"
	"github.com/okian/pointsplus/internal/adapters/repository"
	"github.com/okian/pointsplus/internal/adapters/source"
	app "github.com/okian/pointsplus/internal/app"
	"github.com/okian/pointsplus/internal/config"
	"github.com/okian/pointsplus/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// metricsFile is written next to the artifacts when enabled.
const metricsFile = "metrics.prom"

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "pointsplus failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	store := repository.NewSnapshotStore(repository.WithMaxLimit(cfg.MaxLeaderboardLimit))
	svc := app.New(serviceOptions(cfg, src, store, log)...)

	if _, err := svc.Run(ctx); err != nil {
		return err
	}
	if !cfg.Serve {
		return nil
	}
	return serve(ctx, cfg, svc, store, log)
}

// openSource returns the configured table source. The source doubles as
// the fetch sink, so fetched tables land where the next read finds them.
func openSource(ctx context.Context, cfg *config.Config) (sourceSink, func(), error) {
	switch cfg.Source {
	case config.SourceSQLite:
		db, err := source.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return source.NewCSVSource(cfg.RawDir), func() {}, nil
	}
}

type sourceSink interface {
	source.Source
	source.Sink
}

func serviceOptions(cfg *config.Config, src sourceSink, store *repository.SnapshotStore, log logger.Logger) []app.Option {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithSource(src),
		app.WithPublisher(publish.NewWriter(cfg.OutputDir, publish.WithLogger(log.Named("publish")))),
		app.WithSnapshotter(store),
		app.WithSeason(cfg.Season, cfg.AsOfDate),
		app.WithThresholds(cfg.MinGames, cfg.MinMPG),
	}
	if cfg.Fetch {
		client := fetch.NewClient(
			fetch.WithBaseURL(cfg.FetchBaseURL),
			fetch.WithRetries(cfg.FetchRetries),
			fetch.WithDelay(time.Duration(cfg.FetchDelayMS)*time.Millisecond),
			fetch.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.FetchTimeoutMS) * time.Millisecond}),
			fetch.WithLogger(log.Named("fetch")),
		)
		opts = append(opts, app.WithFetcher(client, src))
	}
	if cfg.MetricsTextfile {
		opts = append(opts, app.WithMetricsTextfile(filepath.Join(cfg.OutputDir, metricsFile)))
	}
	return opts
}

func newHTTPServer(cfg *config.Config, store *repository.SnapshotStore, log logger.Logger) *http.Server {
	apiServer := api.NewServer(store, cfg.MaxLeaderboardLimit,
		api.WithLogger(log.Named("http")),
		api.WithRoutes(swagger.Register, site.Routes(cfg.OutputDir)),
	)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// serve exposes the store over HTTP until ctx is cancelled. SIGHUP re-runs
// the pipeline and swaps in the new snapshot.
func serve(ctx context.Context, cfg *config.Config, svc *app.Service, store *repository.SnapshotStore, log logger.Logger) error {
	srv := newHTTPServer(cfg, store, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case err, ok := <-errCh:
			if ok {
				return err
			}
			return nil
		case <-hup:
			log.Info(ctx, "reload requested")
			if _, err := svc.Run(ctx); err != nil {
				log.Error(ctx, "reload failed; keeping previous snapshot", logger.Error(err))
			}
		case <-ctx.Done():
			log.Info(ctx, "shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			log.Info(ctx, "server stopped")
			return nil
		}
	}
}
