package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/pointsplus/internal/adapters/repository"
	"github.com/okian/pointsplus/internal/adapters/source"
	app "github.com/okian/pointsplus/internal/app"
	"github.com/okian/pointsplus/internal/config"
	"github.com/okian/pointsplus/internal/sampledata"
	"github.com/okian/pointsplus/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func smallSeason(t *testing.T, dir string) {
	cfg := sampledata.DefaultConfig()
	cfg.Teams = 6
	cfg.PlayersPerTeam = 9
	cfg.GamesPerTeam = 24
	sink := source.NewCSVSource(dir)
	for _, tbl := range sampledata.Generate(cfg).Tables() {
		if err := sink.Save(context.Background(), tbl); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			t.Setenv("POINTSPLUS_ADDR", ":8080")
			t.Setenv("POINTSPLUS_MIN_GAMES", "10")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MinGames, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When running once against CSV input", func() {
			cfg := config.New()
			cfg.RawDir = t.TempDir()
			cfg.OutputDir = t.TempDir()
			cfg.MetricsTextfile = true
			smallSeason(t, cfg.RawDir)

			err := run(context.Background(), cfg, logger.Get())

			convey.Convey("Then artifacts and metrics are written", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, f := range []string{"leaderboard.json", "distribution.json", "metadata.json", metricsFile} {
					_, statErr := os.Stat(filepath.Join(cfg.OutputDir, f))
					convey.So(statErr, convey.ShouldBeNil)
				}
			})
		})

		convey.Convey("When the SQLite source is selected but the path is unusable", func() {
			cfg := config.New()
			cfg.Source = config.SourceSQLite
			cfg.SQLitePath = filepath.Join(t.TempDir(), "missing-dir", "raw.db")

			convey.Convey("Then run fails", func() {
				convey.So(run(context.Background(), cfg, logger.Get()), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestHTTPServerWiring(t *testing.T) {
	convey.Convey("Given the HTTP server built from config", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.RawDir = t.TempDir()
		cfg.OutputDir = t.TempDir()
		smallSeason(t, cfg.RawDir)

		src, closeSource, err := openSource(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		defer closeSource()

		store := repository.NewSnapshotStore(repository.WithMaxLimit(cfg.MaxLeaderboardLimit))
		svc := app.New(serviceOptions(cfg, src, store, logger.Get())...)
		_, err = svc.Run(ctx)
		convey.So(err, convey.ShouldBeNil)

		h := newHTTPServer(cfg, store, logger.Get()).Handler

		for _, path := range []string{"/healthz", "/leaderboard?limit=5", "/distribution", "/metadata", "/metrics", "/openapi.yaml", "/data/metadata.json"} {
			convey.Convey("Then GET "+path+" succeeds", func() {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		}
	})
}
