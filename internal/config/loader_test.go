package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/pointsplus/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MinGames, convey.ShouldEqual, 20)
				convey.So(cfg.MinMPG, convey.ShouldEqual, 15.0)
				convey.So(cfg.OutputDir, convey.ShouldEqual, "data/output")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("POINTSPLUS_MIN_GAMES", "10")
			_ = os.Setenv("POINTSPLUS_MIN_MPG", "12.5")
			_ = os.Setenv("POINTSPLUS_FETCH", "true")
			_ = os.Setenv("POINTSPLUS_SEASON", "2024-25")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MinGames, convey.ShouldEqual, 10)
				convey.So(cfg.MinMPG, convey.ShouldEqual, 12.5)
				convey.So(cfg.Fetch, convey.ShouldBeTrue)
				convey.So(cfg.Season, convey.ShouldEqual, "2024-25")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
season: "2023-24"
as_of_date: "2024-04-14"
min_games: 25
min_mpg: 20
output_dir: /tmp/pointsplus
serve: true
addr: ":8088"
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("POINTSPLUS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Season, convey.ShouldEqual, "2023-24")
				convey.So(cfg.AsOfDate, convey.ShouldEqual, "2024-04-14")
				convey.So(cfg.MinGames, convey.ShouldEqual, 25)
				convey.So(cfg.MinMPG, convey.ShouldEqual, 20.0)
				convey.So(cfg.Serve, convey.ShouldBeTrue)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8088")
				convey.So(cfg.FetchRetries, convey.ShouldEqual, 3) // From defaults
			})
		})

		convey.Convey("When both file and environment variables are set", func() {
			tmpFile := createTempConfigFile("min_games: 25\nmin_mpg: 20\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("POINTSPLUS_CONFIG", tmpFile)
			_ = os.Setenv("POINTSPLUS_MIN_GAMES", "30")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MinGames, convey.ShouldEqual, 30)  // From env
				convey.So(cfg.MinMPG, convey.ShouldEqual, 20.0) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("POINTSPLUS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("POINTSPLUS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("POINTSPLUS_MIN_GAMES", "twenty")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the loaded values fail validation", func() {
			_ = os.Setenv("POINTSPLUS_MIN_GAMES", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "min_games")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"POINTSPLUS_CONFIG",
		"POINTSPLUS_MIN_GAMES",
		"POINTSPLUS_MIN_MPG",
		"POINTSPLUS_FETCH",
		"POINTSPLUS_SEASON",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "pointsplus-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
