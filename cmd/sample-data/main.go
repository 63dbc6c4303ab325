package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/pointsplus/internal/adapters/source"
	"github.com/okian/pointsplus/internal/sampledata"
	"github.com/okian/pointsplus/pkg/logger"
)

func main() {
	d := sampledata.DefaultConfig()
	var (
		out     = flag.String("out", "data/raw", "Directory to write the CSV tables to")
		sqlite  = flag.String("sqlite", "", "Also write the tables into this SQLite database")
		season  = flag.String("season", d.Season, "Season label")
		teams   = flag.Int("teams", d.Teams, "Number of teams")
		players = flag.Int("players", d.PlayersPerTeam, "Players per team")
		games   = flag.Int("games", d.GamesPerTeam, "Games per team")
		seed    = flag.Uint64("seed", d.Seed, "Random seed")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("sample-data")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := sampledata.Config{
		Season:         *season,
		Start:          d.Start,
		Teams:          *teams,
		PlayersPerTeam: *players,
		GamesPerTeam:   *games,
		Seed:           *seed,
	}
	s := sampledata.Generate(cfg)

	sinks := []source.Sink{source.NewCSVSource(*out)}
	if *sqlite != "" {
		db, err := source.OpenSQLite(ctx, *sqlite)
		if err != nil {
			log.Fatal(ctx, "failed to open sqlite", logger.Error(err))
		}
		defer db.Close()
		sinks = append(sinks, db)
	}

	for _, sink := range sinks {
		for _, t := range s.Tables() {
			if err := sink.Save(ctx, t); err != nil {
				log.Fatal(ctx, "failed to save table", logger.String("table", t.Name), logger.Error(err))
			}
		}
	}

	first, last := sampledata.Days(cfg)
	log.Info(ctx, "sample season written",
		logger.String("out", *out),
		logger.String("sqlite", *sqlite),
		logger.Int("gameRows", s.Games.Len()),
		logger.String("from", first.Format(time.DateOnly)),
		logger.String("to", last.Format(time.DateOnly)))
}
