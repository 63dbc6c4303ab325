package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pointsplus/internal/adapters/source"
	"github.com/okian/pointsplus/internal/domain/model"
	"github.com/okian/pointsplus/internal/ingest"
)

var gameHeader = []string{
	"PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "TEAM_ABBREVIATION", "GAME_ID",
	"GAME_DATE", "MATCHUP", "WL", "MIN", "PTS",
}

func gameTable(rows ...[]string) *source.Table {
	return source.NewTable(source.GameLogs, gameHeader, rows)
}

// memSource serves tables from memory.
type memSource map[string]*source.Table

func (m memSource) Load(_ context.Context, name string) (*source.Table, error) {
	t, ok := m[name]
	if !ok {
		return nil, source.ErrTableNotFound
	}
	return t, nil
}

func TestGames(t *testing.T) {
	Convey("Given a game log table", t, func() {
		Convey("Well-formed rows convert to game records", func() {
			tbl := gameTable(
				[]string{"1", "A B", "10", "OKC", "g1", "2025-10-21", "OKC vs. HOU", "W", "34", "30"},
				[]string{"1.0", "A B", "10", "OKC", "g2", "Oct 23, 2025", "OKC @ DEN", "L", "35:30", ""},
			)
			rows, err := ingest.Games(tbl)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].PlayerID, ShouldEqual, 1)
			So(rows[0].TeamAbbr, ShouldEqual, "OKC")
			So(rows[0].GameDate, ShouldEqual, time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC))
			So(rows[0].Points, ShouldEqual, 30)
			So(rows[1].PlayerID, ShouldEqual, 1)
			So(rows[1].Minutes, ShouldEqual, 35.5)
			So(rows[1].Points, ShouldEqual, 0)
			So(rows[1].GameDate.Day(), ShouldEqual, 23)
		})

		Convey("A missing required column is rejected", func() {
			tbl := source.NewTable(source.GameLogs, []string{"PLAYER_ID", "PTS"}, nil)
			_, err := ingest.Games(tbl)
			So(errors.Is(err, ingest.ErrMissingColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "MATCHUP")
		})

		Convey("Non-numeric points are rejected", func() {
			tbl := gameTable([]string{"1", "A", "10", "OKC", "g1", "2025-10-21", "OKC vs. HOU", "W", "34", "thirty"})
			_, err := ingest.Games(tbl)
			So(errors.Is(err, ingest.ErrMalformedValue), ShouldBeTrue)
		})

		Convey("An unparsable date is rejected", func() {
			tbl := gameTable([]string{"1", "A", "10", "OKC", "g1", "yesterday", "OKC vs. HOU", "W", "34", "3"})
			_, err := ingest.Games(tbl)
			So(errors.Is(err, ingest.ErrMalformedValue), ShouldBeTrue)
		})
	})
}

func TestTeamStats(t *testing.T) {
	Convey("Team stats require id, rating and pace", t, func() {
		tbl := source.NewTable(source.TeamStats, []string{"TEAM_ID", "TEAM_NAME", "DEF_RATING", "PACE"},
			[][]string{{"10", "Thunder", "104.1", "100.2"}})
		stats, err := ingest.TeamStats(tbl)
		So(err, ShouldBeNil)
		So(stats, ShouldResemble, []model.TeamStat{{TeamID: 10, DefRating: 104.1, Pace: 100.2}})

		_, err = ingest.TeamStats(source.NewTable(source.TeamStats, []string{"TEAM_ID", "PACE"}, nil))
		So(errors.Is(err, ingest.ErrMissingColumn), ShouldBeTrue)
	})
}

func TestAux(t *testing.T) {
	Convey("Given a player index keyed by PERSON_ID", t, func() {
		tbl := source.NewTable(source.PlayerIndex,
			[]string{"PERSON_ID", "POSITION", "JERSEY_NUMBER"},
			[][]string{
				{"7", "G", "2.0"},
				{"7", "F", "9"},
				{"bad", "C", "1"},
				{"8", "", ""},
			})

		aux, err := ingest.Aux(tbl, model.IndexFields)
		So(err, ShouldBeNil)

		Convey("The capability set holds only present fields", func() {
			So(aux.Has(model.FieldPosition), ShouldBeTrue)
			So(aux.Has(model.FieldJersey), ShouldBeTrue)
			So(aux.Has(model.FieldHeight), ShouldBeFalse)
		})

		Convey("The first row per player wins and bad ids are skipped", func() {
			So(aux.Rows, ShouldHaveLength, 2)
			rec, ok := aux.Lookup(7)
			So(ok, ShouldBeTrue)
			So(rec[model.FieldPosition], ShouldEqual, "G")
		})
	})

	Convey("A table without any player id column is rejected", t, func() {
		tbl := source.NewTable(source.PlayerAdvanced, []string{"USG_PCT"}, nil)
		_, err := ingest.Aux(tbl, model.AdvancedFields)
		So(errors.Is(err, ingest.ErrMissingColumn), ShouldBeTrue)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a source without the optional tables", t, func() {
		src := memSource{
			source.GameLogs: gameTable([]string{"1", "A", "10", "OKC", "g1", "2025-10-21", "OKC vs. HOU", "W", "34", "30"}),
			source.TeamStats: source.NewTable(source.TeamStats, []string{"TEAM_ID", "DEF_RATING", "PACE"},
				[][]string{{"10", "104", "100"}}),
		}
		var warned []string

		in, counts, err := ingest.Load(context.Background(), src, func(table string, _ error) {
			warned = append(warned, table)
		})

		So(err, ShouldBeNil)
		So(in.Games, ShouldHaveLength, 1)
		So(in.PlayerIndex, ShouldBeNil)
		So(in.PlayerAdvanced, ShouldBeNil)
		So(counts, ShouldResemble, ingest.Counts{Games: 1, Teams: 1})
		So(warned, ShouldResemble, []string{source.PlayerIndex, source.PlayerAdvanced})
	})

	Convey("A missing game log is a hard error", t, func() {
		_, _, err := ingest.Load(context.Background(), memSource{}, nil)
		So(errors.Is(err, source.ErrTableNotFound), ShouldBeTrue)
	})
}
