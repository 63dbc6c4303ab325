package source_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pointsplus/internal/adapters/source"
)

func sampleTable() *source.Table {
	return source.NewTable(source.TeamStats,
		[]string{"TEAM_ID", "DEF_RATING", "PACE"},
		[][]string{
			{"1", "110.5", "99.1"},
			{"2", "104", "101"},
		})
}

func TestTable(t *testing.T) {
	Convey("Given a table", t, func() {
		tbl := sampleTable()

		Convey("Columns resolve case-insensitively", func() {
			So(tbl.Index("def_rating"), ShouldEqual, 1)
			So(tbl.Has("PACE"), ShouldBeTrue)
			So(tbl.Has("NET_RATING"), ShouldBeFalse)
		})

		Convey("Cell returns values and empties for misses", func() {
			So(tbl.Cell(1, "PACE"), ShouldEqual, "101")
			So(tbl.Cell(5, "PACE"), ShouldEqual, "")
			So(tbl.Cell(0, "NOPE"), ShouldEqual, "")
			So(tbl.Len(), ShouldEqual, 2)
		})
	})
}

func TestCSVSource(t *testing.T) {
	Convey("Given a CSV directory", t, func() {
		ctx := context.Background()
		src := source.NewCSVSource(t.TempDir())

		Convey("A saved table loads back with the same cells", func() {
			So(src.Save(ctx, sampleTable()), ShouldBeNil)

			got, err := src.Load(ctx, source.TeamStats)
			So(err, ShouldBeNil)
			So(got.Columns, ShouldResemble, []string{"TEAM_ID", "DEF_RATING", "PACE"})
			So(got.Rows, ShouldResemble, sampleTable().Rows)
		})

		Convey("A missing file is ErrTableNotFound", func() {
			_, err := src.Load(ctx, source.PlayerIndex)
			So(errors.Is(err, source.ErrTableNotFound), ShouldBeTrue)
		})
	})

	Convey("ReadCSV strips a byte order mark and tolerates ragged rows", t, func() {
		in := "\ufeffPLAYER_ID,POSITION\n1,G\n2\n"
		tbl, err := source.ReadCSV(source.PlayerIndex, strings.NewReader(in))
		So(err, ShouldBeNil)
		So(tbl.Has("PLAYER_ID"), ShouldBeTrue)
		So(tbl.Cell(0, "POSITION"), ShouldEqual, "G")
		So(tbl.Cell(1, "POSITION"), ShouldEqual, "")
	})

	Convey("ReadCSV of an empty stream is an empty table", t, func() {
		tbl, err := source.ReadCSV("x", strings.NewReader(""))
		So(err, ShouldBeNil)
		So(tbl.Len(), ShouldEqual, 0)
	})
}

func TestSQLiteSource(t *testing.T) {
	Convey("Given a SQLite database", t, func() {
		ctx := context.Background()
		src, err := source.OpenSQLite(ctx, filepath.Join(t.TempDir(), "raw.db"))
		So(err, ShouldBeNil)
		Reset(func() { _ = src.Close() })

		Convey("A saved table loads back", func() {
			So(src.Save(ctx, sampleTable()), ShouldBeNil)

			got, err := src.Load(ctx, source.TeamStats)
			So(err, ShouldBeNil)
			So(got.Columns, ShouldResemble, []string{"TEAM_ID", "DEF_RATING", "PACE"})
			So(got.Rows, ShouldResemble, sampleTable().Rows)
		})

		Convey("Save replaces an existing table", func() {
			So(src.Save(ctx, sampleTable()), ShouldBeNil)
			smaller := source.NewTable(source.TeamStats, []string{"TEAM_ID"}, [][]string{{"9"}})
			So(src.Save(ctx, smaller), ShouldBeNil)

			got, err := src.Load(ctx, source.TeamStats)
			So(err, ShouldBeNil)
			So(got.Rows, ShouldResemble, [][]string{{"9"}})
		})

		Convey("An absent table is ErrTableNotFound", func() {
			_, err := src.Load(ctx, source.GameLogs)
			So(errors.Is(err, source.ErrTableNotFound), ShouldBeTrue)
		})
	})
}
