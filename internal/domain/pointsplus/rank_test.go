package pointsplus

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	Convey("Given qualifiers whose rounded Points+ tie", t, func() {
		qualifiers := []Aggregate{
			{PlayerID: 9, GamesPlayed: 20, TotalAdjusted: 400.4, TotalMinutes: 600},
			{PlayerID: 3, GamesPlayed: 20, TotalAdjusted: 400.8, TotalMinutes: 600},
			{PlayerID: 5, GamesPlayed: 20, TotalAdjusted: 400.4, TotalMinutes: 600},
			{PlayerID: 1, GamesPlayed: 20, TotalAdjusted: 500, TotalMinutes: 600},
		}
		entries := rank(qualifiers, 20)

		Convey("Then they are ordered by unrounded adjusted PPG, then id", func() {
			So(entries[0].PlayerID, ShouldEqual, 1)
			So(entries[1].PlayerID, ShouldEqual, 3)
			So(entries[2].PlayerID, ShouldEqual, 5)
			So(entries[3].PlayerID, ShouldEqual, 9)
			So(entries[1].PointsPlus, ShouldEqual, entries[2].PointsPlus)
		})

		Convey("And ranks are a gapless permutation", func() {
			for i, e := range entries {
				So(e.Rank, ShouldEqual, i+1)
			}
		})

		Convey("And display rounding does not disturb the order", func() {
			So(entries[1].AdjPPG, ShouldEqual, entries[2].AdjPPG)
			So(entries[1].ExactAdjPPG, ShouldBeGreaterThan, entries[2].ExactAdjPPG)
		})

		Convey("And input order does not matter", func() {
			reversed := []Aggregate{qualifiers[3], qualifiers[2], qualifiers[1], qualifiers[0]}
			So(rank(reversed, 20), ShouldResemble, entries)
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given a baseline", t, func() {
		So(Normalize(30, 20), ShouldEqual, 150)
		So(Normalize(21, 20), ShouldEqual, 105)
		So(Normalize(1, 8), ShouldEqual, 12) // 12.5 rounds half to even
		So(Normalize(10, 0), ShouldEqual, 0)
	})
}
