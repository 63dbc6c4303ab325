package pointsplus_test

import (
	"testing"

	"github.com/okian/pointsplus/internal/domain/pointsplus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDistribution(t *testing.T) {
	Convey("Given scores spread over five decades", t, func() {
		buckets := pointsplus.Distribution([]int{85, 92, 100, 115, 120})

		Convey("Then each decade gets one bucket with the max in the last", func() {
			So(buckets, ShouldResemble, []pointsplus.Bucket{
				{Min: 80, Max: 90, Label: "80-90", Count: 1},
				{Min: 90, Max: 100, Label: "90-100", Count: 1},
				{Min: 100, Max: 110, Label: "100-110", Count: 1},
				{Min: 110, Max: 120, Label: "110-120", Count: 1},
				{Min: 120, Max: 130, Label: "120-130", Count: 1},
			})
		})
	})

	Convey("Given scores within one decade", t, func() {
		buckets := pointsplus.Distribution([]int{101, 105, 109})

		Convey("Then exactly one bucket is produced", func() {
			So(len(buckets), ShouldEqual, 1)
			So(buckets[0].Label, ShouldEqual, "100-110")
			So(buckets[0].Count, ShouldEqual, 3)
		})
	})

	Convey("Given identical scores on a decade boundary", t, func() {
		buckets := pointsplus.Distribution([]int{100, 100})

		Convey("Then one bucket holds them", func() {
			So(len(buckets), ShouldEqual, 1)
			So(buckets[0].Min, ShouldEqual, 100)
			So(buckets[0].Count, ShouldEqual, 2)
		})
	})

	Convey("Given no scores", t, func() {
		So(pointsplus.Distribution(nil), ShouldBeEmpty)
	})

	Convey("Given any scores", t, func() {
		values := []int{43, 77, 99, 100, 101, 160, 211}
		buckets := pointsplus.Distribution(values)

		Convey("Then counts sum to the number of values", func() {
			total := 0
			for _, b := range buckets {
				total += b.Count
			}
			So(total, ShouldEqual, len(values))
			So(buckets[0].Min, ShouldEqual, 40)
			So(buckets[len(buckets)-1].Max, ShouldEqual, 220)
		})
	})
}
