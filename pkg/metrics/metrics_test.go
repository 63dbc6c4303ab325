package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("test"),
			WithConstLabels(map[string]string{"season": "2025-26"}),
			WithHistogramBuckets([]float64{0.01, 0.1, 1}),
		)

		Convey("When a run is recorded", func() {
			m.RecordRun("ok", 0.42)
			m.SetPlayers(540, 280)
			m.SetBaseline(12.7)
			m.AddContextFallbacks("def", 3)
			m.AddContextFallbacks("pace", 0)
			m.RecordFetchAttempt("leaguegamelog", "ok")
			m.RecordFetchRetry()

			Convey("Then the collectors hold the values", func() {
				So(testutil.ToFloat64(m.runsTotal.WithLabelValues("ok")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.qualifyingPlayers), ShouldEqual, 280)
				So(testutil.ToFloat64(m.playersTotal), ShouldEqual, 540)
				So(testutil.ToFloat64(m.leagueBaseline), ShouldEqual, 12.7)
				So(testutil.ToFloat64(m.contextFallbacks.WithLabelValues("def")), ShouldEqual, 3)
				So(testutil.ToFloat64(m.fetchRetries), ShouldEqual, 1)
			})

			Convey("And zero fallbacks create no series", func() {
				So(testutil.CollectAndCount(m.contextFallbacks), ShouldEqual, 1)
			})

			Convey("And metric names carry the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_pipeline_runs_total"], ShouldBeTrue)
				So(names["test_fetch_retries_total"], ShouldBeTrue)
			})
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given the global registry", t, func() {
		SetBaseline(11.5)
		path := filepath.Join(t.TempDir(), "metrics.prom")

		Convey("When writing a textfile", func() {
			err := WriteTextfile(path)

			Convey("Then it contains the gauges", func() {
				So(err, ShouldBeNil)
				b, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, "pointsplus_pipeline_league_baseline_adj_ppg 11.5")
			})
		})

		Convey("When the directory does not exist", func() {
			err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "metrics.prom"))

			Convey("Then a wrapped error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
