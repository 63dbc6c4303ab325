package pointsplus

import (
	"math"
	"sort"
	"time"
)

// GamePoint is one game in a player's season series.
type GamePoint struct {
	GameID         string
	Date           time.Time
	Matchup        string
	Opponent       string
	Result         string
	Minutes        float64
	Points         float64
	AdjustedPoints float64
	PointsPlus     int
}

// buildSeries returns, for each ranked player, their games in ascending
// date order with per-game Points+ against the season baseline. Games on
// the same date keep input order.
func buildSeries(entries []LeaderboardEntry, games []AdjustedGame, baseline float64) map[int64][]GamePoint {
	want := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		want[e.PlayerID] = struct{}{}
	}

	out := make(map[int64][]GamePoint, len(entries))
	for _, g := range games {
		if _, ok := want[g.PlayerID]; !ok {
			continue
		}
		out[g.PlayerID] = append(out[g.PlayerID], GamePoint{
			GameID:         g.GameID,
			Date:           g.GameDate,
			Matchup:        g.Matchup,
			Opponent:       g.Opponent,
			Result:         g.WL,
			Minutes:        g.Minutes,
			Points:         g.Points,
			AdjustedPoints: g.AdjustedPoints,
			PointsPlus:     Normalize(g.AdjustedPoints, baseline),
		})
	}

	for id, series := range out {
		sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
		out[id] = series
	}
	return out
}

// applyVolatility sets each entry's population standard deviation of
// per-game Points+ and its percentile among entries (average rank on ties).
func applyVolatility(entries []LeaderboardEntry, series map[int64][]GamePoint) {
	type sample struct {
		idx    int
		stddev float64
	}
	samples := make([]sample, 0, len(entries))
	for i := range entries {
		games := series[entries[i].PlayerID]
		if len(games) == 0 {
			continue
		}
		sd := round1(stddev(games))
		entries[i].PointsPlusStdDev = &sd
		samples = append(samples, sample{idx: i, stddev: sd})
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].stddev < samples[j].stddev })
	n := float64(len(samples))
	for lo := 0; lo < len(samples); {
		hi := lo
		for hi+1 < len(samples) && samples[hi+1].stddev == samples[lo].stddev {
			hi++
		}
		// 1-based average rank of the tie group.
		avgRank := float64(lo+hi)/2 + 1
		pct := int(math.RoundToEven(100 * avgRank / n))
		for k := lo; k <= hi; k++ {
			p := pct
			entries[samples[k].idx].VolatilityPctile = &p
		}
		lo = hi + 1
	}
}

func stddev(games []GamePoint) float64 {
	var sum float64
	for _, g := range games {
		sum += float64(g.PointsPlus)
	}
	mean := sum / float64(len(games))
	var sq float64
	for _, g := range games {
		d := float64(g.PointsPlus) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(games)))
}
