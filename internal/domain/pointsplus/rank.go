package pointsplus

import (
	"math"
	"sort"
)

// Metadata holds optional player attributes. Nil fields were not provided.
type Metadata struct {
	Position        *string
	Height          *string
	Weight          *string
	Jersey          *string
	UsagePct        *float64 // fraction, e.g. 0.312
	TrueShootingPct *float64 // fraction
}

// LeaderboardEntry is a ranked qualifying player.
type LeaderboardEntry struct {
	PlayerID    int64
	Name        string
	Team        string
	Rank        int
	GamesPlayed int

	// Display values, rounded to one decimal after ranking.
	PPG    float64
	AdjPPG float64
	MPG    float64

	PointsPlus int

	// ExactAdjPPG is the unrounded adjusted PPG used for tie-breaking.
	ExactAdjPPG float64

	Meta Metadata

	// Volatility of per-game Points+, set when the player has a series.
	PointsPlusStdDev *float64
	VolatilityPctile *int
}

// Normalize expresses value on the Points+ scale against baseline, rounding
// half to even. A zero baseline yields zero.
func Normalize(value, baseline float64) int {
	if baseline == 0 {
		return 0
	}
	return int(math.RoundToEven(scale * value / baseline))
}

// round1 rounds to one decimal place, half to even.
func round1(x float64) float64 {
	return math.RoundToEven(x*10) / 10
}

// before reports whether a ranks ahead of b: Points+ desc, then unrounded
// adjusted PPG desc, then player id asc for bit-identical ties.
func before(a, b LeaderboardEntry) bool {
	if a.PointsPlus != b.PointsPlus {
		return a.PointsPlus > b.PointsPlus
	}
	if a.ExactAdjPPG != b.ExactAdjPPG {
		return a.ExactAdjPPG > b.ExactAdjPPG
	}
	return a.PlayerID < b.PlayerID
}

// rank scores qualifiers against baseline, sorts them into a strict total
// order and assigns ranks 1..N. Display rounding happens after sorting.
func rank(qualifiers []Aggregate, baseline float64) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(qualifiers))
	for i, a := range qualifiers {
		adj := a.AdjPPG()
		entries[i] = LeaderboardEntry{
			PlayerID:    a.PlayerID,
			Name:        a.Name,
			Team:        a.Team,
			GamesPlayed: a.GamesPlayed,
			PointsPlus:  Normalize(adj, baseline),
			ExactAdjPPG: adj,
			PPG:         a.RawPPG(),
			AdjPPG:      adj,
			MPG:         a.MPG(),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return before(entries[i], entries[j]) })

	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].PPG = round1(entries[i].PPG)
		entries[i].AdjPPG = round1(entries[i].AdjPPG)
		entries[i].MPG = round1(entries[i].MPG)
	}
	return entries
}
