// Package pointsplus computes the pace and defense adjusted scoring metric
// Points+ from per-game box scores and team context.
//
// The computation is a pure, single-threaded batch: the same Input always
// yields the same Result.
package pointsplus

import (
	"sort"

	"github.com/okian/pointsplus/internal/domain/model"
	"github.com/okian/pointsplus/internal/domain/teamctx"
)

// NoBaseline is the league baseline reported when no player qualifies.
// Result.HasBaseline distinguishes it from a genuine value.
const NoBaseline = 0.0

// scale is the value Points+ is normalized to for the qualifying mean.
const scale = 100

// Input is the set of tables one computation run consumes.
type Input struct {
	Games     []model.GameRow
	TeamStats []model.TeamStat
	// PlayerIndex and PlayerAdvanced are optional; nil means absent.
	PlayerIndex    *model.AuxTable
	PlayerAdvanced *model.AuxTable
}

// Diagnostics counts degraded-mode decisions made during a run.
type Diagnostics struct {
	Games            int
	Players          int
	Qualifiers       int
	Teams            int
	UnknownOpponents int
	DefFallbacks     int
	PaceFallbacks    int
	UnresolvedTeams  []int64
}

// Result holds everything one run produces.
type Result struct {
	Leaderboard  []LeaderboardEntry
	Series       map[int64][]GamePoint
	Baseline     float64
	HasBaseline  bool
	Distribution []Bucket
	Context      *teamctx.Context
	Diagnostics  Diagnostics
}

// Engine computes Points+ under fixed qualifying thresholds.
type Engine struct {
	minGames int
	minMPG   float64
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		minGames: DefaultMinGames,
		minMPG:   DefaultMinMPG,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MinGames returns the games-played threshold.
func (e *Engine) MinGames() int { return e.minGames }

// MinMPG returns the minutes-per-game threshold.
func (e *Engine) MinMPG() float64 { return e.minMPG }

// Compute runs the full pipeline: context, adjustment, aggregation,
// filtering, baseline, scoring and ranking, enrichment, series, volatility
// and distribution.
func (e *Engine) Compute(in Input) *Result {
	c := teamctx.Build(in.TeamStats, in.Games)
	res := &Result{
		Context: c,
		Series:  make(map[int64][]GamePoint),
		Diagnostics: Diagnostics{
			Games:           len(in.Games),
			Teams:           c.Teams(),
			UnresolvedTeams: c.Unresolved(),
		},
	}

	games := adjustAll(in.Games, c, &res.Diagnostics)

	// Phase 1: aggregate every player.
	aggs := aggregate(games)
	res.Diagnostics.Players = len(aggs)

	// Phase 2: filter.
	qualifiers := e.qualify(aggs)
	res.Diagnostics.Qualifiers = len(qualifiers)

	// Phase 3: baseline over the filtered set only.
	baseline, ok := Baseline(qualifiers)
	res.Baseline, res.HasBaseline = baseline, ok
	if !ok {
		res.Leaderboard = []LeaderboardEntry{}
		res.Distribution = []Bucket{}
		return res
	}

	// Phase 4: scores and ranks.
	res.Leaderboard = rank(qualifiers, baseline)
	enrich(res.Leaderboard, in.PlayerIndex, in.PlayerAdvanced)

	res.Series = buildSeries(res.Leaderboard, games, baseline)
	applyVolatility(res.Leaderboard, res.Series)

	scores := make([]int, len(res.Leaderboard))
	for i, entry := range res.Leaderboard {
		scores[i] = entry.PointsPlus
	}
	res.Distribution = Distribution(scores)
	return res
}

// Aggregate is one player's season totals.
type Aggregate struct {
	PlayerID      int64
	Name          string
	Team          string
	GamesPlayed   int
	TotalPoints   float64
	TotalAdjusted float64
	TotalMinutes  float64
}

// RawPPG is raw points per game.
func (a Aggregate) RawPPG() float64 { return perGame(a.TotalPoints, a.GamesPlayed) }

// AdjPPG is adjusted points per game.
func (a Aggregate) AdjPPG() float64 { return perGame(a.TotalAdjusted, a.GamesPlayed) }

// MPG is minutes per game.
func (a Aggregate) MPG() float64 { return perGame(a.TotalMinutes, a.GamesPlayed) }

func perGame(total float64, games int) float64 {
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

// aggregate groups games by player. Name and team come from the player's
// last row in input order. The result is ordered by player id.
func aggregate(games []AdjustedGame) []Aggregate {
	byID := make(map[int64]*Aggregate)
	for _, g := range games {
		a, ok := byID[g.PlayerID]
		if !ok {
			a = &Aggregate{PlayerID: g.PlayerID}
			byID[g.PlayerID] = a
		}
		a.Name = g.PlayerName
		a.Team = g.TeamAbbr
		a.GamesPlayed++
		a.TotalPoints += g.Points
		a.TotalAdjusted += g.AdjustedPoints
		a.TotalMinutes += g.Minutes
	}

	out := make([]Aggregate, 0, len(byID))
	for _, a := range byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// Qualifies reports whether a meets both thresholds. Both bounds are inclusive.
func (e *Engine) Qualifies(a Aggregate) bool {
	return a.GamesPlayed >= e.minGames && a.MPG() >= e.minMPG
}

func (e *Engine) qualify(aggs []Aggregate) []Aggregate {
	out := make([]Aggregate, 0, len(aggs))
	for _, a := range aggs {
		if e.Qualifies(a) {
			out = append(out, a)
		}
	}
	return out
}

// Baseline is the unweighted mean adjusted PPG of qualifiers. It returns
// NoBaseline and false for an empty set.
func Baseline(qualifiers []Aggregate) (float64, bool) {
	if len(qualifiers) == 0 {
		return NoBaseline, false
	}
	var sum float64
	for _, a := range qualifiers {
		sum += a.AdjPPG()
	}
	return sum / float64(len(qualifiers)), true
}
