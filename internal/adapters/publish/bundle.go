// Package publish turns a computation result into the JSON artifacts the
// site reads and writes them to disk.
package publish

import (
	"math"
	"strings"
	"time"

	"github.com/okian/pointsplus/internal/domain/model"
	"github.com/okian/pointsplus/internal/domain/pointsplus"
)

// LeagueAvgPointsPlus is the Points+ of a league-average qualifier.
const LeagueAvgPointsPlus = 100

// Player is one leaderboard row.
type Player struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Team             string   `json:"team"`
	Rank             int      `json:"rank"`
	GP               int      `json:"gp"`
	PPG              float64  `json:"ppg"`
	AdjPPG           float64  `json:"adjPpg"`
	PointsPlus       int      `json:"pointsPlus"`
	MPG              float64  `json:"mpg"`
	Position         *string  `json:"position,omitempty"`
	Height           *string  `json:"height,omitempty"`
	Weight           *string  `json:"weight,omitempty"`
	Jersey           *string  `json:"jersey,omitempty"`
	UsgPct           *float64 `json:"usgPct,omitempty"`
	TSPct            *float64 `json:"tsPct,omitempty"`
	PointsPlusStdDev *float64 `json:"pointsPlusStdDev,omitempty"`
	VolatilityPctile *int     `json:"volatilityPctile,omitempty"`
}

// Game is one entry of a player's game log.
type Game struct {
	Date       string  `json:"date"`
	Matchup    string  `json:"matchup"`
	Result     string  `json:"result"`
	Min        float64 `json:"min"`
	Pts        float64 `json:"pts"`
	AdjPts     float64 `json:"adjPts"`
	PointsPlus int     `json:"pointsPlus"`
}

// PlayerDetail is a leaderboard row plus its game log.
type PlayerDetail struct {
	Player
	GameLog []Game `json:"gameLog"`
}

// Bin is one histogram bucket.
type Bin struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Criteria are the qualifying thresholds.
type Criteria struct {
	MinGames int     `json:"minGames"`
	MinMPG   float64 `json:"minMpg"`
}

// Metadata describes one run.
type Metadata struct {
	GeneratedAt            string   `json:"generatedAt"`
	RunID                  string   `json:"runId"`
	Season                 string   `json:"season"`
	AsOfDate               string   `json:"asOfDate"`
	QualifyingCriteria     Criteria `json:"qualifyingCriteria"`
	TotalQualifyingPlayers int      `json:"totalQualifyingPlayers"`
	LeagueAvgPointsPlus    int      `json:"leagueAvgPointsPlus"`
	LeagueAvgAdjPPG        *float64 `json:"leagueAvgAdjPpg,omitempty"`
}

// RunInfo carries the run facts that are not part of the result.
type RunInfo struct {
	RunID       string
	Season      string
	AsOfDate    string
	GeneratedAt time.Time
	MinGames    int
	MinMPG      float64
}

// Bundle is the full set of artifacts for one run.
type Bundle struct {
	Leaderboard  []Player
	Players      map[int64]PlayerDetail
	Distribution []Bin
	Metadata     Metadata
}

// Build converts res into publishable artifacts.
func Build(res *pointsplus.Result, info RunInfo) *Bundle {
	b := &Bundle{
		Leaderboard:  make([]Player, 0, len(res.Leaderboard)),
		Players:      make(map[int64]PlayerDetail, len(res.Leaderboard)),
		Distribution: make([]Bin, 0, len(res.Distribution)),
	}

	for _, e := range res.Leaderboard {
		p := player(e)
		b.Leaderboard = append(b.Leaderboard, p)

		series := res.Series[e.PlayerID]
		games := make([]Game, 0, len(series))
		for _, g := range series {
			games = append(games, Game{
				Date:       g.Date.Format(model.DateLayout),
				Matchup:    g.Matchup,
				Result:     g.Result,
				Min:        g.Minutes,
				Pts:        g.Points,
				AdjPts:     round1(g.AdjustedPoints),
				PointsPlus: g.PointsPlus,
			})
		}
		b.Players[e.PlayerID] = PlayerDetail{Player: p, GameLog: games}
	}

	for _, bk := range res.Distribution {
		b.Distribution = append(b.Distribution, Bin(bk))
	}

	b.Metadata = Metadata{
		GeneratedAt: info.GeneratedAt.Format(time.RFC3339),
		RunID:       info.RunID,
		Season:      info.Season,
		AsOfDate:    info.AsOfDate,
		QualifyingCriteria: Criteria{
			MinGames: info.MinGames,
			MinMPG:   info.MinMPG,
		},
		TotalQualifyingPlayers: len(res.Leaderboard),
		LeagueAvgPointsPlus:    LeagueAvgPointsPlus,
	}
	if res.HasBaseline {
		avg := round1(res.Baseline)
		b.Metadata.LeagueAvgAdjPPG = &avg
	}
	return b
}

func player(e pointsplus.LeaderboardEntry) Player {
	return Player{
		ID:               e.PlayerID,
		Name:             e.Name,
		Team:             e.Team,
		Rank:             e.Rank,
		GP:               e.GamesPlayed,
		PPG:              e.PPG,
		AdjPPG:           e.AdjPPG,
		PointsPlus:       e.PointsPlus,
		MPG:              e.MPG,
		Position:         e.Meta.Position,
		Height:           e.Meta.Height,
		Weight:           e.Meta.Weight,
		Jersey:           jersey(e.Meta.Jersey),
		UsgPct:           percent(e.Meta.UsagePct),
		TSPct:            percent(e.Meta.TrueShootingPct),
		PointsPlusStdDev: e.PointsPlusStdDev,
		VolatilityPctile: e.VolatilityPctile,
	}
}

// jersey drops the ".0" a float column leaves on jersey numbers.
func jersey(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSuffix(*v, ".0")
	return &s
}

// percent converts a fraction to a one-decimal percentage.
func percent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := round1(*v * 100)
	return &p
}

func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
