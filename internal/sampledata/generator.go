// Package sampledata generates a deterministic synthetic season in the
// provider's table format, for tests and local runs without network access.
package sampledata

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/pointsplus/internal/adapters/source"
	"github.com/okian/pointsplus/internal/domain/model"
)

// Season holds the four generated tables.
type Season struct {
	Games          *source.Table
	TeamStats      *source.Table
	PlayerIndex    *source.Table
	PlayerAdvanced *source.Table
}

// Tables returns the tables in fetch order.
func (s *Season) Tables() []*source.Table {
	return []*source.Table{s.Games, s.TeamStats, s.PlayerIndex, s.PlayerAdvanced}
}

type player struct {
	id       int64
	name     string
	team     int
	minutes  float64 // mean minutes when active
	rate     float64 // points per minute
	position string
	jersey   int
	usage    float64
	ts       float64
}

type team struct {
	franchise
	defRating float64
	pace      float64
	roster    []*player
}

// Generate builds a season from cfg. Equal configs yield equal tables.
func Generate(cfg Config) *Season {
	cfg = cfg.normalized()
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	teams := make([]*team, cfg.Teams)
	var nextID int64 = 1630000
	for i := range teams {
		t := &team{
			franchise: franchises[i],
			defRating: round(between(rng, 106, 120), 1),
			pace:      round(between(rng, 96, 104), 2),
		}
		for slot := 0; slot < cfg.PlayersPerTeam; slot++ {
			nextID++
			t.roster = append(t.roster, newPlayer(rng, nextID, i, slot))
		}
		teams[i] = t
	}

	games := gameLog(rng, cfg, teams)
	return &Season{
		Games:          games,
		TeamStats:      teamStats(teams),
		PlayerIndex:    playerIndex(teams),
		PlayerAdvanced: playerAdvanced(teams),
	}
}

func newPlayer(rng *rand.Rand, id int64, teamIdx, slot int) *player {
	var minutes, rate float64
	switch {
	case slot < 5:
		minutes, rate = between(rng, 28, 37), between(rng, 0.45, 0.95)
	case slot < 9:
		minutes, rate = between(rng, 14, 26), between(rng, 0.35, 0.7)
	default:
		minutes, rate = between(rng, 4, 13), between(rng, 0.25, 0.6)
	}
	return &player{
		id:       id,
		name:     firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))],
		team:     teamIdx,
		minutes:  minutes,
		rate:     rate,
		position: positions[rng.IntN(len(positions))],
		jersey:   rng.IntN(100),
		usage:    round(0.1+rate*0.25+between(rng, -0.02, 0.02), 3),
		ts:       round(between(rng, 0.5, 0.66), 3),
	}
}

var gameHeader = []string{
	"SEASON_ID", "PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "TEAM_ABBREVIATION",
	"TEAM_NAME", "GAME_ID", "GAME_DATE", "MATCHUP", "WL", "MIN", "PTS",
}

// gameLog pairs teams on consecutive game days until every team has
// played cfg.GamesPerTeam games.
func gameLog(rng *rand.Rand, cfg Config, teams []*team) *source.Table {
	var rows [][]string
	order := make([]int, len(teams))
	for i := range order {
		order[i] = i
	}

	seasonID := "2" + cfg.Season[:min(4, len(cfg.Season))]
	gameNo := 0
	for day := 0; day < cfg.GamesPerTeam; day++ {
		date := cfg.Start.AddDate(0, 0, day*2).Format(model.DateLayout)
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		for k := 0; k+1 < len(order); k += 2 {
			gameNo++
			home, away := teams[order[k]], teams[order[k+1]]
			gameID := fmt.Sprintf("00225%05d", gameNo)

			homeLines, homePts := boxScore(rng, home, away)
			awayLines, awayPts := boxScore(rng, away, home)
			homeWL, awayWL := "W", "L"
			if awayPts > homePts {
				homeWL, awayWL = "L", "W"
			}

			emit := func(t *team, lines []line, matchup, wl string) {
				for _, ln := range lines {
					rows = append(rows, []string{
						seasonID, strconv.FormatInt(ln.p.id, 10), ln.p.name,
						strconv.FormatInt(t.id, 10), t.abbr, t.name,
						gameID, date, matchup, wl,
						strconv.Itoa(ln.minutes), strconv.Itoa(ln.points),
					})
				}
			}
			emit(home, homeLines, home.abbr+" vs. "+away.abbr, homeWL)
			emit(away, awayLines, away.abbr+" @ "+home.abbr, awayWL)
		}
	}
	return source.NewTable(source.GameLogs, gameHeader, rows)
}

type line struct {
	p       *player
	minutes int
	points  int
}

// boxScore draws minutes and points for every active player of t against
// opp. Stronger defenses and slower paces lower the expected points.
func boxScore(rng *rand.Rand, t, opp *team) ([]line, int) {
	env := (113.0 / opp.defRating) * ((t.pace + opp.pace) / 200.0)
	lines := make([]line, 0, len(t.roster))
	total := 0
	for _, p := range t.roster {
		// Deep bench players sit out some games entirely.
		if p.minutes < 13 && rng.Float64() < 0.35 {
			continue
		}
		mins := int(math.Round(math.Max(1, math.Min(48, p.minutes+rng.NormFloat64()*4))))
		mean := p.rate * float64(mins) * env
		pts := int(math.Round(math.Max(0, mean+rng.NormFloat64()*math.Sqrt(mean+1)*1.6)))
		lines = append(lines, line{p: p, minutes: mins, points: pts})
		total += pts
	}
	return lines, total
}

func teamStats(teams []*team) *source.Table {
	header := []string{"TEAM_ID", "TEAM_NAME", "GP", "DEF_RATING", "PACE"}
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, []string{
			strconv.FormatInt(t.id, 10), t.name, "0",
			strconv.FormatFloat(t.defRating, 'f', -1, 64),
			strconv.FormatFloat(t.pace, 'f', -1, 64),
		})
	}
	return source.NewTable(source.TeamStats, header, rows)
}

func playerIndex(teams []*team) *source.Table {
	header := []string{"PERSON_ID", "PLAYER_LAST_NAME", "TEAM_ABBREVIATION", "JERSEY_NUMBER", "POSITION", "HEIGHT", "WEIGHT"}
	var rows [][]string
	for _, t := range teams {
		for _, p := range t.roster {
			inches := 74 + int(p.id%10)
			rows = append(rows, []string{
				strconv.FormatInt(p.id, 10), p.name, t.abbr,
				strconv.Itoa(p.jersey) + ".0", p.position,
				fmt.Sprintf("%d-%d", inches/12, inches%12),
				strconv.Itoa(185 + int(p.id%60)),
			})
		}
	}
	return source.NewTable(source.PlayerIndex, header, rows)
}

func playerAdvanced(teams []*team) *source.Table {
	header := []string{"PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "USG_PCT", "TS_PCT"}
	var rows [][]string
	for _, t := range teams {
		for _, p := range t.roster {
			rows = append(rows, []string{
				strconv.FormatInt(p.id, 10), p.name, strconv.FormatInt(t.id, 10),
				strconv.FormatFloat(p.usage, 'f', -1, 64),
				strconv.FormatFloat(p.ts, 'f', -1, 64),
			})
		}
	}
	return source.NewTable(source.PlayerAdvanced, header, rows)
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Days returns the calendar span of a season generated with cfg.
func Days(cfg Config) (time.Time, time.Time) {
	cfg = cfg.normalized()
	return cfg.Start, cfg.Start.AddDate(0, 0, (cfg.GamesPerTeam-1)*2)
}
