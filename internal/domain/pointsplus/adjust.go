package pointsplus

import (
	"strings"

	"github.com/okian/pointsplus/internal/domain/model"
	"github.com/okian/pointsplus/internal/domain/teamctx"
)

// Matchup separators used by the stats provider.
const (
	homeSeparator = " vs. "
	awaySeparator = " @ "
)

// ParseOpponent extracts the opponent abbreviation from a matchup string
// such as "OKC vs. HOU" or "HOU @ OKC". It returns "" when neither
// separator is present.
func ParseOpponent(matchup string) string {
	for _, sep := range []string{homeSeparator, awaySeparator} {
		if _, after, ok := strings.Cut(matchup, sep); ok {
			// Only the field right after the separator names the opponent.
			opp, _, _ := strings.Cut(after, sep)
			return strings.TrimSpace(opp)
		}
	}
	return ""
}

// Adjustment records how a game's context factors were resolved.
type Adjustment struct {
	Def  teamctx.Resolved
	Pace teamctx.Resolved
}

// DefFactor is league average def rating over the opponent's, or 1 on fallback.
func (a Adjustment) DefFactor(c *teamctx.Context) float64 {
	return factor(c.LeagueAvgDef(), a.Def)
}

// PaceFactor is league average pace over the opponent's, or 1 on fallback.
func (a Adjustment) PaceFactor(c *teamctx.Context) float64 {
	return factor(c.LeagueAvgPace(), a.Pace)
}

func factor(avg float64, r teamctx.Resolved) float64 {
	// A fallback substitutes the league average, which makes the ratio exactly 1.
	if r.Source == teamctx.Fallback {
		return 1
	}
	return avg / r.Value
}

// AdjustPoints scales raw points by the opponent's defensive rating and pace
// relative to the league.
func AdjustPoints(points float64, opponent string, c *teamctx.Context) (float64, Adjustment) {
	adj := Adjustment{
		Def:  c.DefRating(opponent),
		Pace: c.Pace(opponent),
	}
	return points * adj.DefFactor(c) * adj.PaceFactor(c), adj
}

// AdjustedGame is a game row with its derived opponent and adjusted points.
type AdjustedGame struct {
	model.GameRow
	Opponent       string
	AdjustedPoints float64
	Adjustment     Adjustment
}

// adjustAll derives opponent and adjusted points for every row, tallying
// context fallbacks into diag.
func adjustAll(rows []model.GameRow, c *teamctx.Context, diag *Diagnostics) []AdjustedGame {
	out := make([]AdjustedGame, len(rows))
	for i, row := range rows {
		opp := ParseOpponent(row.Matchup)
		pts, adj := AdjustPoints(row.Points, opp, c)
		if opp == "" {
			diag.UnknownOpponents++
		}
		if adj.Def.Source == teamctx.Fallback {
			diag.DefFallbacks++
		}
		if adj.Pace.Source == teamctx.Fallback {
			diag.PaceFallbacks++
		}
		out[i] = AdjustedGame{
			GameRow:        row,
			Opponent:       opp,
			AdjustedPoints: pts,
			Adjustment:     adj,
		}
	}
	return out
}
