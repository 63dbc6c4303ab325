// Package teamctx derives per-team defensive rating and pace, plus their
// league averages, from team season statistics.
package teamctx

import (
	"sort"
	"strconv"

	"github.com/okian/pointsplus/internal/domain/model"
)

// Source tags how a context value was obtained.
type Source int

const (
	// Known means the value came from the team's own statistics.
	Known Source = iota
	// Fallback means the team was unknown and the league average was used.
	Fallback
)

func (s Source) String() string {
	if s == Fallback {
		return "fallback"
	}
	return "known"
}

// Resolved is a context value together with how it was obtained.
type Resolved struct {
	Value  float64
	Source Source
}

// Stats is the context of a single team.
type Stats struct {
	DefRating float64
	Pace      float64
}

// Context maps team abbreviations to their stats. It is built once per run
// and is read-only afterwards.
type Context struct {
	teams         map[string]Stats
	leagueAvgDef  float64
	leagueAvgPace float64
	unresolved    []int64
}

// Build resolves each team-stats row to an abbreviation using the first
// (team id, abbreviation) pair seen in games. Ids that never appear in games
// are keyed by their decimal id.
func Build(stats []model.TeamStat, games []model.GameRow) *Context {
	abbrByID := make(map[int64]string)
	for _, g := range games {
		if _, ok := abbrByID[g.TeamID]; !ok {
			abbrByID[g.TeamID] = g.TeamAbbr
		}
	}

	c := &Context{teams: make(map[string]Stats, len(stats))}
	for _, s := range stats {
		abbr, ok := abbrByID[s.TeamID]
		if !ok {
			abbr = strconv.FormatInt(s.TeamID, 10)
			c.unresolved = append(c.unresolved, s.TeamID)
		}
		c.teams[abbr] = Stats{DefRating: s.DefRating, Pace: s.Pace}
	}

	if len(c.teams) == 0 {
		return c
	}

	// Sum in key order so repeated runs produce bit-identical averages.
	keys := make([]string, 0, len(c.teams))
	for k := range c.teams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sumDef, sumPace float64
	for _, k := range keys {
		sumDef += c.teams[k].DefRating
		sumPace += c.teams[k].Pace
	}
	n := float64(len(keys))
	c.leagueAvgDef = sumDef / n
	c.leagueAvgPace = sumPace / n
	return c
}

// Lookup returns the stats recorded for abbr.
func (c *Context) Lookup(abbr string) (Stats, bool) {
	s, ok := c.teams[abbr]
	return s, ok
}

// LeagueAvgDef is the unweighted mean defensive rating. Zero when no teams.
func (c *Context) LeagueAvgDef() float64 { return c.leagueAvgDef }

// LeagueAvgPace is the unweighted mean pace. Zero when no teams.
func (c *Context) LeagueAvgPace() float64 { return c.leagueAvgPace }

// Teams returns the number of teams with context.
func (c *Context) Teams() int { return len(c.teams) }

// Unresolved returns the team ids that had no abbreviation in the game rows.
func (c *Context) Unresolved() []int64 {
	out := make([]int64, len(c.unresolved))
	copy(out, c.unresolved)
	return out
}

// DefRating resolves abbr's defensive rating, falling back to the league
// average for unknown teams and non-positive ratings.
func (c *Context) DefRating(abbr string) Resolved {
	if s, ok := c.teams[abbr]; ok && s.DefRating > 0 {
		return Resolved{Value: s.DefRating, Source: Known}
	}
	return Resolved{Value: c.leagueAvgDef, Source: Fallback}
}

// Pace resolves abbr's pace with the same fallback rules as DefRating.
func (c *Context) Pace(abbr string) Resolved {
	if s, ok := c.teams[abbr]; ok && s.Pace > 0 {
		return Resolved{Value: s.Pace, Source: Known}
	}
	return Resolved{Value: c.leagueAvgPace, Source: Fallback}
}
