// Package model contains domain models passed between layers.
package model

import "time"

// GameRow is one player's stat line for one game.
// Rows are immutable once ingested; derived values live in the engine.
type GameRow struct {
	PlayerID   int64     // provider player identifier
	PlayerName string    // display name
	TeamID     int64     // provider team identifier
	TeamAbbr   string    // team abbreviation, e.g. "OKC"
	GameID     string    // provider game identifier
	GameDate   time.Time // calendar date of the game
	Matchup    string    // "OKC vs. HOU" or "OKC @ HOU"
	WL         string    // "W", "L" or empty
	Minutes    float64   // minutes played
	Points     float64   // raw points scored
}

// TeamStat is one team's season context.
type TeamStat struct {
	TeamID    int64
	DefRating float64 // points allowed per 100 possessions, lower is stronger
	Pace      float64 // possessions per 48 minutes
}

// DateLayout is the calendar layout used for GameDate on the wire.
const DateLayout = "2006-01-02"
