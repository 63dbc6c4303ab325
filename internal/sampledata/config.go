package sampledata

import "time"

// Defaults for a generated season.
const (
	DefaultTeams          = 30
	DefaultPlayersPerTeam = 13
	DefaultGamesPerTeam   = 40
	DefaultSeed           = 2025
)

// Config controls the size and randomness of a generated season.
type Config struct {
	Season         string    // season label, e.g. "2025-26"
	Start          time.Time // date of the first game day
	Teams          int       // number of teams, at most len(franchises)
	PlayersPerTeam int       // roster size
	GamesPerTeam   int       // games each team plays
	Seed           uint64    // same seed, same season
}

// DefaultConfig returns a full-size season.
func DefaultConfig() Config {
	return Config{
		Season:         "2025-26",
		Start:          time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC),
		Teams:          DefaultTeams,
		PlayersPerTeam: DefaultPlayersPerTeam,
		GamesPerTeam:   DefaultGamesPerTeam,
		Seed:           DefaultSeed,
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Season == "" {
		c.Season = d.Season
	}
	if c.Start.IsZero() {
		c.Start = d.Start
	}
	if c.Teams < 2 {
		c.Teams = d.Teams
	}
	if c.Teams > len(franchises) {
		c.Teams = len(franchises)
	}
	// Pairing needs an even number of teams.
	c.Teams -= c.Teams % 2
	if c.PlayersPerTeam < 1 {
		c.PlayersPerTeam = d.PlayersPerTeam
	}
	if c.GamesPerTeam < 1 {
		c.GamesPerTeam = d.GamesPerTeam
	}
	return c
}

type franchise struct {
	id   int64
	abbr string
	name string
}

var franchises = []franchise{
	{1610612737, "ATL", "Atlanta Hawks"},
	{1610612738, "BOS", "Boston Celtics"},
	{1610612739, "CLE", "Cleveland Cavaliers"},
	{1610612740, "NOP", "New Orleans Pelicans"},
	{1610612741, "CHI", "Chicago Bulls"},
	{1610612742, "DAL", "Dallas Mavericks"},
	{1610612743, "DEN", "Denver Nuggets"},
	{1610612744, "GSW", "Golden State Warriors"},
	{1610612745, "HOU", "Houston Rockets"},
	{1610612746, "LAC", "LA Clippers"},
	{1610612747, "LAL", "Los Angeles Lakers"},
	{1610612748, "MIA", "Miami Heat"},
	{1610612749, "MIL", "Milwaukee Bucks"},
	{1610612750, "MIN", "Minnesota Timberwolves"},
	{1610612751, "BKN", "Brooklyn Nets"},
	{1610612752, "NYK", "New York Knicks"},
	{1610612753, "ORL", "Orlando Magic"},
	{1610612754, "IND", "Indiana Pacers"},
	{1610612755, "PHI", "Philadelphia 76ers"},
	{1610612756, "PHX", "Phoenix Suns"},
	{1610612757, "POR", "Portland Trail Blazers"},
	{1610612758, "SAC", "Sacramento Kings"},
	{1610612759, "SAS", "San Antonio Spurs"},
	{1610612760, "OKC", "Oklahoma City Thunder"},
	{1610612761, "TOR", "Toronto Raptors"},
	{1610612762, "UTA", "Utah Jazz"},
	{1610612763, "MEM", "Memphis Grizzlies"},
	{1610612764, "WAS", "Washington Wizards"},
	{1610612765, "DET", "Detroit Pistons"},
	{1610612766, "CHA", "Charlotte Hornets"},
}

var firstNames = []string{
	"Aaron", "Bam", "Cade", "Damian", "Evan", "Franz", "Gary", "Herb",
	"Isaiah", "Jalen", "Kawhi", "Luka", "Mikal", "Nikola", "OG", "Paolo",
	"Quentin", "Rudy", "Scottie", "Tyrese", "Victor", "Walker", "Zion",
}

var lastNames = []string{
	"Adams", "Bridges", "Collins", "Davis", "Edwards", "Fox", "Green",
	"Harris", "Irving", "Jackson", "Knight", "Lopez", "Mitchell", "Nance",
	"Oubre", "Porter", "Reid", "Smith", "Thompson", "Vincent", "White",
	"Young",
}

var positions = []string{"G", "G", "F", "F", "C", "G-F", "F-C"}
