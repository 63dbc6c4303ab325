// Package ingest converts raw source tables into typed domain records.
//
// It is the boundary where structural violations are rejected: missing
// required columns and cells that cannot be parsed. Past this point the
// engine assumes well-formed input.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/pointsplus/internal/adapters/source"
	"github.com/okian/pointsplus/internal/domain/model"
	"github.com/okian/pointsplus/internal/domain/pointsplus"
)

// Column names of the provider tables.
const (
	ColPlayerID   = "PLAYER_ID"
	ColPersonID   = "PERSON_ID"
	ColPlayerName = "PLAYER_NAME"
	ColTeamID     = "TEAM_ID"
	ColTeamAbbr   = "TEAM_ABBREVIATION"
	ColGameID     = "GAME_ID"
	ColGameDate   = "GAME_DATE"
	ColMatchup    = "MATCHUP"
	ColWL         = "WL"
	ColMinutes    = "MIN"
	ColPoints     = "PTS"
	ColDefRating  = "DEF_RATING"
	ColPace       = "PACE"
)

var gameColumns = []string{
	ColPlayerID, ColPlayerName, ColTeamID, ColTeamAbbr,
	ColGameID, ColGameDate, ColMatchup, ColMinutes, ColPoints,
}

var teamColumns = []string{ColTeamID, ColDefRating, ColPace}

// Counts reports how many rows each table contributed.
type Counts struct {
	Games          int
	Teams          int
	PlayerIndex    int
	PlayerAdvanced int
}

// Load reads all four tables from src. The two auxiliary tables are
// optional: a missing table, or one without a player id column, is
// treated as absent and reported through warn.
func Load(ctx context.Context, src source.Source, warn func(table string, err error)) (pointsplus.Input, Counts, error) {
	var (
		in     pointsplus.Input
		counts Counts
	)
	if warn == nil {
		warn = func(string, error) {}
	}

	gt, err := src.Load(ctx, source.GameLogs)
	if err != nil {
		return in, counts, err
	}
	if in.Games, err = Games(gt); err != nil {
		return in, counts, err
	}
	counts.Games = len(in.Games)

	tt, err := src.Load(ctx, source.TeamStats)
	if err != nil {
		return in, counts, err
	}
	if in.TeamStats, err = TeamStats(tt); err != nil {
		return in, counts, err
	}
	counts.Teams = len(in.TeamStats)

	optional := func(name string, fields []model.Field) *model.AuxTable {
		t, err := src.Load(ctx, name)
		if err != nil {
			warn(name, err)
			return nil
		}
		aux, err := Aux(t, fields)
		if err != nil {
			warn(name, err)
			return nil
		}
		return aux
	}
	in.PlayerIndex = optional(source.PlayerIndex, model.IndexFields)
	in.PlayerAdvanced = optional(source.PlayerAdvanced, model.AdvancedFields)
	if in.PlayerIndex != nil {
		counts.PlayerIndex = len(in.PlayerIndex.Rows)
	}
	if in.PlayerAdvanced != nil {
		counts.PlayerAdvanced = len(in.PlayerAdvanced.Rows)
	}
	return in, counts, nil
}

// Games converts the game log table.
func Games(t *source.Table) ([]model.GameRow, error) {
	if err := require(t, gameColumns); err != nil {
		return nil, err
	}
	out := make([]model.GameRow, 0, t.Len())
	for i := range t.Rows {
		row := model.GameRow{
			PlayerName: t.Cell(i, ColPlayerName),
			TeamAbbr:   strings.TrimSpace(t.Cell(i, ColTeamAbbr)),
			GameID:     t.Cell(i, ColGameID),
			Matchup:    t.Cell(i, ColMatchup),
			WL:         strings.TrimSpace(t.Cell(i, ColWL)),
		}
		var err error
		if row.PlayerID, err = parseID(t, i, ColPlayerID); err != nil {
			return nil, err
		}
		if row.TeamID, err = parseID(t, i, ColTeamID); err != nil {
			return nil, err
		}
		if row.GameDate, err = parseDate(t, i, ColGameDate); err != nil {
			return nil, err
		}
		if row.Minutes, err = parseMinutes(t, i); err != nil {
			return nil, err
		}
		if row.Points, err = parseNumber(t, i, ColPoints); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// TeamStats converts the team advanced stats table.
func TeamStats(t *source.Table) ([]model.TeamStat, error) {
	if err := require(t, teamColumns); err != nil {
		return nil, err
	}
	out := make([]model.TeamStat, 0, t.Len())
	for i := range t.Rows {
		var (
			ts  model.TeamStat
			err error
		)
		if ts.TeamID, err = parseID(t, i, ColTeamID); err != nil {
			return nil, err
		}
		if ts.DefRating, err = parseNumber(t, i, ColDefRating); err != nil {
			return nil, err
		}
		if ts.Pace, err = parseNumber(t, i, ColPace); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, nil
}

// Aux converts an optional per-player table. PERSON_ID is accepted in
// place of PLAYER_ID. The capability set holds the subset of fields the
// table carries; rows with an unparsable id are skipped and only the
// first row per player is kept.
func Aux(t *source.Table, fields []model.Field) (*model.AuxTable, error) {
	idCol := ColPlayerID
	if !t.Has(idCol) {
		idCol = ColPersonID
	}
	if !t.Has(idCol) {
		return nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, ColPlayerID, t.Name)
	}

	present := make([]model.Field, 0, len(fields))
	for _, f := range fields {
		if t.Has(string(f)) {
			present = append(present, f)
		}
	}

	aux := &model.AuxTable{
		Fields: model.NewFieldSet(present...),
		Rows:   make(map[int64]model.AuxRecord, t.Len()),
	}
	for i := range t.Rows {
		id, err := parseID(t, i, idCol)
		if err != nil {
			continue
		}
		if _, seen := aux.Rows[id]; seen {
			continue
		}
		rec := make(model.AuxRecord, len(present))
		for _, f := range present {
			rec[f] = t.Cell(i, string(f))
		}
		aux.Rows[id] = rec
	}
	return aux, nil
}

func require(t *source.Table, cols []string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s in %s", ErrMissingColumn, strings.Join(missing, ", "), t.Name)
	}
	return nil
}

func malformed(t *source.Table, row int, col, raw string) error {
	return fmt.Errorf("%w: %s row %d column %s: %q", ErrMalformedValue, t.Name, row+1, col, raw)
}

// parseID accepts integer ids, including ones a spreadsheet wrote as "123.0".
func parseID(t *source.Table, row int, col string) (int64, error) {
	raw := strings.TrimSpace(t.Cell(row, col))
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, malformed(t, row, col, raw)
	}
	return int64(f), nil
}

// parseNumber treats an empty cell as zero.
func parseNumber(t *source.Table, row int, col string) (float64, error) {
	raw := strings.TrimSpace(t.Cell(row, col))
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, malformed(t, row, col, raw)
	}
	return f, nil
}

// parseMinutes accepts decimal minutes or "mm:ss".
func parseMinutes(t *source.Table, row int) (float64, error) {
	raw := strings.TrimSpace(t.Cell(row, ColMinutes))
	mm, ss, ok := strings.Cut(raw, ":")
	if !ok {
		return parseNumber(t, row, ColMinutes)
	}
	m, err1 := strconv.Atoi(mm)
	s, err2 := strconv.Atoi(ss)
	if err := errors.Join(err1, err2); err != nil || s < 0 || s >= 60 {
		return 0, malformed(t, row, ColMinutes, raw)
	}
	return float64(m) + float64(s)/60, nil
}

var dateLayouts = []string{
	model.DateLayout,
	"2006-01-02T15:04:05",
	"Jan 02, 2006",
}

func parseDate(t *source.Table, row int, col string) (time.Time, error) {
	raw := strings.TrimSpace(t.Cell(row, col))
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, malformed(t, row, col, raw)
}
