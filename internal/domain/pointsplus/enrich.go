package pointsplus

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/pointsplus/internal/domain/model"
)

// enricher copies one optional field from an auxiliary table onto entries.
type enricher struct {
	field model.Field
	apply func(m *Metadata, raw string)
}

var indexEnrichers = []enricher{
	{model.FieldPosition, func(m *Metadata, v string) { m.Position = text(v) }},
	{model.FieldHeight, func(m *Metadata, v string) { m.Height = text(v) }},
	{model.FieldWeight, func(m *Metadata, v string) { m.Weight = text(v) }},
	{model.FieldJersey, func(m *Metadata, v string) { m.Jersey = text(v) }},
}

var advancedEnrichers = []enricher{
	{model.FieldUsagePct, func(m *Metadata, v string) { m.UsagePct = number(v) }},
	{model.FieldTrueShootingPct, func(m *Metadata, v string) { m.TrueShootingPct = number(v) }},
}

// enrich left-joins the auxiliary tables onto entries by player id. Fields
// the table does not provide are skipped entirely.
func enrich(entries []LeaderboardEntry, index, advanced *model.AuxTable) {
	joinTable(entries, index, indexEnrichers)
	joinTable(entries, advanced, advancedEnrichers)
}

func joinTable(entries []LeaderboardEntry, tbl *model.AuxTable, enrichers []enricher) {
	for _, en := range enrichers {
		if !tbl.Has(en.field) {
			continue
		}
		for i := range entries {
			rec, ok := tbl.Lookup(entries[i].PlayerID)
			if !ok {
				continue
			}
			en.apply(&entries[i].Meta, rec[en.field])
		}
	}
}

// text returns nil for empty or missing cells.
func text(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "nan") || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}

// number returns nil for cells that are not finite numbers.
func number(v string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
