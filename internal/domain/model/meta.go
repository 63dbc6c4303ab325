package model

// Field names an optional player attribute carried by an auxiliary table.
type Field string

// Optional player attributes.
const (
	FieldPosition        Field = "POSITION"
	FieldHeight          Field = "HEIGHT"
	FieldWeight          Field = "WEIGHT"
	FieldJersey          Field = "JERSEY_NUMBER"
	FieldUsagePct        Field = "USG_PCT"
	FieldTrueShootingPct Field = "TS_PCT"
)

// IndexFields are the attributes read from the player index table.
var IndexFields = []Field{FieldPosition, FieldHeight, FieldWeight, FieldJersey}

// AdvancedFields are the attributes read from the player advanced stats table.
var AdvancedFields = []Field{FieldUsagePct, FieldTrueShootingPct}

// FieldSet is the set of optional columns an auxiliary table provides.
// It is computed once when the table is ingested.
type FieldSet map[Field]struct{}

// NewFieldSet builds a set from fields.
func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f is present.
func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// AuxRecord holds the raw cells of one player's auxiliary row, keyed by field.
type AuxRecord map[Field]string

// AuxTable is an optional per-player table keyed by player id.
type AuxTable struct {
	Fields FieldSet
	Rows   map[int64]AuxRecord
}

// Lookup returns the record for playerID, if any.
func (t *AuxTable) Lookup(playerID int64) (AuxRecord, bool) {
	if t == nil {
		return nil, false
	}
	rec, ok := t.Rows[playerID]
	return rec, ok
}

// Has reports whether the table provides field f. A nil table provides nothing.
func (t *AuxTable) Has(f Field) bool {
	if t == nil {
		return false
	}
	return t.Fields.Has(f)
}
