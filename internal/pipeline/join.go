package pipeline

import (
	"sort"

	"github.com/airsense-labs/sensorfeat/internal/model"
)

// Variant selects how absent land-use shares appear in the output.
type Variant string

const (
	// VariantRaw keeps absent shares as nil.
	VariantRaw Variant = "raw"
	// VariantZeroFilled coalesces absent shares to 0. Absent distances stay
	// absent in both variants.
	VariantZeroFilled Variant = "zero_filled"
)

// FeatureTable is the joined output. It holds the un-coalesced rows; both
// output variants are derived from the same state via Rows.
type FeatureTable struct {
	rows []model.FeatureRow
}

// Join left-joins the pivoted land-use rows onto the distance table by sensor
// identifier. The distance side carries one row per sensor, so its key set
// drives the output. Rows are ordered by sensor id ascending.
func Join(distances map[int64][model.NumRoadClasses]*float64, pivots []PivotRow) *FeatureTable {
	shares := make(map[int64][model.NumLandUseClasses]*float64, len(pivots))
	for _, p := range pivots {
		shares[p.SensorID] = p.Shares
	}

	rows := make([]model.FeatureRow, 0, len(distances))
	for id, dist := range distances {
		rows = append(rows, model.FeatureRow{
			SensorID:  id,
			Distances: dist,
			Shares:    shares[id],
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SensorID < rows[j].SensorID })
	return &FeatureTable{rows: rows}
}

// TableFromRows rebuilds a FeatureTable from stored un-coalesced rows, so
// both output variants can be derived after a round-trip through a store.
func TableFromRows(rows []model.FeatureRow) *FeatureTable {
	sorted := make([]model.FeatureRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SensorID < sorted[j].SensorID })
	return &FeatureTable{rows: sorted}
}

// Rows returns the feature rows in the requested variant. The zero-filled
// variant returns copies; the table itself is never mutated.
func (t *FeatureTable) Rows(v Variant) []model.FeatureRow {
	if v != VariantZeroFilled {
		return t.rows
	}
	out := make([]model.FeatureRow, len(t.rows))
	for i, row := range t.rows {
		filled := row
		for c := range filled.Shares {
			if filled.Shares[c] == nil {
				z := 0.0
				filled.Shares[c] = &z
			}
		}
		out[i] = filled
	}
	return out
}

// Len returns the number of output rows.
func (t *FeatureTable) Len() int {
	return len(t.rows)
}
