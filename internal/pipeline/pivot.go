package pipeline

import (
	"sort"

	"github.com/airsense-labs/sensorfeat/internal/model"
)

// PivotRow is one sensor's wide-format land-use shares. Classes with no
// share record are nil in this un-coalesced form.
type PivotRow struct {
	SensorID int64
	Shares   [model.NumLandUseClasses]*float64
}

// Pivot reshapes long (sensor, class, share) records into one row per sensor
// with one slot per class in fixed enumeration order. Only sensors present in
// the input produce rows; sensors absent from every overlay are resolved in
// the final join. Output is sorted by sensor identifier.
func Pivot(records []model.ShareRecord) []PivotRow {
	bySensor := make(map[int64]*PivotRow)
	for _, rec := range records {
		row, ok := bySensor[rec.SensorID]
		if !ok {
			row = &PivotRow{SensorID: rec.SensorID}
			bySensor[rec.SensorID] = row
		}
		v := rec.Share
		row.Shares[rec.Class] = &v
	}

	rows := make([]PivotRow, 0, len(bySensor))
	for _, row := range bySensor {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SensorID < rows[j].SensorID })
	return rows
}
