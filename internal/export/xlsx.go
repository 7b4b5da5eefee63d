// Package export writes the final feature table to spreadsheet files.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/airsense-labs/sensorfeat/internal/model"
)

// Header returns the fixed output column order: sensor id, the four distance
// columns, then the nineteen class-share columns.
func Header() []string {
	cols := []string{"sensor_id"}
	for _, rc := range model.RoadClasses() {
		cols = append(cols, rc.Column())
	}
	for _, lc := range model.LandUseClasses() {
		cols = append(cols, lc.String())
	}
	return cols
}

// WriteXLSX writes feature rows to an XLSX file with one sheet. Nil values
// become empty cells, which is how the raw variant represents absence.
func WriteXLSX(path, sheetName string, rows []model.FeatureRow) error {
	if sheetName == "" {
		sheetName = "features"
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Header() {
		header.AddCell().SetString(col)
	}

	for _, row := range rows {
		r := sheet.AddRow()
		r.AddCell().SetInt64(row.SensorID)
		for _, d := range row.Distances {
			addNullable(r, d)
		}
		for _, s := range row.Shares {
			addNullable(r, s)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func addNullable(r *xlsx.Row, v *float64) {
	cell := r.AddCell()
	if v != nil {
		cell.SetFloat(*v)
	}
}
