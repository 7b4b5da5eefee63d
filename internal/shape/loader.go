// Package shape loads sensor, land-use, and road shapefiles into typed
// geometric records for the pipeline. Rows with null or malformed geometry
// are skipped silently; skip counts surface at debug level.
package shape

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/airsense-labs/sensorfeat/internal/model"
)

// Default attribute field names for the three sources.
const (
	DefaultSensorIDField = "sensor_id"
	DefaultLandUseField  = "landuse"
	DefaultHighwayField  = "highway"
	DefaultParcelIDField = "osm_id"
	DefaultRoadIDField   = "osm_id"
)

// fieldIndex builds a lowercase field name → column index map.
func fieldIndex(reader *shp.Reader) map[string]int {
	fields := reader.Fields()
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		idx[strings.ToLower(name)] = i
	}
	return idx
}

func attribute(reader *shp.Reader, idx map[string]int, field string) (string, bool) {
	i, ok := idx[strings.ToLower(field)]
	if !ok {
		return "", false
	}
	val := strings.TrimRight(reader.Attribute(i), "\x00")
	return strings.TrimSpace(val), true
}

// LoadSensors reads sensor points. SourceRow records the shapefile row
// number, which the registry uses as the deterministic dedupe tie-break.
func LoadSensors(path, idField string) ([]model.SensorRecord, error) {
	if idField == "" {
		idField = DefaultSensorIDField
	}
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shape: open sensors %s", path)
	}
	defer func() { _ = reader.Close() }()

	idx := fieldIndex(reader)
	var records []model.SensorRecord
	var skipped int
	row := 0

	for reader.Next() {
		row++
		_, sh := reader.Shape()

		raw, ok := attribute(reader, idx, idField)
		if !ok {
			return nil, eris.Errorf("shape: sensors missing field %q", idField)
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			skipped++
			continue
		}

		pt, _ := sh.(*shp.Point)
		records = append(records, model.SensorRecord{
			ID:        id,
			Point:     pointGeom(pt),
			SourceRow: row,
		})
	}

	if skipped > 0 {
		zap.L().Debug("shape: skipped sensor rows", zap.Int("skipped", skipped))
	}
	return records, nil
}

// LoadLandUse reads land-use polygons with their raw category label. The
// class is assigned later by the classifier.
func LoadLandUse(path, idField, categoryField string) ([]model.LandUseParcel, error) {
	if idField == "" {
		idField = DefaultParcelIDField
	}
	if categoryField == "" {
		categoryField = DefaultLandUseField
	}
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shape: open land use %s", path)
	}
	defer func() { _ = reader.Close() }()

	idx := fieldIndex(reader)
	var parcels []model.LandUseParcel
	var skipped int
	row := 0

	for reader.Next() {
		row++
		_, sh := reader.Shape()

		poly, _ := sh.(*shp.Polygon)
		g := polygonGeom(poly)
		if g == nil {
			skipped++
			continue
		}

		category, _ := attribute(reader, idx, categoryField)
		parcels = append(parcels, model.LandUseParcel{
			ID:          parseID(reader, idx, idField, row),
			RawCategory: category,
			Polygon:     g,
		})
	}

	if skipped > 0 {
		zap.L().Debug("shape: skipped land-use rows", zap.Int("skipped", skipped))
	}
	return parcels, nil
}

// LoadRoads reads road centerlines, keeping only the whitelisted highway
// classes. Everything else is filtered at load time, not an error.
func LoadRoads(path, idField, categoryField string) ([]model.RoadSegment, error) {
	if idField == "" {
		idField = DefaultRoadIDField
	}
	if categoryField == "" {
		categoryField = DefaultHighwayField
	}
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shape: open roads %s", path)
	}
	defer func() { _ = reader.Close() }()

	idx := fieldIndex(reader)
	var segments []model.RoadSegment
	var skipped, filtered int
	row := 0

	for reader.Next() {
		row++
		_, sh := reader.Shape()

		category, _ := attribute(reader, idx, categoryField)
		class, ok := model.ParseRoadClass(category)
		if !ok {
			filtered++
			continue
		}

		line, _ := sh.(*shp.PolyLine)
		g := polyLineGeom(line)
		if g == nil {
			skipped++
			continue
		}

		segments = append(segments, model.RoadSegment{
			ID:    parseID(reader, idx, idField, row),
			Class: class,
			Line:  g,
		})
	}

	if skipped > 0 || filtered > 0 {
		zap.L().Debug("shape: skipped road rows",
			zap.Int("null_geometry", skipped),
			zap.Int("outside_whitelist", filtered),
		)
	}
	return segments, nil
}

// parseID reads an integer identifier attribute, falling back to the row
// number when the field is missing or unparsable. Parcel and road ids only
// label log lines and known-limitation records, so a synthetic id is fine.
func parseID(reader *shp.Reader, idx map[string]int, field string, row int) int64 {
	raw, ok := attribute(reader, idx, field)
	if !ok {
		return int64(row)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return int64(row)
	}
	return id
}
