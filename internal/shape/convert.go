package shape

import (
	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/airsense-labs/sensorfeat/internal/geometry"
)

// pointGeom converts a shapefile point to a geographic go-geom point.
func pointGeom(p *shp.Point) *geom.Point {
	if p == nil {
		return nil
	}
	return geom.NewPointFlat(geom.XY, []float64{p.X, p.Y}).SetSRID(geometry.GeographicSRID)
}

// polyLineGeom converts a shapefile polyline to a geographic multilinestring.
// Returns nil for empty or fully malformed shapes.
func polyLineGeom(pl *shp.PolyLine) geom.T {
	if pl == nil || pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	mls := geom.NewMultiLineString(geom.XY).SetSRID(geometry.GeographicSRID)
	for i := int32(0); i < pl.NumParts; i++ {
		start := pl.Parts[i]
		end := int32(len(pl.Points))
		if i+1 < pl.NumParts {
			end = pl.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, pl.Points[j].X, pl.Points[j].Y)
		}

		ls := geom.NewLineStringFlat(geom.XY, flat)
		if err := mls.Push(ls); err != nil {
			zap.L().Debug("shape: skipping malformed linestring part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mls.NumLineStrings() == 0 {
		return nil
	}
	return mls
}

// polygonGeom converts a shapefile polygon to a geographic multipolygon.
// Shapefile winding distinguishes ring roles: clockwise rings are outer
// boundaries, counter-clockwise rings are holes in the preceding outer ring.
// A leading counter-clockwise ring still starts a polygon, since some
// exporters ignore the convention for hole-free shapes.
func polygonGeom(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(geometry.GeographicSRID)
	var cur *geom.Polygon
	flush := func() {
		if cur == nil {
			return
		}
		if err := mp.Push(cur); err != nil {
			zap.L().Debug("shape: skipping malformed polygon part", zap.Error(err))
		}
		cur = nil
	}

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		if ringIsHole(flat) && cur != nil {
			if err := cur.Push(ring); err != nil {
				zap.L().Debug("shape: skipping malformed hole ring", zap.Int32("part", i), zap.Error(err))
			}
			continue
		}

		flush()
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("shape: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		cur = poly
	}
	flush()

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// ringIsHole reports counter-clockwise winding, which marks a hole ring in
// the shapefile convention. Computed as a positive shoelace sum over the
// closed flat ring.
func ringIsHole(flat []float64) bool {
	if len(flat) < 6 {
		return false
	}
	var sum float64
	n := len(flat)
	for i := 0; i+3 < n; i += 2 {
		sum += flat[i]*flat[i+3] - flat[i+2]*flat[i+1]
	}
	// Close the ring if the source did not repeat the first vertex.
	if flat[0] != flat[n-2] || flat[1] != flat[n-1] {
		sum += flat[n-2]*flat[1] - flat[0]*flat[n-1]
	}
	return sum > 0
}
