// Package geometry provides the planar geometry capability used by the
// feature pipeline: projection into the study CRS, circular buffers,
// intersection areas, point-to-line distances, and a spatial index.
package geometry

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// SRIDs for the study area. Source data arrives geographic; all measurement
// happens in California Albers meters.
const (
	GeographicSRID = 4326
	PlanarSRID     = 3310
)

// Engine is the geometry capability injected into the pipeline stages, so the
// stage logic is independent of the underlying geometry implementation.
type Engine interface {
	// Project reprojects a geographic geometry into the planar CRS.
	Project(g geom.T) (geom.T, error)
	// Buffer returns the circular buffer polygon around a planar point.
	Buffer(p *geom.Point, radius float64, segments int) (*geom.Polygon, error)
	// IntersectionArea returns the area of poly ∩ clip, where clip is a
	// convex polygon (a buffer).
	IntersectionArea(poly geom.T, clip *geom.Polygon) (float64, error)
	// Distance returns the minimum distance from a planar point to a
	// linestring or multilinestring.
	Distance(p *geom.Point, line geom.T) (float64, error)
}

// RequirePlanar verifies that a geometry is tagged with the planar SRID.
// Mixing CRSs between compared geometries corrupts every downstream area and
// distance, so this is checked before any geometric computation.
func RequirePlanar(g geom.T) error {
	if g == nil {
		return eris.New("geometry: nil geometry")
	}
	if g.SRID() != PlanarSRID {
		return eris.Errorf("geometry: SRID %d, want planar %d", g.SRID(), PlanarSRID)
	}
	return nil
}
