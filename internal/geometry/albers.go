package geometry

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Albers implements Engine over an ellipsoidal Albers equal-area conic
// projection. The default parameters are NAD83 / California Albers
// (EPSG:3310), which keeps areas and distances in meters valid across the
// study area.
type Albers struct {
	originLat, originLon float64 // radians
	falseEasting         float64
	falseNorthing        float64

	// derived projection constants
	a  float64 // semi-major axis
	e  float64 // eccentricity
	e2 float64 // eccentricity squared
	n  float64
	c  float64
	r0 float64
}

// GRS80 ellipsoid.
const (
	grs80SemiMajor  = 6378137.0
	grs80Flattening = 1.0 / 298.257222101
)

// NewCaliforniaAlbers returns the EPSG:3310 projection.
func NewCaliforniaAlbers() *Albers {
	return NewAlbers(0, -120, 34, 40.5, 0, -4000000)
}

// NewAlbers builds an Albers projection on the GRS80 ellipsoid from origin
// latitude/longitude, two standard parallels, and false origin offsets, all
// in degrees and meters.
func NewAlbers(originLat, originLon, parallel1, parallel2, falseEasting, falseNorthing float64) *Albers {
	p := &Albers{
		originLat:     rad(originLat),
		originLon:     rad(originLon),
		falseEasting:  falseEasting,
		falseNorthing: falseNorthing,
		a:             grs80SemiMajor,
	}
	p.e2 = grs80Flattening * (2 - grs80Flattening)
	p.e = math.Sqrt(p.e2)

	phi1 := rad(parallel1)
	phi2 := rad(parallel2)
	m1 := p.m(phi1)
	m2 := p.m(phi2)
	q0 := p.q(p.originLat)
	q1 := p.q(phi1)
	q2 := p.q(phi2)

	p.n = (m1*m1 - m2*m2) / (q2 - q1)
	p.c = m1*m1 + p.n*q1
	p.r0 = p.a * math.Sqrt(p.c-p.n*q0) / p.n
	return p
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// m is the Snyder auxiliary cos(phi)/sqrt(1 - e^2 sin^2 phi).
func (p *Albers) m(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-p.e2*s*s)
}

// q is the Snyder authalic latitude auxiliary.
func (p *Albers) q(phi float64) float64 {
	s := math.Sin(phi)
	return (1 - p.e2) * (s/(1-p.e2*s*s) - (1/(2*p.e))*math.Log((1-p.e*s)/(1+p.e*s)))
}

// forward projects a single lon/lat pair (degrees) to planar x/y meters.
func (p *Albers) forward(lon, lat float64) (x, y float64) {
	q := p.q(rad(lat))
	rho := p.a * math.Sqrt(p.c-p.n*q) / p.n
	theta := p.n * (rad(lon) - p.originLon)
	x = p.falseEasting + rho*math.Sin(theta)
	y = p.falseNorthing + p.r0 - rho*math.Cos(theta)
	return x, y
}

// Project reprojects a geographic (lon/lat) geometry into the planar CRS.
// The input must carry the geographic SRID; the output carries the planar
// SRID. Supported types are those the loaders produce.
func (p *Albers) Project(g geom.T) (geom.T, error) {
	if g == nil {
		return nil, eris.New("geometry: project nil geometry")
	}
	if g.SRID() != GeographicSRID {
		return nil, eris.Errorf("geometry: project SRID %d, want %d", g.SRID(), GeographicSRID)
	}

	stride := g.Layout().Stride()
	flat := p.projectFlat(g.FlatCoords(), stride)

	switch t := g.(type) {
	case *geom.Point:
		return geom.NewPointFlat(geom.XY, flat).SetSRID(PlanarSRID), nil
	case *geom.LineString:
		return geom.NewLineStringFlat(geom.XY, flat).SetSRID(PlanarSRID), nil
	case *geom.MultiLineString:
		return geom.NewMultiLineStringFlat(geom.XY, flat, rescaleEnds(t.Ends(), stride)).SetSRID(PlanarSRID), nil
	case *geom.Polygon:
		return geom.NewPolygonFlat(geom.XY, flat, rescaleEnds(t.Ends(), stride)).SetSRID(PlanarSRID), nil
	case *geom.MultiPolygon:
		endss := t.Endss()
		out := make([][]int, len(endss))
		for i, ends := range endss {
			out[i] = rescaleEnds(ends, stride)
		}
		return geom.NewMultiPolygonFlat(geom.XY, flat, out).SetSRID(PlanarSRID), nil
	default:
		return nil, eris.Errorf("geometry: project unsupported type %T", g)
	}
}

// rescaleEnds converts flat-coordinate end offsets from the source stride to
// the XY stride of the projected coordinates.
func rescaleEnds(ends []int, stride int) []int {
	if stride == 2 {
		return ends
	}
	out := make([]int, len(ends))
	for i, e := range ends {
		out[i] = e / stride * 2
	}
	return out
}

// projectFlat transforms flat lon/lat coordinate pairs to planar pairs.
// Extra dimensions beyond XY are dropped.
func (p *Albers) projectFlat(flat []float64, stride int) []float64 {
	out := make([]float64, 0, len(flat)/stride*2)
	for i := 0; i+stride <= len(flat); i += stride {
		x, y := p.forward(flat[i], flat[i+1])
		out = append(out, x, y)
	}
	return out
}
