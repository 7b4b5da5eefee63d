package geometry

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Buffer returns the circular buffer polygon around a planar point as a
// regular counter-clockwise ring with the given number of segments. The ring
// is an approximation of the circle; callers that need the exact circle area
// should use math.Pi * radius * radius rather than the polygon area.
func (p *Albers) Buffer(pt *geom.Point, radius float64, segments int) (*geom.Polygon, error) {
	if err := RequirePlanar(pt); err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, eris.Errorf("geometry: buffer radius %v, want > 0", radius)
	}
	if segments < 8 {
		segments = 8
	}

	cx, cy := pt.X(), pt.Y()
	flat := make([]float64, 0, (segments+1)*2)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		flat = append(flat, cx+radius*math.Cos(angle), cy+radius*math.Sin(angle))
	}
	// Close the ring.
	flat = append(flat, flat[0], flat[1])

	poly := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(PlanarSRID)
	return poly, nil
}

// IntersectionArea returns the area of poly ∩ clip. The clip polygon must be
// convex (buffers are, by construction), which admits Sutherland-Hodgman
// clipping of each subject ring. Holes in the subject subtract their clipped
// area from the exterior's.
func (p *Albers) IntersectionArea(poly geom.T, clip *geom.Polygon) (float64, error) {
	if err := RequirePlanar(clip); err != nil {
		return 0, err
	}
	if err := RequirePlanar(poly); err != nil {
		return 0, err
	}

	clipRing := ringCoords(clip.FlatCoords(), 0, clip.Ends()[0])
	if signedArea(clipRing) < 0 {
		clipRing = reverseRing(clipRing)
	}

	switch t := poly.(type) {
	case *geom.Polygon:
		return polygonClipArea(t.FlatCoords(), t.Ends(), clipRing), nil
	case *geom.MultiPolygon:
		var total float64
		for i := 0; i < t.NumPolygons(); i++ {
			member := t.Polygon(i)
			total += polygonClipArea(member.FlatCoords(), member.Ends(), clipRing)
		}
		return total, nil
	default:
		return 0, eris.Errorf("geometry: intersection unsupported type %T", poly)
	}
}

// Distance returns the minimum distance from a planar point to a linestring
// or multilinestring.
func (p *Albers) Distance(pt *geom.Point, line geom.T) (float64, error) {
	if err := RequirePlanar(pt); err != nil {
		return 0, err
	}
	if err := RequirePlanar(line); err != nil {
		return 0, err
	}

	c := geom.Coord{pt.X(), pt.Y()}
	switch t := line.(type) {
	case *geom.LineString:
		return xy.DistanceFromPointToLineString(t.Layout(), c, t.FlatCoords()), nil
	case *geom.MultiLineString:
		best := math.Inf(1)
		for i := 0; i < t.NumLineStrings(); i++ {
			ls := t.LineString(i)
			if d := xy.DistanceFromPointToLineString(ls.Layout(), c, ls.FlatCoords()); d < best {
				best = d
			}
		}
		return best, nil
	default:
		return 0, eris.Errorf("geometry: distance unsupported type %T", line)
	}
}

// polygonClipArea clips each ring of one polygon against the convex clip ring
// and returns exterior area minus hole areas, clamped at zero.
func polygonClipArea(flat []float64, ends []int, clipRing [][2]float64) float64 {
	if len(ends) == 0 {
		return 0
	}
	area := clippedRingArea(ringCoords(flat, 0, ends[0]), clipRing)
	for i := 1; i < len(ends); i++ {
		area -= clippedRingArea(ringCoords(flat, ends[i-1], ends[i]), clipRing)
	}
	if area < 0 {
		return 0
	}
	return area
}

func clippedRingArea(subject, clipRing [][2]float64) float64 {
	out := clipConvex(subject, clipRing)
	return math.Abs(signedArea(out))
}

// ringCoords converts a closed flat ring to coordinate pairs, dropping the
// repeated closing vertex.
func ringCoords(flat []float64, start, end int) [][2]float64 {
	n := (end - start) / 2
	coords := make([][2]float64, 0, n)
	for i := start; i+1 < end; i += 2 {
		coords = append(coords, [2]float64{flat[i], flat[i+1]})
	}
	if len(coords) > 1 && coords[0] == coords[len(coords)-1] {
		coords = coords[:len(coords)-1]
	}
	return coords
}

func reverseRing(ring [][2]float64) [][2]float64 {
	out := make([][2]float64, len(ring))
	for i, c := range ring {
		out[len(ring)-1-i] = c
	}
	return out
}

// signedArea is the shoelace area of an unclosed ring; positive for
// counter-clockwise winding.
func signedArea(ring [][2]float64) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return sum / 2
}

// clipConvex is Sutherland-Hodgman clipping of an arbitrary subject ring
// against a convex counter-clockwise clip ring.
func clipConvex(subject, clipRing [][2]float64) [][2]float64 {
	output := subject
	for i := range clipRing {
		if len(output) == 0 {
			return nil
		}
		a := clipRing[i]
		b := clipRing[(i+1)%len(clipRing)]

		input := output
		output = nil
		for j := range input {
			cur := input[j]
			prev := input[(j+len(input)-1)%len(input)]

			curIn := insideEdge(a, b, cur)
			prevIn := insideEdge(a, b, prev)

			switch {
			case curIn && prevIn:
				output = append(output, cur)
			case curIn && !prevIn:
				output = append(output, edgeIntersection(a, b, prev, cur), cur)
			case !curIn && prevIn:
				output = append(output, edgeIntersection(a, b, prev, cur))
			}
		}
	}
	return output
}

// insideEdge reports whether p lies on the interior side of the directed clip
// edge a->b (left of it, for a counter-clockwise clip ring).
func insideEdge(a, b, p [2]float64) bool {
	return (b[0]-a[0])*(p[1]-a[1])-(b[1]-a[1])*(p[0]-a[0]) >= 0
}

// edgeIntersection returns the intersection of segment p->q with the infinite
// line through a->b. Callers only invoke it when p and q straddle the line,
// so the denominator is nonzero.
func edgeIntersection(a, b, p, q [2]float64) [2]float64 {
	a1 := b[1] - a[1]
	b1 := a[0] - b[0]
	c1 := a1*a[0] + b1*a[1]

	a2 := q[1] - p[1]
	b2 := p[0] - q[0]
	c2 := a2*p[0] + b2*p[1]

	det := a1*b2 - a2*b1
	return [2]float64{(b2*c1 - b1*c2) / det, (a1*c2 - a2*c1) / det}
}
