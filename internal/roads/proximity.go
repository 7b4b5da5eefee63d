// Package roads computes nearest-road distances per sensor and road class.
package roads

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/airsense-labs/sensorfeat/internal/geometry"
	"github.com/airsense-labs/sensorfeat/internal/model"
)

// DefaultWorkers bounds parallel sensors when the caller passes zero.
const DefaultWorkers = 8

// Calculator finds, for each sensor, the minimum Euclidean distance to any
// segment of each whitelisted road class. Segment collections are grouped by
// class once and treated as read-only.
type Calculator struct {
	engine  geometry.Engine
	byClass [model.NumRoadClasses][]model.RoadSegment
	workers int
}

// NewCalculator groups segments by class. All segment geometries must already
// be in the planar CRS.
func NewCalculator(engine geometry.Engine, segments []model.RoadSegment, workers int) (*Calculator, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	c := &Calculator{engine: engine, workers: workers}
	for _, seg := range segments {
		if err := geometry.RequirePlanar(seg.Line); err != nil {
			return nil, err
		}
		c.byClass[seg.Class] = append(c.byClass[seg.Class], seg)
	}
	return c, nil
}

// Distances returns one entry per sensor with the per-class minimum distance.
// A class with no segments anywhere in the dataset yields a nil entry for
// every sensor: absent, not zero. Sensors are processed in parallel; each
// result slot is owned by exactly one goroutine.
func (c *Calculator) Distances(ctx context.Context, sensors []model.Sensor) (map[int64][model.NumRoadClasses]*float64, error) {
	results := make([][model.NumRoadClasses]*float64, len(sensors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, s := range sensors {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			row, err := c.sensorDistances(s)
			if err != nil {
				return err
			}
			results[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int64][model.NumRoadClasses]*float64, len(sensors))
	for i, s := range sensors {
		out[s.ID] = results[i]
	}
	return out, nil
}

func (c *Calculator) sensorDistances(s model.Sensor) ([model.NumRoadClasses]*float64, error) {
	var row [model.NumRoadClasses]*float64
	for class := range c.byClass {
		segments := c.byClass[class]
		if len(segments) == 0 {
			continue
		}
		var best *float64
		for _, seg := range segments {
			d, err := c.engine.Distance(s.Point, seg.Line)
			if err != nil {
				return row, err
			}
			if best == nil || d < *best {
				v := d
				best = &v
			}
		}
		row[class] = best
	}
	return row, nil
}
