package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/airsense-labs/sensorfeat/internal/geometry"
	"github.com/airsense-labs/sensorfeat/internal/model"
)

// AggregateOverlay intersects every buffer with the land-use parcels whose
// bounding boxes overlap it and sums exact intersection area per
// (sensor, class). Classes with zero overlap produce no record; zero-filling
// happens later in the pivot/join stages.
//
// Parcels of the same class that overlap each other double-count, since
// aggregation is a plain sum over parcels. Known limitation of the source
// data contract, not corrected here.
func AggregateOverlay(ctx context.Context, engine geometry.Engine, buffers []model.SensorBuffer, parcels []model.LandUseParcel, workers int) ([]model.OverlayRecord, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	// Index parcel positions once; read-only thereafter.
	var index geometry.Index[int]
	for i, parcel := range parcels {
		if err := geometry.RequirePlanar(parcel.Polygon); err != nil {
			return nil, eris.Wrapf(err, "pipeline: parcel %d", parcel.ID)
		}
		index.Insert(parcel.Polygon, i)
	}

	perSensor := make([][model.NumLandUseClasses]float64, len(buffers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, buf := range buffers {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			var areas [model.NumLandUseClasses]float64
			var candidates []int
			index.Search(buf.Polygon, func(idx int) bool {
				candidates = append(candidates, idx)
				return true
			})

			for _, idx := range candidates {
				parcel := parcels[idx]
				area, err := engine.IntersectionArea(parcel.Polygon, buf.Polygon)
				if err != nil {
					return eris.Wrapf(err, "pipeline: overlay sensor %d parcel %d", buf.SensorID, parcel.ID)
				}
				areas[parcel.Class] += area
			}
			perSensor[i] = areas
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Emit records in (sensor, class) order for deterministic downstream state.
	var records []model.OverlayRecord
	for i, buf := range buffers {
		for class, area := range perSensor[i] {
			if area > 0 {
				records = append(records, model.OverlayRecord{
					SensorID: buf.SensorID,
					Class:    model.LandUseClass(class),
					Area:     area,
				})
			}
		}
	}
	return records, nil
}
