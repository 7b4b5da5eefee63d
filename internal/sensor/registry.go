// Package sensor builds the deduplicated, spatially indexed sensor registry.
package sensor

import (
	"sort"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/airsense-labs/sensorfeat/internal/geometry"
	"github.com/airsense-labs/sensorfeat/internal/model"
)

// Registry holds one sensor per identifier, sorted by identifier, plus a
// read-only spatial index over the point set.
type Registry struct {
	sensors []model.Sensor
	index   geometry.Index[model.Sensor]
}

// BuildRegistry filters null-geometry records, deduplicates identifiers, and
// indexes the survivors. Duplicate identifiers keep the record with the
// lowest source row number, which makes re-runs over the same input
// deterministic. All points must already be in the planar CRS.
func BuildRegistry(records []model.SensorRecord) (*Registry, error) {
	best := make(map[int64]model.SensorRecord, len(records))
	var skipped, dupes int

	for _, rec := range records {
		if rec.Point == nil {
			skipped++
			continue
		}
		if err := geometry.RequirePlanar(rec.Point); err != nil {
			return nil, err
		}
		prev, seen := best[rec.ID]
		if seen {
			dupes++
			if rec.SourceRow >= prev.SourceRow {
				continue
			}
		}
		best[rec.ID] = rec
	}

	if skipped > 0 || dupes > 0 {
		zap.L().Debug("sensor: filtered raw records",
			zap.Int("null_geometry", skipped),
			zap.Int("duplicate_ids", dupes),
		)
	}

	reg := &Registry{sensors: make([]model.Sensor, 0, len(best))}
	for id, rec := range best {
		reg.sensors = append(reg.sensors, model.Sensor{
			ID:        id,
			Point:     rec.Point,
			SourceRow: rec.SourceRow,
		})
	}
	sort.Slice(reg.sensors, func(i, j int) bool { return reg.sensors[i].ID < reg.sensors[j].ID })

	for _, s := range reg.sensors {
		reg.index.Insert(s.Point, s)
	}
	return reg, nil
}

// Sensors returns the registry contents in ascending identifier order.
func (r *Registry) Sensors() []model.Sensor {
	return r.sensors
}

// Len returns the number of registered sensors.
func (r *Registry) Len() int {
	return len(r.sensors)
}

// Within invokes fn for every sensor whose point falls inside the bounding
// box of g. Returning false stops the scan.
func (r *Registry) Within(g geom.T, fn func(model.Sensor) bool) {
	r.index.Search(g, fn)
}
