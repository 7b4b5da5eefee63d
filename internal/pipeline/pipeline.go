// Package pipeline composes the nine feature stages into a single batch
// computation: normalize CRS, register sensors, classify land use, build
// buffers, aggregate overlay, normalize shares, pivot, compute road
// proximity, and join.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/airsense-labs/sensorfeat/internal/geometry"
	"github.com/airsense-labs/sensorfeat/internal/landuse"
	"github.com/airsense-labs/sensorfeat/internal/model"
	"github.com/airsense-labs/sensorfeat/internal/roads"
	"github.com/airsense-labs/sensorfeat/internal/sensor"
)

// Fixed study constants. Nothing outside this block depends on the radius
// value.
const (
	// DefaultRadiusMeters is one mile.
	DefaultRadiusMeters = 1609.344
	// DefaultBufferSegments is the vertex count of the buffer ring. At 512
	// vertices the ring covers 99.9975% of the true circle, so a fully
	// covered buffer still rounds to a share of exactly 1.0 at four
	// decimals.
	DefaultBufferSegments = 512
	// DefaultWorkers bounds sensor-level parallelism.
	DefaultWorkers = 8
)

// Config tunes the pipeline; zero values fall back to the defaults above.
type Config struct {
	RadiusMeters   float64
	BufferSegments int
	Workers        int
}

// Inputs are the three source datasets in their native geographic CRS, as
// delivered by a loader.
type Inputs struct {
	Sensors []model.SensorRecord
	Parcels []model.LandUseParcel
	Roads   []model.RoadSegment
}

// Pipeline runs the whole computation as a pure function of its inputs plus
// the fixed constants. No state survives a run.
type Pipeline struct {
	engine geometry.Engine
	cfg    Config
}

// New creates a Pipeline with the given geometry engine.
func New(engine geometry.Engine, cfg Config) *Pipeline {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = DefaultRadiusMeters
	}
	if cfg.BufferSegments <= 0 {
		cfg.BufferSegments = DefaultBufferSegments
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Pipeline{engine: engine, cfg: cfg}
}

// Run executes all nine stages and returns the joined feature table.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*FeatureTable, error) {
	log := zap.L()
	log.Info("pipeline: starting feature build",
		zap.Int("sensors", len(in.Sensors)),
		zap.Int("parcels", len(in.Parcels)),
		zap.Int("roads", len(in.Roads)),
	)

	// Stage 1: reproject everything into the planar CRS.
	normalized, err := p.normalize(in)
	if err != nil {
		return nil, err
	}

	// Stage 2: deduplicate and index sensors.
	registry, err := sensor.BuildRegistry(normalized.Sensors)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build sensor registry")
	}
	sensors := registry.Sensors()
	log.Info("pipeline: sensor registry built", zap.Int("unique_sensors", registry.Len()))

	// Stage 3: recode land-use categories into the closed class set.
	parcels := landuse.ClassifyParcels(normalized.Parcels)

	// Stage 4: fixed-radius buffers.
	buffers, err := BuildBuffers(p.engine, sensors, p.cfg.RadiusMeters, p.cfg.BufferSegments)
	if err != nil {
		return nil, err
	}

	// Stage 5: overlay aggregation.
	overlays, err := AggregateOverlay(ctx, p.engine, buffers, parcels, p.cfg.Workers)
	if err != nil {
		return nil, err
	}
	log.Info("pipeline: overlay aggregated", zap.Int("records", len(overlays)))

	// Stage 6: areas to buffer-share fractions.
	shares, err := NormalizeShares(overlays, buffers)
	if err != nil {
		return nil, err
	}

	// Stage 7: long to wide.
	pivots := Pivot(shares)

	// Stage 8: nearest road distance per class.
	calc, err := roads.NewCalculator(p.engine, normalized.Roads, p.cfg.Workers)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: road calculator")
	}
	distances, err := calc.Distances(ctx, sensors)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: road distances")
	}

	// Stage 9: final join.
	table := Join(distances, pivots)
	log.Info("pipeline: feature table built", zap.Int("rows", table.Len()))
	return table, nil
}

// normalize reprojects all three datasets into the planar CRS. A geometry
// already planar passes through; any other SRID must round-trip through
// Project or the run aborts.
func (p *Pipeline) normalize(in Inputs) (Inputs, error) {
	out := Inputs{
		Sensors: make([]model.SensorRecord, 0, len(in.Sensors)),
		Parcels: make([]model.LandUseParcel, 0, len(in.Parcels)),
		Roads:   make([]model.RoadSegment, 0, len(in.Roads)),
	}

	for _, rec := range in.Sensors {
		if rec.Point == nil {
			// Null geometry rows are counted and dropped by the registry
			// builder; keep the record so that happens in one place.
			out.Sensors = append(out.Sensors, rec)
			continue
		}
		g, err := p.projectPlanar(rec.Point)
		if err != nil {
			return Inputs{}, eris.Wrapf(err, "pipeline: normalize sensor %d", rec.ID)
		}
		rec.Point = g.(*geom.Point)
		out.Sensors = append(out.Sensors, rec)
	}

	for _, parcel := range in.Parcels {
		if parcel.Polygon == nil {
			continue
		}
		g, err := p.projectPlanar(parcel.Polygon)
		if err != nil {
			return Inputs{}, eris.Wrapf(err, "pipeline: normalize parcel %d", parcel.ID)
		}
		parcel.Polygon = g
		out.Parcels = append(out.Parcels, parcel)
	}

	for _, seg := range in.Roads {
		if seg.Line == nil {
			continue
		}
		g, err := p.projectPlanar(seg.Line)
		if err != nil {
			return Inputs{}, eris.Wrapf(err, "pipeline: normalize road %d", seg.ID)
		}
		seg.Line = g
		out.Roads = append(out.Roads, seg)
	}

	return out, nil
}

func (p *Pipeline) projectPlanar(g geom.T) (geom.T, error) {
	if g.SRID() == geometry.PlanarSRID {
		return g, nil
	}
	return p.engine.Project(g)
}
