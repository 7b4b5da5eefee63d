package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/airsense-labs/sensorfeat/internal/geometry"
	"github.com/airsense-labs/sensorfeat/internal/model"
)

func planarLine(coords ...float64) *geom.LineString {
	line := geom.NewLineStringFlat(geom.XY, coords)
	line.SetSRID(geometry.PlanarSRID)
	return line
}

func TestRun_FullCoverageAndRoads(t *testing.T) {
	p := New(geometry.NewCaliforniaAlbers(), Config{})

	in := Inputs{
		Sensors: []model.SensorRecord{
			{ID: 1, Point: planarPoint(0, 0), SourceRow: 1},
		},
		Parcels: []model.LandUseParcel{
			{ID: 1, RawCategory: "forest", Polygon: planarRect(-5000, -5000, 5000, 5000)},
		},
		Roads: []model.RoadSegment{
			{ID: 1, Class: model.RoadPrimary, Line: planarLine(500, -10000, 500, 10000)},
		},
	}

	table, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	row := table.Rows(VariantRaw)[0]
	assert.Equal(t, int64(1), row.SensorID)

	// A parcel covering the whole buffer yields a share of exactly 1 after
	// rounding; every other class stays absent.
	require.NotNil(t, row.Shares[model.ClassForest])
	assert.Equal(t, 1.0, *row.Shares[model.ClassForest])
	for class, share := range row.Shares {
		if model.LandUseClass(class) == model.ClassForest {
			continue
		}
		assert.Nil(t, share)
	}

	require.NotNil(t, row.Distances[model.RoadPrimary])
	assert.InDelta(t, 500.0, *row.Distances[model.RoadPrimary], 1e-9)
	assert.Nil(t, row.Distances[model.RoadResidential])
	assert.Nil(t, row.Distances[model.RoadTertiary])
	assert.Nil(t, row.Distances[model.RoadSecondary])
}

func TestRun_PartialShares(t *testing.T) {
	p := New(geometry.NewCaliforniaAlbers(), Config{})

	in := Inputs{
		Sensors: []model.SensorRecord{
			{ID: 1, Point: planarPoint(0, 0), SourceRow: 1},
		},
		Parcels: []model.LandUseParcel{
			// Forest on the western half plane, grass on the northeast quadrant.
			{ID: 1, RawCategory: "forest", Polygon: planarRect(-5000, -5000, 0, 5000)},
			{ID: 2, RawCategory: "grass", Polygon: planarRect(0, 0, 5000, 5000)},
		},
		Roads: []model.RoadSegment{
			{ID: 1, Class: model.RoadResidential, Line: planarLine(0, -100, 100, -100)},
		},
	}

	table, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	row := table.Rows(VariantZeroFilled)[0]

	assert.Equal(t, 0.5, *row.Shares[model.ClassForest])
	assert.Equal(t, 0.25, *row.Shares[model.ClassGrass])
	assert.Equal(t, 0.0, *row.Shares[model.ClassOthers])
	assert.InDelta(t, 100.0, *row.Distances[model.RoadResidential], 1e-9)

	// Same inputs, same outputs.
	again, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, table.Rows(VariantZeroFilled), again.Rows(VariantZeroFilled))
}

func TestRun_DuplicateSensorKeepsLowestRow(t *testing.T) {
	p := New(geometry.NewCaliforniaAlbers(), Config{})

	in := Inputs{
		Sensors: []model.SensorRecord{
			{ID: 1, Point: planarPoint(5000, 0), SourceRow: 2},
			{ID: 1, Point: planarPoint(0, 0), SourceRow: 1},
		},
		Roads: []model.RoadSegment{
			{ID: 1, Class: model.RoadSecondary, Line: planarLine(100, -10000, 100, 10000)},
		},
	}

	table, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	// Distance reflects the first-row position, not the later duplicate.
	row := table.Rows(VariantRaw)[0]
	require.NotNil(t, row.Distances[model.RoadSecondary])
	assert.InDelta(t, 100.0, *row.Distances[model.RoadSecondary], 1e-9)
}

func TestRun_ProjectsGeographicInputs(t *testing.T) {
	p := New(geometry.NewCaliforniaAlbers(), Config{})

	pt := geom.NewPointFlat(geom.XY, []float64{-120, 38})
	pt.SetSRID(geometry.GeographicSRID)
	line := geom.NewLineStringFlat(geom.XY, []float64{-120, 37.5, -120, 38.5})
	line.SetSRID(geometry.GeographicSRID)

	in := Inputs{
		Sensors: []model.SensorRecord{{ID: 1, Point: pt, SourceRow: 1}},
		Roads:   []model.RoadSegment{{ID: 1, Class: model.RoadPrimary, Line: line}},
	}

	table, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	// Sensor sits on the central meridian, as does the road.
	row := table.Rows(VariantRaw)[0]
	require.NotNil(t, row.Distances[model.RoadPrimary])
	assert.InDelta(t, 0.0, *row.Distances[model.RoadPrimary], 1e-3)
}

func TestRun_NullGeometrySensorDropped(t *testing.T) {
	p := New(geometry.NewCaliforniaAlbers(), Config{})

	in := Inputs{
		Sensors: []model.SensorRecord{
			{ID: 1, Point: planarPoint(0, 0), SourceRow: 1},
			{ID: 2, Point: nil, SourceRow: 2},
		},
	}

	table, err := p.Run(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, int64(1), table.Rows(VariantRaw)[0].SensorID)
}
