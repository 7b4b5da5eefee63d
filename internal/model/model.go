package model

import (
	"time"

	"github.com/twpayne/go-geom"
)

// Sensor is a deduplicated point sensor in the planar CRS.
type Sensor struct {
	ID        int64       `json:"id"`
	Point     *geom.Point `json:"-"`
	SourceRow int         `json:"source_row"`
}

// SensorRecord is a raw sensor row as delivered by a loader, before
// deduplication. Geometry may be nil and may carry any source SRID.
type SensorRecord struct {
	ID        int64
	Point     *geom.Point
	SourceRow int
}

// LandUseParcel is a land-use polygon with its derived class.
type LandUseParcel struct {
	ID          int64
	RawCategory string
	Class       LandUseClass
	Polygon     geom.T // *geom.Polygon or *geom.MultiPolygon
}

// RoadSegment is a road centerline restricted to the whitelisted classes.
type RoadSegment struct {
	ID    int64
	Class RoadClass
	Line  geom.T // *geom.LineString or *geom.MultiLineString
}

// SensorBuffer is the fixed-radius circle around one sensor. Area is the
// analytic pi*r*r of the unclipped circle; Polygon is the ring approximation
// used for overlay.
type SensorBuffer struct {
	SensorID int64
	Polygon  *geom.Polygon
	Area     float64
}

// OverlayRecord is the summed intersection area between one sensor's buffer
// and all parcels of one class.
type OverlayRecord struct {
	SensorID int64
	Class    LandUseClass
	Area     float64
}

// ShareRecord is an OverlayRecord normalized to a fraction of buffer area.
type ShareRecord struct {
	SensorID int64
	Class    LandUseClass
	Share    float64
}

// FeatureRow is one output row keyed by sensor id. Nil entries are absent
// values; the zero-filled variant replaces nil shares with 0.
type FeatureRow struct {
	SensorID  int64                       `json:"sensor_id"`
	Distances [NumRoadClasses]*float64    `json:"distances"`
	Shares    [NumLandUseClasses]*float64 `json:"shares"`
}

// RunStatus is the lifecycle state of a stored pipeline run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one stored execution of the pipeline.
type Run struct {
	ID          string    `json:"id"`
	Status      RunStatus `json:"status"`
	SensorCount int       `json:"sensor_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
