package pipeline

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/airsense-labs/sensorfeat/internal/geometry"
	"github.com/airsense-labs/sensorfeat/internal/model"
)

// BuildBuffers constructs the fixed-radius circular buffer for every sensor.
// The recorded area is the analytic circle area pi*r*r; the polygon is the
// ring approximation used for overlay only.
func BuildBuffers(engine geometry.Engine, sensors []model.Sensor, radius float64, segments int) ([]model.SensorBuffer, error) {
	buffers := make([]model.SensorBuffer, 0, len(sensors))
	for _, s := range sensors {
		poly, err := engine.Buffer(s.Point, radius, segments)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: buffer sensor %d", s.ID)
		}
		buffers = append(buffers, model.SensorBuffer{
			SensorID: s.ID,
			Polygon:  poly,
			Area:     math.Pi * radius * radius,
		})
	}
	return buffers, nil
}
