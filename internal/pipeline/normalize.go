package pipeline

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/airsense-labs/sensorfeat/internal/model"
)

// shareDecimals is the rounding precision for buffer-share fractions.
const shareDecimals = 4

// NormalizeShares converts raw intersection areas to fractions of buffer
// area, rounded to four decimal places with standard half-away-from-zero
// rounding. Buffer area is strictly positive by construction; a non-positive
// area is a precondition violation that aborts the run naming the sensor.
func NormalizeShares(records []model.OverlayRecord, buffers []model.SensorBuffer) ([]model.ShareRecord, error) {
	areas := make(map[int64]float64, len(buffers))
	for _, buf := range buffers {
		areas[buf.SensorID] = buf.Area
	}

	shares := make([]model.ShareRecord, 0, len(records))
	for _, rec := range records {
		bufArea, ok := areas[rec.SensorID]
		if !ok {
			return nil, eris.Errorf("pipeline: overlay record for unknown sensor %d", rec.SensorID)
		}
		if bufArea <= 0 {
			return nil, eris.Errorf("pipeline: non-positive buffer area %v for sensor %d", bufArea, rec.SensorID)
		}
		shares = append(shares, model.ShareRecord{
			SensorID: rec.SensorID,
			Class:    rec.Class,
			Share:    roundPlaces(rec.Area/bufArea, shareDecimals),
		})
	}
	return shares, nil
}

// roundPlaces rounds half away from zero to the given number of decimals.
func roundPlaces(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}
