package services

import (
	"time"

	"route-weather-service/internal/domain"
)

// PickNearest returns the sample whose timestamp is closest to target.
//
// Ties resolve to the earliest index. Targets outside the covered range get the
// nearest boundary sample; there is no extrapolation.
func PickNearest(series domain.WeatherSeries, target time.Time) *domain.WeatherSample {
	if series.Len() == 0 {
		return nil
	}

	best := 0
	bestDiff := absDuration(series.Times[0].Sub(target))
	for i := 1; i < len(series.Times); i++ {
		if d := absDuration(series.Times[i].Sub(target)); d < bestDiff {
			best, bestDiff = i, d
		}
	}

	s := series.At(best)
	return &s
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
