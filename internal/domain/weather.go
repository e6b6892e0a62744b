package domain

import (
	"errors"
	"fmt"
	"time"
)

// WeatherSeries is the raw hourly forecast for one location.
// All slices are index-aligned and share the same length.
type WeatherSeries struct {
	Times           []time.Time
	TemperatureC    []float64
	PrecipitationMM []float64
	WeatherCode     []int
	WindSpeedKmh    []float64
}

// WeatherSample is a single-hour slice of a WeatherSeries.
type WeatherSample struct {
	Time            time.Time
	TemperatureC    float64
	PrecipitationMM float64
	WeatherCode     int
	WindSpeedKmh    float64
}

func (s WeatherSeries) Len() int { return len(s.Times) }

// Validate checks the parallel-slice and ordering invariants.
func (s WeatherSeries) Validate() error {
	n := len(s.Times)
	if len(s.TemperatureC) != n || len(s.PrecipitationMM) != n || len(s.WeatherCode) != n || len(s.WindSpeedKmh) != n {
		return fmt.Errorf(
			"weather series: length mismatch time=%d temperature=%d precipitation=%d code=%d wind=%d",
			n, len(s.TemperatureC), len(s.PrecipitationMM), len(s.WeatherCode), len(s.WindSpeedKmh),
		)
	}
	for i := 1; i < n; i++ {
		if !s.Times[i].After(s.Times[i-1]) {
			return errors.New("weather series: timestamps must be strictly increasing")
		}
	}
	return nil
}

// At returns the sample at index i.
func (s WeatherSeries) At(i int) WeatherSample {
	return WeatherSample{
		Time:            s.Times[i],
		TemperatureC:    s.TemperatureC[i],
		PrecipitationMM: s.PrecipitationMM[i],
		WeatherCode:     s.WeatherCode[i],
		WindSpeedKmh:    s.WindSpeedKmh[i],
	}
}
