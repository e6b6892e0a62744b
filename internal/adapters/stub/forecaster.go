package stub

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"route-weather-service/internal/domain"
)

// Forecaster produces an hourly series derived from the location and hour,
// so identical inputs always give identical samples.
type Forecaster struct {
	Err   error
	calls atomic.Int64
}

func NewForecaster() *Forecaster { return &Forecaster{} }

func (f *Forecaster) Forecast(ctx context.Context, lat, lon float64, start, end time.Time) (domain.WeatherSeries, error) {
	f.calls.Add(1)
	if f.Err != nil {
		return domain.WeatherSeries{}, f.Err
	}

	var s domain.WeatherSeries
	for t := start.UTC().Truncate(time.Hour); !t.After(end); t = t.Add(time.Hour) {
		h := float64(t.Hour())
		s.Times = append(s.Times, t)
		s.TemperatureC = append(s.TemperatureC, math.Round((20-math.Abs(lat-45)+5*math.Sin(h/24*2*math.Pi))*10)/10)
		s.PrecipitationMM = append(s.PrecipitationMM, 0)
		s.WeatherCode = append(s.WeatherCode, int(math.Abs(lon))%4)
		s.WindSpeedKmh = append(s.WindSpeedKmh, 10+h/2)
	}
	return s, nil
}

func (f *Forecaster) Calls() int { return int(f.calls.Load()) }
