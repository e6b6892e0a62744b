package ports

import (
	"context"
	"time"

	"route-weather-service/internal/domain"
)

// Contract for retrieving an hourly forecast covering [start, end] at a location.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64, start, end time.Time) (domain.WeatherSeries, error)
}
