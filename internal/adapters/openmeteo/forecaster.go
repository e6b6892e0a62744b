package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/httpx"
	"route-weather-service/internal/platform/obs"
)

const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

const hourlyVariables = "temperature_2m,precipitation,weathercode,wind_speed_10m"

// Open-Meteo hourly timestamps, always requested in GMT.
const timeLayout = "2006-01-02T15:04"

// Forecaster fetches hourly forecasts from the Open-Meteo forecast API.
type Forecaster struct {
	client   *httpx.Client
	endpoint string
}

func NewForecaster(client *httpx.Client, endpoint string) *Forecaster {
	if endpoint == "" {
		endpoint = DefaultForecastURL
	}
	return &Forecaster{client: client, endpoint: endpoint}
}

type forecastResponse struct {
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature2m []*float64 `json:"temperature_2m"`
		Precipitation []*float64 `json:"precipitation"`
		WeatherCode   []*float64 `json:"weathercode"`
		WindSpeed10m  []*float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}

// Forecast returns the hourly series covering the days of [start, end] in UTC.
// Hours with a missing variable are dropped.
func (f *Forecaster) Forecast(ctx context.Context, lat, lon float64, start, end time.Time) (_ domain.WeatherSeries, err error) {
	defer obs.Time(ctx, "openmeteo.Forecast")(&err)

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("hourly", hourlyVariables)
	q.Set("start_date", start.UTC().Format(time.DateOnly))
	q.Set("end_date", end.UTC().Format(time.DateOnly))
	q.Set("timezone", "GMT")

	var body forecastResponse
	if err := f.client.GetJSON(ctx, f.endpoint, q, &body); err != nil {
		return domain.WeatherSeries{}, fmt.Errorf("open-meteo forecast %.3f,%.3f: %w", lat, lon, err)
	}

	h := body.Hourly
	n := len(h.Time)
	if len(h.Temperature2m) != n || len(h.Precipitation) != n || len(h.WeatherCode) != n || len(h.WindSpeed10m) != n {
		return domain.WeatherSeries{}, fmt.Errorf("open-meteo forecast: hourly arrays have different lengths")
	}

	var s domain.WeatherSeries
	for i, raw := range h.Time {
		if h.Temperature2m[i] == nil || h.Precipitation[i] == nil || h.WeatherCode[i] == nil || h.WindSpeed10m[i] == nil {
			continue
		}
		t, err := time.ParseInLocation(timeLayout, raw, time.UTC)
		if err != nil {
			return domain.WeatherSeries{}, fmt.Errorf("open-meteo forecast: invalid time %q: %w", raw, err)
		}
		s.Times = append(s.Times, t)
		s.TemperatureC = append(s.TemperatureC, *h.Temperature2m[i])
		s.PrecipitationMM = append(s.PrecipitationMM, *h.Precipitation[i])
		s.WeatherCode = append(s.WeatherCode, int(*h.WeatherCode[i]))
		s.WindSpeedKmh = append(s.WindSpeedKmh, *h.WindSpeed10m[i])
	}

	if err := s.Validate(); err != nil {
		return domain.WeatherSeries{}, fmt.Errorf("open-meteo forecast: %w", err)
	}
	return s, nil
}
