package services

import (
	"testing"
	"time"

	"route-weather-service/internal/domain"
)

func hourlySeries(start time.Time, n int) domain.WeatherSeries {
	var s domain.WeatherSeries
	for i := 0; i < n; i++ {
		s.Times = append(s.Times, start.Add(time.Duration(i)*time.Hour))
		s.TemperatureC = append(s.TemperatureC, float64(10+i))
		s.PrecipitationMM = append(s.PrecipitationMM, 0)
		s.WeatherCode = append(s.WeatherCode, i)
		s.WindSpeedKmh = append(s.WindSpeedKmh, 5)
	}
	return s
}

func TestPickNearest(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeries(t0, 4)

	tests := []struct {
		name   string
		target time.Time
		want   int
	}{
		{"exact match", t0.Add(time.Hour), 1},
		{"closer to next", t0.Add(time.Hour + 40*time.Minute), 2},
		{"tie resolves to earlier", t0.Add(time.Hour + 30*time.Minute), 1},
		{"before range", t0.Add(-5 * time.Hour), 0},
		{"after range", t0.Add(48 * time.Hour), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickNearest(s, tt.target)
			if got == nil {
				t.Fatalf("expected a sample")
			}
			if !got.Time.Equal(s.Times[tt.want]) || got.WeatherCode != tt.want {
				t.Fatalf("picked %v (code %d), want index %d", got.Time, got.WeatherCode, tt.want)
			}
		})
	}
}

func TestPickNearestEmpty(t *testing.T) {
	if got := PickNearest(domain.WeatherSeries{}, time.Now()); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
