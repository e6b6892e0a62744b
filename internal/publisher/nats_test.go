package publisher

import (
	"testing"
	"time"

	"route-weather-service/internal/domain"
)

func TestNewTimelineMessage(t *testing.T) {
	depart := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	milano := domain.Coordinates{Lat: 45.4642, Lon: 9.19}
	torino := domain.Coordinates{Lat: 45.0703, Lon: 7.6869}

	tl := &domain.Timeline{
		Kind:                 domain.LinkDirections,
		Profile:              "driving",
		DepartAt:             depart,
		TotalDistanceMeters:  140000,
		TotalDurationSeconds: 5400,
		Points: []domain.TimelinePoint{
			{Kind: domain.KindStart, Place: domain.Place{Name: "Milano", Coords: &milano}, ArriveAt: depart,
				Weather: &domain.WeatherSample{TemperatureC: 12.5, WeatherCode: 3}},
			{Kind: domain.KindCheckpoint, Place: domain.Place{Name: "~km 50", Coords: &milano}, ArriveAt: depart.Add(time.Hour)},
			{Kind: domain.KindLegEnd, Place: domain.Place{Coords: &torino}, ArriveAt: depart.Add(90 * time.Minute), CumulativeKm: 140},
		},
		Warnings: []string{"no forecast for ~km 50"},
	}

	msg := NewTimelineMessage("run-1", tl)

	if msg.Points != 3 || msg.Warnings != 1 {
		t.Fatalf("points = %d, warnings = %d", msg.Points, msg.Warnings)
	}
	if len(msg.Stops) != 2 {
		t.Fatalf("stops = %d, want 2 (checkpoints excluded)", len(msg.Stops))
	}
	if msg.Stops[0].TemperatureC == nil || *msg.Stops[0].TemperatureC != 12.5 {
		t.Fatalf("stop[0] temperature = %v", msg.Stops[0].TemperatureC)
	}
	if msg.Stops[1].Name != "45.0703, 7.6869" {
		t.Fatalf("stop[1] name = %q, want coordinate label", msg.Stops[1].Name)
	}
	if msg.Stops[1].WeatherCode != nil {
		t.Fatalf("stop[1] weather should be empty")
	}
}

func TestSubjectToken(t *testing.T) {
	tests := map[string]string{
		"timeline.computed":  "timeline.computed",
		" timeline.*.x ":     "timeline._.x",
		"timeline computed.": "timeline_computed",
		"":                   "_",
	}
	for in, want := range tests {
		if got := SubjectToken(in); got != want {
			t.Fatalf("SubjectToken(%q) = %q, want %q", in, got, want)
		}
	}
}
