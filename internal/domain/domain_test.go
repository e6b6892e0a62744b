package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestHaversineMeters(t *testing.T) {
	milano := Coordinates{Lat: 45.4642, Lon: 9.19}
	torino := Coordinates{Lat: 45.0703, Lon: 7.6869}

	if d := HaversineMeters(milano, milano); d != 0 {
		t.Fatalf("same point = %v, want 0", d)
	}

	d := HaversineMeters(milano, torino)
	if d < 125000 || d > 127000 {
		t.Fatalf("Milano-Torino = %v m, want ~126 km", d)
	}
	if math.Abs(d-HaversineMeters(torino, milano)) > 1e-6 {
		t.Fatalf("distance is not symmetric")
	}

	// One degree of latitude along a meridian.
	want := earthRadiusMeters * math.Pi / 180
	if got := HaversineMeters(Coordinates{Lat: 0, Lon: 0}, Coordinates{Lat: 1, Lon: 0}); math.Abs(got-want) > 1e-6 {
		t.Fatalf("1 degree = %v, want %v", got, want)
	}
}

func TestCoordinatesValid(t *testing.T) {
	tests := []struct {
		c    Coordinates
		want bool
	}{
		{Coordinates{Lat: 45, Lon: 9}, true},
		{Coordinates{Lat: -90, Lon: 180}, true},
		{Coordinates{Lat: 90.1, Lon: 0}, false},
		{Coordinates{Lat: 0, Lon: -180.5}, false},
		{Coordinates{Lat: math.NaN(), Lon: 0}, false},
	}
	for _, tt := range tests {
		if got := tt.c.Valid(); got != tt.want {
			t.Fatalf("%+v.Valid() = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestPlaceNaming(t *testing.T) {
	c := Coordinates{Lat: 45.46421, Lon: 9.18999}

	tests := []struct {
		place     Place
		needsName bool
		label     string
	}{
		{Place{Name: "Milano", Coords: &c}, false, "Milano"},
		{Place{Name: "~km 50", Coords: &c}, true, "~km 50"},
		{Place{Coords: &c}, true, "45.4642, 9.1900"},
		{Place{RawToken: "Atlantide"}, true, "Atlantide"},
	}
	for _, tt := range tests {
		if got := tt.place.NeedsName(); got != tt.needsName {
			t.Fatalf("%+v NeedsName = %v, want %v", tt.place, got, tt.needsName)
		}
		if got := tt.place.Label(); got != tt.label {
			t.Fatalf("%+v Label = %q, want %q", tt.place, got, tt.label)
		}
	}

	p := Place{RawToken: "x"}
	q := p.WithCoords(c)
	if p.Resolved() || !q.Resolved() {
		t.Fatalf("WithCoords must return a resolved copy")
	}
}

func TestWeatherSeriesValidate(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ok := WeatherSeries{
		Times:           []time.Time{t0, t0.Add(time.Hour)},
		TemperatureC:    []float64{1, 2},
		PrecipitationMM: []float64{0, 0},
		WeatherCode:     []int{0, 1},
		WindSpeedKmh:    []float64{3, 4},
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ok.At(1); got.TemperatureC != 2 || got.WeatherCode != 1 {
		t.Fatalf("At(1) = %+v", got)
	}

	short := ok
	short.WindSpeedKmh = []float64{3}
	if err := short.Validate(); err == nil {
		t.Fatalf("expected length mismatch error")
	}

	unordered := ok
	unordered.Times = []time.Time{t0, t0}
	if err := unordered.Validate(); err == nil {
		t.Fatalf("expected ordering error")
	}
}

func TestRunError(t *testing.T) {
	cause := errors.New("upstream 503")
	err := NewRunError(ErrRouting, "the routing service failed", cause)

	if !errors.Is(err, ErrRouting) || !errors.Is(err, cause) {
		t.Fatalf("RunError must unwrap to kind and cause")
	}
	if UserMessage(err) != "the routing service failed" {
		t.Fatalf("UserMessage = %q", UserMessage(err))
	}
	if UserMessage(cause) != "internal error" {
		t.Fatalf("UserMessage(plain) = %q", UserMessage(cause))
	}
	if !errors.Is(ErrUnrecognizedLink, ErrParse) {
		t.Fatalf("ErrUnrecognizedLink must be a parse error")
	}
}

func TestWeatherCodeText(t *testing.T) {
	if got := WeatherCodeText(0); got == "" || got == "Weather code 0" {
		t.Fatalf("code 0 = %q, want a description", got)
	}
	if got := WeatherCodeText(42); got != "Weather code 42" {
		t.Fatalf("unknown code = %q", got)
	}
}

func TestNormalizeToken(t *testing.T) {
	if got := NormalizeToken("  Piazza+del++Duomo \t Milano "); got != "Piazza del Duomo Milano" {
		t.Fatalf("NormalizeToken = %q", got)
	}
}
