package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"route-weather-service/internal/platform/httpx"
)

func newClient() *httpx.Client {
	return httpx.NewClient("test-agent", 2*time.Second, httpx.WithRetry(1, 0))
}

func TestGeocoderGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("name") != "Milano" || q.Get("count") != "1" || q.Get("language") != "it" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("user agent = %q, want test-agent", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"name":"Milano","latitude":45.46427,"longitude":9.18951,"country_code":"IT","admin1":"Lombardia","admin2":"Milano"}]}`))
	}))
	defer srv.Close()

	g := NewGeocoder(newClient(), srv.URL, "it")
	res, err := g.Geocode(context.Background(), "Milano")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil {
		t.Fatalf("expected a result")
	}
	if res.Name != "Milano" || res.AdminRegionCode != "MI" {
		t.Fatalf("result = %+v, want Milano/MI", res)
	}
	if res.Coords.Lat != 45.46427 || res.Coords.Lon != 9.18951 {
		t.Fatalf("coords = %+v", res.Coords)
	}
}

func TestGeocoderNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generationtime_ms":0.2}`))
	}))
	defer srv.Close()

	res, err := NewGeocoder(newClient(), srv.URL, "").Geocode(context.Background(), "Nowhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result, got %+v", res)
	}
}

func TestGeocoderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewGeocoder(newClient(), srv.URL, "").Geocode(context.Background(), "Milano"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestForecasterForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("start_date") != "2026-03-01" || q.Get("end_date") != "2026-03-02" {
			t.Errorf("unexpected window: %s", r.URL.RawQuery)
		}
		if q.Get("timezone") != "GMT" || q.Get("hourly") != hourlyVariables {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"hourly":{
			"time":["2026-03-01T00:00","2026-03-01T01:00","2026-03-01T02:00"],
			"temperature_2m":[5.1,null,4.2],
			"precipitation":[0,0.1,0.3],
			"weathercode":[1,3,61],
			"wind_speed_10m":[7.2,8,9.5]}}`))
	}))
	defer srv.Close()

	f := NewForecaster(newClient(), srv.URL)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s, err := f.Forecast(context.Background(), 45.0, 9.0, start, start.Add(20*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2 (null hour dropped)", s.Len())
	}
	want := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	if !s.Times[1].Equal(want) {
		t.Fatalf("times[1] = %v, want %v", s.Times[1], want)
	}
	if s.WeatherCode[1] != 61 || s.TemperatureC[1] != 4.2 {
		t.Fatalf("sample[1] = %+v", s.At(1))
	}
}

func TestForecasterRejectsMisalignedArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly":{"time":["2026-03-01T00:00"],"temperature_2m":[],"precipitation":[0],"weathercode":[1],"wind_speed_10m":[2]}}`))
	}))
	defer srv.Close()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := NewForecaster(newClient(), srv.URL).Forecast(context.Background(), 45, 9, now, now); err == nil {
		t.Fatalf("expected error")
	}
}
