package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"route-weather-service/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewRunError(domain.ErrParse, "bad link", nil), http.StatusBadRequest},
		{domain.NewRunError(domain.ErrExpansion, "short", nil), http.StatusUnprocessableEntity},
		{domain.NewRunError(domain.ErrGeocode, "where", nil), http.StatusUnprocessableEntity},
		{domain.NewRunError(domain.ErrRouting, "no route", nil), http.StatusBadGateway},
		{domain.NewRunError(domain.ErrWeatherFetch, "late", nil), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[float64]string{
		0:    "0 min",
		2520: "42 min",
		7500: "2 h 05 min",
		3599: "1 h 00 min",
	}
	for in, want := range tests {
		if got := formatDuration(in); got != want {
			t.Fatalf("formatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDepartAt(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	h := &TimelineHandler{Location: rome, Now: func() time.Time { return now }}

	got, err := h.parseDepartAt("")
	if err != nil || !got.Equal(now) {
		t.Fatalf("empty = %v, %v, want now", got, err)
	}

	got, err = h.parseDepartAt("2026-03-01T09:30")
	if err != nil {
		t.Fatalf("local: %v", err)
	}
	if want := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("local = %v, want %v", got, want)
	}

	got, err = h.parseDepartAt("2026-03-01T09:30:00Z")
	if err != nil || !got.Equal(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("rfc3339 = %v, %v", got, err)
	}

	if _, err := h.parseDepartAt("next monday"); err == nil {
		t.Fatalf("expected error")
	}
}
