package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "PROVIDER", "GOOGLE_MAPS_API_KEY", "HTTP_TIMEOUT_SEC", "RUN_TIMEOUT_SEC",
		"LOOKUP_CONCURRENCY", "DEFAULT_STEP_KM", "TZ", "NATS_SUBJECT", "NOMINATIM_INTERVAL_MS",
		"DATABASE_URL", "PG_DSN", "CACHE_TTL_SEC",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Port)
	}
	if cfg.Provider != ProviderOpenData {
		t.Fatalf("provider = %q, want %q", cfg.Provider, ProviderOpenData)
	}
	if cfg.RunTimeout != 60*time.Second || cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("timeouts = %v/%v", cfg.RunTimeout, cfg.HTTPTimeout)
	}
	if cfg.LookupConcurrency != 4 || cfg.DefaultStepKm != 25 {
		t.Fatalf("concurrency = %d, step = %v", cfg.LookupConcurrency, cfg.DefaultStepKm)
	}
	if cfg.Location.String() != "Europe/Rome" {
		t.Fatalf("location = %v, want Europe/Rome", cfg.Location)
	}
	if cfg.NATSSubject != "timeline.computed" {
		t.Fatalf("nats subject = %q", cfg.NATSSubject)
	}
}

func TestLoadGoogleWhenKeyPresent(t *testing.T) {
	t.Setenv("PROVIDER", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != ProviderGoogle {
		t.Fatalf("provider = %q, want %q", cfg.Provider, ProviderGoogle)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := map[string]string{
		"LOOKUP_CONCURRENCY": "0",
		"DEFAULT_STEP_KM":    "-1",
		"RUN_TIMEOUT_SEC":    "soon",
		"PROVIDER":           "bing",
		"TZ":                 "Mars/Olympus",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("GOOGLE_MAPS_API_KEY", "")
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, val)
			}
		})
	}
}

func TestLoadGoogleRequiresKey(t *testing.T) {
	t.Setenv("PROVIDER", "google")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadORS(t *testing.T) {
	t.Setenv("PROVIDER", "ORS")
	t.Setenv("ORS_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without ORS_API_KEY")
	}

	t.Setenv("ORS_API_KEY", "k")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != ProviderORS || cfg.ORSAPIKey != "k" {
		t.Fatalf("provider = %q, key = %q", cfg.Provider, cfg.ORSAPIKey)
	}
}
