package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Provider selects which upstream services back a timeline run.
const (
	ProviderOpenData = "opendata"
	ProviderGoogle   = "google"
	ProviderORS      = "ors"
	ProviderStub     = "stub"
)

type Config struct {
	Port        string
	MetricsAddr string

	Provider         string
	GoogleMapsAPIKey string
	ORSAPIKey        string
	ORSURL           string

	OSRMURL              string
	OpenMeteoGeocodeURL  string
	OpenMeteoForecastURL string
	NominatimURL         string
	NominatimInterval    time.Duration

	UserAgent string
	Language  string

	HTTPTimeout       time.Duration
	RunTimeout        time.Duration
	LookupConcurrency int
	DefaultStepKm     float64
	Location          *time.Location

	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration

	NATSURL     string
	NATSSubject string
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        Get("PORT", "8080"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),

		GoogleMapsAPIKey: strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		ORSAPIKey:        strings.TrimSpace(os.Getenv("ORS_API_KEY")),
		ORSURL:           os.Getenv("ORS_URL"),

		OSRMURL:              os.Getenv("OSRM_URL"),
		OpenMeteoGeocodeURL:  os.Getenv("OPEN_METEO_GEOCODE_URL"),
		OpenMeteoForecastURL: os.Getenv("OPEN_METEO_FORECAST_URL"),
		NominatimURL:         os.Getenv("NOMINATIM_URL"),

		UserAgent: Get("USER_AGENT", "route-weather-service/1.0"),
		Language:  Get("LANGUAGE", "it"),

		DatabaseURL: firstNonEmpty(os.Getenv("DATABASE_URL"), os.Getenv("PG_DSN")),
		RedisURL:    os.Getenv("REDIS_URL"),

		NATSURL:     os.Getenv("NATS_URL"),
		NATSSubject: Get("NATS_SUBJECT", "timeline.computed"),
	}

	// Provider: explicit, else google when a key is present
	cfg.Provider = strings.ToLower(strings.TrimSpace(os.Getenv("PROVIDER")))
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenData
		if cfg.GoogleMapsAPIKey != "" {
			cfg.Provider = ProviderGoogle
		}
	}
	switch cfg.Provider {
	case ProviderOpenData, ProviderStub:
	case ProviderGoogle:
		if cfg.GoogleMapsAPIKey == "" {
			return nil, fmt.Errorf("PROVIDER=google requires GOOGLE_MAPS_API_KEY")
		}
	case ProviderORS:
		if cfg.ORSAPIKey == "" {
			return nil, fmt.Errorf("PROVIDER=ors requires ORS_API_KEY")
		}
	default:
		return nil, fmt.Errorf("invalid PROVIDER: %q", cfg.Provider)
	}

	var err error
	if cfg.HTTPTimeout, err = seconds("HTTP_TIMEOUT_SEC", 10); err != nil {
		return nil, err
	}
	if cfg.RunTimeout, err = seconds("RUN_TIMEOUT_SEC", 60); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = seconds("CACHE_TTL_SEC", 30*24*3600); err != nil {
		return nil, err
	}

	// Nominatim public usage policy: at most one request per second
	if v := os.Getenv("NOMINATIM_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid NOMINATIM_INTERVAL_MS: %q", v)
		}
		cfg.NominatimInterval = time.Duration(ms) * time.Millisecond
	} else {
		cfg.NominatimInterval = time.Second
	}

	if v := os.Getenv("LOOKUP_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid LOOKUP_CONCURRENCY: %q", v)
		}
		cfg.LookupConcurrency = n
	} else {
		cfg.LookupConcurrency = 4
	}

	if v := os.Getenv("DEFAULT_STEP_KM"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("invalid DEFAULT_STEP_KM: %q", v)
		}
		cfg.DefaultStepKm = f
	} else {
		cfg.DefaultStepKm = 25
	}

	// Timezone used when a request gives a departure time without an offset
	tz := Get("TZ", "Europe/Rome")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ: %q", tz)
	}
	cfg.Location = loc

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func seconds(key string, fallback int) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback) * time.Second, nil
	}
	sec, err := strconv.Atoi(v)
	if err != nil || sec <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return time.Duration(sec) * time.Second, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
