package ports

import (
	"context"

	"route-weather-service/internal/domain"
)

// Forward geocoding hit for a place token.
type GeocodeResult struct {
	Name            string
	AdminRegionCode string
	Coords          domain.Coordinates
}

// Reverse geocoding hit. Either field may be empty.
type ReverseResult struct {
	Name            string
	AdminRegionCode string
}

// Contract for resolving a place name to coordinates.
type Geocoder interface {
	// Return nil without error when the token has no match.
	Geocode(ctx context.Context, token string) (*GeocodeResult, error)
}

// Contract for resolving coordinates back to a place name.
type ReverseGeocoder interface {
	// Return nil without error when nothing is found at the location.
	ReverseGeocode(ctx context.Context, lat, lon float64) (*ReverseResult, error)
}

// Persistent lookup cache for forward geocoding results, keyed by normalized token.
type GeocodeCache interface {
	Get(ctx context.Context, token string) (*GeocodeResult, bool, error)
	Put(ctx context.Context, token string, result GeocodeResult) error
}
