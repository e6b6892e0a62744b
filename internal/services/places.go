package services

import (
	"strconv"
	"strings"

	"route-weather-service/internal/domain"
)

// ParseLatLon recognizes a "lat,lon" literal with both components in range.
func ParseLatLon(s string) (domain.Coordinates, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.Coordinates{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Coordinates{}, false
	}

	c := domain.Coordinates{Lat: lat, Lon: lon}
	if !c.Valid() {
		return domain.Coordinates{}, false
	}
	return c, true
}

const (
	ProfileDriving = "driving"
	ProfileCycling = "cycling"
	ProfileWalking = "walking"
)

// NormalizeProfile maps Google travel modes onto routing profiles.
// Unknown or empty modes fall back to driving.
func NormalizeProfile(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "cycling", "bicycling", "bike", "biking":
		return ProfileCycling
	case "walking", "walk", "foot":
		return ProfileWalking
	default:
		return ProfileDriving
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
