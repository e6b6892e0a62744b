package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/httpx"
	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"
	"route-weather-service/internal/reference"
)

const DefaultGeocodeURL = "https://geocoding-api.open-meteo.com/v1/search"

// Geocoder resolves free-text place names with the Open-Meteo geocoding API.
type Geocoder struct {
	client   *httpx.Client
	endpoint string
	language string
}

func NewGeocoder(client *httpx.Client, endpoint, language string) *Geocoder {
	if endpoint == "" {
		endpoint = DefaultGeocodeURL
	}
	return &Geocoder{client: client, endpoint: endpoint, language: language}
}

type geocodeResponse struct {
	Results []struct {
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		CountryCode string  `json:"country_code"`
		Admin1      string  `json:"admin1"`
		Admin2      string  `json:"admin2"`
	} `json:"results"`
}

// Geocode returns the best match for token, or nil when nothing matches.
func (g *Geocoder) Geocode(ctx context.Context, token string) (_ *ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "openmeteo.Geocode")(&err)

	q := url.Values{}
	q.Set("name", token)
	q.Set("count", "1")
	q.Set("format", "json")
	if g.language != "" {
		q.Set("language", g.language)
	}

	var body geocodeResponse
	if err := g.client.GetJSON(ctx, g.endpoint, q, &body); err != nil {
		return nil, fmt.Errorf("open-meteo geocode %q: %w", token, err)
	}
	if len(body.Results) == 0 {
		return nil, nil
	}

	hit := body.Results[0]
	res := &ports.GeocodeResult{
		Name:   hit.Name,
		Coords: domain.Coordinates{Lat: hit.Latitude, Lon: hit.Longitude},
	}
	if strings.EqualFold(hit.CountryCode, "IT") {
		if code, ok := reference.ProvinceCode(hit.Admin2); ok {
			res.AdminRegionCode = code
		}
	}
	return res, nil
}
