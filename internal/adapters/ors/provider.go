package ors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/httpx"
	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"
	"route-weather-service/internal/reference"
)

const DefaultBaseURL = "https://api.openrouteservice.org"

var orsProfiles = map[string]string{
	"driving": "driving-car",
	"cycling": "cycling-regular",
	"walking": "foot-walking",
}

// Provider implements geocoding, reverse geocoding and routing using OpenRouteService.
// The provider is safe for concurrent use.
type Provider struct {
	client  *httpx.Client
	baseURL string
	country string
}

// NewProvider expects a client configured with the ORS API key as Authorization header.
// country, when set, restricts forward geocoding (e.g. "IT").
func NewProvider(client *httpx.Client, baseURL, country string) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{client: client, baseURL: strings.TrimRight(baseURL, "/"), country: country}
}

type featureProperties struct {
	Name        string `json:"name"`
	Locality    string `json:"locality"`
	County      string `json:"county"`
	CountyA     string `json:"county_a"`
	CountryCode string `json:"country_code"`
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties featureProperties `json:"properties"`
	} `json:"features"`
}

func (p featureProperties) regionCode() string {
	if p.CountyA != "" {
		return strings.ToUpper(p.CountyA)
	}
	if strings.EqualFold(p.CountryCode, "IT") || strings.EqualFold(p.CountryCode, "ITA") {
		if code, ok := reference.ProvinceCode(p.County); ok {
			return code
		}
	}
	return ""
}

// Geocode resolves token with /geocode/search.
func (o *Provider) Geocode(ctx context.Context, token string) (_ *ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	q := url.Values{}
	q.Set("text", token)
	q.Set("size", "1")
	if o.country != "" {
		q.Set("boundary.country", o.country)
	}

	var decoded geocodeResponse
	if err := o.client.GetJSON(ctx, o.baseURL+"/geocode/search", q, &decoded); err != nil {
		return nil, fmt.Errorf("ors geocode %q: %w", token, err)
	}
	if len(decoded.Features) == 0 {
		return nil, nil
	}

	f := decoded.Features[0]
	coords := f.Geometry.Coordinates
	if len(coords) != 2 {
		return nil, fmt.Errorf("ors geocode %q: invalid coordinate format", token)
	}

	return &ports.GeocodeResult{
		Name:            f.Properties.Name,
		AdminRegionCode: f.Properties.regionCode(),
		Coords:          domain.Coordinates{Lon: coords[0], Lat: coords[1]},
	}, nil
}

// ReverseGeocode names the locality around lat/lon with /geocode/reverse.
func (o *Provider) ReverseGeocode(ctx context.Context, lat, lon float64) (_ *ports.ReverseResult, err error) {
	defer obs.Time(ctx, "ors.ReverseGeocode")(&err)

	q := url.Values{}
	q.Set("point.lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("point.lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("size", "1")
	q.Set("layers", "locality,localadmin")

	var decoded geocodeResponse
	if err := o.client.GetJSON(ctx, o.baseURL+"/geocode/reverse", q, &decoded); err != nil {
		return nil, fmt.Errorf("ors reverse %.5f,%.5f: %w", lat, lon, err)
	}
	if len(decoded.Features) == 0 {
		return nil, nil
	}

	props := decoded.Features[0].Properties
	name := props.Locality
	if name == "" {
		name = props.Name
	}
	if name == "" {
		return nil, nil
	}
	return &ports.ReverseResult{Name: name, AdminRegionCode: props.regionCode()}, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// Route requests /v2/directions/{profile}/geojson through all waypoints.
func (o *Provider) Route(ctx context.Context, waypoints []domain.Coordinates, profile string) (_ *domain.RoutePath, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("ors route: need at least 2 waypoints, got %d", len(waypoints))
	}

	orsProfile, ok := orsProfiles[profile]
	if !ok {
		orsProfile = orsProfiles["driving"]
	}

	body := directionsRequest{Coordinates: make([][]float64, 0, len(waypoints))}
	for _, w := range waypoints {
		body.Coordinates = append(body.Coordinates, w.CoordsToList())
	}

	var decoded directionsResponse
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, orsProfile)
	if err := o.client.PostJSON(ctx, endpoint, body, &decoded); err != nil {
		// ORS answers 404 when no route can be found between the points.
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("ors route: %w", err)
	}
	if len(decoded.Features) == 0 {
		return nil, nil
	}

	f := decoded.Features[0]
	path := &domain.RoutePath{
		Coordinates:          make([]domain.Coordinates, 0, len(f.Geometry.Coordinates)),
		TotalDistanceMeters:  f.Properties.Summary.Distance,
		TotalDurationSeconds: f.Properties.Summary.Duration,
	}
	for _, c := range f.Geometry.Coordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("ors route: malformed coordinate %v", c)
		}
		path.Coordinates = append(path.Coordinates, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}
	for _, s := range f.Properties.Segments {
		path.Legs = append(path.Legs, domain.RouteLeg{DistanceMeters: s.Distance, DurationSeconds: s.Duration})
	}
	return path, nil
}
