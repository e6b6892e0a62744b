package googlemaps

import (
	"context"
	"fmt"
	"strings"

	maps "googlemaps.github.io/maps"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"
)

// Provider implements geocoding, reverse geocoding and routing on the Google Maps Platform.
type Provider struct {
	client   *maps.Client
	language string
}

// NewProvider builds a provider from an API key. Extra options (base URL, HTTP client) are passed through.
func NewProvider(apiKey, language string, opts ...maps.ClientOption) (*Provider, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps.NewClient: %w", err)
	}
	return &Provider{client: client, language: language}, nil
}

func isZeroResults(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ZERO_RESULTS")
}

func (p *Provider) Geocode(ctx context.Context, token string) (_ *ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "googlemaps.Geocode")(&err)

	resp, err := p.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  token,
		Language: p.language,
	})
	if isZeroResults(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("google geocode %q: %w", token, err)
	}
	if len(resp) == 0 {
		return nil, nil
	}

	hit := resp[0]
	name := componentName(hit.AddressComponents, "locality", "administrative_area_level_3", "point_of_interest")
	if name == "" {
		name, _, _ = strings.Cut(hit.FormattedAddress, ",")
	}

	return &ports.GeocodeResult{
		Name:            strings.TrimSpace(name),
		AdminRegionCode: componentShortName(hit.AddressComponents, "administrative_area_level_2"),
		Coords:          domain.Coordinates{Lat: hit.Geometry.Location.Lat, Lon: hit.Geometry.Location.Lng},
	}, nil
}

func (p *Provider) ReverseGeocode(ctx context.Context, lat, lon float64) (_ *ports.ReverseResult, err error) {
	defer obs.Time(ctx, "googlemaps.ReverseGeocode")(&err)

	resp, err := p.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lon},
		Language: p.language,
	})
	if isZeroResults(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("google reverse geocode %.5f,%.5f: %w", lat, lon, err)
	}

	for _, r := range resp {
		name := componentName(r.AddressComponents, "locality", "administrative_area_level_3", "sublocality")
		if name == "" {
			continue
		}
		return &ports.ReverseResult{
			Name:            name,
			AdminRegionCode: componentShortName(r.AddressComponents, "administrative_area_level_2"),
		}, nil
	}
	return nil, nil
}

func travelMode(profile string) maps.Mode {
	switch profile {
	case "cycling":
		return maps.TravelModeBicycling
	case "walking":
		return maps.TravelModeWalking
	default:
		return maps.TravelModeDriving
	}
}

func latLngString(c domain.Coordinates) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lon)
}

func (p *Provider) Route(ctx context.Context, waypoints []domain.Coordinates, profile string) (_ *domain.RoutePath, err error) {
	defer obs.Time(ctx, "googlemaps.Route")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("google directions: need at least 2 waypoints, got %d", len(waypoints))
	}

	req := &maps.DirectionsRequest{
		Origin:      latLngString(waypoints[0]),
		Destination: latLngString(waypoints[len(waypoints)-1]),
		Mode:        travelMode(profile),
		Language:    p.language,
	}
	for _, w := range waypoints[1 : len(waypoints)-1] {
		req.Waypoints = append(req.Waypoints, latLngString(w))
	}

	routes, _, err := p.client.Directions(ctx, req)
	if isZeroResults(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("google directions: %w", err)
	}
	if len(routes) == 0 {
		return nil, nil
	}

	rt := routes[0]
	line, err := rt.OverviewPolyline.Decode()
	if err != nil {
		return nil, fmt.Errorf("google directions: decode polyline: %w", err)
	}

	path := &domain.RoutePath{Coordinates: make([]domain.Coordinates, 0, len(line))}
	for _, ll := range line {
		path.Coordinates = append(path.Coordinates, domain.Coordinates{Lat: ll.Lat, Lon: ll.Lng})
	}
	for _, leg := range rt.Legs {
		l := domain.RouteLeg{
			DistanceMeters:  float64(leg.Distance.Meters),
			DurationSeconds: leg.Duration.Seconds(),
		}
		path.Legs = append(path.Legs, l)
		path.TotalDistanceMeters += l.DistanceMeters
		path.TotalDurationSeconds += l.DurationSeconds
	}
	return path, nil
}

func componentName(comps []maps.AddressComponent, types ...string) string {
	if c := findComponent(comps, types...); c != nil {
		return c.LongName
	}
	return ""
}

func componentShortName(comps []maps.AddressComponent, types ...string) string {
	if c := findComponent(comps, types...); c != nil {
		return c.ShortName
	}
	return ""
}

// findComponent returns the first component matching the earliest listed type.
func findComponent(comps []maps.AddressComponent, types ...string) *maps.AddressComponent {
	for _, want := range types {
		for i := range comps {
			for _, t := range comps[i].Types {
				if t == want {
					return &comps[i]
				}
			}
		}
	}
	return nil
}
