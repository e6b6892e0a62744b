package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/httpx"
	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"
	"route-weather-service/internal/reference"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Address keys that carry a settlement name, most specific first.
var settlementKeys = []string{"village", "town", "city", "hamlet", "suburb", "municipality"}

// Client implements forward and reverse geocoding against a Nominatim server.
// Requests are throttled to respect the public instance's usage policy.
type Client struct {
	http    *httpx.Client
	baseURL string
	limiter *rate.Limiter
}

type Option func(*Client)

// WithRate overrides the request rate (requests per interval, burst 1).
func WithRate(every time.Duration) Option {
	return func(c *Client) {
		if every <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(every), 1)
	}
}

func NewClient(client *httpx.Client, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type address map[string]string

type searchHit struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

type reverseResponse struct {
	Error   string  `json:"error"`
	Name    string  `json:"name"`
	Address address `json:"address"`
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("nominatim %s: wait for rate limiter: %w", path, err)
	}
	return c.http.GetJSON(ctx, c.baseURL+path, q, out)
}

// Geocode returns the first search hit for token, or nil when nothing matches.
func (c *Client) Geocode(ctx context.Context, token string) (_ *ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")
	q.Set("q", token)

	var hits []searchHit
	if err := c.get(ctx, "/search", q, &hits); err != nil {
		return nil, fmt.Errorf("nominatim geocode %q: %w", token, err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	hit := hits[0]
	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim geocode %q: invalid lat %q: %w", token, hit.Lat, err)
	}
	lon, err := strconv.ParseFloat(hit.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim geocode %q: invalid lon %q: %w", token, hit.Lon, err)
	}

	name := hit.Name
	if name == "" {
		name, _, _ = strings.Cut(hit.DisplayName, ",")
	}

	return &ports.GeocodeResult{
		Name:            strings.TrimSpace(name),
		AdminRegionCode: hit.Address.regionCode(),
		Coords:          domain.Coordinates{Lat: lat, Lon: lon},
	}, nil
}

// ReverseGeocode names the settlement around lat/lon at town level (zoom 10).
// It returns nil when the server knows no settlement there.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (_ *ports.ReverseResult, err error) {
	defer obs.Time(ctx, "nominatim.ReverseGeocode")(&err)

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("zoom", "10")
	q.Set("addressdetails", "1")

	var body reverseResponse
	if err := c.get(ctx, "/reverse", q, &body); err != nil {
		return nil, fmt.Errorf("nominatim reverse %.5f,%.5f: %w", lat, lon, err)
	}
	if body.Error != "" {
		return nil, nil
	}

	name := body.Address.settlement()
	if name == "" {
		return nil, nil
	}
	return &ports.ReverseResult{Name: name, AdminRegionCode: body.Address.regionCode()}, nil
}

func (a address) settlement() string {
	for _, k := range settlementKeys {
		if v := strings.TrimSpace(a[k]); v != "" {
			return v
		}
	}
	return ""
}

// regionCode prefers the ISO 3166-2 level-6 subdivision and falls back to the province table.
func (a address) regionCode() string {
	if code := reference.RegionCodeFromISO(a["ISO3166-2-lvl6"]); code != "" {
		return code
	}
	if strings.EqualFold(a["country_code"], "it") {
		if code, ok := reference.ProvinceCode(a["county"]); ok {
			return code
		}
	}
	return ""
}
