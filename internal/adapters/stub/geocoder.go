package stub

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/ports"
)

// Geocoder resolves tokens from a fixed table. Unknown tokens yield no result.
type Geocoder struct {
	places map[string]ports.GeocodeResult
	fail   map[string]error
	calls  atomic.Int64
}

func NewGeocoder(places map[string]ports.GeocodeResult) *Geocoder {
	m := make(map[string]ports.GeocodeResult, len(places))
	for k, v := range places {
		m[strings.ToLower(k)] = v
	}
	return &Geocoder{places: m, fail: map[string]error{}}
}

// FailOn makes lookups of token return err.
func (g *Geocoder) FailOn(token string, err error) *Geocoder {
	g.fail[strings.ToLower(token)] = err
	return g
}

func (g *Geocoder) Geocode(ctx context.Context, token string) (*ports.GeocodeResult, error) {
	g.calls.Add(1)
	key := strings.ToLower(strings.TrimSpace(token))
	if err, ok := g.fail[key]; ok {
		return nil, err
	}
	r, ok := g.places[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (g *Geocoder) Calls() int { return int(g.calls.Load()) }

// ReverseGeocoder names every location after its rounded coordinates
// unless a fixed name was registered for that key.
type ReverseGeocoder struct {
	mu    sync.Mutex
	names map[string]ports.ReverseResult
	err   error
	calls atomic.Int64
	keys  map[string]int
}

func NewReverseGeocoder() *ReverseGeocoder {
	return &ReverseGeocoder{names: map[string]ports.ReverseResult{}, keys: map[string]int{}}
}

// Name registers the result returned for the 3-decimal key of lat/lon.
func (r *ReverseGeocoder) Name(lat, lon float64, res ports.ReverseResult) *ReverseGeocoder {
	r.names[roundKey(lat, lon)] = res
	return r
}

// Fail makes every lookup return err.
func (r *ReverseGeocoder) Fail(err error) *ReverseGeocoder {
	r.err = err
	return r
}

func (r *ReverseGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*ports.ReverseResult, error) {
	r.calls.Add(1)
	key := roundKey(lat, lon)

	r.mu.Lock()
	r.keys[key]++
	r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	if res, ok := r.names[key]; ok {
		return &res, nil
	}
	return &ports.ReverseResult{Name: "Near " + domain.FormatLatLon(lat, lon, 3)}, nil
}

func (r *ReverseGeocoder) Calls() int { return int(r.calls.Load()) }

// MaxCallsPerKey returns the highest number of lookups issued for one rounded location.
func (r *ReverseGeocoder) MaxCallsPerKey() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, n := range r.keys {
		if n > max {
			max = n
		}
	}
	return max
}

func roundKey(lat, lon float64) string {
	return fmt.Sprintf("%.3f,%.3f", lat, lon)
}
