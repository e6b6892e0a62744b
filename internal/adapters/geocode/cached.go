package geocode

import (
	"context"
	"log"
	"strings"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"
)

// Cached wraps a geocoder with a persistent lookup cache.
// Cache failures are logged and never fail the lookup itself.
type Cached struct {
	Next  ports.Geocoder
	Cache ports.GeocodeCache
}

func NewCached(next ports.Geocoder, cache ports.GeocodeCache) *Cached {
	return &Cached{Next: next, Cache: cache}
}

func cacheKey(token string) string {
	return strings.ToLower(domain.NormalizeToken(token))
}

func (c *Cached) Geocode(ctx context.Context, token string) (*ports.GeocodeResult, error) {
	key := cacheKey(token)

	if res, ok, err := c.Cache.Get(ctx, key); err != nil {
		log.Printf("req_id=%s geocode cache get failed: token=%q err=%v", obs.RequestID(ctx), key, err)
	} else if ok {
		return res, nil
	}

	res, err := c.Next.Geocode(ctx, token)
	if err != nil || res == nil {
		return res, err
	}

	if err := c.Cache.Put(ctx, key, *res); err != nil {
		log.Printf("req_id=%s geocode cache put failed: token=%q err=%v", obs.RequestID(ctx), key, err)
	}
	return res, nil
}
