package geocode

import (
	"context"
	"errors"
	"log"

	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"
)

// Chain asks each geocoder in turn and returns the first hit.
// Errors from earlier geocoders are only returned when no later one finds the place.
type Chain []ports.Geocoder

func (c Chain) Geocode(ctx context.Context, token string) (*ports.GeocodeResult, error) {
	var errs []error
	for i, g := range c {
		res, err := g.Geocode(ctx, token)
		if err != nil {
			log.Printf("req_id=%s geocode chain: provider=%d token=%q err=%v", obs.RequestID(ctx), i, token, err)
			errs = append(errs, err)
			continue
		}
		if res != nil {
			return res, nil
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
