package services

import (
	"fmt"
	"math"
	"time"

	"route-weather-service/internal/domain"
)

// CumulativeDistances returns the haversine prefix distance, in meters, for every
// coordinate of the path. The result has the same length as coords and is non-decreasing.
func CumulativeDistances(coords []domain.Coordinates) []float64 {
	if len(coords) == 0 {
		return nil
	}

	cum := make([]float64, len(coords))
	for i := 1; i < len(coords); i++ {
		cum[i] = cum[i-1] + domain.HaversineMeters(coords[i-1], coords[i])
	}
	return cum
}

// PointAtDistance interpolates the position reached after target meters along the path.
// Interpolation is linear in lon/lat between the two bracketing vertices.
func PointAtDistance(coords []domain.Coordinates, cum []float64, target float64) domain.Coordinates {
	i := 1
	for i < len(cum) && cum[i] < target {
		i++
	}
	if i >= len(cum) {
		return coords[len(coords)-1]
	}

	prev := i - 1
	segLen := cum[i] - cum[prev]
	frac := 0.0
	if segLen > 0 {
		frac = (target - cum[prev]) / segLen
	}
	frac = math.Max(0, math.Min(1, frac))

	a, b := coords[prev], coords[i]
	return domain.Coordinates{
		Lon: a.Lon + (b.Lon-a.Lon)*frac,
		Lat: a.Lat + (b.Lat-a.Lat)*frac,
	}
}

// SampleCheckpoints places a checkpoint every stepKm along the route geometry.
//
// Arrival times assume uniform speed over the whole route: a checkpoint at distance d
// is reached at departAt + d/totalDistance * totalDuration. This ignores per-leg speed.
// Checkpoints are only produced strictly before the end of the route.
func SampleCheckpoints(
	coords []domain.Coordinates,
	totalDistanceMeters float64,
	totalDurationSeconds float64,
	departAt time.Time,
	stepKm float64,
) []domain.TimelinePoint {
	step := stepKm * 1000
	if step <= 0 || len(coords) < 2 {
		return []domain.TimelinePoint{}
	}

	cum := CumulativeDistances(coords)
	out := []domain.TimelinePoint{}
	for k := 1; ; k++ {
		d := float64(k) * step
		if d >= totalDistanceMeters {
			break
		}

		pos := PointAtDistance(coords, cum, d)
		frac := d / totalDistanceMeters
		offset := time.Duration(frac * totalDurationSeconds * float64(time.Second))

		out = append(out, domain.TimelinePoint{
			Kind: domain.KindCheckpoint,
			Place: domain.Place{
				Name:   fmt.Sprintf("%s %d", domain.PlaceholderPrefix, int(math.Round(d/1000))),
				Coords: &pos,
			},
			ArriveAt:     departAt.Add(offset),
			CumulativeKm: d / 1000,
		})
	}

	return out
}
