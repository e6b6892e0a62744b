package stub

import (
	"context"
	"sync/atomic"

	"route-weather-service/internal/domain"
)

// Average speeds in m/s per routing profile.
var profileSpeeds = map[string]float64{
	"driving": 70.0 / 3.6,
	"cycling": 18.0 / 3.6,
	"walking": 5.0 / 3.6,
}

// Router connects waypoints with straight segments densified every StepMeters.
type Router struct {
	StepMeters float64
	// Override, when set, is returned instead of the computed path.
	Override *domain.RoutePath
	Err      error

	calls atomic.Int64
}

func NewRouter() *Router {
	return &Router{StepMeters: 1000}
}

func (r *Router) Route(ctx context.Context, waypoints []domain.Coordinates, profile string) (*domain.RoutePath, error) {
	r.calls.Add(1)
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Override != nil {
		out := *r.Override
		return &out, nil
	}
	if len(waypoints) < 2 {
		return nil, nil
	}

	speed, ok := profileSpeeds[profile]
	if !ok {
		speed = profileSpeeds["driving"]
	}

	path := &domain.RoutePath{Coordinates: []domain.Coordinates{waypoints[0]}}
	for i := 1; i < len(waypoints); i++ {
		a, b := waypoints[i-1], waypoints[i]
		dist := domain.HaversineMeters(a, b)

		n := 1
		if r.StepMeters > 0 {
			n = max(1, int(dist/r.StepMeters))
		}
		for k := 1; k <= n; k++ {
			f := float64(k) / float64(n)
			path.Coordinates = append(path.Coordinates, domain.Coordinates{
				Lon: a.Lon + (b.Lon-a.Lon)*f,
				Lat: a.Lat + (b.Lat-a.Lat)*f,
			})
		}

		leg := domain.RouteLeg{DistanceMeters: dist, DurationSeconds: dist / speed}
		path.Legs = append(path.Legs, leg)
		path.TotalDistanceMeters += leg.DistanceMeters
		path.TotalDurationSeconds += leg.DurationSeconds
	}
	return path, nil
}

func (r *Router) Calls() int { return int(r.calls.Load()) }
