package services

import (
	"fmt"
	"time"

	"route-weather-service/internal/domain"
)

// ScheduleStops converts routed legs into arrival times for every explicit stop.
//
// The first point is the departure from places[0]. Each leg advances the clock by its
// duration and the odometer by its distance, producing a legEnd point at places[i+1].
// Legs must correspond 1:1 and in order to consecutive place pairs.
func ScheduleStops(places []domain.Place, legs []domain.RouteLeg, departAt time.Time) ([]domain.TimelinePoint, error) {
	if len(places) == 0 {
		return nil, fmt.Errorf("schedule stops: no places")
	}
	if len(legs) != len(places)-1 {
		return nil, fmt.Errorf("schedule stops: got %d legs for %d places, want %d", len(legs), len(places), len(places)-1)
	}

	points := make([]domain.TimelinePoint, 0, len(places))
	points = append(points, domain.TimelinePoint{
		Kind:         domain.KindStart,
		Place:        places[0],
		ArriveAt:     departAt,
		CumulativeKm: 0,
	})

	clock := departAt
	km := 0.0
	for i, leg := range legs {
		clock = clock.Add(time.Duration(leg.DurationSeconds * float64(time.Second)))
		km += leg.DistanceMeters / 1000

		info := leg
		points = append(points, domain.TimelinePoint{
			Kind:         domain.KindLegEnd,
			Place:        places[i+1],
			ArriveAt:     clock,
			CumulativeKm: km,
			LegInfo:      &info,
		})
	}

	return points, nil
}
