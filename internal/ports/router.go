package ports

import (
	"context"

	"route-weather-service/internal/domain"
)

// Contract for computing a route through an ordered list of coordinates.
type Router interface {
	// Return nil without error when no route exists.
	Route(ctx context.Context, waypoints []domain.Coordinates, profile string) (*domain.RoutePath, error)
}
