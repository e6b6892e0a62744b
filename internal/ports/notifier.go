package ports

import (
	"context"

	"route-weather-service/internal/domain"
)

// Receives completed timelines, e.g. to fan them out to other services.
type TimelineNotifier interface {
	TimelineComputed(ctx context.Context, runID string, tl *domain.Timeline) error
}
