package osrm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/httpx"
	"route-weather-service/internal/platform/obs"
)

const DefaultBaseURL = "https://router.project-osrm.org"

// Router computes routes with the OSRM HTTP API.
type Router struct {
	client  *httpx.Client
	baseURL string
}

func NewRouter(client *httpx.Client, baseURL string) *Router {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Router{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Legs []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route returns the first route through waypoints, or nil when OSRM finds none.
func (r *Router) Route(ctx context.Context, waypoints []domain.Coordinates, profile string) (_ *domain.RoutePath, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("osrm route: need at least 2 waypoints, got %d", len(waypoints))
	}

	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts, strconv.FormatFloat(w.Lon, 'f', 6, 64)+","+strconv.FormatFloat(w.Lat, 'f', 6, 64))
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", r.baseURL, url.PathEscape(profile), strings.Join(parts, ";"))
	q := url.Values{}
	q.Set("overview", "full")
	q.Set("geometries", "geojson")
	q.Set("steps", "false")

	var body routeResponse
	if err := r.client.GetJSON(ctx, endpoint, q, &body); err != nil {
		// OSRM reports unroutable requests as 400 with code NoRoute / NoSegment.
		var se *httpx.StatusError
		if errors.As(err, &se) && se.Code == http.StatusBadRequest &&
			(strings.Contains(se.Body, "NoRoute") || strings.Contains(se.Body, "NoSegment")) {
			return nil, nil
		}
		return nil, fmt.Errorf("osrm route: %w", err)
	}

	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, nil
	}

	rt := body.Routes[0]
	path := &domain.RoutePath{
		Coordinates:          make([]domain.Coordinates, 0, len(rt.Geometry.Coordinates)),
		TotalDistanceMeters:  rt.Distance,
		TotalDurationSeconds: rt.Duration,
		Legs:                 make([]domain.RouteLeg, 0, len(rt.Legs)),
	}
	for _, c := range rt.Geometry.Coordinates {
		if len(c) < 2 {
			return nil, fmt.Errorf("osrm route: malformed coordinate %v", c)
		}
		path.Coordinates = append(path.Coordinates, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}
	for _, l := range rt.Legs {
		path.Legs = append(path.Legs, domain.RouteLeg{DistanceMeters: l.Distance, DurationSeconds: l.Duration})
	}
	return path, nil
}
