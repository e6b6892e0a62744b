package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

// ForecastPadding widens the forecast query window on both sides of the schedule.
const ForecastPadding = 12 * time.Hour

const defaultConcurrency = 4

// RunMetrics receives pipeline observations. All methods must be safe for concurrent use.
type RunMetrics interface {
	ObserveRun(outcome string, d time.Duration, points int)
	UpstreamCall(service string, err error)
	SpatialCacheHit(kind string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveRun(string, time.Duration, int) {}
func (noopMetrics) UpstreamCall(string, error)            {}
func (noopMetrics) SpatialCacheHit(string)                {}

// PipelineDeps are the collaborators of a timeline run. Expander and Metrics are optional.
type PipelineDeps struct {
	Expander    ports.LinkExpander
	Parsers     []ports.LinkParser
	Geocoder    ports.Geocoder
	Reverse     ports.ReverseGeocoder
	Router      ports.Router
	Forecaster  ports.Forecaster
	Metrics     RunMetrics
	Concurrency int
}

type TimelineRequest struct {
	URL      string
	DepartAt time.Time
	StepKm   float64
	// Mode overrides the travel mode carried by the link when non-empty.
	Mode string
}

// Pipeline turns a map link into a weather-annotated timeline.
// A Pipeline holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	deps PipelineDeps
}

func NewPipeline(deps PipelineDeps) (*Pipeline, error) {
	if len(deps.Parsers) == 0 {
		return nil, errors.New("new pipeline: at least one link parser is required")
	}
	if deps.Geocoder == nil || deps.Reverse == nil || deps.Router == nil || deps.Forecaster == nil {
		return nil, errors.New("new pipeline: geocoder, reverse geocoder, router and forecaster are required")
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.Concurrency <= 0 {
		deps.Concurrency = defaultConcurrency
	}
	return &Pipeline{deps: deps}, nil
}

// Run executes one timeline computation.
// Any terminal failure is returned as a *domain.RunError and no partial timeline is produced.
func (p *Pipeline) Run(ctx context.Context, req TimelineRequest) (_ *domain.Timeline, err error) {
	defer obs.Time(ctx, "pipeline.Run")(&err)

	start := time.Now()
	tl, err := p.run(ctx, req)

	outcome := "ok"
	points := 0
	if err != nil {
		outcome = outcomeLabel(err)
	} else {
		points = len(tl.Points)
	}
	p.deps.Metrics.ObserveRun(outcome, time.Since(start), points)

	return tl, err
}

func (p *Pipeline) run(ctx context.Context, req TimelineRequest) (*domain.Timeline, error) {
	rawURL, err := p.resolveURL(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	link, err := ParseLink(p.deps.Parsers, rawURL)
	if err != nil {
		return nil, err
	}

	places, err := p.geocodePlaces(ctx, link.Places)
	if err != nil {
		return nil, err
	}

	profile := NormalizeProfile(firstNonEmpty(req.Mode, link.Mode))
	tl := &domain.Timeline{
		Kind:     link.Kind,
		Profile:  profile,
		DepartAt: req.DepartAt,
	}

	var stops, checkpoints []domain.TimelinePoint
	if link.Kind == domain.LinkSinglePlace {
		stops = []domain.TimelinePoint{{
			Kind:         domain.KindSinglePlace,
			Place:        places[0],
			ArriveAt:     req.DepartAt,
			CumulativeKm: 0,
		}}
	} else {
		path, err := p.route(ctx, places, profile)
		if err != nil {
			return nil, err
		}

		stops, err = ScheduleStops(places, path.Legs, req.DepartAt)
		if err != nil {
			return nil, domain.NewRunError(domain.ErrRouting, "the route does not match the requested stops", err)
		}
		checkpoints = SampleCheckpoints(path.Coordinates, path.TotalDistanceMeters, path.TotalDurationSeconds, req.DepartAt, req.StepKm)

		tl.TotalDistanceMeters = path.TotalDistanceMeters
		tl.TotalDurationSeconds = path.TotalDurationSeconds
		tl.Legs = len(path.Legs)
	}

	// Stops first, then checkpoints: the stable sort keeps this order on equal times.
	points := make([]domain.TimelinePoint, 0, len(stops)+len(checkpoints))
	points = append(points, stops...)
	points = append(points, checkpoints...)

	points, nameWarnings := p.backfillNames(ctx, points)

	windowStart := stops[0].ArriveAt.Add(-ForecastPadding)
	windowEnd := stops[len(stops)-1].ArriveAt.Add(ForecastPadding)
	points, weatherWarnings := p.attachWeather(ctx, points, windowStart, windowEnd)

	if err := ctx.Err(); err != nil {
		return nil, domain.NewRunError(domain.ErrWeatherFetch, "the forecast lookup did not finish in time", err)
	}

	slices.SortStableFunc(points, func(a, b domain.TimelinePoint) int {
		return a.ArriveAt.Compare(b.ArriveAt)
	})

	tl.Points = points
	tl.Warnings = append(nameWarnings, weatherWarnings...)
	return tl, nil
}

func (p *Pipeline) resolveURL(ctx context.Context, raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", domain.NewRunError(domain.ErrParse, "paste a Google Maps directions or place link", nil)
	}

	if p.deps.Expander == nil || !p.deps.Expander.IsShort(u) {
		return u, nil
	}

	full, ok := p.deps.Expander.Expand(ctx, u)
	p.deps.Metrics.UpstreamCall("expand", boolErr(ok, "short link not expanded"))
	if !ok || p.deps.Expander.IsShort(full) {
		return "", domain.NewRunError(
			domain.ErrExpansion,
			"this short Google Maps link could not be expanded automatically; open it, choose \"Open in Google Maps\" and paste the full directions link",
			nil,
		)
	}
	return full, nil
}

// ParseLink tries each parser in order and returns the first success.
// When every parser fails, the most specific error wins: a parser that recognized the
// link but found it malformed beats one that did not recognize it at all.
func ParseLink(parsers []ports.LinkParser, rawURL string) (ports.ParsedLink, error) {
	var specific error
	for _, parser := range parsers {
		link, err := parser.Parse(rawURL)
		if err == nil {
			if len(link.Places) == 0 {
				return ports.ParsedLink{}, domain.NewRunError(domain.ErrParse, "the link does not name any place", nil)
			}
			return link, nil
		}
		if specific == nil && !errors.Is(err, domain.ErrUnrecognizedLink) {
			specific = err
		}
	}

	if specific != nil {
		return ports.ParsedLink{}, domain.NewRunError(domain.ErrParse, specific.Error(), specific)
	}
	return ports.ParsedLink{}, domain.NewRunError(
		domain.ErrParse,
		"this does not look like a Google Maps directions or place link",
		domain.ErrUnrecognizedLink,
	)
}

// geocodePlaces resolves every place concurrently and preserves input order.
func (p *Pipeline) geocodePlaces(ctx context.Context, places []domain.Place) ([]domain.Place, error) {
	resolved := make([]domain.Place, len(places))
	errs := make([]error, len(places))

	var g errgroup.Group
	g.SetLimit(p.deps.Concurrency)
	for i, place := range places {
		g.Go(func() error {
			resolved[i], errs[i] = p.resolvePlace(ctx, place)
			return nil
		})
	}
	_ = g.Wait()

	// Report the first failing place in link order so repeated runs give the same message.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func (p *Pipeline) resolvePlace(ctx context.Context, place domain.Place) (domain.Place, error) {
	token := domain.NormalizeToken(place.RawToken)
	if c, ok := ParseLatLon(token); ok {
		return place.WithCoords(c), nil
	}

	res, err := p.deps.Geocoder.Geocode(ctx, token)
	p.deps.Metrics.UpstreamCall("geocode", err)
	if err != nil {
		return domain.Place{}, domain.NewRunError(domain.ErrGeocode, fmt.Sprintf("geocoding failed for %q", token), err)
	}
	if res == nil || !res.Coords.Valid() {
		return domain.Place{}, domain.NewRunError(domain.ErrGeocode, fmt.Sprintf("no location found for %q", token), nil)
	}

	out := place.WithCoords(res.Coords)
	out.Name = res.Name
	out.AdminRegionCode = res.AdminRegionCode
	return out, nil
}

func (p *Pipeline) route(ctx context.Context, places []domain.Place, profile string) (*domain.RoutePath, error) {
	if len(places) < 2 {
		return nil, domain.NewRunError(domain.ErrRouting, "a route needs at least an origin and a destination", nil)
	}

	waypoints := make([]domain.Coordinates, 0, len(places))
	for _, pl := range places {
		waypoints = append(waypoints, *pl.Coords)
	}

	path, err := p.deps.Router.Route(ctx, waypoints, profile)
	p.deps.Metrics.UpstreamCall("route", err)
	if err != nil {
		return nil, domain.NewRunError(domain.ErrRouting, "the routing service failed", err)
	}
	if path == nil {
		return nil, domain.NewRunError(domain.ErrRouting, "no route found between the requested places", nil)
	}
	if len(path.Coordinates) < 2 {
		return nil, domain.NewRunError(domain.ErrRouting, "the routing service returned an empty geometry", nil)
	}
	if len(path.Legs) != len(places)-1 {
		return nil, domain.NewRunError(
			domain.ErrRouting,
			"the route does not match the requested stops",
			fmt.Errorf("got %d legs for %d places", len(path.Legs), len(places)),
		)
	}
	return path, nil
}

// backfillNames replaces missing or placeholder names using one reverse lookup per spatial key.
// Failed lookups keep the current name and are reported as warnings.
func (p *Pipeline) backfillNames(ctx context.Context, points []domain.TimelinePoint) ([]domain.TimelinePoint, []string) {
	cache := NewSpatialCache[*ports.ReverseResult](func() { p.deps.Metrics.SpatialCacheHit("reverse") })
	out := slices.Clone(points)
	errs := make([]error, len(points))

	var g errgroup.Group
	g.SetLimit(p.deps.Concurrency)
	for i, pt := range points {
		if !pt.Place.Resolved() || !pt.Place.NeedsName() {
			continue
		}
		lat, lon := pt.Place.Coords.Lat, pt.Place.Coords.Lon
		g.Go(func() error {
			res, err := cache.Get(ctx, lat, lon, func(ctx context.Context) (*ports.ReverseResult, error) {
				r, err := p.deps.Reverse.ReverseGeocode(ctx, lat, lon)
				p.deps.Metrics.UpstreamCall("reverse", err)
				return r, err
			})
			if err != nil {
				errs[i] = err
				return nil
			}
			if res == nil || strings.TrimSpace(res.Name) == "" {
				return nil
			}

			place := pt.Place
			place.Name = res.Name
			if place.AdminRegionCode == "" {
				place.AdminRegionCode = res.AdminRegionCode
			}
			out[i].Place = place
			return nil
		})
	}
	_ = g.Wait()

	return out, collectWarnings(points, errs, "reverse lookup failed near")
}

// attachWeather fetches one forecast per spatial key and aligns it with each point's arrival.
func (p *Pipeline) attachWeather(
	ctx context.Context,
	points []domain.TimelinePoint,
	windowStart, windowEnd time.Time,
) ([]domain.TimelinePoint, []string) {
	cache := NewSpatialCache[domain.WeatherSeries](func() { p.deps.Metrics.SpatialCacheHit("weather") })
	out := slices.Clone(points)
	errs := make([]error, len(points))

	var g errgroup.Group
	g.SetLimit(p.deps.Concurrency)
	for i, pt := range points {
		lat, lon := pt.Place.Coords.Lat, pt.Place.Coords.Lon
		g.Go(func() error {
			series, err := cache.Get(ctx, lat, lon, func(ctx context.Context) (domain.WeatherSeries, error) {
				s, err := p.deps.Forecaster.Forecast(ctx, lat, lon, windowStart, windowEnd)
				if err == nil {
					err = s.Validate()
				}
				p.deps.Metrics.UpstreamCall("forecast", err)
				if err != nil {
					return domain.WeatherSeries{}, fmt.Errorf("%w: %w", domain.ErrWeatherFetch, err)
				}
				return s, nil
			})
			if err != nil {
				errs[i] = err
				return nil
			}
			out[i].Weather = PickNearest(series, pt.ArriveAt)
			return nil
		})
	}
	_ = g.Wait()

	return out, collectWarnings(points, errs, "no forecast for")
}

// collectWarnings reports each failing spatial key once, in point order.
func collectWarnings(points []domain.TimelinePoint, errs []error, prefix string) []string {
	seen := map[string]struct{}{}
	var out []string
	for i, err := range errs {
		if err == nil {
			continue
		}
		c := points[i].Place.Coords
		key := SpatialKey(c.Lat, c.Lon)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, fmt.Sprintf("%s %s (%s)", prefix, points[i].Place.Label(), key))
	}
	return out
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrParse):
		return "parse_error"
	case errors.Is(err, domain.ErrExpansion):
		return "expansion_failure"
	case errors.Is(err, domain.ErrGeocode):
		return "geocode_failure"
	case errors.Is(err, domain.ErrRouting):
		return "routing_failure"
	case errors.Is(err, domain.ErrWeatherFetch):
		return "weather_failure"
	default:
		return "error"
	}
}

func boolErr(ok bool, msg string) error {
	if ok {
		return nil
	}
	return errors.New(msg)
}
