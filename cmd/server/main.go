package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"route-weather-service/internal/adapters/cache"
	"route-weather-service/internal/adapters/geocode"
	"route-weather-service/internal/adapters/gmapslink"
	"route-weather-service/internal/adapters/googlemaps"
	"route-weather-service/internal/adapters/nominatim"
	"route-weather-service/internal/adapters/openmeteo"
	"route-weather-service/internal/adapters/ors"
	"route-weather-service/internal/adapters/osrm"
	"route-weather-service/internal/adapters/stub"
	"route-weather-service/internal/api"
	"route-weather-service/internal/api/handlers"
	"route-weather-service/internal/config"
	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/db"
	"route-weather-service/internal/platform/httpx"
	"route-weather-service/internal/platform/metrics"
	"route-weather-service/internal/ports"
	"route-weather-service/internal/publisher"
	"route-weather-service/internal/services"
)

// providers groups the upstream lookups a pipeline needs.
type providers struct {
	geocoder   ports.Geocoder
	reverse    ports.ReverseGeocoder
	router     ports.Router
	forecaster ports.Forecaster
}

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()

	p, err := buildProviders(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Geocode results are stable; persist them when a store is configured.
	geoCache, closeCache, err := openGeocodeCache(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()
	if geoCache != nil {
		p.geocoder = geocode.NewCached(p.geocoder, geoCache)
	}

	var expander ports.LinkExpander = gmapslink.NewExpander(cfg.UserAgent, cfg.HTTPTimeout)
	if cfg.Provider == config.ProviderStub {
		expander = nil
	}

	pipeline, err := services.NewPipeline(services.PipelineDeps{
		Expander:    expander,
		Parsers:     gmapslink.Parsers(),
		Geocoder:    p.geocoder,
		Reverse:     p.reverse,
		Router:      p.router,
		Forecaster:  p.forecaster,
		Metrics:     collector,
		Concurrency: cfg.LookupConcurrency,
	})
	if err != nil {
		log.Fatal(err)
	}

	timeline := &handlers.TimelineHandler{
		Runner:        pipeline,
		DefaultStepKm: cfg.DefaultStepKm,
		Location:      cfg.Location,
		RunTimeout:    cfg.RunTimeout,
	}

	if cfg.NATSURL != "" {
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject, collector)
		if err != nil {
			log.Fatal(err)
		}
		defer pub.Close()
		timeline.Notifier = pub
	}

	deps := api.RouterDeps{Timeline: timeline}
	if cfg.MetricsAddr != "" {
		metricsSrv := collector.Serve(cfg.MetricsAddr)
		defer metricsSrv.Close()
	} else {
		deps.Metrics = collector.Handler()
	}

	// Timeouts are tuned for cold-cache runs (many sequential upstream lookups).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RunTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s provider=%s", cfg.Port, cfg.Provider)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func buildProviders(cfg *config.Config) (providers, error) {
	client := httpx.NewClient(cfg.UserAgent, cfg.HTTPTimeout, httpx.WithLanguage(cfg.Language))
	forecaster := openmeteo.NewForecaster(client, cfg.OpenMeteoForecastURL)

	switch cfg.Provider {
	case config.ProviderGoogle:
		gm, err := googlemaps.NewProvider(cfg.GoogleMapsAPIKey, cfg.Language)
		if err != nil {
			return providers{}, fmt.Errorf("build providers: %w", err)
		}
		return providers{geocoder: gm, reverse: gm, router: gm, forecaster: forecaster}, nil

	case config.ProviderORS:
		orsClient := httpx.NewClient(cfg.UserAgent, cfg.HTTPTimeout,
			httpx.WithLanguage(cfg.Language), httpx.WithHeader("Authorization", cfg.ORSAPIKey))
		o := ors.NewProvider(orsClient, cfg.ORSURL, "IT")
		return providers{geocoder: o, reverse: o, router: o, forecaster: forecaster}, nil

	case config.ProviderStub:
		return providers{
			geocoder:   stub.NewGeocoder(stubPlaces),
			reverse:    stub.NewReverseGeocoder(),
			router:     stub.NewRouter(),
			forecaster: stub.NewForecaster(),
		}, nil

	default:
		nom := nominatim.NewClient(client, cfg.NominatimURL, nominatim.WithRate(cfg.NominatimInterval))
		return providers{
			geocoder:   geocode.Chain{openmeteo.NewGeocoder(client, cfg.OpenMeteoGeocodeURL, cfg.Language), nom},
			reverse:    nom,
			router:     osrm.NewRouter(client, cfg.OSRMURL),
			forecaster: forecaster,
		}, nil
	}
}

// openGeocodeCache returns a nil cache when neither Postgres nor Redis is configured.
func openGeocodeCache(ctx context.Context, cfg *config.Config) (ports.GeocodeCache, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		log.Println("geocode cache: postgres")
		return cache.NewSQLGeocodeCache(conn), closeDB(conn), nil

	case cfg.RedisURL != "":
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("geocode cache: redis")
		return cache.NewRedisGeocodeCache(rdb, cfg.CacheTTL), func() { rdb.Close() }, nil
	}
	return nil, func() {}, nil
}

func closeDB(conn *sql.DB) func() {
	return func() {
		if err := conn.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}
}

// stubPlaces backs PROVIDER=stub so the service runs without network access.
var stubPlaces = map[string]ports.GeocodeResult{
	"milano":  {Name: "Milano", AdminRegionCode: "MI", Coords: domain.Coordinates{Lat: 45.4642, Lon: 9.19}},
	"torino":  {Name: "Torino", AdminRegionCode: "TO", Coords: domain.Coordinates{Lat: 45.0703, Lon: 7.6869}},
	"bologna": {Name: "Bologna", AdminRegionCode: "BO", Coords: domain.Coordinates{Lat: 44.4949, Lon: 11.3426}},
	"firenze": {Name: "Firenze", AdminRegionCode: "FI", Coords: domain.Coordinates{Lat: 43.7696, Lon: 11.2558}},
	"roma":    {Name: "Roma", AdminRegionCode: "RM", Coords: domain.Coordinates{Lat: 41.9028, Lon: 12.4964}},
	"bergamo": {Name: "Bergamo", AdminRegionCode: "BG", Coords: domain.Coordinates{Lat: 45.6983, Lon: 9.6773}},
}
