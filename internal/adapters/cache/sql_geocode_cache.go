package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"
)

// SQLGeocodeCache is a Postgres-backed cache mapping normalized place tokens to geocode results.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Get returns the cached result for token; ok is false on a miss.
func (s *SQLGeocodeCache) Get(ctx context.Context, token string) (_ *ports.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("geocode cache: db is nil")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false, nil
	}

	q := `
	SELECT name, admin_code, lon, lat
	FROM geocode_cache
	WHERE token = $1;
	`

	var res ports.GeocodeResult
	var lon, lat float64
	err = s.DB.QueryRowContext(ctx, q, token).Scan(&res.Name, &res.AdminRegionCode, &lon, &lat)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	res.Coords = domain.Coordinates{Lon: lon, Lat: lat}
	return &res, true, nil
}

// Put stores or refreshes the result for token.
func (s *SQLGeocodeCache) Put(ctx context.Context, token string, res ports.GeocodeResult) (err error) {
	defer obs.Time(ctx, "geocode.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("insert geocode cache: empty token key")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (token, name, admin_code, lon, lat)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (token) DO UPDATE
	SET name = EXCLUDED.name,
		admin_code = EXCLUDED.admin_code,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		updated_at = now();
	`, token, res.Name, res.AdminRegionCode, res.Coords.Lon, res.Coords.Lat)
	if err != nil {
		return fmt.Errorf("insert geocode cache token=%q: %w", token, err)
	}
	return nil
}
