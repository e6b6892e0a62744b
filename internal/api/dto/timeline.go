package dto

import "time"

type TimelineRequest struct {
	URL string `json:"url"`
	// RFC 3339, or local "2006-01-02T15:04" in the server's timezone.
	DepartAt string   `json:"depart_at"`
	StepKm   *float64 `json:"step_km"`
	Mode     string   `json:"mode"`
}

type LegResponse struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type WeatherResponse struct {
	Time            time.Time `json:"time"`
	TemperatureC    float64   `json:"temperature_c"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	WeatherCode     int       `json:"weather_code"`
	Description     string    `json:"description"`
	WindSpeedKmh    float64   `json:"wind_speed_kmh"`
}

type PointResponse struct {
	Kind            string           `json:"kind"`
	Name            string           `json:"name,omitempty"`
	Label           string           `json:"label"`
	AdminRegionCode string           `json:"admin_region_code,omitempty"`
	Lat             float64          `json:"lat"`
	Lon             float64          `json:"lon"`
	ArriveAt        time.Time        `json:"arrive_at"`
	CumulativeKm    float64          `json:"cumulative_km"`
	Leg             *LegResponse     `json:"leg,omitempty"`
	Weather         *WeatherResponse `json:"weather,omitempty"`
}

type TimelineResponse struct {
	RunID                string          `json:"run_id"`
	Kind                 string          `json:"kind"`
	Profile              string          `json:"profile"`
	DepartAt             time.Time       `json:"depart_at"`
	TotalDistanceMeters  float64         `json:"total_distance_meters"`
	TotalDurationSeconds float64         `json:"total_duration_seconds"`
	TotalDurationText    string          `json:"total_duration_text"`
	Legs                 int             `json:"legs"`
	Points               []PointResponse `json:"points"`
	Warnings             []string        `json:"warnings"`
}
