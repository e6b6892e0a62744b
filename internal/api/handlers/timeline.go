package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"route-weather-service/internal/api/dto"
	"route-weather-service/internal/domain"
	"route-weather-service/internal/platform/obs"
	"route-weather-service/internal/ports"
	"route-weather-service/internal/services"
)

// TimelineRunner executes one timeline computation.
type TimelineRunner interface {
	Run(ctx context.Context, req services.TimelineRequest) (*domain.Timeline, error)
}

type TimelineHandler struct {
	Runner TimelineRunner
	// Notifier is optional; failures are logged and never affect the response.
	Notifier      ports.TimelineNotifier
	DefaultStepKm float64
	Location      *time.Location
	RunTimeout    time.Duration
	Now           func() time.Time
}

var localLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04"}

// Create computes a weather-annotated timeline for a map link.
func (h *TimelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TimelineRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		writeError(w, r, http.StatusBadRequest, "url is required")
		return
	}

	depart, err := h.parseDepartAt(req.DepartAt)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	step := h.DefaultStepKm
	if req.StepKm != nil {
		step = *req.StepKm
	}
	if step < 0 || (step > 0 && step < 1) || step > 500 {
		writeError(w, r, http.StatusBadRequest, "step_km must be 0 or between 1 and 500")
		return
	}

	ctx := r.Context()
	if h.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.RunTimeout)
		defer cancel()
	}

	tl, err := h.Runner.Run(ctx, services.TimelineRequest{
		URL:      req.URL,
		DepartAt: depart,
		StepKm:   step,
		Mode:     req.Mode,
	})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("req_id=%s timeline run failed: %v", obs.RequestID(r.Context()), err)
			writeError(w, r, status, "internal server error")
			return
		}
		writeError(w, r, status, domain.UserMessage(err))
		return
	}

	runID := obs.RequestID(r.Context())
	if h.Notifier != nil {
		if err := h.Notifier.TimelineComputed(r.Context(), runID, tl); err != nil {
			log.Printf("req_id=%s timeline notification failed: %v", runID, err)
		}
	}

	writeJSON(w, r, http.StatusOK, toTimelineResponse(runID, tl))
}

func (h *TimelineHandler) parseDepartAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if h.Now != nil {
			return h.Now(), nil
		}
		return time.Now(), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid depart_at %q: use RFC 3339 or YYYY-MM-DDTHH:MM", s)
}

// statusFor maps a run failure onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrParse):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrExpansion), errors.Is(err, domain.ErrGeocode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRouting), errors.Is(err, domain.ErrWeatherFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func toTimelineResponse(runID string, tl *domain.Timeline) dto.TimelineResponse {
	res := dto.TimelineResponse{
		RunID:                runID,
		Kind:                 string(tl.Kind),
		Profile:              tl.Profile,
		DepartAt:             tl.DepartAt,
		TotalDistanceMeters:  tl.TotalDistanceMeters,
		TotalDurationSeconds: tl.TotalDurationSeconds,
		TotalDurationText:    formatDuration(tl.TotalDurationSeconds),
		Legs:                 tl.Legs,
		Points:               make([]dto.PointResponse, 0, len(tl.Points)),
		Warnings:             tl.Warnings,
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}

	for _, pt := range tl.Points {
		p := dto.PointResponse{
			Kind:            string(pt.Kind),
			Name:            pt.Place.Name,
			Label:           pt.Place.Label(),
			AdminRegionCode: pt.Place.AdminRegionCode,
			ArriveAt:        pt.ArriveAt,
			CumulativeKm:    pt.CumulativeKm,
		}
		if pt.Place.Coords != nil {
			p.Lat, p.Lon = pt.Place.Coords.Lat, pt.Place.Coords.Lon
		}
		if pt.LegInfo != nil {
			p.Leg = &dto.LegResponse{
				DistanceMeters:  pt.LegInfo.DistanceMeters,
				DurationSeconds: pt.LegInfo.DurationSeconds,
			}
		}
		if ws := pt.Weather; ws != nil {
			p.Weather = &dto.WeatherResponse{
				Time:            ws.Time,
				TemperatureC:    ws.TemperatureC,
				PrecipitationMM: ws.PrecipitationMM,
				WeatherCode:     ws.WeatherCode,
				Description:     domain.WeatherCodeText(ws.WeatherCode),
				WindSpeedKmh:    ws.WindSpeedKmh,
			}
		}
		res.Points = append(res.Points, p)
	}
	return res
}

// formatDuration renders seconds as "42 min" or "2 h 05 min".
func formatDuration(seconds float64) string {
	total := int(seconds + 0.5)
	h := total / 3600
	m := (total%3600 + 30) / 60
	if m == 60 {
		h, m = h+1, 0
	}
	if h <= 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d h %02d min", h, m)
}
