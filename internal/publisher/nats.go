package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"route-weather-service/internal/domain"
)

// NATSPublisher announces computed timelines on a NATS subject.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
	metrics PublisherMetrics
}

type PublisherMetrics interface {
	NotificationResult(err error)
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

func NewNATSPublisher(url, subject string, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("route-weather-service"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected: err=%v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, subject: SubjectToken(subject), metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

// TimelineComputed publishes a summary of tl under the configured subject.
func (p *NATSPublisher) TimelineComputed(ctx context.Context, runID string, tl *domain.Timeline) error {
	b, err := json.Marshal(NewTimelineMessage(runID, tl))
	if err != nil {
		return fmt.Errorf("publish timeline: marshal: %w", err)
	}

	start := time.Now()
	err = p.nc.Publish(p.subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		p.metrics.NotificationResult(err)
	}
	if err != nil {
		return fmt.Errorf("publish timeline subject=%s: %w", p.subject, err)
	}
	return nil
}

type StopSummary struct {
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	ArriveAt     time.Time `json:"arrive_at"`
	CumulativeKm float64   `json:"cumulative_km"`
	TemperatureC *float64  `json:"temperature_c,omitempty"`
	WeatherCode  *int      `json:"weather_code,omitempty"`
}

type TimelineMessage struct {
	RunID                string        `json:"run_id"`
	Kind                 string        `json:"kind"`
	Profile              string        `json:"profile"`
	DepartAt             time.Time     `json:"depart_at"`
	TotalDistanceMeters  float64       `json:"total_distance_meters"`
	TotalDurationSeconds float64       `json:"total_duration_seconds"`
	Points               int           `json:"points"`
	Stops                []StopSummary `json:"stops"`
	Warnings             int           `json:"warnings"`
}

// NewTimelineMessage summarizes the explicit stops of tl; checkpoints are only counted.
func NewTimelineMessage(runID string, tl *domain.Timeline) TimelineMessage {
	msg := TimelineMessage{
		RunID:                runID,
		Kind:                 string(tl.Kind),
		Profile:              tl.Profile,
		DepartAt:             tl.DepartAt,
		TotalDistanceMeters:  tl.TotalDistanceMeters,
		TotalDurationSeconds: tl.TotalDurationSeconds,
		Points:               len(tl.Points),
		Stops:                []StopSummary{},
		Warnings:             len(tl.Warnings),
	}
	for _, pt := range tl.Points {
		if pt.Kind == domain.KindCheckpoint {
			continue
		}
		s := StopSummary{
			Kind:         string(pt.Kind),
			Name:         pt.Place.Label(),
			ArriveAt:     pt.ArriveAt,
			CumulativeKm: pt.CumulativeKm,
		}
		if pt.Weather != nil {
			temp, code := pt.Weather.TemperatureC, pt.Weather.WeatherCode
			s.TemperatureC, s.WeatherCode = &temp, &code
		}
		msg.Stops = append(msg.Stops, s)
	}
	return msg
}

// SubjectToken makes s usable as a NATS subject, keeping '.' as the token separator.
func SubjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS subjects cannot contain spaces or wildcards
	repl := strings.NewReplacer(" ", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = strings.Trim(repl.Replace(s), ".")
	if s == "" {
		s = "_"
	}
	return s
}
