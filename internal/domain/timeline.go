package domain

import "time"

type PointKind string

const (
	KindStart       PointKind = "start"
	KindLegEnd      PointKind = "legEnd"
	KindCheckpoint  PointKind = "checkpoint"
	KindSinglePlace PointKind = "singlePlace"
)

// Represents a single timestamped position on the timeline.
// LegInfo is set only for legEnd points; Weather is attached by the aligner
// and stays nil when no forecast is available.
type TimelinePoint struct {
	Kind         PointKind
	Place        Place
	ArriveAt     time.Time
	CumulativeKm float64
	LegInfo      *RouteLeg
	Weather      *WeatherSample
}

type LinkKind string

const (
	LinkDirections  LinkKind = "directions"
	LinkSinglePlace LinkKind = "singlePlace"
)

// Timeline is the final, time-ordered result of one pipeline run.
type Timeline struct {
	Kind                 LinkKind
	Profile              string
	DepartAt             time.Time
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	Legs                 int
	Points               []TimelinePoint
	Warnings             []string
}
