package domain

// One routed hop between two consecutive resolved places.
type RouteLeg struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// RoutePath is the routing engine's answer for an ordered list of places.
// Coordinates holds the full geometry; Legs has one entry per consecutive place pair.
type RoutePath struct {
	Coordinates          []Coordinates
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	Legs                 []RouteLeg
}
