package domain

import "strings"

// PlaceholderPrefix marks checkpoint names generated from the distance along the route.
const PlaceholderPrefix = "~km"

// Place is a stop or sampled position on the timeline.
// RawToken is the text the link carried; Coords is nil until the place is resolved.
type Place struct {
	RawToken        string
	Name            string
	AdminRegionCode string
	Coords          *Coordinates
}

// Resolved reports whether coordinates have been attached.
func (p Place) Resolved() bool { return p.Coords != nil }

// NeedsName reports whether the place may receive a name from a reverse lookup.
// Explicitly named stops are never overwritten.
func (p Place) NeedsName() bool {
	name := strings.TrimSpace(p.Name)
	return name == "" || strings.HasPrefix(name, PlaceholderPrefix)
}

// WithCoords returns a copy of p located at c.
func (p Place) WithCoords(c Coordinates) Place {
	p.Coords = &c
	return p
}

// Label returns the best human-readable description of the place.
func (p Place) Label() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Coords != nil {
		return FormatLatLon(p.Coords.Lat, p.Coords.Lon, 4)
	}
	return p.RawToken
}
