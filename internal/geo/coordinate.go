// Package geo contains the pure spherical math of the globe pipeline:
// coordinate validation, sphere projection, great-circle calculations and
// ring simplification. Nothing in this package performs I/O or blocks.
package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Coordinate is an immutable geographic position in degrees.
// Longitude is in [-180, 180], latitude in [-90, 90].
type Coordinate struct {
	Lon float64 `json:"lon" doc:"Longitude in degrees" minimum:"-180" maximum:"180" example:"-122.3849"`
	Lat float64 `json:"lat" doc:"Latitude in degrees" minimum:"-90" maximum:"90" example:"37.6221"`
}

// Validate rejects out-of-range coordinates. Values are never clamped;
// a caller holding a bad coordinate must fix it at the source.
func (c Coordinate) Validate() error {
	if c.Lon < -180 || c.Lon > 180 {
		return &ValidationError{Field: "lon", Value: c.Lon, Message: "longitude out of range [-180, 180]"}
	}
	if c.Lat < -90 || c.Lat > 90 {
		return &ValidationError{Field: "lat", Value: c.Lat, Message: "latitude out of range [-90, 90]"}
	}
	return nil
}

// Point converts to an orb point (lon, lat order).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// FromPoint builds a Coordinate from an orb point.
func FromPoint(p orb.Point) Coordinate {
	return Coordinate{Lon: p[0], Lat: p[1]}
}

// String renders the coordinate as "lat, lng" with 4 decimal places,
// the textual encoding consumed by external location tooling.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}

// Vertex is a 3D point on or near a sphere, produced by Project.
// It keeps no reference to the coordinate it came from.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ValidationError reports a rejected input value.
type ValidationError struct {
	Field   string
	Value   float64
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s=%g: %s", e.Field, e.Value, e.Message)
}
