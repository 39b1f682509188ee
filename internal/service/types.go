// Package service contains the business logic of the globe pipeline:
// layer configuration, scene orchestration and the gazetteer.
package service

// LayerConfig describes one renderable boundary layer of the globe.
// Huma reads the tags for OpenAPI docs and validation.
type LayerConfig struct {
	ID             string  `json:"id,omitempty" doc:"Unique layer identifier" example:"countries"`
	Name           string  `json:"name" required:"true" minLength:"1" maxLength:"100" doc:"Display name" example:"Country borders"`
	Object         string  `json:"object" required:"true" doc:"Topology object this layer is built from" example:"countries"`
	Tolerance      float64 `json:"tolerance,omitempty" minimum:"0" doc:"Stride simplification tolerance (0 keeps every point)" example:"3"`
	MaxSegmentKm   float64 `json:"maxSegmentKm,omitempty" minimum:"0" doc:"Resample segments longer than this many kilometres" example:"500"`
	Displaced      bool    `json:"displaced" default:"false" doc:"Whether boundary vertices follow the elevation grid"`
	DefaultVisible bool    `json:"defaultVisible" default:"true" doc:"Whether the layer renders by default" example:"true"`
	Stroke         string  `json:"stroke,omitempty" doc:"Stroke color (CSS)" example:"#66ff99" default:"#66ff99"`
	Opacity        float64 `json:"opacity,omitempty" minimum:"0" maximum:"1" default:"0.8" doc:"Layer opacity (0-1)" example:"0.8"`
}

// LandmarkRecord is one gazetteer entry. Position uses the textual
// "lat, lng" encoding with 4 decimal places consumed by external
// location tooling.
type LandmarkRecord struct {
	Name     string  `json:"name" doc:"Landmark name" example:"San Francisco"`
	Lat      float64 `json:"lat" doc:"Latitude in degrees"`
	Lon      float64 `json:"lon" doc:"Longitude in degrees"`
	Position string  `json:"position" doc:"Formatted as \"lat, lng\" with 4 decimals" example:"37.7749, -122.4194"`
}
