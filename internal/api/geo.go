package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/terraviz/globe/internal/geo"
)

type PointInput struct {
	Lon float64 `query:"lon" required:"true" doc:"Longitude in degrees" example:"139.6917"`
	Lat float64 `query:"lat" required:"true" doc:"Latitude in degrees" example:"35.6895"`
}

type PairInput struct {
	FromLon float64 `query:"fromLon" required:"true" doc:"Origin longitude"`
	FromLat float64 `query:"fromLat" required:"true" doc:"Origin latitude"`
	ToLon   float64 `query:"toLon" required:"true" doc:"Destination longitude"`
	ToLat   float64 `query:"toLat" required:"true" doc:"Destination latitude"`
}

type ElevationBody struct {
	Position string  `json:"position" doc:"Coordinate as lat, lng"`
	Sample   float64 `json:"sample" doc:"Normalized elevation in [0, 1]"`
	Radius   float64 `json:"radius" doc:"Displaced surface radius in scene units"`
	Loaded   bool    `json:"loaded" doc:"False when the flat fallback grid is serving"`
}

type DistanceBody struct {
	From       string  `json:"from" doc:"Origin as lat, lng"`
	To         string  `json:"to" doc:"Destination as lat, lng"`
	DistanceKm float64 `json:"distanceKm" doc:"Great-circle distance in km"`
	Bearing    float64 `json:"bearing" doc:"Initial bearing in degrees [0, 360)"`
}

type PathInput struct {
	PairInput
	Segments int `query:"segments" doc:"Number of path segments" example:"32"`
}

type PathBody struct {
	Points    []geo.Coordinate `json:"points" doc:"Interpolated great-circle points"`
	Positions []string         `json:"positions" doc:"Points as lat, lng text"`
}

// RegisterGeo registers coordinate math routes.
func (h *APIHandler) RegisterGeo(api huma.API) {
	huma.Get(api, "/api/v1/elevation", h.GetElevation, huma.OperationTags("geo"))
	huma.Get(api, "/api/v1/distance", h.GetDistance, huma.OperationTags("geo"))
	huma.Get(api, "/api/v1/path", h.GetPath, huma.OperationTags("geo"))
}

func (c PairInput) coords() (geo.Coordinate, geo.Coordinate, error) {
	from := geo.Coordinate{Lon: c.FromLon, Lat: c.FromLat}
	to := geo.Coordinate{Lon: c.ToLon, Lat: c.ToLat}
	if err := from.Validate(); err != nil {
		return from, to, err
	}
	return from, to, to.Validate()
}

// GetElevation samples the heightmap grid at one coordinate.
func (h *APIHandler) GetElevation(ctx context.Context, input *PointInput) (*struct{ Body ElevationBody }, error) {
	if h.svc == nil || h.svc.Scene == nil {
		return nil, huma.Error503ServiceUnavailable("scene service not available")
	}
	c := geo.Coordinate{Lon: input.Lon, Lat: input.Lat}
	if err := c.Validate(); err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	sample, radius, loaded := h.svc.Scene.SampleElevation(ctx, c)
	return &struct{ Body ElevationBody }{Body: ElevationBody{
		Position: c.String(), Sample: sample, Radius: radius, Loaded: loaded,
	}}, nil
}

// GetDistance answers haversine distance and initial bearing.
func (h *APIHandler) GetDistance(ctx context.Context, input *PairInput) (*struct{ Body DistanceBody }, error) {
	from, to, err := input.coords()
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	return &struct{ Body DistanceBody }{Body: DistanceBody{
		From:       from.String(),
		To:         to.String(),
		DistanceKm: geo.Distance(from, to),
		Bearing:    geo.Bearing(from, to),
	}}, nil
}

// GetPath interpolates a great-circle path between two coordinates.
func (h *APIHandler) GetPath(ctx context.Context, input *PathInput) (*struct{ Body PathBody }, error) {
	from, to, err := input.coords()
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	segments := input.Segments
	if segments <= 0 {
		segments = 32
	}
	points := geo.InterpolatePath(from, to, segments)
	positions := make([]string, len(points))
	for i, p := range points {
		positions[i] = p.String()
	}
	return &struct{ Body PathBody }{Body: PathBody{Points: points, Positions: positions}}, nil
}
