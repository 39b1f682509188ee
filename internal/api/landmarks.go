package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/terraviz/globe/internal/geo"
	"github.com/terraviz/globe/internal/service"
)

type LandmarkNameInput struct {
	Name string `path:"name" doc:"Landmark name, case-insensitive" example:"Tokyo"`
}

type LandmarksOutput struct {
	Body []service.LandmarkRecord
}

type LandmarkOutput struct {
	Body service.LandmarkRecord
}

type AddLandmarkInput struct {
	Body struct {
		Name string  `json:"name" required:"true" doc:"Landmark name"`
		Lon  float64 `json:"lon" required:"true" doc:"Longitude in degrees"`
		Lat  float64 `json:"lat" required:"true" doc:"Latitude in degrees"`
	}
}

// RegisterLandmarks registers gazetteer routes.
func (h *APIHandler) RegisterLandmarks(api huma.API) {
	huma.Get(api, "/api/v1/landmarks", h.GetLandmarks, huma.OperationTags("landmarks"))
	huma.Get(api, "/api/v1/landmarks/{name}", h.GetLandmark, huma.OperationTags("landmarks"))
	huma.Post(api, "/api/v1/landmarks", h.AddLandmark, huma.OperationTags("landmarks"))
}

func (h *APIHandler) GetLandmarks(ctx context.Context, input *struct{}) (*LandmarksOutput, error) {
	if h.svc == nil || h.svc.Gazetteer == nil {
		return &LandmarksOutput{Body: []service.LandmarkRecord{}}, nil
	}
	marks, err := h.svc.Gazetteer.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("landmark listing failed", err)
	}
	return &LandmarksOutput{Body: marks}, nil
}

func (h *APIHandler) GetLandmark(ctx context.Context, input *LandmarkNameInput) (*LandmarkOutput, error) {
	if h.svc == nil || h.svc.Gazetteer == nil {
		return nil, huma.Error503ServiceUnavailable("gazetteer not available")
	}
	mark, ok, err := h.svc.Gazetteer.Lookup(ctx, input.Name)
	if err != nil {
		return nil, huma.Error500InternalServerError("landmark lookup failed", err)
	}
	if !ok {
		return nil, huma.Error404NotFound("landmark not found")
	}
	return &LandmarkOutput{Body: mark}, nil
}

func (h *APIHandler) AddLandmark(ctx context.Context, input *AddLandmarkInput) (*LandmarkOutput, error) {
	if h.svc == nil || h.svc.Gazetteer == nil {
		return nil, huma.Error503ServiceUnavailable("gazetteer not available")
	}
	mark, err := h.svc.Gazetteer.Add(ctx, input.Body.Name, geo.Coordinate{
		Lon: input.Body.Lon, Lat: input.Body.Lat,
	})
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	return &LandmarkOutput{Body: mark}, nil
}
