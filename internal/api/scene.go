package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/terraviz/globe/internal/mesh"
	"github.com/terraviz/globe/internal/service"
)

type SceneOutput struct {
	Body service.Bundle
}

type MeshInput struct {
	ID           string  `path:"id" doc:"Layer ID" example:"land"`
	Tolerance    float64 `query:"tolerance" doc:"Simplification stride override" example:"4"`
	MaxSegmentKm float64 `query:"maxSegmentKm" doc:"Great-circle resample threshold in km"`
}

type MeshBody struct {
	Layer    string           `json:"layer" doc:"Layer ID"`
	Buffer   *mesh.LineBuffer `json:"buffer" doc:"Flattened line vertex buffer"`
	Degraded bool             `json:"degraded,omitempty" doc:"Whether fallback geometry was substituted"`
}

type CacheBody struct {
	Keys          []string `json:"keys" doc:"Memoised asset URLs"`
	Count         int      `json:"count" doc:"Number of cached assets"`
	FlatElevation bool     `json:"flatElevation" doc:"True when the scene renders without real elevation data"`
}

// RegisterScene registers scene and mesh routes.
func (h *APIHandler) RegisterScene(api huma.API) {
	huma.Get(api, "/api/v1/scene", h.GetScene, huma.OperationTags("scene"))
	huma.Get(api, "/api/v1/mesh/{id}", h.GetMesh, huma.OperationTags("scene"))
	huma.Get(api, "/api/v1/cache", h.GetCache, huma.OperationTags("scene"))
	huma.Post(api, "/api/v1/cache/clear", h.ClearCache, huma.OperationTags("scene"))
}

// GetScene returns the composite bundle for every configured layer.
func (h *APIHandler) GetScene(ctx context.Context, input *struct{}) (*SceneOutput, error) {
	if h.svc == nil || h.svc.Scene == nil {
		return nil, huma.Error503ServiceUnavailable("scene service not available")
	}
	bundle := h.svc.Scene.Bundle(ctx, h.svc.Layer.List())
	return &SceneOutput{Body: *bundle}, nil
}

// GetMesh builds the line buffer for one layer, with optional tuning
// overrides.
func (h *APIHandler) GetMesh(ctx context.Context, input *MeshInput) (*struct{ Body MeshBody }, error) {
	if h.svc == nil || h.svc.Scene == nil {
		return nil, huma.Error503ServiceUnavailable("scene service not available")
	}
	layer, ok := h.svc.Layer.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("layer not found")
	}
	if input.Tolerance > 0 {
		layer.Tolerance = input.Tolerance
	}
	if input.MaxSegmentKm > 0 {
		layer.MaxSegmentKm = input.MaxSegmentKm
	}
	buf, degraded := h.svc.Scene.LayerBuffer(ctx, layer)
	return &struct{ Body MeshBody }{Body: MeshBody{
		Layer: layer.ID, Buffer: buf, Degraded: degraded,
	}}, nil
}

// GetCache reports what the asset cache currently holds and whether
// the scene is running on fallback elevation.
func (h *APIHandler) GetCache(ctx context.Context, input *struct{}) (*struct{ Body CacheBody }, error) {
	if h.svc == nil || h.svc.Scene == nil {
		return nil, huma.Error503ServiceUnavailable("scene service not available")
	}
	keys := h.svc.Scene.CacheKeys()
	return &struct{ Body CacheBody }{Body: CacheBody{
		Keys:          keys,
		Count:         len(keys),
		FlatElevation: h.svc.Scene.Flat(ctx),
	}}, nil
}

// ClearCache drops every cached asset; the next scene request reloads.
func (h *APIHandler) ClearCache(ctx context.Context, input *struct{}) (*struct{ Body MessageBody }, error) {
	if h.svc == nil || h.svc.Scene == nil {
		return nil, huma.Error503ServiceUnavailable("scene service not available")
	}
	h.svc.Scene.ClearCache()
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Cache cleared"}}, nil
}
