package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/starfederation/datastar-go/datastar"
)

// RegisterProgress registers the asset pipeline progress stream.
func (h *APIHandler) RegisterProgress(api huma.API) {
	huma.Get(api, "/api/v1/progress", h.Progress, huma.OperationTags("scene"))
}

// Progress streams pipeline events as Datastar signal patches until the
// client disconnects.
func (h *APIHandler) Progress(ctx context.Context, input *struct{}) (*huma.StreamResponse, error) {
	if h.svc == nil || h.svc.Bus == nil {
		return nil, huma.Error503ServiceUnavailable("event bus not available")
	}
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			r, w := humago.Unwrap(humaCtx)
			sse := datastar.NewSSE(w, r)

			ch := h.svc.Bus.Subscribe()
			defer h.svc.Bus.Unsubscribe(ch)

			for {
				select {
				case <-r.Context().Done():
					return
				case ev := <-ch:
					sse.MarshalAndPatchSignals(map[string]any{
						"stage":    ev.Stage,
						"status":   ev.Status,
						"progress": ev.Progress,
					})
				}
			}
		},
	}, nil
}
