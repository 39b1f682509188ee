package api

import (
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// links maps operation paths to their RFC 8288 Link header values.
// Enables restish hypermedia navigation via `restish links <url>`.
var links = map[string][]string{
	"/health": {
		`</api/v1/info>; rel="info"`,
		`</api/v1/layers>; rel="layers"`,
		`</api/v1/scene>; rel="scene"`,
		`</api/v1/landmarks>; rel="landmarks"`,
	},
	"/api/v1/info": {
		`</health>; rel="health"`,
		`</api/v1/scene>; rel="scene"`,
	},
	"/api/v1/layers": {
		`</api/v1/scene>; rel="scene"`,
	},
	"/api/v1/layers/{id}": {
		`</api/v1/layers>; rel="collection"`,
		`</api/v1/mesh/{id}>; rel="mesh"`,
	},
	"/api/v1/mesh/{id}": {
		`</api/v1/layers/{id}>; rel="layer"`,
		`</api/v1/scene>; rel="scene"`,
	},
	"/api/v1/scene": {
		`</api/v1/layers>; rel="layers"`,
		`</api/v1/progress>; rel="progress"`,
		`</api/v1/cache>; rel="cache"`,
		`</api/v1/cache/clear>; rel="invalidate"`,
	},
	"/api/v1/cache": {
		`</api/v1/cache/clear>; rel="invalidate"`,
		`</api/v1/scene>; rel="scene"`,
	},
	"/api/v1/landmarks": {
		`</api/v1/distance>; rel="distance"`,
		`</api/v1/path>; rel="path"`,
	},
	"/api/v1/landmarks/{name}": {
		`</api/v1/landmarks>; rel="collection"`,
	},
	"/api/v1/distance": {
		`</api/v1/path>; rel="path"`,
	},
	"/api/v1/elevation": {
		`</api/v1/scene>; rel="scene"`,
	},
	"/api/v1/tables": {
		`</api/v1/query>; rel="query"`,
	},
}

// LinkTransformer returns a Huma Transformer that injects RFC 8288 Link headers.
func LinkTransformer() huma.Transformer {
	return func(ctx huma.Context, status string, v any) (any, error) {
		op := ctx.Operation()
		if op == nil {
			return v, nil
		}

		for _, link := range links[op.Path] {
			ctx.AppendHeader("Link", link)
		}

		// Item endpoints get a self link
		if strings.Contains(op.Path, "{") {
			ctx.AppendHeader("Link", fmt.Sprintf(`<%s>; rel="self"`, ctx.URL().Path))
		}

		return v, nil
	}
}
