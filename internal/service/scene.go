package service

import (
	"context"
	"sort"
	"sync"

	"github.com/terraviz/globe/internal/assets"
	"github.com/terraviz/globe/internal/fallback"
	"github.com/terraviz/globe/internal/geo"
	"github.com/terraviz/globe/internal/mesh"
)

// SceneService orchestrates asset loading and buffer construction for
// the globe. It owns the asset manager and memoises the loaded scene;
// geographic data never changes at runtime, so the scene is loaded at
// most once per process unless explicitly cleared.
type SceneService struct {
	manager *assets.Manager
	bus     *EventBus

	mu    sync.Mutex
	scene *assets.Scene
}

// NewSceneService creates the scene service. The bus is optional; when
// set, load progress is published to it.
func NewSceneService(manifest assets.Manifest, loader *assets.Loader, cache *assets.Cache, bus *EventBus) *SceneService {
	s := &SceneService{bus: bus}
	s.manager = assets.NewManager(manifest, loader, cache, func(progress int, status string) {
		if bus != nil {
			bus.Publish(Event{Stage: "scene", Status: status, Progress: progress})
		}
	})
	return s
}

// Manifest returns the active asset manifest.
func (s *SceneService) Manifest() assets.Manifest {
	return s.manager.Manifest()
}

// Scene returns the loaded scene, loading it on first use. Concurrent
// callers block on the single load.
func (s *SceneService) Scene(ctx context.Context) *assets.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scene == nil {
		s.scene = s.manager.LoadScene(ctx)
	}
	return s.scene
}

// LayerBuffer builds the renderer line buffer for one configured layer.
// The bool reports whether the layer's source data was degraded.
func (s *SceneService) LayerBuffer(ctx context.Context, layer LayerConfig) (*mesh.LineBuffer, bool) {
	scene := s.Scene(ctx)
	manifest := s.manager.Manifest()

	rings := scene.Rings(layer.Object)
	degraded := false
	if rings == nil {
		rings = scene.Land.Rings
		degraded = true
	}
	for _, d := range scene.Degraded {
		if d == "topology" || d == "layer:"+layer.Object {
			degraded = true
		}
	}

	opts := mesh.Options{
		Tolerance:    layer.Tolerance,
		MaxSegmentKm: layer.MaxSegmentKm,
	}
	if layer.Displaced {
		opts.Grid = scene.Elevation
		opts.Displace = manifest.Elevation
	}
	return mesh.BuildLines(rings, manifest.Radius, opts), degraded
}

// Bundle is the full scene payload handed to the renderer.
type Bundle struct {
	Radius    float64                     `json:"radius"`
	Layers    map[string]*mesh.LineBuffer `json:"layers"`
	Sphere    *mesh.SphereMesh            `json:"sphere"`
	Landmarks *mesh.PointBuffer           `json:"landmarks"`
	Textures  []string                    `json:"textures"`
	Degraded  []string                    `json:"degraded,omitempty"`
}

// Bundle assembles the composite scene for every supplied layer. The
// renderer receives a complete bundle even under total asset failure,
// just at degraded fidelity.
func (s *SceneService) Bundle(ctx context.Context, layers map[string]LayerConfig) *Bundle {
	scene := s.Scene(ctx)
	manifest := s.manager.Manifest()

	b := &Bundle{
		Radius:   manifest.Radius,
		Layers:   make(map[string]*mesh.LineBuffer, len(layers)),
		Degraded: scene.Degraded,
	}
	for id, layer := range layers {
		buf, _ := s.LayerBuffer(ctx, layer)
		b.Layers[id] = buf
	}

	b.Sphere = mesh.BuildSphere(scene.Elevation, manifest.Radius, manifest.Elevation, 0, 0)

	marks := fallback.Landmarks()
	names := make([]string, len(marks))
	coords := make([]geo.Coordinate, len(marks))
	for i, lm := range marks {
		names[i] = lm.Name
		coords[i] = lm.Coord
	}
	b.Landmarks = mesh.BuildPoints(names, coords, manifest.Radius)

	for name := range scene.Textures {
		b.Textures = append(b.Textures, name)
	}
	sort.Strings(b.Textures)
	return b
}

// SampleElevation answers an elevation query against the loaded grid.
func (s *SceneService) SampleElevation(ctx context.Context, c geo.Coordinate) (sample, radius float64, loaded bool) {
	scene := s.Scene(ctx)
	manifest := s.manager.Manifest()
	sample = scene.Elevation.SampleLonLat(c.Lon, c.Lat)
	radius = manifest.Elevation.Radius(manifest.Radius, sample)
	return sample, radius, scene.Elevation.Loaded()
}

// TextureBytes returns raw texture bytes by manifest name.
func (s *SceneService) TextureBytes(ctx context.Context, name string) ([]byte, bool) {
	scene := s.Scene(ctx)
	raw, ok := scene.Textures[name]
	return raw, ok
}

// ClearCache drops the memoised scene and every cached asset, disposing
// held image memory. The next Scene call reloads from the network.
func (s *SceneService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scene != nil && s.scene.Elevation != nil {
		s.scene.Elevation.Dispose()
	}
	s.scene = nil
	s.manager.Cache().Clear()
	if s.bus != nil {
		s.bus.Publish(Event{Stage: "scene", Status: "Cache cleared", Progress: 0})
	}
}

// Flat reports whether the scene renders without real elevation data.
func (s *SceneService) Flat(ctx context.Context) bool {
	return !s.Scene(ctx).Elevation.Loaded()
}

// CacheKeys lists the memoised asset URLs, for diagnostics.
func (s *SceneService) CacheKeys() []string {
	keys := s.manager.Cache().Keys()
	sort.Strings(keys)
	return keys
}
