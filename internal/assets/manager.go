package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"github.com/terraviz/globe/internal/elevation"
	"github.com/terraviz/globe/internal/fallback"
	"github.com/terraviz/globe/internal/topo"
)

// Scene is the best-effort composite produced by one batch load. Every
// field is always populated: layers that failed to load carry fallback
// data and are listed in Degraded.
type Scene struct {
	Land       *topo.MeshData
	Countries  *topo.MeshData
	Coastlines *topo.MeshData
	Elevation  *elevation.Grid
	Textures   map[string][]byte

	// Degraded names the assets that fell back; empty means a clean load.
	Degraded []string
	LoadedAt time.Time
}

// Manager owns the asset cache and composes scenes from the manifest's
// sources, degrading gracefully when individual assets fail.
type Manager struct {
	manifest Manifest
	loader   *Loader
	cache    *Cache
	progress ProgressFunc
}

// NewManager creates a scene manager. The cache is owned by the caller
// (constructed once at startup) so teardown is explicit.
func NewManager(manifest Manifest, loader *Loader, cache *Cache, progress ProgressFunc) *Manager {
	return &Manager{manifest: manifest, loader: loader, cache: cache, progress: progress}
}

// Cache exposes the underlying cache for explicit teardown.
func (m *Manager) Cache() *Cache { return m.cache }

// Manifest returns the manifest this manager serves.
func (m *Manager) Manifest() Manifest { return m.manifest }

func (m *Manager) report(progress int, status string) {
	if m.progress != nil {
		m.progress(progress, status)
	}
}

// LoadScene fetches and decodes every scene asset concurrently,
// memoising per-URL, and assembles a best-effort composite:
//
//   - topology failure: embedded continent outlines for the land layer
//   - countries/coastlines missing from the topology: reuse land rings
//   - heightmap failure: flat elevation grid
//   - texture failure: texture omitted
func (m *Manager) LoadScene(ctx context.Context) *Scene {
	m.report(5, "Loading scene assets...")

	sources := []Source{
		{Name: "topology", Load: m.loadTopology},
		{Name: "heightmap", Load: m.loadHeightmap},
	}
	for name, url := range m.manifest.Textures {
		sources = append(sources, Source{Name: "texture:" + name, Load: m.textureLoader(url)})
	}

	results := LoadAll(ctx, sources)
	m.report(70, "Assembling scene...")

	scene := &Scene{
		Textures: make(map[string][]byte),
		LoadedAt: time.Now(),
	}
	var topology *topo.Topology
	for _, r := range results {
		switch {
		case r.Name == "topology":
			if r.Failed() {
				scene.Degraded = append(scene.Degraded, r.Name)
				continue
			}
			topology = r.Value.(*topo.Topology)
		case r.Name == "heightmap":
			if r.Failed() {
				scene.Degraded = append(scene.Degraded, r.Name)
				scene.Elevation = elevation.Flat()
				continue
			}
			grid := r.Value.(*elevation.Grid)
			if !grid.Loaded() {
				scene.Degraded = append(scene.Degraded, r.Name)
			}
			scene.Elevation = grid
		default:
			if r.Failed() {
				scene.Degraded = append(scene.Degraded, r.Name)
				continue
			}
			scene.Textures[r.Name[len("texture:"):]] = r.Value.([]byte)
		}
	}
	if scene.Elevation == nil {
		scene.Elevation = elevation.Flat()
	}

	m.buildLayers(scene, topology)
	m.report(100, "Scene ready")
	return scene
}

// buildLayers extracts the boundary layers from the decoded topology,
// falling back per layer rather than per scene.
func (m *Manager) buildLayers(scene *Scene, topology *topo.Topology) {
	objects := m.manifest.Topology.Objects

	if topology == nil {
		scene.Land = &topo.MeshData{Layer: objects.Land, Rings: fallback.ContinentRings()}
		scene.Countries = &topo.MeshData{Layer: objects.Countries, Rings: scene.Land.Rings}
		scene.Coastlines = &topo.MeshData{Layer: objects.Coastlines, Rings: scene.Land.Rings}
		return
	}

	land, err := topo.BuildMesh(topology, objects.Land, nil)
	if err != nil {
		scene.Degraded = append(scene.Degraded, "layer:"+objects.Land)
		land = &topo.MeshData{Layer: objects.Land, Rings: fallback.ContinentRings()}
	}
	scene.Land = land

	countries, err := topo.BuildMesh(topology, objects.Countries, func(a, b string) bool { return a != b })
	if err != nil {
		scene.Degraded = append(scene.Degraded, "layer:"+objects.Countries)
		countries = &topo.MeshData{Layer: objects.Countries, Rings: land.Rings}
	}
	scene.Countries = countries

	coastlines, err := topo.BuildMesh(topology, objects.Coastlines, nil)
	if err != nil {
		// Coastlines are usually absent from country topologies; the
		// land outline doubles as the coastline layer.
		scene.Degraded = append(scene.Degraded, "layer:"+objects.Coastlines)
		coastlines = &topo.MeshData{Layer: objects.Coastlines, Rings: land.Rings}
	}
	scene.Coastlines = coastlines
}

// LayerMesh returns one decoded boundary layer by its configured name.
func (s *Scene) LayerMesh(layer string) (*topo.MeshData, bool) {
	for _, mesh := range []*topo.MeshData{s.Land, s.Countries, s.Coastlines} {
		if mesh != nil && mesh.Layer == layer {
			return mesh, true
		}
	}
	return nil, false
}

// Rings is a convenience accessor for a layer's rings.
func (s *Scene) Rings(layer string) []orb.LineString {
	if mesh, ok := s.LayerMesh(layer); ok {
		return mesh.Rings
	}
	return nil
}

func (m *Manager) loadTopology(ctx context.Context) (any, error) {
	url := m.manifest.Topology.URL
	if url == "" {
		return nil, fmt.Errorf("no topology URL configured")
	}
	return m.cache.GetOrLoad(ctx, url, func(ctx context.Context) (any, error) {
		raw, err := m.loader.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return topo.Decode(raw)
	})
}

func (m *Manager) loadHeightmap(ctx context.Context) (any, error) {
	url := m.manifest.Heightmap
	if url == "" {
		return nil, fmt.Errorf("no heightmap URL configured")
	}
	return m.cache.GetOrLoad(ctx, url, func(ctx context.Context) (any, error) {
		raw, err := m.loader.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		// Corrupt raster bytes degrade to the flat grid (Loaded=false);
		// callers treat that as "flat sphere, no elevation".
		grid, _ := elevation.Decode(raw)
		return grid, nil
	})
}

func (m *Manager) textureLoader(url string) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		if url == "" {
			return nil, fmt.Errorf("no texture URL configured")
		}
		return m.cache.GetOrLoad(ctx, url, func(ctx context.Context) (any, error) {
			return m.loader.Fetch(ctx, url)
		})
	}
}
