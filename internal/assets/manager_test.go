package assets

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const testTopology = `{
	"type": "Topology",
	"transform": {"scale": [1, 1], "translate": [0, 0]},
	"objects": {
		"land": {"type": "Polygon", "arcs": [[0]]},
		"countries": {"type": "GeometryCollection", "geometries": [
			{"type": "Polygon", "id": "AAA", "arcs": [[0]]}
		]},
		"coastlines": {"type": "MultiLineString", "arcs": [[0]]}
	},
	"arcs": [[[0, 0], [1, 0], [0, 1], [-1, 0]]]
}`

func testHeightmapPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 360, 180))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// sceneServer serves a complete asset set, with switches to fail
// individual assets.
func sceneServer(t *testing.T, failTopo, failHeightmap, failTexture bool) (*httptest.Server, Manifest) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/world.json", func(w http.ResponseWriter, r *http.Request) {
		if failTopo {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(testTopology))
	})
	mux.HandleFunc("/heightmap.png", func(w http.ResponseWriter, r *http.Request) {
		if failHeightmap {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(testHeightmapPNG(t))
	})
	mux.HandleFunc("/ocean.png", func(w http.ResponseWriter, r *http.Request) {
		if failTexture {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("texturebytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	m := DefaultManifest()
	m.Topology.URL = srv.URL + "/world.json"
	m.Heightmap = srv.URL + "/heightmap.png"
	m.Textures = map[string]string{"ocean": srv.URL + "/ocean.png"}
	return srv, m
}

func newTestManager(m Manifest) *Manager {
	loader := NewLoader(WithBaseDelay(time.Millisecond), WithMaxAttempts(2))
	return NewManager(m, loader, NewCache(), nil)
}

func TestLoadScene_CleanLoad(t *testing.T) {
	_, manifest := sceneServer(t, false, false, false)
	scene := newTestManager(manifest).LoadScene(context.Background())

	if len(scene.Degraded) != 0 {
		t.Errorf("Degraded = %v, want none", scene.Degraded)
	}
	if scene.Land == nil || len(scene.Land.Rings) == 0 {
		t.Fatal("land layer empty")
	}
	if scene.Countries == nil || len(scene.Countries.Rings) == 0 {
		t.Fatal("countries layer empty")
	}
	if !scene.Elevation.Loaded() {
		t.Error("elevation grid not loaded")
	}
	if string(scene.Textures["ocean"]) != "texturebytes" {
		t.Errorf("texture = %q", scene.Textures["ocean"])
	}
}

func TestLoadScene_TopologyFailureFallsBackToContinents(t *testing.T) {
	_, manifest := sceneServer(t, true, false, false)
	scene := newTestManager(manifest).LoadScene(context.Background())

	if scene.Land == nil || len(scene.Land.Rings) == 0 {
		t.Fatal("no fallback land rings")
	}
	found := false
	for _, d := range scene.Degraded {
		if d == "topology" {
			found = true
		}
	}
	if !found {
		t.Errorf("Degraded = %v, want topology entry", scene.Degraded)
	}
	// Heightmap and texture are independent and still succeed.
	if !scene.Elevation.Loaded() {
		t.Error("independent heightmap load degraded too")
	}
	if _, ok := scene.Textures["ocean"]; !ok {
		t.Error("independent texture load degraded too")
	}
}

func TestLoadScene_HeightmapFailureYieldsFlatGrid(t *testing.T) {
	_, manifest := sceneServer(t, false, true, false)
	scene := newTestManager(manifest).LoadScene(context.Background())

	if scene.Elevation == nil {
		t.Fatal("no elevation grid")
	}
	if scene.Elevation.Loaded() {
		t.Error("failed heightmap marked loaded")
	}
	if v := scene.Elevation.SampleLonLat(10, 10); v != 0.4 {
		t.Errorf("fallback sample = %g, want 0.4", v)
	}
	if scene.Land == nil || len(scene.Land.Rings) == 0 {
		t.Error("independent topology load degraded too")
	}
}

func TestLoadScene_MissingCoastlinesReusesLand(t *testing.T) {
	// Point the coastlines layer at an object the topology lacks.
	_, manifest := sceneServer(t, false, false, false)
	manifest.Topology.Objects.Coastlines = "shoreline"
	scene := newTestManager(manifest).LoadScene(context.Background())

	if scene.Coastlines == nil || len(scene.Coastlines.Rings) == 0 {
		t.Fatal("coastlines empty, want land rings reused")
	}
	if &scene.Coastlines.Rings[0][0] != &scene.Land.Rings[0][0] {
		t.Error("coastlines do not share land rings")
	}
}

func TestLoadScene_SecondLoadHitsCache(t *testing.T) {
	var topoCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/world.json", func(w http.ResponseWriter, r *http.Request) {
		topoCalls.Add(1)
		w.Write([]byte(testTopology))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	manifest := DefaultManifest()
	manifest.Topology.URL = srv.URL + "/world.json"

	mgr := newTestManager(manifest)
	mgr.LoadScene(context.Background())
	mgr.LoadScene(context.Background())

	if got := topoCalls.Load(); got != 1 {
		t.Errorf("topology fetched %d times, want 1 (cache hit)", got)
	}
}

func TestReadManifest_Defaults(t *testing.T) {
	m := DefaultManifest()
	if m.Radius != 200 {
		t.Errorf("Radius = %g, want 200", m.Radius)
	}
	if m.Topology.Objects.Land != "land" {
		t.Errorf("land object = %q", m.Topology.Objects.Land)
	}
	if m.Elevation.Power != 1.6 {
		t.Errorf("elevation power = %g, want 1.6", m.Elevation.Power)
	}
}
