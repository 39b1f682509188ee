package assets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/terraviz/globe/internal/elevation"
)

// Manifest names the remote assets of one globe scene and the tuning
// applied when projecting them. Read from YAML at startup.
type Manifest struct {
	// Radius is the base sphere radius handed to the projector.
	Radius float64 `yaml:"radius"`

	// Elevation tunes radial displacement of the sphere surface.
	Elevation elevation.DisplaceConfig `yaml:"elevation"`

	Topology  TopologySpec      `yaml:"topology"`
	Heightmap string            `yaml:"heightmap"`
	Textures  map[string]string `yaml:"textures"`
}

// TopologySpec locates the boundary topology and names the objects to
// extract from it.
type TopologySpec struct {
	URL     string `yaml:"url"`
	Objects struct {
		Land       string `yaml:"land"`
		Countries  string `yaml:"countries"`
		Coastlines string `yaml:"coastlines"`
	} `yaml:"objects"`
}

// DefaultManifest is used when no manifest file is supplied.
func DefaultManifest() Manifest {
	m := Manifest{
		Radius:    200,
		Elevation: elevation.DefaultDisplace,
	}
	m.Topology.Objects.Land = "land"
	m.Topology.Objects.Countries = "countries"
	m.Topology.Objects.Coastlines = "coastlines"
	return m
}

// ReadManifest loads a manifest YAML file, filling unset fields from
// the defaults.
func ReadManifest(path string) (Manifest, error) {
	m := DefaultManifest()
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Radius <= 0 {
		m.Radius = 200
	}
	if m.Elevation.MaxScale == 0 {
		m.Elevation = elevation.DefaultDisplace
	}
	return m, nil
}
