// Package fallback holds the hand-curated static geography used when
// the network asset pipeline fails entirely: coarse continent outlines
// and a small landmark set. Rendering always proceeds, at degraded
// fidelity, even under total asset-load failure.
package fallback

import (
	_ "embed"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/terraviz/globe/internal/geo"
)

//go:embed continents.geojson
var continentsGeoJSON []byte

var (
	once  sync.Once
	rings []orb.LineString
)

// ContinentRings returns the coarse continent outlines as lon/lat
// polylines. Decoded once from the embedded dataset; the result is
// shared and must not be mutated.
func ContinentRings() []orb.LineString {
	once.Do(func() {
		fc, err := geojson.UnmarshalFeatureCollection(continentsGeoJSON)
		if err != nil {
			// The embedded dataset ships with the binary; failing to
			// parse it is a build defect, not a runtime condition.
			panic("fallback: embedded continents dataset invalid: " + err.Error())
		}
		for _, f := range fc.Features {
			switch g := f.Geometry.(type) {
			case orb.LineString:
				rings = append(rings, g)
			case orb.Polygon:
				for _, r := range g {
					rings = append(rings, orb.LineString(r))
				}
			case orb.MultiPolygon:
				for _, poly := range g {
					for _, r := range poly {
						rings = append(rings, orb.LineString(r))
					}
				}
			}
		}
	})
	return rings
}

// Landmark is a named point of interest used for degraded rendering
// and gazetteer seeding.
type Landmark struct {
	Name  string
	Coord geo.Coordinate
}

// Landmarks returns the built-in landmark set. Never mutated.
func Landmarks() []Landmark {
	return landmarks
}

var landmarks = []Landmark{
	{"San Francisco", geo.Coordinate{Lon: -122.4194, Lat: 37.7749}},
	{"New York", geo.Coordinate{Lon: -74.0060, Lat: 40.7128}},
	{"London", geo.Coordinate{Lon: -0.1276, Lat: 51.5072}},
	{"Paris", geo.Coordinate{Lon: 2.3522, Lat: 48.8566}},
	{"Cairo", geo.Coordinate{Lon: 31.2357, Lat: 30.0444}},
	{"Nairobi", geo.Coordinate{Lon: 36.8219, Lat: -1.2921}},
	{"Moscow", geo.Coordinate{Lon: 37.6173, Lat: 55.7558}},
	{"Mumbai", geo.Coordinate{Lon: 72.8777, Lat: 19.0760}},
	{"Singapore", geo.Coordinate{Lon: 103.8198, Lat: 1.3521}},
	{"Tokyo", geo.Coordinate{Lon: 139.6917, Lat: 35.6895}},
	{"Sydney", geo.Coordinate{Lon: 151.2093, Lat: -33.8688}},
	{"São Paulo", geo.Coordinate{Lon: -46.6333, Lat: -23.5505}},
	{"Buenos Aires", geo.Coordinate{Lon: -58.3816, Lat: -34.6037}},
	{"Mexico City", geo.Coordinate{Lon: -99.1332, Lat: 19.4326}},
	{"Anchorage", geo.Coordinate{Lon: -149.9003, Lat: 61.2181}},
	{"Reykjavík", geo.Coordinate{Lon: -21.8277, Lat: 64.1265}},
}
