// Package mesh turns decoded geographic rings and elevation grids into
// the flat vertex buffers the external renderer consumes: polyline
// chains for boundary layers and a displaced sphere surface. All
// construction here is synchronous pure computation over already
// decoded data.
package mesh

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/terraviz/globe/internal/elevation"
	"github.com/terraviz/globe/internal/geo"
)

// Options tunes line-buffer construction. Zero values disable the
// corresponding stage.
type Options struct {
	// Tolerance is the stride-decimation tolerance applied per ring
	// before projection. 0 keeps every point.
	Tolerance float64 `json:"tolerance,omitempty"`
	// MaxSegmentKm resamples long segments after simplification so
	// boundaries stay smooth on the sphere. 0 disables resampling.
	MaxSegmentKm float64 `json:"maxSegmentKm,omitempty"`
	// Grid, when set, radially displaces boundary vertices by sampled
	// elevation using Displace.
	Grid     *elevation.Grid          `json:"-"`
	Displace elevation.DisplaceConfig `json:"-"`
}

// LineBuffer is one layer's polyline geometry: Positions holds xyz
// triples, Rings holds the starting vertex index of each chain.
type LineBuffer struct {
	Positions []float64 `json:"positions"`
	Rings     []int     `json:"rings"`
}

// VertexCount returns the number of 3D vertices in the buffer.
func (b *LineBuffer) VertexCount() int {
	return len(b.Positions) / 3
}

// BuildLines projects each ring onto a sphere of the given radius and
// flattens the vertices into a renderer-ready buffer. Per-ring order is
// preserved; the consumer closes rings implicitly.
func BuildLines(rings []orb.LineString, radius float64, opts Options) *LineBuffer {
	buf := &LineBuffer{}
	for _, ring := range rings {
		coords := make([]geo.Coordinate, len(ring))
		for i, p := range ring {
			coords[i] = geo.FromPoint(p)
		}
		if opts.Tolerance > 0 {
			coords = geo.Simplify(coords, opts.Tolerance)
		}
		if opts.MaxSegmentKm > 0 {
			coords = geo.AdaptiveResample(coords, opts.MaxSegmentKm)
		}
		if len(coords) == 0 {
			continue
		}

		buf.Rings = append(buf.Rings, buf.VertexCount())
		for _, c := range coords {
			r := radius
			if opts.Grid != nil {
				elev := opts.Grid.SampleLonLat(c.Lon, c.Lat)
				r = opts.Displace.Radius(radius, elev)
			}
			v := geo.Project(c, r)
			buf.Positions = append(buf.Positions, v.X, v.Y, v.Z)
		}
	}
	return buf
}

// SphereMesh is the displaced globe surface: a lat/lon grid of vertices
// with per-vertex normals pointing radially outward.
type SphereMesh struct {
	Positions []float64 `json:"positions"`
	Normals   []float64 `json:"normals"`
	// Rows and Cols describe the vertex grid so the renderer can
	// derive the triangle index deterministically.
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// BuildSphere samples the elevation grid on a regular lat/lon lattice
// and displaces each vertex radially. rows and cols are vertex counts
// per axis; values below 2 fall back to a 90x180 lattice.
func BuildSphere(grid *elevation.Grid, radius float64, displace elevation.DisplaceConfig, rows, cols int) *SphereMesh {
	if rows < 2 {
		rows = 90
	}
	if cols < 2 {
		cols = 180
	}

	m := &SphereMesh{
		Positions: make([]float64, 0, rows*cols*3),
		Normals:   make([]float64, 0, rows*cols*3),
		Rows:      rows,
		Cols:      cols,
	}
	for i := 0; i < rows; i++ {
		lat := 90 - 180*float64(i)/float64(rows-1)
		for j := 0; j < cols; j++ {
			lon := -180 + 360*float64(j)/float64(cols-1)
			r := radius
			if grid != nil {
				r = displace.Radius(radius, grid.SampleLonLat(lon, lat))
			}
			v := geo.Project(geo.Coordinate{Lon: lon, Lat: lat}, r)
			m.Positions = append(m.Positions, v.X, v.Y, v.Z)

			n := geo.Project(geo.Coordinate{Lon: lon, Lat: lat}, 1)
			m.Normals = append(m.Normals, n.X, n.Y, n.Z)
		}
	}
	return m
}

// PointBuffer is a set of labelled 3D points (landmarks).
type PointBuffer struct {
	Positions []float64 `json:"positions"`
	Labels    []string  `json:"labels"`
}

// BuildPoints projects labelled coordinates slightly above the sphere
// surface so markers never z-fight the terrain.
func BuildPoints(names []string, coords []geo.Coordinate, radius float64) *PointBuffer {
	n := len(coords)
	if len(names) < n {
		n = len(names)
	}
	buf := &PointBuffer{
		Positions: make([]float64, 0, n*3),
		Labels:    make([]string, 0, n),
	}
	lift := radius * 1.01
	for i := 0; i < n; i++ {
		v := geo.Project(coords[i], lift)
		buf.Positions = append(buf.Positions, v.X, v.Y, v.Z)
		buf.Labels = append(buf.Labels, names[i])
	}
	return buf
}

// ChordLengthKm returns the straight-line distance between two buffer
// vertices, in the same unit as the sphere radius. Used by diagnostics
// to sanity-check resampled segment lengths.
func ChordLengthKm(b *LineBuffer, i, j int) float64 {
	ax, ay, az := b.Positions[i*3], b.Positions[i*3+1], b.Positions[i*3+2]
	bx, by, bz := b.Positions[j*3], b.Positions[j*3+1], b.Positions[j*3+2]
	dx, dy, dz := ax-bx, ay-by, az-bz
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
