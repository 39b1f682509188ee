// Package elevation decodes an equirectangular heightmap raster into a
// normalized sample grid and answers elevation queries against it. The
// canonical raster is 360x180, one sample per integer degree, with
// terrain height encoded as red-channel intensity.
package elevation

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sync"
)

const (
	// GridWidth and GridHeight are the canonical raster dimensions.
	GridWidth  = 360
	GridHeight = 180

	// DefaultSample is the flat mid-elevation used for missing samples
	// and for the fallback grid when the raster cannot be decoded.
	DefaultSample = 0.4

	// polarSample replaces samples below the reliable southern cutoff.
	polarSample = 0.2

	// Calibration between this raster's pixel origin and the longitude
	// convention of the projector. These are measured against the real
	// asset, not derived; see Sample. Do not "fix" them.
	lonShift  = 270
	rowOffset = 173
	colOffset = 170
	polarRow  = 149
)

// Grid is an elevation sample grid. Samples are immutable after
// creation; the mutex only orders Dispose against concurrent sampling,
// since a cache clear may tear a grid down while a request that already
// holds the scene is still reading it.
type Grid struct {
	mu      sync.RWMutex
	samples []float64
	width   int
	height  int
	loaded  bool
}

// Loaded reports whether the grid holds real raster data, as opposed to
// the flat fallback or a disposed grid.
func (g *Grid) Loaded() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loaded
}

// Flat returns the fallback grid: every sample at DefaultSample, not
// Loaded. Callers render a flat sphere from it instead of propagating a
// raster failure.
func Flat() *Grid {
	samples := make([]float64, GridWidth*GridHeight)
	for i := range samples {
		samples[i] = DefaultSample
	}
	return &Grid{samples: samples, width: GridWidth, height: GridHeight}
}

// Decode extracts one scalar channel per pixel from raster bytes into a
// dense grid. Any decode failure yields the flat fallback grid and the
// error for logging; the grid is always usable.
func Decode(raw []byte) (*Grid, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Flat(), fmt.Errorf("decode heightmap: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return Flat(), fmt.Errorf("decode heightmap: empty %dx%d image", w, h)
	}

	samples := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit channels.
			samples[y*w+x] = float64(r>>8) / 255.0
		}
	}
	return &Grid{samples: samples, width: w, height: h, loaded: true}, nil
}

// Width returns the grid's sample columns.
func (g *Grid) Width() int { return g.width }

// Height returns the grid's sample rows.
func (g *Grid) Height() int { return g.height }

// Dispose releases the sample memory. The grid answers DefaultSample
// for every query afterwards. Safe to call while other goroutines are
// still sampling.
func (g *Grid) Dispose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.samples = nil
	g.loaded = false
}

// SampleLonLat looks up the normalized elevation for a geographic
// coordinate, applying the raster's fixed longitude shift before the
// index calibration. Always returns a value in [0, 1].
func (g *Grid) SampleLonLat(lon, lat float64) float64 {
	return g.sample(lon+lonShift, lat)
}

// sample maps an already-shifted longitude and a latitude onto the
// raster. The row/column offsets are calibration data tied to the
// specific source raster's pixel origin; they reproduce the original
// visual alignment exactly.
func (g *Grid) sample(shiftedLon, lat float64) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.samples == nil {
		return DefaultSample
	}

	p1 := float64(rowOffset) - math.Ceil(lat+90)
	p0 := float64(colOffset) + math.Floor(shiftedLon)

	// Southern rows past the cutoff carry unreliable polar data.
	if p1 > polarRow {
		return polarSample
	}
	// Far-northern latitudes index above the raster's first row; those
	// are out-of-range samples, not wrapped ones.
	if p1 < 0 {
		return DefaultSample
	}

	row := int(p1)
	col := int(math.Floor(p0))
	col = ((col % g.width) + g.width) % g.width

	idx := col + g.width*row
	if idx >= len(g.samples) {
		return DefaultSample
	}
	v := g.samples[idx]
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
