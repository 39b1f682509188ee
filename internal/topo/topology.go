// Package topo decodes compact vector-boundary topologies (TopoJSON) and
// extracts per-layer boundary meshes from them. Shared borders between
// adjacent features are stored once as arcs and referenced by index;
// decoding reverses the delta encoding and quantization, and mesh
// extraction optionally de-duplicates arcs shared by two features.
package topo

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
)

// Transform de-quantizes arc coordinates: real = quantized*scale + translate.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Topology is a decoded TopoJSON document. Arcs holds the raw
// delta-encoded point sequences as parsed from JSON; decoded absolute
// coordinates live in arcLines after Decode.
type Topology struct {
	Type      string              `json:"type"`
	Transform *Transform          `json:"transform,omitempty"`
	BBox      []float64           `json:"bbox,omitempty"`
	Objects   map[string]Geometry `json:"objects"`
	Arcs      [][][]float64       `json:"arcs"`

	arcLines []orb.LineString
}

// DecodeError reports a structurally invalid topology. Retrying a
// decode never helps, so callers fall back to static geography instead.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "topology decode: " + e.Reason
}

func decodeErrorf(format string, args ...any) error {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// Decode parses and validates raw TopoJSON bytes, reconstructing
// absolute arc coordinates from the delta/quantized encoding.
func Decode(raw []byte) (*Topology, error) {
	var t Topology
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, decodeErrorf("invalid JSON: %v", err)
	}
	if t.Type != "Topology" {
		return nil, decodeErrorf("type %q, want Topology", t.Type)
	}
	if len(t.Arcs) == 0 {
		return nil, decodeErrorf("missing arcs")
	}
	if len(t.Objects) == 0 {
		return nil, decodeErrorf("missing objects")
	}

	t.arcLines = make([]orb.LineString, len(t.Arcs))
	for i, arc := range t.Arcs {
		line, err := t.decodeArc(i, arc)
		if err != nil {
			return nil, err
		}
		t.arcLines[i] = line
	}

	// Every arc reference in every object must resolve.
	for name, obj := range t.Objects {
		rings, err := obj.rings()
		if err != nil {
			return nil, decodeErrorf("object %q: %v", name, err)
		}
		for _, ring := range rings {
			for _, ref := range ring.arcRefs {
				if idx := resolveArcIndex(ref); idx < 0 || idx >= len(t.arcLines) {
					return nil, decodeErrorf("object %q references arc %d outside [0, %d)", name, ref, len(t.arcLines))
				}
			}
		}
	}

	return &t, nil
}

// decodeArc cumulative-sums one arc's delta pairs and de-quantizes them.
// Unquantized topologies (no transform) store absolute positions.
func (t *Topology) decodeArc(idx int, arc [][]float64) (orb.LineString, error) {
	line := make(orb.LineString, 0, len(arc))
	x, y := 0.0, 0.0
	for j, pt := range arc {
		if len(pt) < 2 {
			return nil, decodeErrorf("arc %d point %d has %d components, want 2", idx, j, len(pt))
		}
		if t.Transform == nil {
			line = append(line, orb.Point{pt[0], pt[1]})
			continue
		}
		x += pt[0]
		y += pt[1]
		line = append(line, orb.Point{
			x*t.Transform.Scale[0] + t.Transform.Translate[0],
			y*t.Transform.Scale[1] + t.Transform.Translate[1],
		})
	}
	if len(line) == 0 {
		return nil, decodeErrorf("arc %d is empty", idx)
	}
	return line, nil
}

// resolveArcIndex maps an arc reference to its index in arcs. Negative
// references use the TopoJSON convention: ~ref names the arc, traversed
// in reverse.
func resolveArcIndex(ref int) int {
	if ref < 0 {
		return ^ref
	}
	return ref
}

// arc returns the decoded coordinates for one arc reference, reversed
// when the reference is negative.
func (t *Topology) arc(ref int) orb.LineString {
	line := t.arcLines[resolveArcIndex(ref)]
	if ref >= 0 {
		return line
	}
	rev := make(orb.LineString, len(line))
	for i, p := range line {
		rev[len(line)-1-i] = p
	}
	return rev
}

// ArcCount returns the number of decoded arcs.
func (t *Topology) ArcCount() int {
	return len(t.arcLines)
}
