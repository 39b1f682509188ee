package topo

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

// sample is a small quantized two-country topology: arcs 0 and 1 form
// the shared border and outer rings.
const sample = `{
	"type": "Topology",
	"transform": {"scale": [0.5, 0.25], "translate": [-180, -90]},
	"objects": {
		"land": {
			"type": "Polygon",
			"arcs": [[0, 1]]
		},
		"countries": {
			"type": "GeometryCollection",
			"geometries": [
				{"type": "Polygon", "id": "AAA", "arcs": [[0, 2]]},
				{"type": "Polygon", "id": "BBB", "arcs": [[-3, 1]]}
			]
		}
	},
	"arcs": [
		[[0, 0], [10, 0], [10, 10]],
		[[20, 10], [-10, 0], [-10, -10]],
		[[20, 10], [0, 10], [-10, 0]]
	]
}`

func TestDecode_DeltaAndTransform(t *testing.T) {
	topo, err := Decode([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if topo.ArcCount() != 3 {
		t.Fatalf("ArcCount = %d, want 3", topo.ArcCount())
	}

	// Arc 0 deltas [[0,0],[10,0],[10,10]] cumulate to (0,0),(10,0),(20,10),
	// then de-quantize by scale (0.5, 0.25) translate (-180, -90).
	want := orb.LineString{
		{-180, -90},
		{-175, -90},
		{-170, -87.5},
	}
	got := topo.arc(0)
	if len(got) != len(want) {
		t.Fatalf("arc 0 has %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arc 0 point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecode_NegativeArcReversal(t *testing.T) {
	topo, err := Decode([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	fwd := topo.arc(2)
	rev := topo.arc(^2) // -3 references arc 2 reversed
	if len(fwd) != len(rev) {
		t.Fatalf("lengths differ: %d vs %d", len(fwd), len(rev))
	}
	for i := range fwd {
		if fwd[i] != rev[len(rev)-1-i] {
			t.Errorf("rev[%d] = %v, want %v", len(rev)-1-i, rev[len(rev)-1-i], fwd[i])
		}
	}
}

func TestDecode_Unquantized(t *testing.T) {
	raw := `{
		"type": "Topology",
		"objects": {"land": {"type": "LineString", "arcs": [0]}},
		"arcs": [[[1.5, 2.5], [3.5, 4.5]]]
	}`
	topo, err := Decode([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	got := topo.arc(0)
	if got[0] != (orb.Point{1.5, 2.5}) || got[1] != (orb.Point{3.5, 4.5}) {
		t.Errorf("unquantized arc = %v", got)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not JSON", `{{{`},
		{"wrong type", `{"type": "FeatureCollection", "objects": {"x": {"type": "LineString", "arcs": [0]}}, "arcs": [[[0,0]]]}`},
		{"missing arcs", `{"type": "Topology", "objects": {"x": {"type": "LineString", "arcs": [0]}}}`},
		{"missing objects", `{"type": "Topology", "arcs": [[[0,0]]]}`},
		{"unresolvable index", `{"type": "Topology", "objects": {"x": {"type": "LineString", "arcs": [5]}}, "arcs": [[[0,0]]]}`},
		{"unresolvable negative index", `{"type": "Topology", "objects": {"x": {"type": "LineString", "arcs": [-9]}}, "arcs": [[[0,0]]]}`},
		{"short point", `{"type": "Topology", "objects": {"x": {"type": "LineString", "arcs": [0]}}, "arcs": [[[0]]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			if err == nil {
				t.Fatal("Decode succeeded, want DecodeError")
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Errorf("error type %T, want *DecodeError", err)
			}
		})
	}
}

func TestBuildMesh_StitchesRingsLosslessly(t *testing.T) {
	topo, err := Decode([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	mesh, err := BuildMesh(topo, "land", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Rings) != 1 {
		t.Fatalf("rings = %d, want 1", len(mesh.Rings))
	}
	// Arc 0 (3 points) and arc 1 (3 points) share their junction point,
	// which the stitch emits once: 5 points total, nothing else dropped.
	if got := len(mesh.Rings[0]); got != 5 {
		t.Errorf("ring length = %d, want 5", got)
	}
}

func TestBuildMesh_JunctionPointEmittedOnce(t *testing.T) {
	raw := `{
		"type": "Topology",
		"objects": {"land": {"type": "LineString", "arcs": [0, 1]}},
		"arcs": [
			[[0, 0], [1, 1]],
			[[1, 1], [2, 2]]
		]
	}`
	topo, err := Decode([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	mesh, err := BuildMesh(topo, "land", nil)
	if err != nil {
		t.Fatal(err)
	}
	ring := mesh.Rings[0]
	want := orb.LineString{{0, 0}, {1, 1}, {2, 2}}
	if len(ring) != len(want) {
		t.Fatalf("ring = %v, want %v", ring, want)
	}
	for i := range want {
		if ring[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, ring[i], want[i])
		}
	}
}

func TestBuildMesh_DedupSharedBorder(t *testing.T) {
	topo, err := Decode([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	distinctCountries := func(a, b string) bool { return a != b }
	mesh, err := BuildMesh(topo, "countries", distinctCountries)
	if err != nil {
		t.Fatal(err)
	}

	// Arc 2 is shared by AAA (+2) and BBB (-3): included once.
	// Arcs 0 and 1 each have a single owner: always included.
	if len(mesh.Rings) != 3 {
		t.Fatalf("rings = %d, want 3 (two boundary arcs + one shared border)", len(mesh.Rings))
	}
}

func TestBuildMesh_WithoutFilterDuplicatesSharedBorder(t *testing.T) {
	topo, err := Decode([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	mesh, err := BuildMesh(topo, "countries", nil)
	if err != nil {
		t.Fatal(err)
	}
	// Each country ring traverses its copy of the shared arc.
	if len(mesh.Rings) != 2 {
		t.Fatalf("rings = %d, want 2 stitched country rings", len(mesh.Rings))
	}
}

func TestBuildMesh_UnknownObject(t *testing.T) {
	topo, err := Decode([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildMesh(topo, "rivers", nil); err == nil {
		t.Fatal("BuildMesh succeeded for unknown object")
	}
}
