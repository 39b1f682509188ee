package topo

import (
	"github.com/paulmach/orb"
)

// MeshData is the decoded, shared-border-resolved boundary set for one
// logical layer. Rings are lon/lat polylines in traversal order; the
// consumer closes rings implicitly, so the first point is not repeated
// unless the source data repeats it.
type MeshData struct {
	Layer string
	Rings []orb.LineString
}

// DedupFilter decides whether two distinct owning features should share
// a single copy of their common border arc. Used for country borders so
// interior boundaries are drawn once instead of once per neighbour.
type DedupFilter func(ownerA, ownerB string) bool

// BuildMesh extracts the boundary mesh for one named object.
//
// Without a filter, each ring is stitched from its arcs losslessly:
// consecutive arcs share their junction point, which is emitted once.
// With a filter, arcs owned by two distinct features (for which the
// filter returns true) are emitted once as standalone polylines; arcs
// on the mesh boundary, owned by a single feature, are always included.
func BuildMesh(t *Topology, objectName string, filter DedupFilter) (*MeshData, error) {
	obj, ok := t.Objects[objectName]
	if !ok {
		return nil, decodeErrorf("object %q not found", objectName)
	}
	rings, err := obj.rings()
	if err != nil {
		return nil, decodeErrorf("object %q: %v", objectName, err)
	}

	if filter == nil {
		return stitchRings(t, objectName, rings), nil
	}
	return dedupArcs(t, objectName, rings, filter), nil
}

// stitchRings concatenates each ring's arcs into one polyline,
// preserving every decoded point exactly once per traversal.
func stitchRings(t *Topology, layer string, rings []arcRing) *MeshData {
	mesh := &MeshData{Layer: layer}
	for _, ring := range rings {
		var line orb.LineString
		for i, ref := range ring.arcRefs {
			pts := t.arc(ref)
			if i > 0 && len(pts) > 0 && len(line) > 0 && pts[0] == line[len(line)-1] {
				pts = pts[1:]
			}
			line = append(line, pts...)
		}
		if len(line) > 0 {
			mesh.Rings = append(mesh.Rings, line)
		}
	}
	return mesh
}

// dedupArcs emits each arc at most once. Shared interior arcs (two
// distinct owners accepted by the filter) appear a single time; arcs
// with one owner always appear.
func dedupArcs(t *Topology, layer string, rings []arcRing, filter DedupFilter) *MeshData {
	owners := make(map[int][]string)
	var order []int
	for _, ring := range rings {
		for _, ref := range ring.arcRefs {
			idx := resolveArcIndex(ref)
			if _, seen := owners[idx]; !seen {
				order = append(order, idx)
			}
			owners[idx] = append(owners[idx], ring.owner)
		}
	}

	mesh := &MeshData{Layer: layer}
	for _, idx := range order {
		who := owners[idx]
		if len(who) >= 2 && !anyDistinct(who, filter) {
			// Shared only between traversals of one logical feature:
			// an internal subdivision, not a visible border.
			continue
		}
		mesh.Rings = append(mesh.Rings, t.arcLines[idx])
	}
	return mesh
}

func anyDistinct(owners []string, filter DedupFilter) bool {
	for i := 1; i < len(owners); i++ {
		if filter(owners[0], owners[i]) {
			return true
		}
	}
	return false
}
