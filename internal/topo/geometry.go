package topo

import (
	"encoding/json"
	"fmt"
)

// GeometryType enumerates the geometry kinds a topology object may hold.
type GeometryType string

const (
	TypeLineString         GeometryType = "LineString"
	TypeMultiLineString    GeometryType = "MultiLineString"
	TypePolygon            GeometryType = "Polygon"
	TypeMultiPolygon       GeometryType = "MultiPolygon"
	TypeGeometryCollection GeometryType = "GeometryCollection"
)

// Geometry is one named object in a topology. Arcs is kept raw because
// its nesting depth depends on Type; rings() normalizes every kind into
// the same flat ring representation so nothing downstream branches on
// geometry kind again.
type Geometry struct {
	Type       GeometryType    `json:"type"`
	ID         string          `json:"id,omitempty"`
	Arcs       json.RawMessage `json:"arcs,omitempty"`
	Geometries []Geometry      `json:"geometries,omitempty"`
}

// arcRing is one ring of arc references, tagged with the feature that
// owns it (the geometry ID, or the collection member's ID).
type arcRing struct {
	owner   string
	arcRefs []int
}

// rings normalizes the geometry into a flat list of arc-reference rings.
func (g Geometry) rings() ([]arcRing, error) {
	return g.ringsOwned(g.ID)
}

func (g Geometry) ringsOwned(owner string) ([]arcRing, error) {
	if g.ID != "" {
		owner = g.ID
	}

	switch g.Type {
	case TypeGeometryCollection:
		var out []arcRing
		for _, member := range g.Geometries {
			rings, err := member.ringsOwned(owner)
			if err != nil {
				return nil, err
			}
			out = append(out, rings...)
		}
		return out, nil

	case TypeLineString:
		var refs []int
		if err := json.Unmarshal(g.Arcs, &refs); err != nil {
			return nil, fmt.Errorf("LineString arcs: %w", err)
		}
		return []arcRing{{owner: owner, arcRefs: refs}}, nil

	case TypeMultiLineString, TypePolygon:
		var ringRefs [][]int
		if err := json.Unmarshal(g.Arcs, &ringRefs); err != nil {
			return nil, fmt.Errorf("%s arcs: %w", g.Type, err)
		}
		out := make([]arcRing, 0, len(ringRefs))
		for _, refs := range ringRefs {
			out = append(out, arcRing{owner: owner, arcRefs: refs})
		}
		return out, nil

	case TypeMultiPolygon:
		var polyRefs [][][]int
		if err := json.Unmarshal(g.Arcs, &polyRefs); err != nil {
			return nil, fmt.Errorf("MultiPolygon arcs: %w", err)
		}
		var out []arcRing
		for _, poly := range polyRefs {
			for _, refs := range poly {
				out = append(out, arcRing{owner: owner, arcRefs: refs})
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}
