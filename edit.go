package gosie2d

import (
	"github.com/go-gl/mathgl/mgl64"
)

// GridPitch is the spacing vertices snap to when moved with snapping on.
const GridPitch = 0.25

// VertexSelection groups selected vertices by the polygon that owns them.
type VertexSelection map[PolygonID][]VertexID

// SplitEdge inserts a vertex on the edge at the projection of cut. Both
// halves keep the edge's material; the first half keeps its identity.
func (g *Geometry) SplitEdge(polygonID PolygonID, edgeID EdgeID, cut Vector2) (*Geometry, error) {
	p, err := g.Polygon(polygonID)
	if err != nil {
		return nil, err
	}
	i := p.EdgeIndex(edgeID)
	if i < 0 {
		return nil, notFound(KindEdge, string(edgeID))
	}

	seg := p.Segment(i)
	point := seg.PointAt(mgl64.Clamp(seg.ProjectParam(cut), 0, 1))
	if nearlyEqual(point, seg.Start) || nearlyEqual(point, seg.End) {
		return nil, &DegenerateGeometryError{Reason: "split point coincides with an edge endpoint"}
	}

	positions := p.positions()
	vid := NewVertexID()
	positions[vid] = point

	e := p.edges[i]
	first := Edge{ID: e.ID, Start: e.Start, End: vid, Material: e.Material.Clone(), Immaterial: e.Immaterial}
	second := Edge{ID: NewEdgeID(), Start: vid, End: e.End, Material: e.Material.Clone(), Immaterial: e.Immaterial}

	edges := make([]Edge, 0, len(p.edges)+1)
	edges = append(edges, p.edges[:i]...)
	edges = append(edges, first, second)
	edges = append(edges, p.edges[i+1:]...)

	np, err := newPolygon(p.ID, edges, positions)
	if err != nil {
		return nil, err
	}
	return g.replace(map[PolygonID]*Polygon{p.ID: np}, nil, nil), nil
}

// RemoveVertex deletes a vertex, joining the edge that ended at it to the
// vertex after it. The incoming edge keeps its identity and material.
func (g *Geometry) RemoveVertex(polygonID PolygonID, vertexID VertexID) (*Geometry, error) {
	p, err := g.Polygon(polygonID)
	if err != nil {
		return nil, err
	}
	k := p.VertexIndex(vertexID)
	if k < 0 {
		return nil, notFound(KindVertex, string(vertexID))
	}
	n := p.EdgeCount()
	if n-1 < 3 {
		return nil, &InvalidPolygonError{Polygon: p.ID, Reason: "removing the vertex would leave fewer than 3 vertices"}
	}

	incoming := (k - 1 + n) % n
	edges := p.copyEdges()
	edges[incoming].End = edges[k].End
	edges = append(edges[:k], edges[k+1:]...)

	positions := p.positions()
	delete(positions, vertexID)

	np, err := newPolygon(p.ID, edges, positions)
	if err != nil {
		return nil, err
	}
	return g.replace(map[PolygonID]*Polygon{p.ID: np}, nil, nil), nil
}

// MoveVertices translates each selected vertex by delta exactly once, no
// matter how often it appears in the selection. With snap set the result
// is rounded to GridPitch.
func (g *Geometry) MoveVertices(selection VertexSelection, delta Vector2, snap bool) (*Geometry, error) {
	updated := make(map[PolygonID]*Polygon, len(selection))
	for pid, vids := range selection {
		p, err := g.Polygon(pid)
		if err != nil {
			return nil, err
		}

		moved := make(map[VertexID]bool, len(vids))
		for _, vid := range vids {
			if _, ok := p.vertices[vid]; !ok {
				return nil, notFound(KindVertex, string(vid))
			}
			moved[vid] = true
		}

		positions := p.positions()
		for vid := range moved {
			pos := positions[vid].Add(delta)
			if snap {
				pos = snapToGrid(pos, GridPitch)
			}
			positions[vid] = pos
		}

		np, err := newPolygon(p.ID, p.copyEdges(), positions)
		if err != nil {
			return nil, err
		}
		for i := range np.segments {
			if np.segments[i].Length() < Epsilon {
				return nil, &DegenerateGeometryError{Reason: "move collapses an edge"}
			}
		}
		updated[pid] = np
	}
	return g.replace(updated, nil, nil), nil
}

// ExpandPolygon extrudes an edge towards target, adding a quad bridging the
// edge and a parallel copy of it. The quad has the winding of the source
// polygon and the edge's material.
func (g *Geometry) ExpandPolygon(polygonID PolygonID, edgeID EdgeID, target Vector2) (*Geometry, error) {
	p, err := g.Polygon(polygonID)
	if err != nil {
		return nil, err
	}
	i := p.EdgeIndex(edgeID)
	if i < 0 {
		return nil, notFound(KindEdge, string(edgeID))
	}

	seg := p.Segment(i)
	normal := seg.Normal()
	offset := normal.Mul(target.Sub(seg.Start).Dot(normal))
	if offset.Len() < Epsilon {
		return nil, &DegenerateGeometryError{Reason: "target lies on the edge"}
	}

	a, b := seg.Start, seg.End
	points := []Vector2{b, a, a.Add(offset), b.Add(offset)}
	if quadArea(points)*p.SignedArea() < 0 {
		points = []Vector2{a, b, b.Add(offset), a.Add(offset)}
	}

	quad, err := CreatePolygon(points, p.edges[i].Material)
	if err != nil {
		return nil, err
	}
	return g.replace(nil, []*Polygon{quad}, nil), nil
}

func quadArea(points []Vector2) float64 {
	area := 0.0
	for i := range points {
		area += Cross2(points[i], points[(i+1)%len(points)])
	}
	return area / 2
}

// SplitPolygon cuts a polygon in two along the chord between vertices a and
// b. The first part keeps the polygon's identity; the second gets its own
// copies of the chord vertices so no vertex is owned by two polygons.
func (g *Geometry) SplitPolygon(polygonID PolygonID, a, b VertexID) (*Geometry, error) {
	p, err := g.Polygon(polygonID)
	if err != nil {
		return nil, err
	}
	i := p.VertexIndex(a)
	if i < 0 {
		return nil, notFound(KindVertex, string(a))
	}
	j := p.VertexIndex(b)
	if j < 0 {
		return nil, notFound(KindVertex, string(b))
	}
	if i > j {
		i, j = j, i
	}

	n := p.EdgeCount()
	if i == j || j-i == 1 || n-(j-i) == 1 {
		return nil, &InvalidPolygonError{Polygon: p.ID, Reason: "split chord must join two non-adjacent vertices"}
	}

	vi := p.edges[i].Start
	vj := p.edges[j].Start
	chordMaterial := p.edges[i].Material

	first := make([]Edge, 0, j-i+1)
	first = append(first, p.edges[i:j]...)
	first = append(first, Edge{ID: NewEdgeID(), Start: vj, End: vi, Material: chordMaterial.Clone()})

	positions := p.positions()
	vi2, vj2 := NewVertexID(), NewVertexID()
	positions[vi2] = positions[vi]
	positions[vj2] = positions[vj]

	second := make([]Edge, 0, n-(j-i)+1)
	second = append(second, p.edges[j:]...)
	second = append(second, p.edges[:i]...)
	second[0].Start = vj2
	second[len(second)-1].End = vi2
	second = append(second, Edge{ID: NewEdgeID(), Start: vi2, End: vj2, Material: chordMaterial.Clone()})

	firstPoly, err := newPolygon(p.ID, first, positions)
	if err != nil {
		return nil, err
	}
	secondPoly, err := newPolygon(NewPolygonID(), second, positions)
	if err != nil {
		return nil, err
	}
	return g.replace(map[PolygonID]*Polygon{p.ID: firstPoly}, []*Polygon{secondPoly}, nil), nil
}

func (g *Geometry) selectPolygons(ids []PolygonID) ([]*Polygon, error) {
	seen := make(map[PolygonID]bool, len(ids))
	out := make([]*Polygon, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		p, err := g.Polygon(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// RotatePolygons rotates the polygons about their common centroid so that
// the first vertex of the first polygon points towards target.
func (g *Geometry) RotatePolygons(ids []PolygonID, target Vector2) (*Geometry, error) {
	polys, err := g.selectPolygons(ids)
	if err != nil {
		return nil, err
	}
	if len(polys) == 0 {
		return g, nil
	}

	var sum Vector2
	count := 0
	for _, p := range polys {
		for _, seg := range p.segments {
			sum = sum.Add(seg.Start)
			count++
		}
	}
	centroid := sum.Mul(1 / float64(count))

	first := polys[0].segments[0].Start
	angle := SignedAngle2(first.Sub(centroid), target.Sub(centroid))
	rot := mgl64.Rotate2D(angle)

	updated := make(map[PolygonID]*Polygon, len(polys))
	for _, p := range polys {
		np, err := p.transformed(func(v Vector2) Vector2 {
			return centroid.Add(rot.Mul2x1(v.Sub(centroid)))
		})
		if err != nil {
			return nil, err
		}
		updated[p.ID] = np
	}
	return g.replace(updated, nil, nil), nil
}

// DuplicatePolygons deep copies the polygons under new identities, moved by
// offset. The copies are returned as well so callers can select them.
func (g *Geometry) DuplicatePolygons(ids []PolygonID, offset Vector2) (*Geometry, []*Polygon, error) {
	polys, err := g.selectPolygons(ids)
	if err != nil {
		return nil, nil, err
	}

	copies := make([]*Polygon, 0, len(polys))
	for _, p := range polys {
		np, err := p.cloneWithNewIDs(func(v Vector2) Vector2 { return v.Add(offset) })
		if err != nil {
			return nil, nil, err
		}
		copies = append(copies, np)
	}
	return g.replace(nil, copies, nil), copies, nil
}

// ReversePolygons flips the winding of each polygon, which swaps the
// interior and exterior faces of every edge.
func (g *Geometry) ReversePolygons(ids []PolygonID) (*Geometry, error) {
	polys, err := g.selectPolygons(ids)
	if err != nil {
		return nil, err
	}

	updated := make(map[PolygonID]*Polygon, len(polys))
	for _, p := range polys {
		n := p.EdgeCount()
		edges := make([]Edge, n)
		for k := 0; k < n; k++ {
			e := p.edges[n-1-k]
			edges[k] = Edge{ID: e.ID, Start: e.End, End: e.Start, Material: e.Material.Clone(), Immaterial: e.Immaterial}
		}
		np, err := newPolygon(p.ID, edges, p.positions())
		if err != nil {
			return nil, err
		}
		updated[p.ID] = np
	}
	return g.replace(updated, nil, nil), nil
}

// SetEdgeMaterial replaces the material and collision flag of one edge.
func (g *Geometry) SetEdgeMaterial(edgeID EdgeID, material EdgeMaterial, immaterial bool) (*Geometry, error) {
	p, i, err := g.FindEdge(edgeID)
	if err != nil {
		return nil, err
	}

	edges := p.copyEdges()
	edges[i].Material = material.Clone()
	edges[i].Immaterial = immaterial

	np, err := newPolygon(p.ID, edges, p.positions())
	if err != nil {
		return nil, err
	}
	return g.replace(map[PolygonID]*Polygon{p.ID: np}, nil, nil), nil
}
