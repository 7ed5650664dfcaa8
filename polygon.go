package gosie2d

import "math"

type Vertex struct {
	ID       VertexID
	Position Vector2
}

// Edge runs from the vertex Start to the vertex End of its polygon. Both
// ends are keys into the polygon's vertex arena.
type Edge struct {
	ID         EdgeID
	Start      VertexID
	End        VertexID
	Material   EdgeMaterial
	Immaterial bool
}

type BoundingBox struct {
	Min Vector2
	Max Vector2
}

func emptyBox() BoundingBox {
	return BoundingBox{
		Min: Vector2{math.Inf(1), math.Inf(1)},
		Max: Vector2{math.Inf(-1), math.Inf(-1)},
	}
}

func (b BoundingBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1]
}

func (b *BoundingBox) extend(p Vector2) {
	b.Min[0] = math.Min(b.Min[0], p[0])
	b.Min[1] = math.Min(b.Min[1], p[1])
	b.Max[0] = math.Max(b.Max[0], p[0])
	b.Max[1] = math.Max(b.Max[1], p[1])
}

func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	out := b
	if !o.IsEmpty() {
		out.extend(o.Min)
		out.extend(o.Max)
	}
	return out
}

func (b BoundingBox) Contains(p Vector2) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] && p[1] >= b.Min[1] && p[1] <= b.Max[1]
}

func (b BoundingBox) Center() Vector2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Sides returns the four box edges in counter-clockwise order.
func (b BoundingBox) Sides() [4]Line {
	bl := b.Min
	br := Vector2{b.Max[0], b.Min[1]}
	tr := b.Max
	tl := Vector2{b.Min[0], b.Max[1]}
	return [4]Line{{bl, br}, {br, tr}, {tr, tl}, {tl, bl}}
}

// Corners returns the four box corners.
func (b BoundingBox) Corners() [4]Vector2 {
	return [4]Vector2{b.Min, {b.Max[0], b.Min[1]}, b.Max, {b.Min[0], b.Max[1]}}
}

// Polygon is a closed cycle of edges. Polygons are immutable once built:
// every edit constructs new polygons, so a *Polygon can be shared freely
// between geometry revisions and goroutines.
type Polygon struct {
	ID       PolygonID
	edges    []Edge
	vertices map[VertexID]Vector2
	segments []Line
	box      BoundingBox
}

// newPolygon validates the cycle and computes segments and bounding box in
// one pass. Vertices in positions that no edge references are dropped.
func newPolygon(id PolygonID, edges []Edge, positions map[VertexID]Vector2) (*Polygon, error) {
	n := len(edges)
	if n < 3 {
		return nil, &DegenerateGeometryError{Points: n}
	}

	p := &Polygon{
		ID:       id,
		edges:    edges,
		vertices: make(map[VertexID]Vector2, n),
		segments: make([]Line, n),
		box:      emptyBox(),
	}

	for i, e := range edges {
		next := edges[(i+1)%n]
		start, ok := positions[e.Start]
		if !ok {
			return nil, notFound(KindVertex, string(e.Start))
		}
		end, ok := positions[e.End]
		if !ok {
			return nil, notFound(KindVertex, string(e.End))
		}
		if e.End != next.Start {
			return nil, &TopologyError{Index: i, Gap: end.Sub(positions[next.Start]).Len()}
		}
		if _, dup := p.vertices[e.Start]; dup {
			return nil, &TopologyError{Index: i}
		}

		p.vertices[e.Start] = start
		p.segments[i] = Line{Start: start, End: end}
		p.box.extend(start)
	}

	return p, nil
}

// CreatePolygon builds a closed polygon from an ordered point list. A final
// point within Epsilon of the first closes the cycle and is dropped, and
// adjacent near-duplicates collapse into one vertex.
func CreatePolygon(points []Vector2, material EdgeMaterial) (*Polygon, error) {
	pts := make([]Vector2, 0, len(points))
	for _, p := range points {
		if len(pts) > 0 && nearlyEqual(pts[len(pts)-1], p) {
			continue
		}
		pts = append(pts, p)
	}
	for len(pts) > 1 && nearlyEqual(pts[len(pts)-1], pts[0]) {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return nil, &DegenerateGeometryError{Points: len(pts)}
	}

	ids := make([]VertexID, len(pts))
	positions := make(map[VertexID]Vector2, len(pts))
	for i, p := range pts {
		ids[i] = NewVertexID()
		positions[ids[i]] = p
	}

	edges := make([]Edge, len(pts))
	for i := range pts {
		edges[i] = Edge{
			ID:       NewEdgeID(),
			Start:    ids[i],
			End:      ids[(i+1)%len(ids)],
			Material: material.Clone(),
		}
	}

	return newPolygon(NewPolygonID(), edges, positions)
}

// StoredEdge is an edge as persisted: raw endpoint positions, no identities.
type StoredEdge struct {
	Start      Vector2
	End        Vector2
	Material   EdgeMaterial
	Immaterial bool
}

// LoadPolygon rebuilds a polygon from stored edges, assigning fresh
// identities. Consecutive edges share one vertex, zero-length edges are
// merged away, and a gap wider than Epsilon is a *TopologyError.
func LoadPolygon(stored []StoredEdge) (*Polygon, error) {
	return loadPolygon(0, stored)
}

func loadPolygon(index int, stored []StoredEdge) (*Polygon, error) {
	n := len(stored)
	if n == 0 {
		return nil, &DegenerateGeometryError{Points: 0}
	}

	for i := range stored {
		next := stored[(i+1)%n]
		if gap := stored[i].End.Sub(next.Start).Len(); gap > Epsilon {
			return nil, &TopologyError{Polygon: index, Index: i, Gap: gap}
		}
	}

	kept := make([]StoredEdge, 0, n)
	for _, se := range stored {
		if nearlyEqual(se.Start, se.End) {
			continue
		}
		kept = append(kept, se)
	}
	if len(kept) < 3 {
		return nil, &DegenerateGeometryError{Points: len(kept)}
	}

	ids := make([]VertexID, len(kept))
	positions := make(map[VertexID]Vector2, len(kept))
	for i, se := range kept {
		ids[i] = NewVertexID()
		positions[ids[i]] = se.Start
	}

	edges := make([]Edge, len(kept))
	for i, se := range kept {
		edges[i] = Edge{
			ID:         NewEdgeID(),
			Start:      ids[i],
			End:        ids[(i+1)%len(ids)],
			Material:   se.Material.Clone(),
			Immaterial: se.Immaterial,
		}
	}

	p, err := newPolygon(NewPolygonID(), edges, positions)
	if err != nil {
		if te, ok := err.(*TopologyError); ok {
			te.Polygon = index
		}
		return nil, err
	}
	return p, nil
}

// Store converts the polygon back into its persisted form.
func (p *Polygon) Store() []StoredEdge {
	out := make([]StoredEdge, len(p.edges))
	for i, e := range p.edges {
		out[i] = StoredEdge{
			Start:      p.segments[i].Start,
			End:        p.segments[i].End,
			Material:   e.Material.Clone(),
			Immaterial: e.Immaterial,
		}
	}
	return out
}

// Edges returns the edge cycle. The slice is shared and must not be
// modified.
func (p *Polygon) Edges() []Edge {
	return p.edges
}

func (p *Polygon) EdgeCount() int {
	return len(p.edges)
}

func (p *Polygon) Edge(i int) Edge {
	return p.edges[i]
}

// Segment is the world-space line of edge i.
func (p *Polygon) Segment(i int) Line {
	return p.segments[i]
}

func (p *Polygon) Bounds() BoundingBox {
	return p.box
}

// Vertices lists the vertices in cycle order; vertex i starts edge i.
func (p *Polygon) Vertices() []Vertex {
	out := make([]Vertex, len(p.edges))
	for i, e := range p.edges {
		out[i] = Vertex{ID: e.Start, Position: p.vertices[e.Start]}
	}
	return out
}

func (p *Polygon) VertexPosition(id VertexID) (Vector2, bool) {
	pos, ok := p.vertices[id]
	return pos, ok
}

// VertexIndex returns the index of the edge that starts at id, or -1.
func (p *Polygon) VertexIndex(id VertexID) int {
	for i, e := range p.edges {
		if e.Start == id {
			return i
		}
	}
	return -1
}

func (p *Polygon) EdgeIndex(id EdgeID) int {
	for i, e := range p.edges {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// EdgeLuminosity is the slope-derived brightness of edge i.
func (p *Polygon) EdgeLuminosity(i int) float64 {
	return luminosityForSlope(p.segments[i].Slope())
}

// Centroid is the mean of the vertex positions.
func (p *Polygon) Centroid() Vector2 {
	var sum Vector2
	for _, seg := range p.segments {
		sum = sum.Add(seg.Start)
	}
	return sum.Mul(1 / float64(len(p.segments)))
}

// SignedArea is positive for counter-clockwise winding.
func (p *Polygon) SignedArea() float64 {
	area := 0.0
	for _, seg := range p.segments {
		area += Cross2(seg.Start, seg.End)
	}
	return area / 2
}

// Contains tests whether pt lies inside the polygon using the even-odd
// rule.
func (p *Polygon) Contains(pt Vector2) bool {
	if !p.box.Contains(pt) {
		return false
	}
	inside := false
	for _, seg := range p.segments {
		xi, yi := seg.End[0], seg.End[1]
		xj, yj := seg.Start[0], seg.Start[1]
		if (yi > pt[1]) != (yj > pt[1]) &&
			pt[0] < (xj-xi)*(pt[1]-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// positions copies the vertex arena.
func (p *Polygon) positions() map[VertexID]Vector2 {
	out := make(map[VertexID]Vector2, len(p.vertices))
	for id, pos := range p.vertices {
		out[id] = pos
	}
	return out
}

func (p *Polygon) copyEdges() []Edge {
	out := make([]Edge, len(p.edges))
	copy(out, p.edges)
	return out
}

// transformed returns the same polygon, identities kept, with fn applied to
// every vertex position.
func (p *Polygon) transformed(fn func(Vector2) Vector2) (*Polygon, error) {
	positions := make(map[VertexID]Vector2, len(p.vertices))
	for id, pos := range p.vertices {
		positions[id] = fn(pos)
	}
	return newPolygon(p.ID, p.copyEdges(), positions)
}

// cloneWithNewIDs deep copies the polygon under fresh identities.
func (p *Polygon) cloneWithNewIDs(fn func(Vector2) Vector2) (*Polygon, error) {
	ids := make(map[VertexID]VertexID, len(p.vertices))
	positions := make(map[VertexID]Vector2, len(p.vertices))
	for id, pos := range p.vertices {
		nid := NewVertexID()
		ids[id] = nid
		positions[nid] = fn(pos)
	}

	edges := make([]Edge, len(p.edges))
	for i, e := range p.edges {
		edges[i] = Edge{
			ID:         NewEdgeID(),
			Start:      ids[e.Start],
			End:        ids[e.End],
			Material:   e.Material.Clone(),
			Immaterial: e.Immaterial,
		}
	}
	return newPolygon(NewPolygonID(), edges, positions)
}
