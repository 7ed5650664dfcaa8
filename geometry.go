package gosie2d

import (
	"github.com/google/uuid"
)

// Geometry is an immutable set of polygons. Edits return a new Geometry
// with a new Revision; unchanged polygons are shared between revisions.
type Geometry struct {
	Revision uuid.UUID
	polygons []*Polygon
	index    map[PolygonID]int
}

func NewGeometry(polygons ...*Polygon) *Geometry {
	g := &Geometry{
		Revision: uuid.New(),
		polygons: make([]*Polygon, 0, len(polygons)),
		index:    make(map[PolygonID]int, len(polygons)),
	}
	for _, p := range polygons {
		if p == nil {
			continue
		}
		if i, ok := g.index[p.ID]; ok {
			g.polygons[i] = p
			continue
		}
		g.index[p.ID] = len(g.polygons)
		g.polygons = append(g.polygons, p)
	}
	return g
}

// Polygons returns the polygons in insertion order. The slice is shared and
// must not be modified.
func (g *Geometry) Polygons() []*Polygon {
	if g == nil {
		return nil
	}
	return g.polygons
}

func (g *Geometry) Len() int {
	if g == nil {
		return 0
	}
	return len(g.polygons)
}

func (g *Geometry) EdgeCount() int {
	total := 0
	for _, p := range g.Polygons() {
		total += p.EdgeCount()
	}
	return total
}

func (g *Geometry) Polygon(id PolygonID) (*Polygon, error) {
	if g != nil {
		if i, ok := g.index[id]; ok {
			return g.polygons[i], nil
		}
	}
	return nil, notFound(KindPolygon, string(id))
}

// FindVertex returns the polygon owning the vertex.
func (g *Geometry) FindVertex(id VertexID) (*Polygon, error) {
	for _, p := range g.Polygons() {
		if _, ok := p.vertices[id]; ok {
			return p, nil
		}
	}
	return nil, notFound(KindVertex, string(id))
}

// FindEdge returns the polygon owning the edge and the edge's index in it.
func (g *Geometry) FindEdge(id EdgeID) (*Polygon, int, error) {
	for _, p := range g.Polygons() {
		if i := p.EdgeIndex(id); i >= 0 {
			return p, i, nil
		}
	}
	return nil, -1, notFound(KindEdge, string(id))
}

func (g *Geometry) Bounds() BoundingBox {
	box := emptyBox()
	for _, p := range g.Polygons() {
		box = box.Union(p.Bounds())
	}
	return box
}

// AddPolygons returns a new geometry with the polygons appended.
func (g *Geometry) AddPolygons(polygons ...*Polygon) *Geometry {
	return g.replace(nil, polygons, nil)
}

// RemovePolygons returns a new geometry without the given polygons.
func (g *Geometry) RemovePolygons(ids ...PolygonID) (*Geometry, error) {
	removed := make(map[PolygonID]bool, len(ids))
	for _, id := range ids {
		if _, err := g.Polygon(id); err != nil {
			return nil, err
		}
		removed[id] = true
	}
	return g.replace(nil, nil, removed), nil
}

// replace swaps updated polygons in place, drops removed ones and appends
// added ones, keeping the order of everything else.
func (g *Geometry) replace(updated map[PolygonID]*Polygon, added []*Polygon, removed map[PolygonID]bool) *Geometry {
	out := make([]*Polygon, 0, g.Len()+len(added))
	for _, p := range g.Polygons() {
		if removed[p.ID] {
			continue
		}
		if np, ok := updated[p.ID]; ok {
			out = append(out, np)
			continue
		}
		out = append(out, p)
	}
	out = append(out, added...)
	return NewGeometry(out...)
}
