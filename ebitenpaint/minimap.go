package ebitenpaint

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/smasonuk/gosie2d"
)

var (
	minimapWall       = gosie2d.NewColor(220, 220, 220, 1)
	minimapImmaterial = gosie2d.NewColor(90, 140, 220, 1)
	minimapCamera     = gosie2d.NewColor(240, 80, 60, 1)
	minimapView       = gosie2d.NewColor(240, 200, 60, 1)
)

// Minimap draws a top-down view of the geometry and camera. World
// coordinates are scaled by Scale and shifted to Origin; y grows up in the
// world and down on screen.
type Minimap struct {
	Origin gosie2d.Vector2
	Scale  float64
}

func (m Minimap) project(v gosie2d.Vector2) gosie2d.Vector2 {
	return gosie2d.Vector2{m.Origin[0] + v[0]*m.Scale, m.Origin[1] - v[1]*m.Scale}
}

func (m Minimap) line(screen *ebiten.Image, a, b gosie2d.Vector2, width float32, c gosie2d.Color) {
	pa, pb := m.project(a), m.project(b)
	vector.StrokeLine(screen, float32(pa[0]), float32(pa[1]), float32(pb[0]), float32(pb[1]), width, c.RGBA(), true)
}

func (m Minimap) Draw(screen *ebiten.Image, g *gosie2d.Geometry, c gosie2d.Camera) {
	for _, p := range g.Polygons() {
		verts := p.Vertices()
		points := make([]gosie2d.Vector2, len(verts))
		for i, v := range verts {
			points[i] = m.project(v.Position)
		}
		strokeOutline(screen, points, 1, minimapWall)

		for i, e := range p.Edges() {
			if !e.Immaterial {
				continue
			}
			seg := p.Segment(i)
			m.line(screen, seg.Start, seg.End, 1.5, minimapImmaterial)
		}
	}

	left, right := c.ScreenEdges()
	for _, edge := range []gosie2d.Ray{left, right} {
		m.line(screen, c.Position, c.Position.Add(edge.Direction), 1, minimapView)
	}
	center := m.project(c.Position)
	vector.DrawFilledCircle(screen, float32(center[0]), float32(center[1]), 3, minimapCamera.RGBA(), true)
}
