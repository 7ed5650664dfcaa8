package gosie2d

import (
	"fmt"
	"math"
	"time"
)

// Viewport is the target surface in pixels and the number of rays cast
// across it.
type Viewport struct {
	Width      int
	Height     int
	Resolution int
}

func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return &ConfigurationError{Field: "viewport", Reason: fmt.Sprintf("size %dx%d must be positive", v.Width, v.Height)}
	}
	if v.Resolution <= 0 {
		return &ConfigurationError{Field: "resolution", Reason: "at least one ray is needed"}
	}
	return nil
}

// ColumnWidth is the width in pixels covered by one ray.
func (v Viewport) ColumnWidth() float64 {
	return float64(v.Width) / float64(v.Resolution)
}

// Metrics describes one render. It is for tuning and comparing casters, not
// correctness.
type Metrics struct {
	CastTime    time.Duration
	ZBufferTime time.Duration
	DrawTime    time.Duration
	Total       time.Duration

	Collision    CollisionStats
	EdgesVisible int
	BSPMisses    int
	UsedBSP      bool
	Columns      int
	Commands     int
}

func (m Metrics) String() string {
	return fmt.Sprintf("cast %v zbuf %v draw %v total %v | edges %d/%d (%.1f%%) visible %d bsp %v misses %d | cols %d cmds %d",
		m.CastTime, m.ZBufferTime, m.DrawTime, m.Total,
		m.Collision.EdgesTested, m.Collision.EdgesTotal, m.Collision.Ratio()*100,
		m.EdgesVisible, m.UsedBSP, m.BSPMisses, m.Columns, m.Commands)
}

// Frame is the output of one render: paint commands back to front plus the
// metrics of producing them.
type Frame struct {
	Commands []PaintCommand
	Metrics  Metrics
}

// minDistance keeps a wall at the camera from projecting infinitely tall.
const minDistance = 1e-3

type Renderer struct {
	Caster Caster
	// WallHeight scales projected walls: a wall at distance 1 is
	// WallHeight viewport heights tall.
	WallHeight float64
	// FadeDistance is the distance at which walls fade to black. Zero
	// disables fading.
	FadeDistance float64
}

func NewRenderer(caster Caster) *Renderer {
	if caster == nil {
		caster = BruteForceCaster{}
	}
	return &Renderer{Caster: caster, WallHeight: 1}
}

// Render casts one ray per column, stacks the translucent hits of every ray
// in a z-buffer and turns the span groups into paint commands, back to
// front. bsp may be nil or stale; either way the frame is complete.
func (r *Renderer) Render(g *Geometry, c Camera, vp Viewport, bsp *BSP) (Frame, error) {
	if err := vp.Validate(); err != nil {
		return Frame{}, err
	}
	if err := c.Validate(); err != nil {
		return Frame{}, err
	}

	var m Metrics
	start := time.Now()

	rays := MakeRays(vp.Resolution, c)
	hits := r.Caster.Cast(rays, g, bsp, c, &m)
	m.CastTime = time.Since(start)

	zstart := time.Now()
	zb := NewZBuffer(vp.Resolution)
	r.fillZBuffer(zb, hits, vp)
	groups := zb.Groups()
	m.ZBufferTime = time.Since(zstart)
	m.Columns = vp.Resolution

	dstart := time.Now()
	cmds := make([]PaintCommand, 0, len(groups))
	for _, grp := range groups {
		if !grp.Drawable() {
			continue
		}
		cmds = r.paintGroup(cmds, grp)
	}
	m.DrawTime = time.Since(dstart)
	m.Commands = len(cmds)
	m.Total = time.Since(start)

	return Frame{Commands: cmds, Metrics: m}, nil
}

func (r *Renderer) fillZBuffer(zb *ZBuffer, hits [][]Hit, vp Viewport) {
	colWidth := vp.ColumnWidth()
	screenH := float64(vp.Height)

	for col, colHits := range hits {
		for _, h := range AccumulateTranslucent(colHits) {
			if h.IsSky() {
				continue
			}
			height := r.WallHeight * screenH / math.Max(h.Distance, minDistance)
			top := (screenH - height) / 2
			zb.Add(WallProps{
				Column:     col,
				Height:     height,
				Top:        top,
				Bottom:     top + height,
				Left:       float64(col) * colWidth,
				Right:      float64(col+1) * colWidth,
				Distance:   h.Distance,
				Material:   h.Material,
				Polygon:    h.Polygon,
				Edge:       h.Edge,
				Face:       h.Face,
				Luminosity: h.Luminosity,
				Offset:     h.Offset,
			})
		}
	}
}

// paintGroup appends the wall, and its fade if any, for one span group. A
// planar wall's projected height is affine in screen x, so a quad through
// the outer spans covers the run exactly.
func (r *Renderer) paintGroup(cmds []PaintCommand, grp *SpanGroup) []PaintCommand {
	first, last := grp.First(), grp.Last()
	quad := [4]Vector2{
		{first.Left, first.Top},
		{last.Right, last.Top},
		{last.Right, last.Bottom},
		{first.Left, first.Bottom},
	}

	near := grp.Nearest()
	mat := near.Material
	wall := PaintCommand{
		Kind:     PaintWall,
		Quad:     quad,
		Color:    mat.Color.Shade(near.Luminosity),
		Edge:     grp.Edge,
		Distance: near.Distance,
		U0:       first.Offset,
		U1:       last.Offset,
	}
	if mat.Texture != nil {
		tex := *mat.Texture
		wall.Texture = &tex
	}
	cmds = append(cmds, wall)

	if r.FadeDistance > 0 {
		fade := math.Min(near.Distance/r.FadeDistance, 1) * mat.Color.A
		if fade > 0 {
			cmds = append(cmds, PaintCommand{
				Kind:     PaintFade,
				Quad:     quad,
				Color:    Color{A: fade},
				Edge:     grp.Edge,
				Distance: near.Distance,
			})
		}
	}
	return cmds
}
