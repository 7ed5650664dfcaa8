// Package ebitenpaint replays gosie2d paint commands onto an ebiten image.
package ebitenpaint

import (
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/smasonuk/gosie2d"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// Painter draws onto Screen. Textures are resolved through the lookup on
// first use and cached; a missing texture falls back to the flat colour.
type Painter struct {
	Screen *ebiten.Image

	lookup  gosie2d.TextureLookup
	cache   map[gosie2d.TextureRef]*ebiten.Image
	missing map[gosie2d.TextureRef]bool
}

func NewPainter(lookup gosie2d.TextureLookup) *Painter {
	return &Painter{
		lookup:  lookup,
		cache:   make(map[gosie2d.TextureRef]*ebiten.Image),
		missing: make(map[gosie2d.TextureRef]bool),
	}
}

// Draw replays cmds onto screen.
func (p *Painter) Draw(screen *ebiten.Image, cmds []gosie2d.PaintCommand) {
	p.Screen = screen
	gosie2d.Replay(cmds, p)
}

// quadIndices splits a TL, TR, BR, BL quad into two triangles.
var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// vertexColor scales c into the [0, 1] channels ebiten vertices carry.
func vertexColor(c gosie2d.Color) (r, g, b, a float32) {
	rgba := c.RGBA()
	return float32(rgba.R) / 255, float32(rgba.G) / 255, float32(rgba.B) / 255, float32(rgba.A) / 255
}

func (p *Painter) FillQuad(quad [4]gosie2d.Vector2, c gosie2d.Color) {
	if c.Invisible() {
		return
	}
	r, g, b, a := vertexColor(c)
	vertices := make([]ebiten.Vertex, len(quad))
	for i, v := range quad {
		vertices[i] = ebiten.Vertex{
			DstX:   float32(v[0]),
			DstY:   float32(v[1]),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		}
	}
	p.Screen.DrawTriangles(vertices, quadIndices, whiteSub, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (p *Painter) TextureQuad(quad [4]gosie2d.Vector2, tex gosie2d.TextureRef, u0, u1 float64, c gosie2d.Color) {
	img := p.texture(tex)
	if img == nil {
		p.FillQuad(quad, c)
		return
	}

	w := img.Bounds().Dx()
	h := float32(img.Bounds().Dy())
	r, g, b, a := vertexColor(c)

	// one texture tile per world unit along the edge
	u := [4]float64{u0, u1, u1, u0}
	vertices := make([]ebiten.Vertex, len(quad))
	for i, v := range quad {
		srcY := float32(0)
		if i >= 2 {
			srcY = h
		}
		vertices[i] = ebiten.Vertex{
			DstX:   float32(v[0]),
			DstY:   float32(v[1]),
			SrcX:   float32(u[i] * float64(w)),
			SrcY:   srcY,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		}
	}

	op := &ebiten.DrawTrianglesOptions{Address: ebiten.AddressRepeat, AntiAlias: true}
	p.Screen.DrawTriangles(vertices, quadIndices, img, op)
}

func (p *Painter) texture(ref gosie2d.TextureRef) *ebiten.Image {
	if img, ok := p.cache[ref]; ok {
		return img
	}
	if p.lookup == nil || p.missing[ref] {
		return nil
	}
	src, ok := p.lookup(ref)
	if !ok {
		log.Printf("texture %s/%d not found, drawing flat", ref.Set, ref.Index)
		p.missing[ref] = true
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	p.cache[ref] = img
	return img
}

// strokeOutline draws the closed outline through points, which are already
// in screen space.
func strokeOutline(screen *ebiten.Image, points []gosie2d.Vector2, width float32, c gosie2d.Color) {
	if len(points) < 2 {
		return
	}

	var path vector.Path
	path.MoveTo(float32(points[0][0]), float32(points[0][1]))
	for _, pt := range points[1:] {
		path.LineTo(float32(pt[0]), float32(pt[1]))
	}
	path.Close()

	vertices, indices := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: width})
	r, g, b, a := vertexColor(c)
	for i := range vertices {
		vertices[i].SrcX = 1
		vertices[i].SrcY = 1
		vertices[i].ColorR = r
		vertices[i].ColorG = g
		vertices[i].ColorB = b
		vertices[i].ColorA = a
	}
	screen.DrawTriangles(vertices, indices, whiteSub, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
