package gosie2d

import (
	"image/color"

	"github.com/google/uuid"
)

// Color is an RGB colour with a straight alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

func NewColor(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func (c Color) Opaque() bool      { return c.A >= 1 }
func (c Color) Translucent() bool { return c.A < 1 }
func (c Color) Invisible() bool   { return c.A <= 0 }

// Shade scales the RGB components by lum, leaving alpha untouched.
func (c Color) Shade(lum float64) Color {
	return Color{
		R: uint8(clamp(int(float64(c.R)*lum+0.5), 0, 255)),
		G: uint8(clamp(int(float64(c.G)*lum+0.5), 0, 255)),
		B: uint8(clamp(int(float64(c.B)*lum+0.5), 0, 255)),
		A: c.A,
	}
}

func (c Color) RGBA() color.RGBA {
	a := clamp(int(c.A*255+0.5), 0, 255)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(a)}
}

// TextureRef points at one tile of a texture set.
type TextureRef struct {
	Set   uuid.UUID
	Index int
}

type Material struct {
	Color   Color
	Texture *TextureRef
	// Luminosity overrides the slope-derived shading when set.
	Luminosity *float64
}

func SolidMaterial(c Color) Material {
	return Material{Color: c}
}

func (m Material) Clone() Material {
	out := Material{Color: m.Color}
	if m.Texture != nil {
		tex := *m.Texture
		out.Texture = &tex
	}
	if m.Luminosity != nil {
		lum := *m.Luminosity
		out.Luminosity = &lum
	}
	return out
}

// Face is the side of an edge a ray struck.
type Face int

const (
	FaceExterior Face = iota
	FaceInterior
)

func (f Face) String() string {
	if f == FaceInterior {
		return "interior"
	}
	return "exterior"
}

// EdgeMaterial is either a single material or a directed front/back pair.
// Front is seen from the exterior face, Back from the interior face.
type EdgeMaterial struct {
	Front Material
	Back  *Material
}

func Uniform(m Material) EdgeMaterial {
	return EdgeMaterial{Front: m}
}

func Directed(front, back Material) EdgeMaterial {
	return EdgeMaterial{Front: front, Back: &back}
}

func (em EdgeMaterial) IsDirected() bool {
	return em.Back != nil
}

// For returns a copy of the material seen from face. Changing it leaves the
// edge untouched.
func (em EdgeMaterial) For(face Face) *Material {
	m := em.Front
	if face == FaceInterior && em.Back != nil {
		m = *em.Back
	}
	m = m.Clone()
	return &m
}

func (em EdgeMaterial) Clone() EdgeMaterial {
	out := EdgeMaterial{Front: em.Front.Clone()}
	if em.Back != nil {
		back := em.Back.Clone()
		out.Back = &back
	}
	return out
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
