package gosie2d

import "image"

type PaintKind int

const (
	// PaintWall fills a wall quad with a colour or a texture.
	PaintWall PaintKind = iota
	// PaintFade darkens a wall quad by distance.
	PaintFade
)

func (k PaintKind) String() string {
	if k == PaintFade {
		return "fade"
	}
	return "wall"
}

// PaintCommand is one drawing step. Quad holds screen-space corners in the
// order top-left, top-right, bottom-right, bottom-left. For textured walls U0
// and U1 are the offsets along the edge, in world units, at the quad's left
// and right sides.
type PaintCommand struct {
	Kind     PaintKind
	Quad     [4]Vector2
	Color    Color
	Texture  *TextureRef
	U0       float64
	U1       float64
	Edge     EdgeID
	Distance float64
}

// Painter is a drawing backend. The core never draws itself; it only hands
// commands to a Painter.
type Painter interface {
	FillQuad(quad [4]Vector2, c Color)
	// TextureQuad maps the texture's horizontal range [u0, u1] onto the quad,
	// tinted by c.
	TextureQuad(quad [4]Vector2, tex TextureRef, u0, u1 float64, c Color)
}

// TextureLookup resolves a texture reference to its image. It is handed to
// backends explicitly; nothing in the core keeps a global texture table.
type TextureLookup func(ref TextureRef) (image.Image, bool)

// Replay paints cmds in order.
func Replay(cmds []PaintCommand, p Painter) {
	for _, cmd := range cmds {
		if cmd.Kind == PaintWall && cmd.Texture != nil {
			p.TextureQuad(cmd.Quad, *cmd.Texture, cmd.U0, cmd.U1, cmd.Color)
			continue
		}
		p.FillQuad(cmd.Quad, cmd.Color)
	}
}
