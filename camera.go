package gosie2d

import (
	"math"
)

// Camera is the viewer: a position, a forward direction and a plane vector
// perpendicular to it whose length sets the field of view. The screen's left
// and right edges lie along Direction-Plane and Direction+Plane.
//
// Cameras are values. Every movement returns a new camera.
type Camera struct {
	Position  Vector2 `json:"position"`
	Direction Vector2 `json:"direction"`
	Plane     Vector2 `json:"plane"`
}

// near-parallel approaches do not slide along the wall
const grazingAngle = math.Pi / 8

// NewCamera builds a camera at position facing heading (radians) with the
// given horizontal field of view, which must lie in (0, π).
func NewCamera(position Vector2, heading, fov float64) (Camera, error) {
	if !(fov > 0 && fov < math.Pi) {
		return Camera{}, &ConfigurationError{Field: "fov", Reason: "field of view must lie in (0, π)"}
	}

	dir := NewVectorFromAngle(heading)
	right := Vector2{dir[1], -dir[0]}
	return Camera{
		Position:  position,
		Direction: dir,
		Plane:     right.Mul(math.Tan(fov / 2)),
	}, nil
}

func (c Camera) Validate() error {
	if c.Direction.Len() == 0 {
		return &ConfigurationError{Field: "direction", Reason: "direction must not be zero"}
	}
	fov := c.FieldOfView()
	if !(fov > 0 && fov < math.Pi) {
		return &ConfigurationError{Field: "plane", Reason: "field of view must lie in (0, π)"}
	}
	return nil
}

func (c Camera) FieldOfView() float64 {
	return 2 * math.Atan2(c.Plane.Len(), c.Direction.Len())
}

func (c Camera) Heading() float64 {
	return VectorAngle2(c.Direction)
}

// ScreenEdges returns the rays through the left and right screen edges.
func (c Camera) ScreenEdges() (left, right Ray) {
	l := c.Direction.Sub(c.Plane)
	r := c.Direction.Add(c.Plane)
	left = Ray{Origin: c.Position, Direction: l, Angle: SignedAngle2(c.Direction, l)}
	right = Ray{Origin: c.Position, Direction: r, Angle: SignedAngle2(c.Direction, r)}
	return left, right
}

// Rotate turns the camera counter-clockwise by angle radians.
func (c Camera) Rotate(angle float64) Camera {
	return Camera{
		Position:  c.Position,
		Direction: RotateVector2(c.Direction, angle),
		Plane:     RotateVector2(c.Plane, angle),
	}
}

func (c Camera) WithPosition(p Vector2) Camera {
	c.Position = p
	return c
}

// Move walks distance along the view direction, sliding along walls that
// come within clearance. A nil geometry moves freely.
func (c Camera) Move(distance float64, g *Geometry, clearance float64) Camera {
	return c.translate(Normalize2(c.Direction).Mul(distance), g, clearance)
}

// Strafe walks distance to the right (negative for left).
func (c Camera) Strafe(distance float64, g *Geometry, clearance float64) Camera {
	return c.translate(Normalize2(c.Plane).Mul(distance), g, clearance)
}

func (c Camera) translate(delta Vector2, g *Geometry, clearance float64) Camera {
	step := delta.Len()
	if step == 0 {
		return c
	}

	hit, blocked := probe(c.Position, delta, g, clearance)
	if !blocked {
		return c.WithPosition(c.Position.Add(delta))
	}

	p, err := g.Polygon(hit.Polygon)
	if err != nil {
		return c
	}
	tangent := Normalize2(p.Segment(hit.EdgeIndex).Direction())

	approach := AngleBetweenVectors2(delta, tangent)
	if approach > math.Pi/2 {
		approach = math.Pi - approach
	}
	if approach < grazingAngle {
		return c
	}

	slide := tangent.Mul(delta.Dot(tangent))
	if slide.Len() < Epsilon {
		return c
	}
	if _, blocked := probe(c.Position, slide, g, clearance); blocked {
		return c
	}
	return c.WithPosition(c.Position.Add(slide))
}

// probe casts a short ray along delta and reports the solid wall that would
// end up closer than clearance.
func probe(origin, delta Vector2, g *Geometry, clearance float64) (Hit, bool) {
	if g == nil {
		return Hit{}, false
	}
	ray := Ray{Origin: origin, Direction: Normalize2(delta)}
	hit, ok := NearestSolidHit(ray, g.Polygons())
	if !ok || hit.RawDistance >= delta.Len()+clearance {
		return Hit{}, false
	}
	return hit, true
}

// MakeRays spreads resolution rays evenly from the left screen edge to the
// right one.
func MakeRays(resolution int, c Camera) []Ray {
	if resolution <= 0 {
		return nil
	}

	rays := make([]Ray, resolution)
	for i := range rays {
		x := 0.0
		if resolution > 1 {
			x = -1 + 2*float64(i)/float64(resolution-1)
		}
		dir := c.Direction.Add(c.Plane.Mul(x))
		rays[i] = Ray{
			Origin:    c.Position,
			Direction: dir,
			Angle:     SignedAngle2(c.Direction, dir),
		}
	}
	return rays
}
