package gosie2d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Line is a directed segment from Start to End.
type Line struct {
	Start Vector2
	End   Vector2
}

// Ray is a half-line from Origin along Direction. Angle is the signed angle
// from the camera's forward axis and is used for fisheye correction.
type Ray struct {
	Origin    Vector2
	Direction Vector2
	Angle     float64
}

// points closer than this to a splitting line count as on it
const lineThickness = 1e-7

const parallelThreshold = 1e-10

func NewLine(start, end Vector2) Line {
	return Line{Start: start, End: end}
}

func (l Line) Direction() Vector2 {
	return l.End.Sub(l.Start)
}

func (l Line) Length() float64 {
	return l.Direction().Len()
}

// Slope is dy/dx. Vertical lines have an infinite slope.
func (l Line) Slope() float64 {
	d := l.Direction()
	if d[0] == 0 {
		if d[1] < 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return d[1] / d[0]
}

func (l Line) Midpoint() Vector2 {
	return l.Start.Add(l.End).Mul(0.5)
}

// Normal is the unit normal on the right-hand side of the direction of
// travel.
func (l Line) Normal() Vector2 {
	d := Normalize2(l.Direction())
	return Vector2{d[1], -d[0]}
}

func (l Line) Reverse() Line {
	return Line{Start: l.End, End: l.Start}
}

func (l Line) Translate(delta Vector2) Line {
	return Line{Start: l.Start.Add(delta), End: l.End.Add(delta)}
}

// ProjectParam returns t such that Start + t*(End-Start) is the projection
// of p onto the infinite line.
func (l Line) ProjectParam(p Vector2) float64 {
	d := l.Direction()
	lenSq := d.LenSqr()
	if lenSq == 0 {
		return 0
	}
	return p.Sub(l.Start).Dot(d) / lenSq
}

func (l Line) PointAt(t float64) Vector2 {
	return l.Start.Add(l.Direction().Mul(t))
}

// ProjectPoint projects p onto the infinite line through l.
func (l Line) ProjectPoint(p Vector2) Vector2 {
	return l.PointAt(l.ProjectParam(p))
}

// ClosestPoint is the point of the segment nearest to p.
func (l Line) ClosestPoint(p Vector2) Vector2 {
	return l.PointAt(mgl64.Clamp(l.ProjectParam(p), 0, 1))
}

// DistanceTo is the perpendicular distance from p when its projection falls
// within the segment, else the distance to the nearer endpoint.
func (l Line) DistanceTo(p Vector2) float64 {
	return p.Sub(l.ClosestPoint(p)).Len()
}

// Side is positive when p lies left of the line, negative when right and
// zero when p is on the line.
func (l Line) Side(p Vector2) float64 {
	d := Normalize2(l.Direction())
	n := Cross2(d, p.Sub(l.Start))
	if math.Abs(n) < lineThickness {
		return 0
	}
	return n
}

// IntersectLines intersects the two infinite lines. ta and tb are the
// parameters along a and b.
func IntersectLines(a, b Line) (point Vector2, ta, tb float64, ok bool) {
	da := a.Direction()
	db := b.Direction()
	denom := Cross2(da, db)
	if math.Abs(denom) < parallelThreshold {
		return Vector2{}, 0, 0, false
	}

	diff := b.Start.Sub(a.Start)
	ta = Cross2(diff, db) / denom
	tb = Cross2(diff, da) / denom
	return a.PointAt(ta), ta, tb, true
}

// IntersectSegments reports where the two segments cross, endpoints
// included.
func IntersectSegments(a, b Line) (Vector2, bool) {
	point, ta, tb, ok := IntersectLines(a, b)
	if !ok || ta < 0 || ta > 1 || tb < 0 || tb > 1 {
		return Vector2{}, false
	}
	return point, true
}

// IntersectRay solves origin + t*dir = seg.Start + u*(seg.End-seg.Start)
// for t >= 0 and 0 <= u <= 1.
func IntersectRay(ray Ray, seg Line) (point Vector2, t, u float64, ok bool) {
	segDir := seg.Direction()
	denominator := Cross2(ray.Direction, segDir)
	if math.Abs(denominator) < parallelThreshold {
		return Vector2{}, 0, 0, false
	}

	diff := seg.Start.Sub(ray.Origin)
	u = Cross2(diff, ray.Direction) / denominator
	t = Cross2(diff, segDir) / denominator

	if u < 0 || u > 1 || t < 0 {
		return Vector2{}, 0, 0, false
	}
	return ray.Origin.Add(ray.Direction.Mul(t)), t, u, true
}

// Slope-derived wall shading: horizontal walls 0.4, vertical walls 1.0.
func luminosityForSlope(slope float64) float64 {
	if math.IsInf(slope, 0) || math.IsNaN(slope) {
		return 1.0
	}
	s := math.Abs(slope)
	return 0.4 + (s/(1+s))*0.6
}
