package gosie2d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector2 is a 2-D point or direction in world units.
type Vector2 = mgl64.Vec2

// Epsilon is the distance below which two points are treated as the same
// vertex.
const Epsilon = 0.005

func NewVectorFromAngle(angle float64) Vector2 {
	return Vector2{math.Cos(angle), math.Sin(angle)}
}

// Normalize2 returns v scaled to unit length, or the zero vector when v has
// no length.
func Normalize2(v Vector2) Vector2 {
	magnitude := v.Len()
	if magnitude == 0 {
		return Vector2{}
	}
	return v.Mul(1 / magnitude)
}

func RotateVector2(v Vector2, angle float64) Vector2 {
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// Cross2 is the z component of the 3-D cross product of a and b.
func Cross2(a, b Vector2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func VectorAngle2(v Vector2) float64 {
	return math.Atan2(v[1], v[0])
}

// AngleBetweenVectors2 returns the unsigned angle between two vectors in
// radians.
func AngleBetweenVectors2(a, b Vector2) float64 {
	magA := a.Len()
	magB := b.Len()
	if magA == 0 || magB == 0 {
		return 0
	}

	cosTheta := mgl64.Clamp(a.Dot(b)/(magA*magB), -1, 1)
	return math.Acos(cosTheta)
}

// SignedAngle2 returns the angle that rotates from onto to, in (-π, π].
func SignedAngle2(from, to Vector2) float64 {
	return math.Atan2(Cross2(from, to), from.Dot(to))
}

func nearlyEqual(a, b Vector2) bool {
	return a.Sub(b).Len() <= Epsilon
}

// snapToGrid rounds each component to the nearest multiple of pitch.
func snapToGrid(v Vector2, pitch float64) Vector2 {
	if pitch <= 0 {
		return v
	}
	return Vector2{
		math.Round(v[0]/pitch) * pitch,
		math.Round(v[1]/pitch) * pitch,
	}
}
