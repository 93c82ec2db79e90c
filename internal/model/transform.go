package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis. The hunter moves on the XZ plane.
var Up = mgl64.Vec3{0, 1, 0}

// Transform is a world position plus orientation.
// Value type, passed by value.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates Transform at position with identity rotation.
func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{Position: pos, Rotation: mgl64.QuatIdent()}
}

// Forward returns the unit forward (+Z) axis of the transform.
func (t Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
}

// Distance returns euclidean distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// DistanceSquared returns squared distance between a and b (no sqrt).
func DistanceSquared(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// Normalized returns v scaled to unit length, or zero when v is zero.
func Normalized(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// AngleDeg returns the unsigned angle in degrees between a and b.
// Returns 0 when either vector is zero.
func AngleDeg(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := mgl64.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

// LookRotation returns the rotation whose forward axis points along dir,
// keeping Up as the up axis. A zero dir yields identity.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	if dir.Len() == 0 {
		return mgl64.QuatIdent()
	}
	dir = Normalized(dir)
	yaw := math.Atan2(dir.X(), dir.Z())
	pitch := -math.Asin(mgl64.Clamp(dir.Y(), -1, 1))
	return mgl64.QuatRotate(yaw, Up).Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0}))
}

// Euler returns the rotation of deg degrees around axis.
func Euler(deg float64, axis mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), axis)
}

// Slerp eases from toward to by t (clamped to [0,1]) along the shortest arc.
func Slerp(from, to mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp01(t)
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl64.QuatSlerp(from, to, t).Normalize()
}

// Lerp eases a toward b by t (clamped to [0,1]).
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

// OnPlane returns p with its height replaced by y.
func OnPlane(p mgl64.Vec3, y float64) mgl64.Vec3 {
	return mgl64.Vec3{p.X(), y, p.Z()}
}

// Overshoot returns a point dist units past target on the line from origin
// through target. When origin and target coincide the target is returned.
func Overshoot(origin, target mgl64.Vec3, dist float64) mgl64.Vec3 {
	return target.Add(Normalized(target.Sub(origin)).Mul(dist))
}
