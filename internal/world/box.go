package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned block of static level geometry.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBox returns a box spanning the two corners in any order.
func NewBox(a, b mgl64.Vec3) Box {
	return Box{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// Contains reports whether p lies inside the box, borders included.
func (b Box) Contains(p mgl64.Vec3) bool {
	for i := range 3 {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// IntersectsSegment reports whether the segment from→to touches the box
// (slab test).
func (b Box) IntersectsSegment(from, to mgl64.Vec3) bool {
	dir := to.Sub(from)
	tMin, tMax := 0.0, 1.0
	for i := range 3 {
		if math.Abs(dir[i]) < 1e-12 {
			if from[i] < b.Min[i] || from[i] > b.Max[i] {
				return false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (b.Min[i] - from[i]) * inv
		t2 := (b.Max[i] - from[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}
	return true
}
