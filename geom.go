package vitrine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box3 is an axis-aligned bounding box in world or local space.
// An empty box has Min components greater than Max components.
type Box3 struct {
	Min, Max mgl32.Vec3
}

// emptyBox3 returns a box that contains nothing. Expanding it by any point
// makes it contain exactly that point.
func emptyBox3() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

// ExpandByPoint returns the box grown to contain p.
func (b Box3) ExpandByPoint(p mgl32.Vec3) Box3 {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Center returns the centroid of the box. Returns the zero vector for an
// empty box.
func (b Box3) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis. Returns the zero
// vector for an empty box.
func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// MaxDimension returns the largest of the three extents.
func (b Box3) MaxDimension() float32 {
	s := b.Size()
	m := s.X()
	if s.Y() > m {
		m = s.Y()
	}
	if s.Z() > m {
		m = s.Z()
	}
	return m
}

// Intersects reports whether b and other overlap. Boxes sharing only a face
// are considered intersecting.
func (b Box3) Intersects(other Box3) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < other.Min[i] || b.Min[i] > other.Max[i] {
			return false
		}
	}
	return true
}

// boxAround returns the AABB centered at pos with the given full extents.
func boxAround(pos, size mgl32.Vec3) Box3 {
	half := size.Mul(0.5)
	return Box3{Min: pos.Sub(half), Max: pos.Add(half)}
}

// Ray is a half-line in world space. Dir should be normalized.
type Ray struct {
	Origin, Dir mgl32.Vec3
}

// IntersectBox performs a slab test against b. Returns the distance along
// the ray to the nearest intersection and whether the ray hits at all.
// A ray starting inside the box hits at distance 0.
func (r Ray) IntersectBox(b Box3) (float32, bool) {
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))

	for i := 0; i < 3; i++ {
		if r.Dir[i] == 0 {
			// Parallel to this slab: miss unless origin lies inside it.
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / r.Dir[i]
		t0 := (b.Min[i] - r.Origin[i]) * inv
		t1 := (b.Max[i] - r.Origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false // box entirely behind the ray
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
