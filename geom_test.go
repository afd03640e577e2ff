package vitrine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEmptyBox(t *testing.T) {
	b := emptyBox3()
	if !b.IsEmpty() {
		t.Fatal("emptyBox3 should be empty")
	}
	if b.Center() != (mgl32.Vec3{}) {
		t.Errorf("Center of empty box = %v, want zero", b.Center())
	}
	if b.Size() != (mgl32.Vec3{}) {
		t.Errorf("Size of empty box = %v, want zero", b.Size())
	}
}

func TestBoxExpandByPoint(t *testing.T) {
	b := emptyBox3()
	b = b.ExpandByPoint(mgl32.Vec3{1, 2, 3})
	if b.IsEmpty() {
		t.Fatal("box with one point should not be empty")
	}
	if b.Min != (mgl32.Vec3{1, 2, 3}) || b.Max != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("single-point box = %v..%v", b.Min, b.Max)
	}

	b = b.ExpandByPoint(mgl32.Vec3{-1, 0, 5})
	if !approx32(b.Size().X(), 2, epsilon) ||
		!approx32(b.Size().Y(), 2, epsilon) ||
		!approx32(b.Size().Z(), 2, epsilon) {
		t.Errorf("Size = %v, want (2,2,2)", b.Size())
	}
	if !approx32(b.Center().X(), 0, epsilon) ||
		!approx32(b.Center().Y(), 1, epsilon) ||
		!approx32(b.Center().Z(), 4, epsilon) {
		t.Errorf("Center = %v, want (0,1,4)", b.Center())
	}
}

func TestBoxMaxDimension(t *testing.T) {
	b := boxAround(mgl32.Vec3{}, mgl32.Vec3{1, 4, 2})
	if !approx32(b.MaxDimension(), 4, epsilon) {
		t.Errorf("MaxDimension = %f, want 4", b.MaxDimension())
	}
}

func TestBoxIntersects(t *testing.T) {
	a := boxAround(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2})
	tests := []struct {
		name  string
		other Box3
		want  bool
	}{
		{"overlapping", boxAround(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 2, 2}), true},
		{"touching face", boxAround(mgl32.Vec3{2, 0, 0}, mgl32.Vec3{2, 2, 2}), true},
		{"separated", boxAround(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{2, 2, 2}), false},
		{"contained", boxAround(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}), true},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.other); got != tt.want {
			t.Errorf("%s: Intersects = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRayHitsBoxHeadOn(t *testing.T) {
	box := boxAround(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2})
	ray := Ray{Origin: mgl32.Vec3{0, 0, 5}, Dir: mgl32.Vec3{0, 0, -1}}
	d, hit := ray.IntersectBox(box)
	if !hit {
		t.Fatal("expected hit")
	}
	if !approx32(d, 4, epsilon) {
		t.Errorf("distance = %f, want 4", d)
	}
	p := ray.At(d)
	if !approx32(p.Z(), 1, epsilon) {
		t.Errorf("hit point Z = %f, want 1", p.Z())
	}
}

func TestRayMissesBox(t *testing.T) {
	box := boxAround(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2})
	ray := Ray{Origin: mgl32.Vec3{5, 0, 5}, Dir: mgl32.Vec3{0, 0, -1}}
	if _, hit := ray.IntersectBox(box); hit {
		t.Error("ray offset past the box should miss")
	}
}

func TestRayBehindBox(t *testing.T) {
	box := boxAround(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2})
	ray := Ray{Origin: mgl32.Vec3{0, 0, 5}, Dir: mgl32.Vec3{0, 0, 1}}
	if _, hit := ray.IntersectBox(box); hit {
		t.Error("box behind the ray should miss")
	}
}

func TestRayInsideBox(t *testing.T) {
	box := boxAround(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2})
	ray := Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{0, 0, -1}}
	d, hit := ray.IntersectBox(box)
	if !hit {
		t.Fatal("ray starting inside should hit")
	}
	if d != 0 {
		t.Errorf("distance from inside = %f, want 0", d)
	}
}

func TestRayParallelSlab(t *testing.T) {
	box := boxAround(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2})
	// Parallel to the X slabs, outside them: must miss.
	ray := Ray{Origin: mgl32.Vec3{5, 0, 5}, Dir: mgl32.Vec3{0, 0, -1}}
	if _, hit := ray.IntersectBox(box); hit {
		t.Error("parallel ray outside slab should miss")
	}
	// Parallel but inside the slab: hits.
	ray = Ray{Origin: mgl32.Vec3{0.5, 0, 5}, Dir: mgl32.Vec3{0, 0, -1}}
	if _, hit := ray.IntersectBox(box); !hit {
		t.Error("parallel ray inside slab should hit")
	}
}
