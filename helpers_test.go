package vitrine

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-4

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func approx32(a, b, eps float32) bool {
	return abs32(a-b) < eps
}

// fixedSurface is a Surface with a static size for tests.
type fixedSurface struct {
	w, h int
}

func (s fixedSurface) Size() (int, int) { return s.w, s.h }

// newTestViewer creates a viewer on an 800x600 surface with defaults.
func newTestViewer(t *testing.T) *Viewer {
	t.Helper()
	v, err := New(Config{Surface: fixedSurface{w: 800, h: 600}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

// newTestObject builds a scene object with box geometry of the given size,
// bypassing the loader. sourcePath drives kind classification exactly like
// a real load.
func newTestObject(id, sourcePath string, w, h, d float32) *SceneObject {
	inner := NewGroup("inner")
	inner.Meshes = []*Mesh{newBoxMesh(w, h, d)}
	outer := NewGroup(id)
	outer.AddChild(inner)
	return &SceneObject{
		ID:         id,
		Kind:       classifyKind(sourcePath),
		Outer:      outer,
		Inner:      inner,
		Bounds:     mgl32.Vec3{w, h, d},
		SourcePath: sourcePath,
		BaseShelfY: h / 2,
	}
}

// addTestObject inserts a pre-built object into the viewer at the given
// shelf position and rest height.
func addTestObject(t *testing.T, v *Viewer, obj *SceneObject, x float32) {
	t.Helper()
	obj.SetPosition(x, obj.BaseShelfY, 0)
	if err := v.addLoadedObject(obj); err != nil {
		t.Fatalf("add %s: %v", obj.ID, err)
	}
	updateWorldTransform(v.root, mgl32.Ident4(), false)
}
