package vitrine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh holds indexed triangle geometry and the material it is drawn with.
// Positions, Normals, and UVs are parallel arrays indexed by Indices.
type Mesh struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
	Material  *Material

	bounds      Box3
	boundsDirty bool
}

// NewMesh creates a mesh with the given geometry. Normals may be nil; they
// are generated from face winding on demand.
func NewMesh(name string, positions []mgl32.Vec3, normals []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) *Mesh {
	return &Mesh{
		Name:        name,
		Positions:   positions,
		Normals:     normals,
		UVs:         uvs,
		Indices:     indices,
		Material:    NewMaterial(ColorWhite),
		boundsDirty: true,
	}
}

// BoundingBox returns the local-space AABB of the mesh, caching the result
// until InvalidateBounds is called.
func (m *Mesh) BoundingBox() Box3 {
	if m.boundsDirty {
		box := emptyBox3()
		for _, p := range m.Positions {
			box = box.ExpandByPoint(p)
		}
		m.bounds = box
		m.boundsDirty = false
	}
	return m.bounds
}

// InvalidateBounds marks the cached AABB as stale. Call after modifying
// Positions.
func (m *Mesh) InvalidateBounds() {
	m.boundsDirty = true
}

// Translate shifts every vertex by d and invalidates the cached bounds.
func (m *Mesh) Translate(d mgl32.Vec3) {
	for i := range m.Positions {
		m.Positions[i] = m.Positions[i].Add(d)
	}
	m.boundsDirty = true
}

// EnsureNormals generates per-vertex normals from face winding when the mesh
// has none. Existing normals are kept.
func (m *Mesh) EnsureNormals() {
	if len(m.Normals) == len(m.Positions) {
		return
	}
	normals := make([]mgl32.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		e1 := m.Positions[b].Sub(m.Positions[a])
		e2 := m.Positions[c].Sub(m.Positions[a])
		n := e1.Cross(e2)
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i := range normals {
		if l := normals[i].Len(); l > 1e-8 {
			normals[i] = normals[i].Mul(1 / l)
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	m.Normals = normals
}

// newRingMesh builds a flat ring in the XZ plane, used as the selection
// indicator under the selected object.
func newRingMesh(inner, outer float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	positions := make([]mgl32.Vec3, 0, segments*2)
	indices := make([]uint32, 0, segments*6)
	for i := 0; i < segments; i++ {
		a := float64(i) / float64(segments) * 2 * math.Pi
		sin, cos := math.Sincos(a)
		s, c := float32(sin), float32(cos)
		positions = append(positions,
			mgl32.Vec3{c * inner, 0, s * inner},
			mgl32.Vec3{c * outer, 0, s * outer},
		)
	}
	for i := 0; i < segments; i++ {
		i0 := uint32(i * 2)
		i1 := i0 + 1
		j0 := uint32(((i + 1) % segments) * 2)
		j1 := j0 + 1
		indices = append(indices, i0, j0, i1, i1, j0, j1)
	}
	normals := make([]mgl32.Vec3, len(positions))
	for i := range normals {
		normals[i] = mgl32.Vec3{0, 1, 0}
	}
	return NewMesh("ring", positions, normals, nil, indices)
}

// newBoxMesh builds an axis-aligned box centered on the origin, used for
// the shelf slab.
func newBoxMesh(width, height, depth float32) *Mesh {
	hx, hy, hz := width/2, height/2, depth/2
	// Four vertices per face so each face gets its own flat normal.
	type face struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-hx, hy, -hz}, {-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
	}
	positions := make([]mgl32.Vec3, 0, 24)
	normals := make([]mgl32.Vec3, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(positions))
		for _, c := range f.corners {
			positions = append(positions, c)
			normals = append(normals, f.normal)
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewMesh("box", positions, normals, nil, indices)
}
