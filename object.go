package vitrine

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneObject is a placed instance on the shelf. The registry exclusively
// owns the object list; other components hold transient references only.
type SceneObject struct {
	// ID uniquely identifies the object within its viewer.
	ID string

	// Kind is derived once from SourcePath at creation time.
	Kind Kind

	// Outer is the runtime placement group: dragging and snapping move it.
	// Inner carries the authored scale and initial rotation from loading and
	// is never touched afterward. Outer wraps Inner.
	Outer *Group
	Inner *Group

	// Bounds is the axis-aligned size of the object in scene units,
	// computed after the fit scale was applied.
	Bounds mgl32.Vec3

	// SourcePath identifies the loaded model asset.
	SourcePath string

	// BaseShelfY is the resting vertical coordinate on the shelf surface,
	// restored whenever the object unsnaps.
	BaseShelfY float32

	// Color is the primary tint; Back is the rear tint for dual-color
	// variants (nil for single-color objects).
	Color Color
	Back  *Color

	// Slots is the docking array for KindBase objects; nil otherwise.
	// slotsReady is false while slot layout is deferred waiting for the
	// assembled-unit depth to become known.
	Slots      []Slot
	slotsReady bool
}

// Slot is a discrete docking position inside a multi-slot base.
type Slot struct {
	// Index is the ordinal 0..slotCount-1, front to back.
	Index int
	// SnapZ is the precomputed depth-axis coordinate for an occupant.
	SnapZ float32
	// Occupant is the object currently docked here, or nil.
	Occupant *SceneObject
}

// classifyKind derives the object kind from the asset path, once, at
// creation. Matching is case-insensitive on the file name.
func classifyKind(sourcePath string) Kind {
	name := strings.ToLower(sourcePath)
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	switch {
	case strings.Contains(name, "assembled"), strings.Contains(name, "unit"):
		return KindAssembled
	case strings.Contains(name, "multibase"), strings.Contains(name, "rack"),
		strings.Contains(name, "base"):
		return KindBase
	case strings.Contains(name, "stand"):
		return KindStand
	default:
		return KindCase
	}
}

// Position returns the object's current world position (the outer group's
// local position; objects are direct children of the scene root).
func (o *SceneObject) Position() mgl32.Vec3 {
	return o.Outer.Position
}

// SetPosition moves the object's outer group.
func (o *SceneObject) SetPosition(x, y, z float32) {
	o.Outer.SetPosition(x, y, z)
}

// HalfWidth returns half the object's extent along the shelf axis.
func (o *SceneObject) HalfWidth() float32 {
	return o.Bounds.X() / 2
}

// WorldBox returns the object's world-space AABB centered on its position.
func (o *SceneObject) WorldBox() Box3 {
	return boxAround(o.Position(), o.Bounds)
}

// SnapCapacity returns how many occupants the object can hold as a snap
// target: 1 for stands, slotCount for bases (0 while slot layout is
// deferred), 0 otherwise.
func (o *SceneObject) SnapCapacity() int {
	switch o.Kind {
	case KindStand:
		return 1
	case KindBase:
		if !o.slotsReady {
			return 0
		}
		return len(o.Slots)
	default:
		return 0
	}
}

// OccupiedSlots returns the number of occupied slots of a base. Always 0 for
// non-base objects.
func (o *SceneObject) OccupiedSlots() int {
	n := 0
	for i := range o.Slots {
		if o.Slots[i].Occupant != nil {
			n++
		}
	}
	return n
}

// FreeSlot returns the first unoccupied slot, or nil when the base is full
// or slot layout is still deferred.
func (o *SceneObject) FreeSlot() *Slot {
	if !o.slotsReady {
		return nil
	}
	for i := range o.Slots {
		if o.Slots[i].Occupant == nil {
			return &o.Slots[i]
		}
	}
	return nil
}

// materials returns every material in the object's mesh tree. Used by the
// selection highlight to save and restore emissive state.
func (o *SceneObject) materials() []*Material {
	var out []*Material
	collectMaterials(o.Outer, &out)
	return out
}

func collectMaterials(g *Group, out *[]*Material) {
	for _, m := range g.Meshes {
		if m.Material != nil {
			*out = append(*out, m.Material)
		}
	}
	for _, c := range g.children {
		collectMaterials(c, out)
	}
}
