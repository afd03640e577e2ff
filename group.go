package vitrine

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Group is a transform node in the scene tree. A single flat struct is used
// for all nodes to avoid interface dispatch on the hot path. A Group may
// carry meshes (a visual leaf) or only children (a pure container).
type Group struct {
	Name string

	// Hierarchy
	parent   *Group
	children []*Group

	// Transform (local)
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	// Attached geometry, if any.
	Meshes []*Mesh

	// Visibility. Invisible groups (and their subtrees) are skipped by the
	// renderer but still occupy their place in the tree.
	Visible bool

	// Computed, refreshed during the per-frame transform pass.
	worldMatrix    mgl32.Mat4
	transformDirty bool
}

// NewGroup creates an empty container group with identity transform.
func NewGroup(name string) *Group {
	return &Group{
		Name:           name,
		Rotation:       mgl32.QuatIdent(),
		Scale:          mgl32.Vec3{1, 1, 1},
		Visible:        true,
		transformDirty: true,
	}
}

// AddChild appends child to this group. If child already has a parent it is
// reparented. Adding a group to itself or to one of its descendants is a
// no-op.
func (g *Group) AddChild(child *Group) {
	if child == nil || child == g || isAncestor(child, g) {
		return
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.parent = g
	g.children = append(g.children, child)
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this group. No-op if child is not a direct
// child.
func (g *Group) RemoveChild(child *Group) {
	if child == nil || child.parent != g {
		return
	}
	g.removeChildByPtr(child)
	child.parent = nil
}

// RemoveFromParent detaches this group from its parent, if any.
func (g *Group) RemoveFromParent() {
	if g.parent != nil {
		g.parent.RemoveChild(g)
	}
}

// Children returns the group's direct children. The returned slice MUST NOT
// be mutated.
func (g *Group) Children() []*Group {
	return g.children
}

// Parent returns the group's parent, or nil for a root.
func (g *Group) Parent() *Group {
	return g.parent
}

func (g *Group) removeChildByPtr(child *Group) {
	for i, c := range g.children {
		if c == child {
			copy(g.children[i:], g.children[i+1:])
			g.children[len(g.children)-1] = nil
			g.children = g.children[:len(g.children)-1]
			return
		}
	}
}

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Group) bool {
	for n := node; n != nil; n = n.parent {
		if n == candidate {
			return true
		}
	}
	return false
}

// markSubtreeDirty marks a group and all descendants for transform
// recomputation.
func markSubtreeDirty(g *Group) {
	g.transformDirty = true
	for _, c := range g.children {
		markSubtreeDirty(c)
	}
}

// --- Transform property setters ---

// SetPosition sets the group's local position and marks it dirty.
func (g *Group) SetPosition(x, y, z float32) {
	g.Position = mgl32.Vec3{x, y, z}
	g.transformDirty = true
}

// SetRotation sets the group's local rotation and marks it dirty.
func (g *Group) SetRotation(q mgl32.Quat) {
	g.Rotation = q
	g.transformDirty = true
}

// SetRotationEuler sets the local rotation from XYZ Euler angles in radians.
func (g *Group) SetRotationEuler(x, y, z float32) {
	g.Rotation = mgl32.AnglesToQuat(x, y, z, mgl32.XYZ)
	g.transformDirty = true
}

// SetScale sets a uniform local scale and marks the group dirty.
func (g *Group) SetScale(s float32) {
	g.Scale = mgl32.Vec3{s, s, s}
	g.transformDirty = true
}

// MarkDirty marks the group's transform as dirty, forcing recomputation on
// the next frame. Useful after bulk-setting fields directly.
func (g *Group) MarkDirty() {
	g.transformDirty = true
}

// localMatrix composes Translate * Rotate * Scale.
func (g *Group) localMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(g.Position.X(), g.Position.Y(), g.Position.Z())
	m = m.Mul4(g.Rotation.Mat4())
	m = m.Mul4(mgl32.Scale3D(g.Scale.X(), g.Scale.Y(), g.Scale.Z()))
	return m
}

// WorldMatrix returns the most recently computed world matrix. Valid after
// the transform pass for the current frame.
func (g *Group) WorldMatrix() mgl32.Mat4 {
	return g.worldMatrix
}

// updateWorldTransform recomputes a group's worldMatrix and recurses into
// children. parentRecomputed forces recomputation even when the group itself
// is not dirty.
func updateWorldTransform(g *Group, parent mgl32.Mat4, parentRecomputed bool) {
	recompute := g.transformDirty || parentRecomputed
	if recompute {
		g.worldMatrix = parent.Mul4(g.localMatrix())
		g.transformDirty = false
	}
	for _, c := range g.children {
		updateWorldTransform(c, g.worldMatrix, recompute)
	}
}

// worldBounds returns the AABB of all meshes in the subtree, transformed to
// world space. Returns an empty box for a meshless subtree.
func (g *Group) worldBounds() Box3 {
	box := emptyBox3()
	g.accumulateWorldBounds(&box)
	return box
}

func (g *Group) accumulateWorldBounds(box *Box3) {
	for _, m := range g.Meshes {
		mb := m.BoundingBox()
		if mb.IsEmpty() {
			continue
		}
		// Transform the eight corners; the result covers any rotation.
		for i := 0; i < 8; i++ {
			c := mgl32.Vec3{mb.Min.X(), mb.Min.Y(), mb.Min.Z()}
			if i&1 != 0 {
				c[0] = mb.Max.X()
			}
			if i&2 != 0 {
				c[1] = mb.Max.Y()
			}
			if i&4 != 0 {
				c[2] = mb.Max.Z()
			}
			w := mgl32.TransformCoordinate(c, g.worldMatrix)
			*box = box.ExpandByPoint(w)
		}
	}
	for _, c := range g.children {
		c.accumulateWorldBounds(box)
	}
}
