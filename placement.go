package vitrine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// dragMode is the two-state mode of a single drag session.
type dragMode uint8

const (
	dragFree   dragMode = iota // moving along the shelf's horizontal axis
	dragDocked                 // moving along a base's depth axis
)

// snapRelation binds an assembled object to its snap target. SlotIndex is -1
// for a single-capacity stand attachment, otherwise the numbered slot inside
// a multi-slot base. An assembled object has at most one relation at a time.
type snapRelation struct {
	baseID    string
	slotIndex int
}

// dragSession is the per-gesture state of an object drag. It is created on
// pointer-down over an object and discarded unconditionally on pointer-up,
// so mode never leaks across gestures.
type dragSession struct {
	object *SceneObject
	mode   dragMode

	// Pointer reference point and the object position it corresponds to.
	// Both are reset after a snap or unsnap so the next move event does not
	// produce a position jump.
	startX, startY float64
	origin         mgl32.Vec3

	// Horizontal positions of docked occupants when the session started;
	// used for absolute (drift-free) co-translation while dragging a base.
	occupantOrigins map[string]float32

	// Accumulated horizontal pointer travel while docked; crossing the exit
	// threshold unsnaps the object.
	accumX float64
	lastX  float64

	worldPerPixel float32
}

// placementEngine computes legal object positions on the shelf, finds snap
// targets, assigns and frees slots, and keeps docked objects glued to a
// moving base. Nearest-slot and nearest-target answers are recomputed from
// live registry state on every query, never memoized across frames.
type placementEngine struct {
	reg       *Registry
	shelfHalf float32

	relations map[string]snapRelation

	// assembledDepth is the standard depth of an assembled unit, learned
	// lazily from the first one ever loaded. Zero means not yet known; base
	// slot layout is deferred until it is.
	assembledDepth float32

	session *dragSession
}

func newPlacementEngine(reg *Registry, shelfHalf float32) *placementEngine {
	return &placementEngine{
		reg:       reg,
		shelfHalf: shelfHalf,
		relations: make(map[string]snapRelation),
	}
}

// relationFor returns the object's active snap relation, if any.
func (pe *placementEngine) relationFor(id string) (snapRelation, bool) {
	rel, ok := pe.relations[id]
	return rel, ok
}

// dragging reports whether an object drag session is active.
func (pe *placementEngine) dragging() bool {
	return pe.session != nil
}

// draggedObject returns the object of the active session, or nil.
func (pe *placementEngine) draggedObject() *SceneObject {
	if pe.session == nil {
		return nil
	}
	return pe.session.object
}

// beginDrag opens a drag session for obj anchored at the current pointer
// position. The session starts docked iff the object has a snap relation.
func (pe *placementEngine) beginDrag(obj *SceneObject, px, py float64, worldPerPixel float32) {
	s := &dragSession{
		object:        obj,
		startX:        px,
		startY:        py,
		lastX:         px,
		origin:        obj.Position(),
		worldPerPixel: worldPerPixel,
	}
	if _, docked := pe.relations[obj.ID]; docked {
		s.mode = dragDocked
	}
	if obj.Kind == KindStand || obj.Kind == KindBase {
		s.occupantOrigins = make(map[string]float32)
		for _, occ := range pe.occupantsOf(obj.ID) {
			s.occupantOrigins[occ.ID] = occ.Position().X()
		}
	}
	pe.session = s
}

// moveDrag advances the active session to the given pointer position.
func (pe *placementEngine) moveDrag(px, py float64) {
	s := pe.session
	if s == nil {
		return
	}
	if s.mode == dragFree {
		pe.moveFree(px, py)
	} else {
		pe.moveDocked(px, py)
	}
	if pe.session != nil {
		pe.session.lastX = px
	}
}

// endDrag closes the session. Called unconditionally on pointer-up.
func (pe *placementEngine) endDrag() {
	pe.session = nil
}

// moveFree moves the object along the horizontal axis, clamped so its
// bounding half-width never crosses the shelf boundary, then evaluates snap
// proximity.
func (pe *placementEngine) moveFree(px, py float64) {
	s := pe.session
	obj := s.object

	dx := float32(px-s.startX) * s.worldPerPixel
	newX := clampShelfX(s.origin.X()+dx, obj.HalfWidth(), pe.shelfHalf)
	pos := obj.Position()
	obj.SetPosition(newX, pos.Y(), pos.Z())

	// A moving base carries its docked occupants: absolute set from session
	// origins, not incremental, to avoid drift.
	if s.occupantOrigins != nil {
		delta := newX - s.origin.X()
		for id, originX := range s.occupantOrigins {
			occ := pe.reg.Get(id)
			if occ == nil {
				continue
			}
			op := occ.Position()
			occ.SetPosition(originX+delta, op.Y(), op.Z())
		}
	}

	if obj.Kind != KindAssembled {
		return
	}
	target := pe.findSnapTarget(obj)
	if target == nil {
		return
	}
	pe.snapTo(obj, target)
	// Flip to docked and re-anchor the drag at the snapped position so the
	// next move event does not jump.
	s.mode = dragDocked
	s.startX = px
	s.startY = py
	s.origin = obj.Position()
	s.accumX = 0
}

// moveDocked moves the object along the depth axis inside its base,
// resolving immediately to the nearest reachable slot, and unsnaps when the
// accumulated horizontal pointer travel crosses the exit threshold.
func (pe *placementEngine) moveDocked(px, py float64) {
	s := pe.session
	obj := s.object

	rel, ok := pe.relations[obj.ID]
	if !ok {
		// Relation vanished mid-gesture (base removed): fall back to free.
		s.mode = dragFree
		s.startX, s.startY = px, py
		s.origin = obj.Position()
		return
	}

	s.accumX += math.Abs(px - s.lastX)
	if s.accumX > exitDockThreshold {
		pe.unsnap(obj)
		s.mode = dragFree
		s.startX, s.startY = px, py
		s.origin = obj.Position()
		return
	}

	if rel.slotIndex < 0 {
		return // stand attachment has no depth freedom
	}
	base := pe.reg.Get(rel.baseID)
	if base == nil {
		return
	}
	desiredZ := s.origin.Z() + float32(py-s.startY)*s.worldPerPixel
	slot := nearestSlot(base, desiredZ, obj)
	if slot != nil && slot.Index != rel.slotIndex {
		pe.moveToSlot(obj, base, slot)
	}
}

// clampShelfX keeps an object of the given half-width fully on the shelf.
func clampShelfX(x, halfWidth, shelfHalf float32) float32 {
	limit := shelfHalf - halfWidth
	if limit < 0 {
		return 0 // wider than the shelf; center it
	}
	if x < -limit {
		return -limit
	}
	if x > limit {
		return limit
	}
	return x
}

// findSnapTarget returns the closest valid snap target within the snap
// threshold, or nil. Only assembled units seek targets; candidates are
// stands not occupied by another object and bases with at least one free
// slot.
func (pe *placementEngine) findSnapTarget(obj *SceneObject) *SceneObject {
	var best *SceneObject
	bestDist := float32(snapThreshold)
	for _, cand := range pe.reg.Objects() {
		if cand == obj {
			continue
		}
		switch cand.Kind {
		case KindStand:
			if pe.standOccupiedByOther(cand, obj) {
				continue
			}
		case KindBase:
			if cand.FreeSlot() == nil && !pe.occupies(obj, cand) {
				continue
			}
		default:
			continue
		}
		dist := abs32(cand.Position().X() - obj.Position().X())
		if dist < bestDist {
			bestDist = dist
			best = cand
		}
	}
	return best
}

// standOccupiedByOther reports whether the stand holds an object other than
// obj.
func (pe *placementEngine) standOccupiedByOther(stand, obj *SceneObject) bool {
	for id, rel := range pe.relations {
		if rel.baseID == stand.ID && id != obj.ID {
			return true
		}
	}
	return false
}

// occupies reports whether obj currently holds a slot inside base.
func (pe *placementEngine) occupies(obj, base *SceneObject) bool {
	rel, ok := pe.relations[obj.ID]
	return ok && rel.baseID == base.ID
}

// occupantsOf returns every object docked to the given target.
func (pe *placementEngine) occupantsOf(baseID string) []*SceneObject {
	var out []*SceneObject
	for id, rel := range pe.relations {
		if rel.baseID != baseID {
			continue
		}
		if occ := pe.reg.Get(id); occ != nil {
			out = append(out, occ)
		}
	}
	return out
}

// snapTo docks obj onto target. Stands lift the object slightly above its
// shelf rest height and center its depth; bases nest it at rest height in
// the nearest free slot.
func (pe *placementEngine) snapTo(obj, target *SceneObject) {
	switch target.Kind {
	case KindStand:
		obj.SetPosition(target.Position().X(), obj.BaseShelfY+standMountOffset, 0)
		pe.relations[obj.ID] = snapRelation{baseID: target.ID, slotIndex: -1}
	case KindBase:
		slot := nearestSlot(target, obj.Position().Z(), obj)
		if slot == nil {
			return
		}
		obj.SetPosition(target.Position().X(), obj.BaseShelfY, slot.SnapZ)
		slot.Occupant = obj
		pe.relations[obj.ID] = snapRelation{baseID: target.ID, slotIndex: slot.Index}
	}
}

// moveToSlot transfers obj to a different slot of the same base, keeping the
// slot/relation bookkeeping bidirectionally consistent.
func (pe *placementEngine) moveToSlot(obj, base *SceneObject, slot *Slot) {
	rel := pe.relations[obj.ID]
	if rel.slotIndex >= 0 && rel.slotIndex < len(base.Slots) &&
		base.Slots[rel.slotIndex].Occupant == obj {
		base.Slots[rel.slotIndex].Occupant = nil
	}
	slot.Occupant = obj
	pe.relations[obj.ID] = snapRelation{baseID: base.ID, slotIndex: slot.Index}
	pos := obj.Position()
	obj.SetPosition(pos.X(), obj.BaseShelfY, slot.SnapZ)
}

// unsnap releases obj from its snap target: original shelf rest height
// restored, depth reset to zero, slot freed, relation deleted. Idempotent on
// position regardless of how many slot moves occurred while docked.
func (pe *placementEngine) unsnap(obj *SceneObject) {
	rel, ok := pe.relations[obj.ID]
	if !ok {
		return
	}
	if base := pe.reg.Get(rel.baseID); base != nil && rel.slotIndex >= 0 &&
		rel.slotIndex < len(base.Slots) && base.Slots[rel.slotIndex].Occupant == obj {
		base.Slots[rel.slotIndex].Occupant = nil
	}
	delete(pe.relations, obj.ID)
	pos := obj.Position()
	obj.SetPosition(pos.X(), obj.BaseShelfY, 0)
}

// objectRemoved updates placement state after an object leaves the
// registry: a removed target cascades an unsnap of every occupant, a
// removed assembled unit frees its slot, and an active session on the
// object is dropped.
func (pe *placementEngine) objectRemoved(obj *SceneObject) {
	switch obj.Kind {
	case KindStand, KindBase:
		for _, occ := range pe.occupantsOf(obj.ID) {
			pe.unsnap(occ)
		}
	case KindAssembled:
		pe.unsnap(obj)
	}
	if pe.session != nil && pe.session.object == obj {
		pe.session = nil
	}
}

// clear drops all relations and any active session.
func (pe *placementEngine) clear() {
	pe.relations = make(map[string]snapRelation)
	pe.session = nil
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
