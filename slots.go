package vitrine

// initSlots lays out the docking slots of a multi-slot base: slotCount
// entries front to back, spaced by the assembled-unit depth, anchored to the
// base's own front edge with a small wall clearance. Returns false when the
// assembled-unit depth is not yet known; the base is left pending and the
// layout retried once the depth is learned.
func (pe *placementEngine) initSlots(base *SceneObject) bool {
	if base.Kind != KindBase {
		return false
	}
	if pe.assembledDepth == 0 {
		base.Slots = nil
		base.slotsReady = false
		return false
	}
	depth := pe.assembledDepth
	front := base.Bounds.Z()/2 - wallClearance
	base.Slots = make([]Slot, slotCount)
	for i := range base.Slots {
		base.Slots[i] = Slot{
			Index: i,
			SnapZ: front - depth/2 - float32(i)*depth,
		}
	}
	base.slotsReady = true
	return true
}

// learnAssembledDepth records the standard assembled-unit depth the first
// time one is loaded and retries slot layout for every base whose
// initialization was deferred.
func (pe *placementEngine) learnAssembledDepth(depth float32) {
	if pe.assembledDepth != 0 || depth <= 0 {
		return
	}
	pe.assembledDepth = depth
	for _, obj := range pe.reg.Objects() {
		if obj.Kind == KindBase && !obj.slotsReady {
			pe.initSlots(obj)
		}
	}
}

// nearestSlot returns the base slot closest to the given depth coordinate.
// Slots occupied by an object other than self are excluded; the slot self
// already occupies is a valid destination. Ties break toward the smaller
// absolute distance scanned first. Returns nil when no slot is reachable.
func nearestSlot(base *SceneObject, z float32, self *SceneObject) *Slot {
	if !base.slotsReady {
		return nil
	}
	var best *Slot
	var bestDist float32
	for i := range base.Slots {
		s := &base.Slots[i]
		if s.Occupant != nil && s.Occupant != self {
			continue
		}
		d := abs32(s.SnapZ - z)
		if best == nil || d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}
