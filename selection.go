package vitrine

// highlightEmissive is the emissive tint applied to a selected object's
// materials.
var highlightEmissive = Color{R: 0.22, G: 0.20, B: 0.05, A: 1}

// indicatorColor is the tint of the flat ring drawn beneath the selected
// object.
var indicatorColor = Color{R: 0.95, G: 0.85, B: 0.25, A: 1}

// selectionState tracks the single selected object, its saved material
// state, and the ring indicator node.
type selectionState struct {
	current *SceneObject

	// Materials touched by the active highlight and their original emissive
	// values, restored on deselect or selection change.
	mats  []*Material
	saved []Color

	indicator *Group
}

// newSelectionState builds the hidden ring indicator and attaches it to the
// scene root.
func newSelectionState(root *Group) *selectionState {
	ring := NewGroup("selection-ring")
	ringMesh := newRingMesh(0.8, 1.0, 32)
	ringMesh.Material = NewMaterial(indicatorColor)
	ringMesh.Material.Emissive = indicatorColor
	ring.Meshes = []*Mesh{ringMesh}
	ring.Visible = false
	root.AddChild(ring)
	return &selectionState{indicator: ring}
}

// selectObject highlights obj, restoring any previous selection first, and
// moves the ring indicator beneath it. Selecting nil is equivalent to
// deselect.
func (ss *selectionState) selectObject(obj *SceneObject) {
	if obj == ss.current {
		return
	}
	ss.restore()
	ss.current = obj
	if obj == nil {
		ss.indicator.Visible = false
		return
	}

	for _, m := range obj.materials() {
		ss.mats = append(ss.mats, m)
		ss.saved = append(ss.saved, m.Emissive)
		m.Emissive = highlightEmissive
	}

	pos := obj.Position()
	bottom := pos.Y() - obj.Bounds.Y()/2
	ss.indicator.SetPosition(pos.X(), bottom+0.01, pos.Z())
	footprint := obj.Bounds.X()
	if obj.Bounds.Z() > footprint {
		footprint = obj.Bounds.Z()
	}
	ss.indicator.SetScale(footprint * 0.75)
	ss.indicator.Visible = true
}

// deselect clears the highlight and hides the indicator. No-op when nothing
// is selected.
func (ss *selectionState) deselect() {
	ss.restore()
	ss.current = nil
	ss.indicator.Visible = false
}

// restore puts back every material's original emissive value.
func (ss *selectionState) restore() {
	for i, m := range ss.mats {
		m.Emissive = ss.saved[i]
	}
	ss.mats = ss.mats[:0]
	ss.saved = ss.saved[:0]
}

// syncIndicator repositions the ring under the selected object. Called each
// frame so the indicator follows a dragged selection.
func (ss *selectionState) syncIndicator() {
	if ss.current == nil {
		return
	}
	pos := ss.current.Position()
	bottom := pos.Y() - ss.current.Bounds.Y()/2
	ss.indicator.SetPosition(pos.X(), bottom+0.01, pos.Z())
}
