package vitrine

import "testing"

func TestSelectionAppliesAndRestoresEmissive(t *testing.T) {
	v := newTestViewer(t)
	obj := newTestObject("case", "case.obj", 1, 2, 1)
	orig := Color{R: 0.1, G: 0, B: 0, A: 1}
	obj.Inner.Meshes[0].Material.Emissive = orig
	addTestObject(t, v, obj, 0)

	v.Select("case")
	mat := obj.Inner.Meshes[0].Material
	if mat.Emissive != highlightEmissive {
		t.Errorf("emissive while selected = %+v, want highlight", mat.Emissive)
	}

	v.Deselect()
	if mat.Emissive != orig {
		t.Errorf("emissive after deselect = %+v, want original %+v", mat.Emissive, orig)
	}
}

func TestSelectionSwitchRestoresPrevious(t *testing.T) {
	v := newTestViewer(t)
	a := newTestObject("a", "case.obj", 1, 1, 1)
	b := newTestObject("b", "case.obj", 1, 1, 1)
	addTestObject(t, v, a, -1)
	addTestObject(t, v, b, 1)

	v.Select("a")
	v.Select("b")

	matA := a.Inner.Meshes[0].Material
	matB := b.Inner.Meshes[0].Material
	if matA.Emissive == highlightEmissive {
		t.Error("previous selection must lose its highlight")
	}
	if matB.Emissive != highlightEmissive {
		t.Error("new selection must gain the highlight")
	}
}

func TestSelectionIndicatorFollowsObject(t *testing.T) {
	v := newTestViewer(t)
	obj := newTestObject("case", "case.obj", 1, 2, 1)
	addTestObject(t, v, obj, 0)

	if v.sel.indicator.Visible {
		t.Fatal("indicator should start hidden")
	}
	v.Select("case")
	if !v.sel.indicator.Visible {
		t.Fatal("indicator should show for a selection")
	}
	// Ring sits just above the object's bottom face.
	wantY := obj.Position().Y() - obj.Bounds.Y()/2 + 0.01
	if !approx32(v.sel.indicator.Position.Y(), wantY, epsilon) {
		t.Errorf("indicator Y = %f, want %f", v.sel.indicator.Position.Y(), wantY)
	}

	obj.SetPosition(2, obj.BaseShelfY, 0)
	v.Update(0.016)
	if !approx32(v.sel.indicator.Position.X(), 2, epsilon) {
		t.Errorf("indicator X = %f, want to follow the object", v.sel.indicator.Position.X())
	}

	v.Deselect()
	if v.sel.indicator.Visible {
		t.Error("indicator should hide on deselect")
	}
}

func TestSelectUnknownID(t *testing.T) {
	v := newTestViewer(t)
	if v.Select("ghost") {
		t.Error("selecting an unknown id should return false")
	}
	if v.Selected() != nil {
		t.Error("failed select must not leave a selection")
	}
}

func TestSelectTwiceIsIdempotent(t *testing.T) {
	v := newTestViewer(t)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)

	var events int
	v.OnSelect(func(ObjectEvent) { events++ })
	v.Select("case")
	v.Select("case")
	if events != 1 {
		t.Errorf("select events = %d, want 1", events)
	}
}

func TestDeselectWithoutSelection(t *testing.T) {
	v := newTestViewer(t)
	var events int
	v.OnDeselect(func() { events++ })
	v.Deselect()
	if events != 0 {
		t.Errorf("deselect events = %d, want 0 when nothing was selected", events)
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	v := newTestViewer(t)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)

	var events int
	handle := v.OnSelect(func(ObjectEvent) { events++ })
	v.Select("case")
	handle.Remove()
	v.Deselect()
	v.Select("case")

	if events != 1 {
		t.Errorf("events = %d, want 1 after handle removal", events)
	}
}
