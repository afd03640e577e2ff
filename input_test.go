package vitrine

import (
	"testing"
)

// screenPointOver returns the screen coordinates of an object's center.
func screenPointOver(t *testing.T, v *Viewer, obj *SceneObject) (float64, float64) {
	t.Helper()
	sx, sy, ok := v.cam.WorldToScreen(obj.Position())
	if !ok {
		t.Fatalf("%s projects behind the camera", obj.ID)
	}
	return sx, sy
}

// tap performs a press and a quick release at the given point.
func tap(v *Viewer, x, y float64) {
	v.ProcessPointer(0, x, y, true)
	v.Update(0.05)
	v.ProcessPointer(0, x, y, false)
}

func TestTapSelectsAndDeselects(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)

	var selected, deselected int
	v.OnSelect(func(e ObjectEvent) {
		if e.ID != "case" {
			t.Errorf("select event for %q", e.ID)
		}
		selected++
	})
	v.OnDeselect(func() { deselected++ })

	sx, sy := screenPointOver(t, v, obj)
	tap(v, sx, sy)
	if v.Selected() != obj {
		t.Fatal("first tap should select")
	}
	if selected != 1 {
		t.Errorf("select events = %d, want 1", selected)
	}

	// A second tap outside the double-tap window toggles the selection off.
	v.Update(0.5)
	tap(v, sx, sy)
	if v.Selected() != nil {
		t.Error("second tap should deselect")
	}
	if deselected != 1 {
		t.Errorf("deselect events = %d, want 1", deselected)
	}
}

func TestTapEmptySpaceDeselects(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)
	v.Select("case")

	tap(v, 10, 10) // far corner, no object
	if v.Selected() != nil {
		t.Error("tapping empty space should clear the selection")
	}
}

func TestDoubleTapInspects(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)

	var inspected []InspectEvent
	v.OnInspect(func(e InspectEvent) { inspected = append(inspected, e) })

	sx, sy := screenPointOver(t, v, obj)
	tap(v, sx, sy)
	v.Update(0.05)
	tap(v, sx, sy) // within the double-tap window

	if len(inspected) != 1 {
		t.Fatalf("inspect events = %d, want 1", len(inspected))
	}
	e := inspected[0]
	if e.ID != "case" || e.Kind != KindCase || e.Docked {
		t.Errorf("inspect event = %+v", e)
	}
	// The first tap's selection must survive the inspect.
	if v.Selected() != obj {
		t.Error("double tap should not clear the selection")
	}
}

func TestDoubleTapRequiresSameObject(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	a := newTestObject("a", "case.obj", 0.8, 0.8, 0.8)
	b := newTestObject("b", "case.obj", 0.8, 0.8, 0.8)
	addTestObject(t, v, a, -1.5)
	addTestObject(t, v, b, 1.5)

	var inspected int
	v.OnInspect(func(InspectEvent) { inspected++ })

	ax, ay := screenPointOver(t, v, a)
	bx, by := screenPointOver(t, v, b)
	tap(v, ax, ay)
	v.Update(0.05)
	tap(v, bx, by)

	if inspected != 0 {
		t.Errorf("inspect events = %d, taps on different objects must not inspect", inspected)
	}
}

func TestLongPressIsNotATap(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)

	sx, sy := screenPointOver(t, v, obj)
	v.ProcessPointer(0, sx, sy, true)
	v.Update(0.4) // past the tap duration limit
	v.ProcessPointer(0, sx, sy, false)

	if v.Selected() != nil {
		t.Error("long press must not select")
	}
}

func TestCameraOrbitDeadZone(t *testing.T) {
	v := newTestViewer(t)
	theta := v.cam.Theta

	v.ProcessPointer(0, 100, 100, true)
	v.ProcessPointer(0, 102, 100, true) // inside the dead zone
	if v.cam.Theta != theta {
		t.Error("movement inside the dead zone must not orbit")
	}
	v.ProcessPointer(0, 160, 100, true)
	if v.cam.Theta == theta {
		t.Error("movement past the dead zone should orbit")
	}
	v.ProcessPointer(0, 160, 100, false)
}

func TestPointerFlagsClearedOnRelease(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)

	sx, sy := screenPointOver(t, v, obj)
	v.ProcessPointer(0, sx, sy, true)
	if !v.place.dragging() {
		t.Fatal("press over an object should start a drag")
	}
	v.ProcessPointer(0, sx+200, sy, true)
	v.ProcessPointer(0, sx+200, sy, false)

	ps := &v.pointers[0]
	if ps.down || ps.mode != pmNone || ps.hit != nil || ps.travel != 0 {
		t.Errorf("pointer state not cleared: %+v", ps)
	}
	if v.place.dragging() {
		t.Error("drag session must end on release")
	}
}

func TestTwoFingerPanMovesTarget(t *testing.T) {
	v := newTestViewer(t)

	v.ProcessPointer(1, 300, 300, true)
	v.ProcessPointer(2, 500, 300, true)
	// Both fingers slide right past the per-finger threshold.
	v.ProcessPointer(1, 320, 300, true)
	v.ProcessPointer(2, 520, 300, true)
	v.Update(0.016)
	if !v.pan.active {
		t.Fatal("two horizontal same-sign fingers should activate the pan")
	}

	before := v.cam.Target.X()
	v.ProcessPointer(1, 360, 300, true)
	v.ProcessPointer(2, 560, 300, true)
	v.Update(0.016)
	if v.cam.Target.X() >= before {
		t.Errorf("Target.X = %f, want decreased from %f (content follows fingers)",
			v.cam.Target.X(), before)
	}

	// Lifting one finger ends the pan.
	v.ProcessPointer(2, 560, 300, false)
	v.Update(0.016)
	if v.pan.active {
		t.Error("pan must end when a finger lifts")
	}
}

func TestTwoFingerPanRequiresSameDirection(t *testing.T) {
	v := newTestViewer(t)

	v.ProcessPointer(1, 300, 300, true)
	v.ProcessPointer(2, 500, 300, true)
	// Fingers move apart: a pinch, not a pan.
	v.ProcessPointer(1, 270, 300, true)
	v.ProcessPointer(2, 530, 300, true)
	v.Update(0.016)
	if v.pan.active {
		t.Error("opposite-direction fingers must not activate the pan")
	}
}

func TestTwoFingerPanCancelsObjectDrag(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	obj := newTestObject("case", "case.obj", 1.2, 1.2, 1.2)
	addTestObject(t, v, obj, 0)

	sx, sy := screenPointOver(t, v, obj)
	v.ProcessPointer(1, sx, sy, true)
	if !v.place.dragging() {
		t.Fatal("touch over object should start a drag")
	}
	v.ProcessPointer(2, sx+150, sy, true)
	v.ProcessPointer(1, sx+20, sy, true)
	v.ProcessPointer(2, sx+170, sy, true)
	v.Update(0.016)

	if !v.pan.active {
		t.Fatal("pan should activate")
	}
	if v.place.dragging() {
		t.Error("activating the pan must cancel the object drag")
	}
	if v.pointers[1].mode != pmPan || v.pointers[2].mode != pmPan {
		t.Error("both pointers should be owned by the pan")
	}
}

func TestSecondPointerCannotStealDragSession(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	a := newTestObject("case-a", "case.obj", 1.0, 1.0, 1.0)
	b := newTestObject("case-b", "case.obj", 1.0, 1.0, 1.0)
	addTestObject(t, v, a, -1.5)
	addTestObject(t, v, b, 1.5)

	ax, ay := screenPointOver(t, v, a)
	bx, by := screenPointOver(t, v, b)

	v.ProcessPointer(1, ax, ay, true)
	v.ProcessPointer(1, ax+40, ay, true)
	movedA := a.Position()[0]
	if movedA <= -1.5 {
		t.Fatal("first pointer should drag its object right")
	}

	// A second pointer landing on another object must not take over the
	// session or move its object.
	v.ProcessPointer(2, bx, by, true)
	v.ProcessPointer(2, bx+40, by, true)
	if b.Position()[0] != 1.5 {
		t.Error("second pointer moved its object during an active session")
	}
	if v.pointers[2].mode == pmObject {
		t.Error("second pointer entered object mode")
	}

	// Releasing the second pointer must leave the first session running.
	v.ProcessPointer(2, bx+40, by, false)
	if !v.place.dragging() {
		t.Fatal("second pointer's release ended the active session")
	}

	v.ProcessPointer(1, ax+80, ay, true)
	if a.Position()[0] <= movedA {
		t.Error("first pointer's drag stopped tracking after the release")
	}
	v.ProcessPointer(1, ax+80, ay, false)
	if v.place.dragging() {
		t.Error("session must end with the owning pointer's release")
	}
}

func TestArrowKeysOrbitWhenFocused(t *testing.T) {
	v := newTestViewer(t)
	v.SetFocused(true)
	theta, phi := v.cam.Theta, v.cam.Phi

	v.ProcessKey(KeyLeft)
	if v.cam.Theta == theta {
		t.Error("left arrow should orbit horizontally")
	}
	v.ProcessKey(KeyUp)
	if v.cam.Phi == phi {
		t.Error("up arrow should orbit vertically")
	}
}

func TestArrowKeysPanShelfWhenUnfocused(t *testing.T) {
	v := newTestViewer(t)
	v.SetFocused(false)
	v.SetShelfMode(true)

	v.ProcessKey(KeyRight)
	if !approx32(v.cam.Target.X(), keyPanStep, epsilon) {
		t.Errorf("Target.X = %f, want %f", v.cam.Target.X(), float32(keyPanStep))
	}
	v.ProcessKey(KeyLeft)
	if !approx32(v.cam.Target.X(), 0, epsilon) {
		t.Errorf("Target.X = %f, want 0", v.cam.Target.X())
	}

	// Outside shelf mode, unfocused arrows are ignored.
	v.SetShelfMode(false)
	v.ProcessKey(KeyRight)
	if !approx32(v.cam.Target.X(), 0, epsilon) {
		t.Error("arrows must be ignored outside shelf mode when unfocused")
	}
}

func TestInjectedClickSelects(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)

	sx, sy := screenPointOver(t, v, obj)
	v.InjectClick(sx, sy)
	v.Update(0.016) // press
	v.Update(0.016) // release
	if v.Selected() != obj {
		t.Error("injected click should select the object")
	}
}

func TestInjectedDragMovesObject(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)

	sx, sy := screenPointOver(t, v, obj)
	v.InjectDrag(sx, sy, sx+200, sy, 8)
	for i := 0; i < 8; i++ {
		v.Update(0.016)
	}
	if obj.Position().X() <= 0 {
		t.Errorf("X = %f, want moved right", obj.Position().X())
	}
}

func TestHoverTracking(t *testing.T) {
	v := newTestViewer(t)
	v.SetShelfMode(true)
	obj := newTestObject("case", "case.obj", 1, 1, 1)
	addTestObject(t, v, obj, 0)

	sx, sy := screenPointOver(t, v, obj)
	v.ProcessPointer(0, sx, sy, false)
	if v.HoverObject() != obj {
		t.Error("hover should report the object under the cursor")
	}
	v.ProcessPointer(0, 5, 5, false)
	if v.HoverObject() != nil {
		t.Error("hover over empty space should be nil")
	}
}
