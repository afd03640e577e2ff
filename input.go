package vitrine

import "math"

// pointerMode records what a pressed pointer is driving.
type pointerMode uint8

const (
	pmNone   pointerMode = iota
	pmCamera             // orbiting the camera (pressed over empty space)
	pmObject             // dragging an object through the placement engine
	pmPan                // part of an active two-finger target pan
)

// pointerState is the per-pointer slice of the input state machine.
// Pointer 0 is the mouse; 1-9 are touch contacts.
type pointerState struct {
	down           bool
	startX, startY float64
	lastX, lastY   float64
	downTime       float64
	travel         float64 // max distance from the start point, pixels
	mode           pointerMode
	hit            *SceneObject
}

// panState tracks the two-finger horizontal pan gesture. While active it
// exclusively drives the camera target, suppressing orbit and object drag.
type panState struct {
	active   bool
	p0, p1   int
	prevMidX float64
}

// ProcessPointer runs the pointer state machine for a single pointer.
// Coordinates are viewport pixels. The embedding loop calls this for mouse
// and each touch contact every frame; tests drive it directly or through
// the injection queue.
func (v *Viewer) ProcessPointer(pointerID int, x, y float64, pressed bool) {
	if v.disposed || pointerID < 0 || pointerID >= maxPointers {
		return
	}
	ps := &v.pointers[pointerID]

	switch {
	case pressed && !ps.down:
		v.pointerDown(ps, x, y)
	case !pressed && ps.down:
		v.pointerUp(ps, x, y)
	case pressed && ps.down:
		v.pointerMove(ps, x, y)
	default:
		// Hover: remember what the cursor is over for embedder feedback.
		if v.shelfMode {
			v.hover = v.pick(x, y)
		}
	}
}

func (v *Viewer) pointerDown(ps *pointerState, x, y float64) {
	ps.down = true
	ps.startX, ps.startY = x, y
	ps.lastX, ps.lastY = x, y
	ps.downTime = v.clock
	ps.travel = 0
	ps.hit = nil
	ps.mode = pmCamera

	if v.shelfMode {
		ps.hit = v.pick(x, y)
	}
	// One drag session at a time: a second pointer landing on an object
	// while another pointer is already dragging keeps tap semantics but
	// must not steal the session.
	if ps.hit != nil && !v.place.dragging() {
		ps.mode = pmObject
		v.place.beginDrag(ps.hit, x, y, v.cam.worldPerPixel())
	}
	// No hit: camera drag anchored at the *current* point, never a stale
	// previous one, so the first move does not jump.
}

func (v *Viewer) pointerMove(ps *pointerState, x, y float64) {
	dx := x - ps.lastX
	dy := y - ps.lastY
	if dx == 0 && dy == 0 {
		return
	}
	d := math.Hypot(x-ps.startX, y-ps.startY)
	if d > ps.travel {
		ps.travel = d
	}

	switch ps.mode {
	case pmObject:
		if !v.pan.active {
			v.place.moveDrag(x, y)
		}
	case pmCamera:
		// Require movement past a small threshold before rotating, so
		// near-stationary taps do not jitter the camera.
		if !v.pan.active && ps.travel > orbitDeadZone {
			v.cam.Orbit(dx, dy)
		}
	case pmPan:
		// Driven collectively by detectTargetPan.
	}

	ps.lastX, ps.lastY = x, y
}

func (v *Viewer) pointerUp(ps *pointerState, x, y float64) {
	duration := v.clock - ps.downTime
	isTap := ps.mode != pmPan &&
		duration < tapMaxDuration &&
		ps.travel < v.dragDeadZone

	if isTap {
		v.handleTap(ps.hit)
	}

	// All drag flags are cleared unconditionally.
	if ps.mode == pmObject {
		v.place.endDrag()
	}
	ps.down = false
	ps.mode = pmNone
	ps.hit = nil
	ps.travel = 0
}

// handleTap resolves a short press: empty space deselects; an object tap
// selects or deselects it; a second tap on the same object inside the
// double-tap window raises the inspect event instead.
func (v *Viewer) handleTap(hit *SceneObject) {
	if hit == nil {
		v.Deselect()
		v.lastTapID = ""
		return
	}
	if v.lastTapID == hit.ID && v.clock-v.lastTapTime < doubleTapWindow {
		v.lastTapID = ""
		v.fireInspect(hit)
		return
	}
	v.lastTapID = hit.ID
	v.lastTapTime = v.clock

	if v.sel.current == hit {
		v.Deselect()
	} else {
		v.Select(hit.ID)
	}
}

// detectTargetPan watches the touch pointers for the two-finger horizontal
// pan gesture: exactly two contacts whose individual deltas are both
// predominantly horizontal and same-signed past a pixel threshold. Once
// detected the gesture exclusively drives the camera target until a finger
// lifts. Called once per Update.
func (v *Viewer) detectTargetPan() {
	var ids []int
	for i := 1; i < maxPointers; i++ {
		if v.pointers[i].down {
			ids = append(ids, i)
		}
	}

	if len(ids) != 2 {
		if v.pan.active {
			v.pan.active = false
		}
		return
	}

	p0 := &v.pointers[ids[0]]
	p1 := &v.pointers[ids[1]]

	if !v.pan.active {
		dx0 := p0.lastX - p0.startX
		dy0 := p0.lastY - p0.startY
		dx1 := p1.lastX - p1.startX
		dy1 := p1.lastY - p1.startY

		horizontal := math.Abs(dx0) > math.Abs(dy0) && math.Abs(dx1) > math.Abs(dy1)
		pastThreshold := math.Abs(dx0) > panThreshold && math.Abs(dx1) > panThreshold
		sameSign := dx0*dx1 > 0

		if !horizontal || !pastThreshold || !sameSign {
			return
		}

		v.pan.active = true
		v.pan.p0, v.pan.p1 = ids[0], ids[1]
		v.pan.prevMidX = (p0.lastX + p1.lastX) / 2

		// The pan owns both pointers: cancel any drag they started.
		if p0.mode == pmObject || p1.mode == pmObject {
			v.place.endDrag()
		}
		p0.mode = pmPan
		p1.mode = pmPan
		return
	}

	midX := (p0.lastX + p1.lastX) / 2
	dx := midX - v.pan.prevMidX
	v.pan.prevMidX = midX
	// Content follows the fingers: pan the target opposite the drag.
	v.cam.PanTarget(-float32(dx) * v.cam.worldPerPixel())
}

// Keyboard step sizes. Arrow orbiting reuses the pixel sensitivity path so
// one press matches a short drag.
const (
	keyOrbitPixels = 12.0
	keyPanStep     = 0.15
)

// ProcessKey routes an arrow key press. When the viewer element holds input
// focus the arrows rotate the camera; otherwise, in shelf mode, left/right
// pan the camera target along the shelf.
func (v *Viewer) ProcessKey(k Key) {
	if v.disposed {
		return
	}
	if v.focused {
		switch k {
		case KeyLeft:
			v.cam.Orbit(-keyOrbitPixels, 0)
		case KeyRight:
			v.cam.Orbit(keyOrbitPixels, 0)
		case KeyUp:
			v.cam.Orbit(0, -keyOrbitPixels)
		case KeyDown:
			v.cam.Orbit(0, keyOrbitPixels)
		}
		return
	}
	if !v.shelfMode {
		return
	}
	switch k {
	case KeyLeft:
		v.cam.PanTarget(-keyPanStep)
	case KeyRight:
		v.cam.PanTarget(keyPanStep)
	}
}

// SetFocused records whether the viewer element holds keyboard focus, which
// switches arrow keys between camera rotation and target panning.
func (v *Viewer) SetFocused(focused bool) {
	v.focused = focused
}

// HoverObject returns the object most recently under an idle pointer, for
// embedder cursor feedback. Nil when hovering empty space.
func (v *Viewer) HoverObject() *SceneObject {
	return v.hover
}

// pick resolves the scene object under a viewport point by casting a ray
// through the camera against every registry object's world AABB. Returns
// the nearest hit or nil. A miss is the normal "clicked empty space" case,
// not an error.
func (v *Viewer) pick(x, y float64) *SceneObject {
	ray := v.cam.ScreenRay(x, y)
	var best *SceneObject
	var bestT float32
	for _, obj := range v.reg.Objects() {
		t, hit := ray.IntersectBox(obj.WorldBox())
		if !hit {
			continue
		}
		if best == nil || t < bestT {
			best = obj
			bestT = t
		}
	}
	return best
}

func (v *Viewer) anyPointerDown() bool {
	for i := range v.pointers {
		if v.pointers[i].down {
			return true
		}
	}
	return false
}
