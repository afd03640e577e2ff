package vitrine

// syntheticPointerEvent represents a single injected pointer event in
// viewport pixel coordinates, identical to real mouse input.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a pointer press event at the given viewport
// coordinates. The event is consumed on the next Update call.
func (v *Viewer) InjectPress(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move event with the button held down. Use
// between InjectPress and InjectRelease to simulate a drag.
func (v *Viewer) InjectMove(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a pointer release event.
func (v *Viewer) InjectRelease(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: false})
}

// InjectClick queues a press followed by a release at the same coordinates.
// Consumes two frames.
func (v *Viewer) InjectClick(x, y float64) {
	v.InjectPress(x, y)
	v.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves, and release at (toX, toY). The sequence consumes
// `frames` frames; minimum is 2 (press + release).
func (v *Viewer) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	v.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		v.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	v.InjectRelease(toX, toY)
}

// processInjected pops one event from the inject queue and feeds it through
// the pointer state machine. Returns true if an event was consumed (real
// mouse input should be skipped that frame).
func (v *Viewer) processInjected() bool {
	if len(v.injectQueue) == 0 {
		return false
	}
	evt := v.injectQueue[0]
	copy(v.injectQueue, v.injectQueue[1:])
	v.injectQueue = v.injectQueue[:len(v.injectQueue)-1]

	v.ProcessPointer(0, evt.x, evt.y, evt.pressed)
	return true
}
