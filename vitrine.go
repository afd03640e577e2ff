package vitrine

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorGray is the fallback color used when a color string fails to parse.
var ColorGray = Color{0.5, 0.5, 0.5, 1}

// Rect is an axis-aligned screen-space rectangle. The coordinate system has
// its origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Kind classifies a scene object's placement role. It is derived once from
// the asset path at creation time and never re-parsed.
type Kind uint8

const (
	KindCase      Kind = iota // base product; rests on the shelf, not snappable
	KindStand                 // single-capacity snap target
	KindBase                  // multi-slot snap target with discrete depth slots
	KindAssembled             // assembled unit; the only kind that seeks snap targets
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindCase:
		return "case"
	case KindStand:
		return "stand"
	case KindBase:
		return "base"
	case KindAssembled:
		return "assembled"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of viewer event.
type EventType uint8

const (
	EventObjectAdded   EventType = iota // fires after a loaded object enters the registry
	EventObjectRemoved                  // fires after an object is removed
	EventSelect                         // fires when an object becomes selected
	EventDeselect                       // fires when the selection is cleared
	EventInspect                        // fires on double-click/tap of an object
	EventCleared                        // fires after Clear removes every object
	EventLoadFailed                     // fires when an async model load fails
)

// Key identifies a keyboard key routed to the viewer.
type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
)

// --- Interaction tuning constants ---
//
// The snap and exit thresholds are tuned values, not derived from any
// invariant. Treat them as configuration, not geometry.
const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels before a press becomes a drag
	orbitDeadZone       = 3.0 // pixels before camera-drag starts rotating
	panThreshold        = 8.0 // per-finger horizontal pixels to start a two-finger pan

	tapMaxDuration  = 0.200 // seconds; longer presses are never taps
	doubleTapWindow = 0.300 // seconds between taps on the same object
)

// --- Shelf and snap tuning constants ---
const (
	defaultShelfHalfWidth = 3.0
	defaultFitSpan        = 2.0 // target world span for auto-fit scaling

	slotCount         = 10   // fixed capacity of a multi-slot base
	wallClearance     = 0.05 // gap between the base's front wall and slot 0
	snapThreshold     = 0.35 // world units; max horizontal distance to snap
	exitDockThreshold = 60.0 // accumulated horizontal pixels to leave docked mode
	standMountOffset  = 0.12 // lift above shelf rest height when on a stand
)
