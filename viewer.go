package vitrine

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNoSurface is returned by New when the config lacks a Surface. Every
// subsequent operation depends on the sizing rectangle, so construction
// fails fast rather than silently no-opping.
var ErrNoSurface = errors.New("vitrine: config must provide a Surface")

// Surface is the sizing rectangle the viewer projects into, owned by the
// embedding layout. A transient zero size is tolerated.
type Surface interface {
	Size() (width, height int)
}

// Config configures a Viewer.
type Config struct {
	// Surface provides the viewport size. Required.
	Surface Surface

	// Prefs persists viewer settings (auto-rotate). Optional; a nil store
	// means nothing is persisted and auto-rotate defaults to off.
	Prefs PrefStore
	// PrefKey namespaces this viewer's preferences. Defaults to "viewer".
	PrefKey string

	// ShelfHalfWidth bounds object placement and target panning. Zero
	// selects the default.
	ShelfHalfWidth float32
	// FitSpan is the target world span for auto-fit model scaling. Zero
	// selects the default.
	FitSpan float32

	// Fetcher retrieves model assets. Nil selects HTTP fetching.
	Fetcher Fetcher
}

// Viewer is one independent product viewer: it owns its scene root,
// registry, camera, placement engine, and selection state. Multiple product
// cards on a page are multiple independent Viewer instances; there is no
// cross-instance state.
type Viewer struct {
	surface Surface

	root  *Group
	shelf *Group

	reg    *Registry
	cam    *OrbitCamera
	place  *placementEngine
	sel    *selectionState
	loader *Loader

	handlers handlerRegistry

	// Input state
	pointers     [maxPointers]pointerState
	pan          panState
	injectQueue  []syntheticPointerEvent
	dragDeadZone float64
	focused      bool
	hover        *SceneObject
	lastTapTime  float64
	lastTapID    string

	// clock is the viewer's monotonic time in seconds, advanced by Update.
	// Tap and double-tap windows are measured against it.
	clock float64

	shelfMode bool

	loadCh  chan loadResult
	quit    chan struct{}
	pending int

	prefs    PrefStore
	prefKey  string
	disposed bool

	lastW, lastH int

	debug       bool
	frameStats  frameStats
	scratchTris []shadedTri
	textures    map[*Material]*ebiten.Image

	// ScreenshotDir is where queued screenshots are written. Defaults to
	// "screenshots".
	ScreenshotDir   string
	screenshotQueue []string
}

// New creates a viewer from cfg. Fails when cfg.Surface is nil.
func New(cfg Config) (*Viewer, error) {
	if cfg.Surface == nil {
		return nil, ErrNoSurface
	}
	shelfHalf := cfg.ShelfHalfWidth
	if shelfHalf == 0 {
		shelfHalf = defaultShelfHalfWidth
	}
	prefKey := cfg.PrefKey
	if prefKey == "" {
		prefKey = "viewer"
	}

	root := NewGroup("root")

	shelf := NewGroup("shelf")
	shelfMesh := newBoxMesh(shelfHalf*2, 0.04, 1.6)
	shelfMesh.Material = NewMaterial(Color{R: 0.82, G: 0.78, B: 0.72, A: 1})
	shelf.Meshes = []*Mesh{shelfMesh}
	shelf.SetPosition(0, -0.02, 0)
	shelf.Visible = false
	root.AddChild(shelf)

	reg := NewRegistry()

	cam := newOrbitCamera()
	cam.PanClamped = true
	cam.PanBound = shelfHalf

	loader := NewLoader(cfg.Fetcher)
	if cfg.FitSpan != 0 {
		loader.fitSpan = cfg.FitSpan
	}

	v := &Viewer{
		surface:      cfg.Surface,
		root:         root,
		shelf:        shelf,
		reg:          reg,
		cam:          cam,
		place:        newPlacementEngine(reg, shelfHalf),
		sel:          newSelectionState(root),
		loader:       loader,
		dragDeadZone: defaultDragDeadZone,
		lastTapTime:  -doubleTapWindow,
		loadCh:       make(chan loadResult, 8),
		quit:         make(chan struct{}),
		prefs:        cfg.Prefs,
		prefKey:      prefKey,
	}
	v.ScreenshotDir = "screenshots"

	// Auto-rotate preference: read once at startup, default off when no
	// value was ever persisted.
	if v.prefs != nil {
		if val, ok := v.prefs.Get(v.prefKey + ".autorotate"); ok {
			v.cam.AutoRotate = val == "1"
		}
	}

	v.pollSurface()
	return v, nil
}

// Camera returns the viewer's orbit camera.
func (v *Viewer) Camera() *OrbitCamera {
	return v.cam
}

// Registry returns the viewer's object registry.
func (v *Viewer) Registry() *Registry {
	return v.reg
}

// Root returns the scene root group read by the renderer.
func (v *Viewer) Root() *Group {
	return v.root
}

// Selected returns the currently selected object, or nil.
func (v *Viewer) Selected() *SceneObject {
	return v.sel.current
}

// ShelfMode reports whether placement mode is active (shelf visible).
func (v *Viewer) ShelfMode() bool {
	return v.shelfMode
}

// SetShelfMode toggles placement mode. Turning the shelf off clears any
// selection.
func (v *Viewer) SetShelfMode(on bool) {
	if v.shelfMode == on {
		return
	}
	v.shelfMode = on
	v.shelf.Visible = on
	if !on {
		v.Deselect()
	}
}

// AutoRotate reports whether idle auto-rotation is enabled.
func (v *Viewer) AutoRotate() bool {
	return v.cam.AutoRotate
}

// ToggleAutoRotate flips idle auto-rotation and persists the choice.
func (v *Viewer) ToggleAutoRotate() {
	v.cam.AutoRotate = !v.cam.AutoRotate
	if v.prefs != nil {
		val := "0"
		if v.cam.AutoRotate {
			val = "1"
		}
		v.prefs.Set(v.prefKey+".autorotate", val)
	}
}

// SetDragDeadZone sets the minimum movement in pixels before a press stops
// counting as a tap.
func (v *Viewer) SetDragDeadZone(pixels float64) {
	v.dragDeadZone = pixels
}

// SetDebugMode enables per-frame render stats logging to stderr.
func (v *Viewer) SetDebugMode(enabled bool) {
	v.debug = enabled
}

// Resize notifies the viewer of a new surface size. Update also polls the
// surface each frame, so calling this is optional with a live Surface.
func (v *Viewer) Resize(w, h int) {
	v.lastW, v.lastH = w, h
	v.cam.SetViewport(Rect{Width: float64(w), Height: float64(h)})
}

func (v *Viewer) pollSurface() {
	w, h := v.surface.Size()
	if w != v.lastW || h != v.lastH {
		v.Resize(w, h)
	}
}

// Update advances the viewer by dt seconds: drains completed loads,
// processes injected input, detects the two-finger pan, steps the camera,
// and refreshes world transforms. It is the only recurring tick and
// tolerates the registry changing shape between calls.
func (v *Viewer) Update(dt float64) {
	if v.disposed {
		return
	}
	v.clock += dt
	v.pollSurface()
	v.drainLoads()
	v.processInjected()
	v.detectTargetPan()

	idle := !v.anyPointerDown() && !v.place.dragging()
	v.cam.update(float32(dt), idle)

	v.sel.syncIndicator()
	updateWorldTransform(v.root, mgl32.Ident4(), false)
}

// Dispose marks the viewer dead and releases its texture cache. Stale async
// loads resolving afterward are discarded instead of mutating the viewer;
// closing the quit channel lets their goroutines abandon delivery instead of
// blocking on the completion channel.
func (v *Viewer) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	close(v.quit)
	v.releaseAllTextures()
}

// --- Object lifecycle ---

// AddModel starts an asynchronous load of a model asset and, on success,
// places the resulting object on the shelf at horizontal position x. An
// object with the same id replaces the existing one (the previous object is
// removed and its resources released first). On failure a LoadFailedEvent
// is emitted and the viewer stays usable; the caller may retry by calling
// AddModel again.
func (v *Viewer) AddModel(id, meshPath, mtlPath string, x float32, opts LoadOptions) error {
	if v.disposed {
		return errors.New("vitrine: viewer is disposed")
	}
	if id == "" {
		return errors.New("vitrine: object must have a non-empty id")
	}
	v.pending++
	v.loader.loadAsync(loadRequest{
		id:       id,
		meshPath: meshPath,
		mtlPath:  mtlPath,
		opts:     opts,
		shelfX:   x,
	}, v.loadCh, v.quit)
	return nil
}

// PendingLoads returns the number of loads still in flight.
func (v *Viewer) PendingLoads() int {
	return v.pending
}

// drainLoads consumes every completed load result without blocking. Objects
// enter the registry only here, on the main loop, fully initialized.
func (v *Viewer) drainLoads() {
	for {
		select {
		case res := <-v.loadCh:
			v.pending--
			v.finishLoad(res)
		default:
			return
		}
	}
}

func (v *Viewer) finishLoad(res loadResult) {
	if v.disposed {
		return
	}
	if res.err != nil {
		v.fireLoadFailed(res.req.id, res.req.meshPath, res.err)
		return
	}

	// Same-id reload replaces the previous object.
	if prev := v.reg.Get(res.req.id); prev != nil {
		v.RemoveObject(prev.ID)
	}

	model := res.model
	obj := &SceneObject{
		ID:         res.req.id,
		Kind:       classifyKind(res.req.meshPath),
		Outer:      model.Outer,
		Inner:      model.Inner,
		Bounds:     model.Bounds,
		SourcePath: res.req.meshPath,
		BaseShelfY: model.Bounds.Y() / 2,
		Color:      res.req.opts.Tint,
		Back:       res.req.opts.Back,
	}
	obj.Outer.Name = res.req.id

	x := clampShelfX(res.req.shelfX, obj.HalfWidth(), v.place.shelfHalf)
	obj.SetPosition(x, obj.BaseShelfY, 0)

	if err := v.reg.Add(obj); err != nil {
		v.fireLoadFailed(res.req.id, res.req.meshPath, err)
		return
	}
	v.root.AddChild(obj.Outer)

	switch obj.Kind {
	case KindAssembled:
		v.place.learnAssembledDepth(obj.Bounds.Z())
	case KindBase:
		v.place.initSlots(obj)
	}

	v.fireObjectAdded(obj)
}

// RemoveObject removes the object with the given id. Removing a snap target
// cascades: every docked occupant is unsnapped and returns to shelf rest
// height. Returns false when the id is not present.
func (v *Viewer) RemoveObject(id string) bool {
	obj := v.reg.Get(id)
	if obj == nil {
		return false
	}
	v.place.objectRemoved(obj)
	if v.sel.current == obj {
		v.Deselect()
	}
	if v.hover == obj {
		v.hover = nil
	}
	obj.Outer.RemoveFromParent()
	v.releaseObjectTextures(obj)
	v.reg.Remove(id)
	v.fireObjectRemoved(obj)
	return true
}

// Clear removes every object and emits a single cleared event.
func (v *Viewer) Clear() {
	v.Deselect()
	v.hover = nil
	v.place.clear()
	for _, obj := range v.reg.Objects() {
		obj.Outer.RemoveFromParent()
	}
	v.releaseAllTextures()
	v.reg.Clear()
	v.fireCleared()
}

// --- Selection ---

// Select highlights the object with the given id and emits a select event.
// Returns false when the id is not present.
func (v *Viewer) Select(id string) bool {
	obj := v.reg.Get(id)
	if obj == nil {
		return false
	}
	if v.sel.current == obj {
		return true
	}
	v.sel.selectObject(obj)
	v.fireSelect(obj)
	return true
}

// Deselect clears the selection, if any, and emits a deselect event.
func (v *Viewer) Deselect() {
	if v.sel.current == nil {
		return
	}
	v.sel.deselect()
	v.fireDeselect()
}

// --- Debug helpers for tests ---

// snapStatus reports the snap relation of the object with the given id.
func (v *Viewer) snapStatus(id string) (baseID string, slotIndex int, docked bool) {
	rel, ok := v.place.relationFor(id)
	if !ok {
		return "", -1, false
	}
	return rel.baseID, rel.slotIndex, true
}

// addLoadedObject inserts a pre-built object directly, bypassing the async
// loader. Used by tests and by embedders that build procedural geometry.
func (v *Viewer) addLoadedObject(obj *SceneObject) error {
	if err := v.reg.Add(obj); err != nil {
		return err
	}
	v.root.AddChild(obj.Outer)
	switch obj.Kind {
	case KindAssembled:
		v.place.learnAssembledDepth(obj.Bounds.Z())
	case KindBase:
		v.place.initSlots(obj)
	}
	v.fireObjectAdded(obj)
	return nil
}

// AddObject exposes direct insertion of procedural objects. The object must
// carry a unique ID and populated groups and bounds.
func (v *Viewer) AddObject(obj *SceneObject) error {
	if v.disposed {
		return errors.New("vitrine: viewer is disposed")
	}
	if obj == nil || obj.Outer == nil || obj.Inner == nil {
		return fmt.Errorf("vitrine: object %q must carry outer and inner groups", objID(obj))
	}
	return v.addLoadedObject(obj)
}

func objID(obj *SceneObject) string {
	if obj == nil {
		return ""
	}
	return obj.ID
}
