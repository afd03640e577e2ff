package vitrine

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the standalone window loop.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowFPS overlays frame timing and render stats.
	ShowFPS bool
	// OnFrame, when set, is called once per tick after the viewer updates.
	// Hosts use it to drive tweens and other per-frame logic.
	OnFrame func(dt float64)
}

// WindowSurface is a Surface backed by the ebiten window. Its size follows
// the layout dimensions the game loop reports.
type WindowSurface struct {
	w, h int
}

// NewWindowSurface creates a surface with an initial size. The run loop
// keeps it in sync with the actual window.
func NewWindowSurface(w, h int) *WindowSurface {
	return &WindowSurface{w: w, h: h}
}

// Size returns the current surface size in pixels.
func (s *WindowSurface) Size() (int, int) {
	return s.w, s.h
}

// game adapts a Viewer to ebiten's Game interface: it polls the mouse,
// touch contacts, and arrow keys into the pointer state machine, ticks the
// viewer, and draws.
type game struct {
	viewer  *Viewer
	surface *WindowSurface
	showFPS bool
	onFrame func(dt float64)

	// touchMap assigns stable pointer slots 1-9 to ebiten touch IDs for the
	// lifetime of each contact.
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
}

func (g *game) Update() error {
	v := g.viewer

	// Injected events own pointer 0 for the frame they are consumed on, so
	// synthetic sequences are not torn by real mouse state.
	injected := len(v.injectQueue) > 0

	dt := 1.0 / float64(ebiten.TPS())
	v.Update(dt)
	if g.onFrame != nil {
		g.onFrame(dt)
	}

	if !injected {
		g.processMouse()
	}
	g.processTouches()
	g.processKeys()
	return nil
}

func (g *game) processMouse() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	g.viewer.ProcessPointer(0, float64(mx), float64(my), pressed)
}

func (g *game) processTouches() {
	touchIDs := ebiten.AppendTouchIDs(g.prevTouchIDs[:0])
	g.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := g.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		g.viewer.ProcessPointer(slot, float64(tx), float64(ty), true)
	}

	// Release slots whose contact lifted this frame.
	for i := 1; i < maxPointers; i++ {
		if g.touchUsed[i] && !activeSlots[i] {
			ps := &g.viewer.pointers[i]
			if ps.down {
				g.viewer.ProcessPointer(i, ps.lastX, ps.lastY, false)
			}
			g.touchUsed[i] = false
			g.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9). Returns the
// existing slot or allocates a new one. Returns -1 if full.
func (g *game) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if g.touchUsed[i] && g.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !g.touchUsed[i] {
			g.touchUsed[i] = true
			g.touchMap[i] = tid
			return i
		}
	}
	return -1
}

func (g *game) processKeys() {
	v := g.viewer
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.ProcessKey(KeyLeft)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.ProcessKey(KeyRight)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.ProcessKey(KeyUp)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.ProcessKey(KeyDown)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.Camera().Reset(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.ToggleAutoRotate()
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	g.viewer.Draw(screen)
	if g.showFPS {
		drawFPSOverlay(screen, g.viewer)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.surface.w = outsideWidth
	g.surface.h = outsideHeight
	return outsideWidth, outsideHeight
}

// Run opens a window and drives the viewer until the window closes. The
// viewer must have been created with a *WindowSurface.
func Run(v *Viewer, cfg RunConfig) error {
	surface, ok := v.surface.(*WindowSurface)
	if !ok {
		surface = NewWindowSurface(cfg.Width, cfg.Height)
		v.surface = surface
	}
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 640
	}
	if cfg.Title == "" {
		cfg.Title = "vitrine"
	}
	surface.w, surface.h = cfg.Width, cfg.Height

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&game{
		viewer:  v,
		surface: surface,
		showFPS: cfg.ShowFPS,
		onFrame: cfg.OnFrame,
	})
}
