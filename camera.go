package vitrine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	defaultRadius      = 5.0
	defaultFOV         = 40.0 * math.Pi / 180
	defaultSensitivity = 0.008 // radians per pixel
	defaultMinPhi      = 0.35
	defaultMaxPhi      = 2.60
	autoRotateStep     = 0.004 // radians per frame while idle
)

// resetAnim holds active tweens returning the camera to its canonical
// framing.
type resetAnim struct {
	tweenTheta *gween.Tween
	tweenPhi   *gween.Tween
	doneTheta  bool
	donePhi    bool
}

// OrbitCamera maintains spherical coordinates around a look-at target and
// converts them to view/projection matrices. Radius is fixed per viewer;
// interaction changes only the angles and the target.
type OrbitCamera struct {
	// Radius is the fixed orbit distance from Target.
	Radius float32
	// Theta is the horizontal angle; theta 0 places the camera on +Z.
	Theta float32
	// Phi is the vertical angle, clamped strictly inside [0, pi] to avoid
	// gimbal flip. Phi pi/2 is a horizontal framing.
	Phi float32
	// Target is the look-at point. Its X component is pannable along the
	// shelf axis, clamped to PanBound when PanClamped is set.
	Target mgl32.Vec3

	MinPhi, MaxPhi     float32
	MinTheta, MaxTheta float32
	ThetaClamped       bool

	// PanClamped restricts Target.X to [-PanBound, PanBound].
	PanClamped bool
	PanBound   float32

	// Sensitivity converts pixel deltas to angular deltas.
	Sensitivity float32

	// AutoRotate advances Theta by a constant step each idle frame.
	AutoRotate bool

	FOV, Near, Far float32

	viewport Rect
	reset    *resetAnim
}

// newOrbitCamera creates a camera with default framing, no theta clamp, and
// the canonical horizontal reset pose.
func newOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Radius:      defaultRadius,
		Theta:       0,
		Phi:         math.Pi / 2,
		MinPhi:      defaultMinPhi,
		MaxPhi:      defaultMaxPhi,
		Sensitivity: defaultSensitivity,
		FOV:         defaultFOV,
		Near:        0.1,
		Far:         100,
	}
}

// SetViewport updates the sizing rectangle the camera projects into. A zero
// size is tolerated; the aspect ratio falls back to 1 until a real size
// arrives.
func (c *OrbitCamera) SetViewport(vp Rect) {
	c.viewport = vp
}

// Viewport returns the current sizing rectangle.
func (c *OrbitCamera) Viewport() Rect {
	return c.viewport
}

// Orbit applies a pointer delta in pixels: theta decreases with horizontal
// movement, phi increases with vertical movement, then both are clamped.
// Any in-flight reset animation is cancelled.
func (c *OrbitCamera) Orbit(dx, dy float64) {
	c.reset = nil
	c.Theta -= float32(dx) * c.Sensitivity
	c.Phi += float32(dy) * c.Sensitivity
	c.clampAngles()
}

func (c *OrbitCamera) clampAngles() {
	if c.Phi < c.MinPhi {
		c.Phi = c.MinPhi
	}
	if c.Phi > c.MaxPhi {
		c.Phi = c.MaxPhi
	}
	if c.ThetaClamped {
		if c.Theta < c.MinTheta {
			c.Theta = c.MinTheta
		}
		if c.Theta > c.MaxTheta {
			c.Theta = c.MaxTheta
		}
	}
}

// PanTarget shifts the look-at point along the shelf axis, clamped to the
// configured bound.
func (c *OrbitCamera) PanTarget(dx float32) {
	x := c.Target[0] + dx
	if c.PanClamped {
		if x < -c.PanBound {
			x = -c.PanBound
		}
		if x > c.PanBound {
			x = c.PanBound
		}
	}
	c.Target[0] = x
}

// Reset returns the camera to the canonical horizontal framing
// (theta 0, phi pi/2). When animated, the angles tween over half a second;
// otherwise they snap immediately.
func (c *OrbitCamera) Reset(animated bool) {
	if !animated {
		c.reset = nil
		c.Theta = 0
		c.Phi = math.Pi / 2
		c.clampAngles()
		return
	}
	c.reset = &resetAnim{
		tweenTheta: gween.New(c.Theta, 0, 0.5, ease.OutQuad),
		tweenPhi:   gween.New(c.Phi, math.Pi/2, 0.5, ease.OutQuad),
	}
}

// update advances the reset tween and, while the viewer is idle, the
// auto-rotate step. Called once per frame from Viewer.Update.
func (c *OrbitCamera) update(dt float32, idle bool) {
	if c.reset != nil {
		if !c.reset.doneTheta {
			v, done := c.reset.tweenTheta.Update(dt)
			c.Theta = v
			c.reset.doneTheta = done
		}
		if !c.reset.donePhi {
			v, done := c.reset.tweenPhi.Update(dt)
			c.Phi = v
			c.reset.donePhi = done
		}
		if c.reset.doneTheta && c.reset.donePhi {
			c.reset = nil
		}
		c.clampAngles()
		return
	}
	if c.AutoRotate && idle {
		c.Theta += autoRotateStep
		c.clampAngles()
	}
}

// Position computes the cartesian camera position from the spherical state.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	sinPhi := float32(math.Sin(float64(c.Phi)))
	return mgl32.Vec3{
		c.Target.X() + c.Radius*sinPhi*float32(math.Sin(float64(c.Theta))),
		c.Target.Y() + c.Radius*float32(math.Cos(float64(c.Phi))),
		c.Target.Z() + c.Radius*sinPhi*float32(math.Cos(float64(c.Theta))),
	}
}

// ViewMatrix returns the world-to-view transform.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjMatrix returns the perspective projection for the current viewport.
func (c *OrbitCamera) ProjMatrix() mgl32.Mat4 {
	aspect := float32(1)
	if c.viewport.Width > 0 && c.viewport.Height > 0 {
		aspect = float32(c.viewport.Width / c.viewport.Height)
	}
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// worldPerPixel returns the world-space span covered by one vertical pixel
// at the target distance. Returns 0 for a zero-size viewport, which disables
// pixel-driven dragging until a real size arrives.
func (c *OrbitCamera) worldPerPixel() float32 {
	if c.viewport.Height <= 0 {
		return 0
	}
	span := 2 * c.Radius * float32(math.Tan(float64(c.FOV/2)))
	return span / float32(c.viewport.Height)
}

// ScreenRay unprojects a screen point to a world-space picking ray. Screen
// coordinates have Y increasing downward, per the viewport convention.
func (c *OrbitCamera) ScreenRay(sx, sy float64) Ray {
	w := int(c.viewport.Width)
	h := int(c.viewport.Height)
	if w <= 0 || h <= 0 {
		// No surface yet; aim from the camera at the target.
		dir := c.Target.Sub(c.Position())
		if l := dir.Len(); l > 1e-8 {
			dir = dir.Mul(1 / l)
		}
		return Ray{Origin: c.Position(), Dir: dir}
	}
	view := c.ViewMatrix()
	proj := c.ProjMatrix()
	winX := float32(sx - c.viewport.X)
	winY := float32(c.viewport.Height - (sy - c.viewport.Y)) // flip to GL convention

	near, errN := mgl32.UnProject(mgl32.Vec3{winX, winY, 0}, view, proj, 0, 0, w, h)
	far, errF := mgl32.UnProject(mgl32.Vec3{winX, winY, 1}, view, proj, 0, 0, w, h)
	if errN != nil || errF != nil {
		dir := c.Target.Sub(c.Position())
		if l := dir.Len(); l > 1e-8 {
			dir = dir.Mul(1 / l)
		}
		return Ray{Origin: c.Position(), Dir: dir}
	}
	dir := far.Sub(near)
	if l := dir.Len(); l > 1e-8 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: near, Dir: dir}
}

// WorldToScreen projects a world point to screen coordinates (Y down).
// The boolean is false when the point is behind the camera.
func (c *OrbitCamera) WorldToScreen(p mgl32.Vec3) (float64, float64, bool) {
	mvp := c.ProjMatrix().Mul4(c.ViewMatrix())
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	sx := c.viewport.X + (float64(ndcX)+1)/2*c.viewport.Width
	sy := c.viewport.Y + (1-float64(ndcY))/2*c.viewport.Height
	return sx, sy, true
}
