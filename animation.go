package vitrine

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/go-gl/mathgl/mgl32"
)

// TweenGroup animates up to 3 float32 fields on a Group simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenPositionY) and call Update(dt) each frame. World matrices pick up the
// new values on the next transform pass.
//
// There is no global animation manager. Callers drive Update themselves
// from the host's update loop.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	fields [3]*float32
	Done   bool
}

// Update advances all tweens by dt seconds and writes the interpolated
// values to the target fields. Once every tween has finished, Done is set
// and further calls are no-ops.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenPosition creates a TweenGroup that animates a group's local position
// to the given point over the specified duration using the easing function.
func TweenPosition(target *Group, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(target.Position[i], to[i], duration, fn)
		g.fields[i] = &target.Position[i]
	}
	return g
}

// TweenPositionY animates only the vertical component of a group's local
// position, leaving X and Z untouched.
func TweenPositionY(target *Group, to float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(target.Position[1], to, duration, fn)
	g.fields[0] = &target.Position[1]
	return g
}

// TweenScale creates a TweenGroup that animates a group's local scale to the
// given factors over the specified duration using the easing function.
func TweenScale(target *Group, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(target.Scale[i], to[i], duration, fn)
		g.fields[i] = &target.Scale[i]
	}
	return g
}
