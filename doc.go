// Package vitrine is an interactive 3D product viewer built on [Ebitengine].
//
// Vitrine loads product models (OBJ and glTF/GLB), arranges them on a
// virtual shelf, and lets the user orbit the camera, drag objects along
// the shelf, and snap assembled units onto stands and multi-slot bases.
// Each [Viewer] is fully independent; a page of product cards is simply
// several viewers.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	v, err := vitrine.New(vitrine.Config{
//		Surface: vitrine.NewWindowSurface(960, 640),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	v.AddModel("case-red", "https://cdn.example.com/case.obj",
//		"https://cdn.example.com/case.mtl", 0, vitrine.LoadOptions{})
//	vitrine.Run(v, vitrine.RunConfig{Title: "Viewer"})
//
// For full control, implement [ebiten.Game] yourself and call
// [Viewer.Update], [Viewer.ProcessPointer], and [Viewer.Draw] directly.
//
// # Scene model
//
// Every loaded model becomes a [SceneObject]: an outer group carrying its
// runtime placement and an inner group carrying authored scale and
// rotation. Objects rest on the shelf at a per-object height derived from
// their bounds, and the placement engine keeps snap relations (which unit
// sits on which stand or base slot) consistent as objects move and leave.
//
// # Interaction
//
// One pointer orbits the camera over empty space or drags an object when
// placement mode is on. A short press is a tap: tap an object to select
// it, tap again to deselect, double-tap to raise an inspect event. Two
// horizontal fingers pan the camera target along the shelf. Synthetic
// input can be queued with [Viewer.InjectClick] and [Viewer.InjectDrag]
// for scripted tours and tests.
//
// Camera reset easing uses [gween]; 3D math uses [mgl32].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [mgl32]: https://github.com/go-gl/mathgl
package vitrine
