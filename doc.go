// Package bubblepop is an interactive bubble-popping toy for [Ebitengine].
//
// Bubbles drift, wobble and grow inside the window, bouncing off its edges.
// Pressing and releasing the pointer over a bubble splits it into two small
// bubbles that grow again. After a while an idle popup reports how long the
// session has lasted and can ask a [ThoughtGenerator] for a short deep
// thought about it.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := bubblepop.NewScene()
//	scene.SetPopup(bubblepop.NewPopup(nil))
//	bubblepop.Run(scene, bubblepop.RunConfig{
//		Title: "bubblepop", Width: 640, Height: 480, Resizable: true,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly, resizing with [Scene.Resize]:
//
//	type Game struct{ scene *bubblepop.Scene }
//
//	func (g *Game) Update() error        { return g.scene.Update() }
//	func (g *Game) Draw(s *ebiten.Image) { g.scene.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) {
//		g.scene.Resize(w, h)
//		return w, h
//	}
//
// # Simulation
//
// A [Scene] owns every live [Bubble]. [Scene.Step] advances each bubble one
// tick (bounce, translate, wobble, grow); [Scene.PointerDown] and
// [Scene.PointerUp] implement press-then-release popping and [Scene.Split]
// replaces one bubble with two. Constants live in [Tuning]. Frontends other
// than the ebiten window, such as the terminal UI, drive the same API with
// [Scene.Tick] instead of [Scene.Update].
//
// # Rendering
//
// Each bubble is a two-circle radial gradient built as a triangle mesh. All
// bubbles are submitted in one DrawTriangles32 call after a single clear,
// followed by the pop effects: an expanding ring tweened with [gween] and a
// short droplet spray.
//
// # Automation
//
// [Scene.InjectClick] and friends queue synthetic pointer events, and
// [LoadTestScript] sequences them with waits and [Scene.Screenshot] captures
// for scripted visual checks. Scene events can be bridged into a [Donburi]
// world with the ecs subpackage.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package bubblepop
