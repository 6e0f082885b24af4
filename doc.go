// Package warviz draws WW2 casualties as an interactive chart on [Ebitengine].
//
// The screen shows one of two views at a time. The overview is a pie chart
// with one slice per country. Pressing and holding a slice replaces it with
// that country's detail: one bar each for military and civilian casualties,
// or one stacked bar per event when an event list exists. Holding the
// "Back to Pie Chart" label returns to the overview. Taps and hovers only
// show a tooltip.
//
// # Quick start
//
// Implement [ebiten.Game] and hand the scene the frame:
//
//	scene := warviz.NewScene()
//	orch, err := warviz.NewOrchestrator(scene, warviz.DefaultOrchestratorConfig(),
//		warviz.WithDetailSource(warviz.FileSource{Dir: "data"}))
//	if err != nil { ... }
//	ds, err := warviz.LoadDataset("data/casualties.json")
//	if err != nil { ... }
//	orch.Start(ds)
//
//	func (g *Game) Update() error               { g.scene.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image)        { g.scene.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) {
//		g.scene.SetViewport(float64(w), float64(h))
//		return w, h
//	}
//
// # Scene graph
//
// Every visual element is a [Node] in a tree rooted at [Scene.Root].
// Children inherit their parent's transform and alpha. Slices are polygons
// ([NewPolygon]), bar segments are rects ([NewRect]) scaled to size, and
// captions are one [NewText] node per glyph so they can fade in letter by
// letter.
//
// # Frame order
//
// [Scene.Step] advances the clock, runs an attached input script, refreshes
// world transforms, dispatches at most one injected pointer event (or the
// live mouse and touch state), and finally advances the [Animator]. The same
// sequence of Step calls and injected events always produces the same
// screen, which is what the tests and scripted demos rely on.
//
// # Transitions
//
// The [Orchestrator] owns the view state. A transition is a [Sequence] of
// phases: captions out, shapes out, teardown, mount, and fade in. The
// [Gate] is suspended for the whole run so no gesture lands mid-flight. A
// phase that fails or panics restores a fresh overview.
//
// Views mount onto a [Surface], which owns every node, tooltip, binding and
// handler of one activation; [Surface.Residue] reports what is left after
// teardown.
//
// [Ebitengine]: https://ebitengine.org
package warviz
