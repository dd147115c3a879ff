// Package scrollrig drives a 3D model from a single scroll progress value.
//
// A [Timeline] maps progress in [0, 1] to a root pose, per-part opacity and a
// disassemble/reassemble cycle of named parts. A [Rig] applies it once per
// frame to a [Node] tree whose parts may arrive late: names that are not in
// the tree yet are looked up again every frame until they appear.
//
// # Quick start
//
//	scene := scrollrig.NewScene()
//	rig := scene.NewRig(scrollrig.DefaultTimeline())
//
//	req := scrollrig.LoadAsync(ctx, "model.glb")
//
//	// every frame:
//	if model, done, err := req.Poll(); done && err == nil && model.Parent == nil {
//		scene.Attach(model)
//	}
//	state := scene.Update(scroll.Offset())
//
// For a window with wheel input, see the preview package, which hosts a
// [Scene] in an Ebitengine game loop.
//
// # Timelines
//
// A timeline is built from a [TimelineSpec] by [NewTimeline], which rejects
// malformed tables with wrapped sentinel errors such as [ErrCutsOrder] and
// [ErrPoseCount]. Timelines can also be written in YAML and read with
// [LoadTimeline]; progress values may be given in pages:
//
//	pages: 11
//	transitionZone: 0.45
//	cuts: [0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11]
//	keyframes:
//	  - {position: [0, 0, 0], euler: [0, 90, -120]}
//	  ...
//
// Easing curves come from [gween/ease] and are named in YAML
// ("inOutCubic", "linear", ...).
//
// # Opacity
//
// Materials are cloned the first time a part is resolved, so dimming one part
// never affects another that shared the same material. The global band
// assigns base*alpha each frame. Section bands blend toward base*alpha with a
// smoothing factor and always return to full opacity after their window.
//
// # Scroll
//
// [Scroll] damps wheel input with a [harmonica] spring. [Autoplay] sweeps
// progress with a gween sequence for unattended previews.
//
// # ECS integration
//
// A Scene or Rig forwards segment changes, held poses and recovered frames
// to an optional [EntityStore]. The ecs module bridges them into a Donburi
// world.
//
// [gween/ease]: https://pkg.go.dev/github.com/tanema/gween/ease
// [harmonica]: https://github.com/charmbracelet/harmonica
package scrollrig
