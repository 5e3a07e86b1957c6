// Package easel is a small real-time 2D engine core built around an
// incremental dirty-rect compositor and a fixed-frame-rate scheduler.
//
// The central idea is that per-frame CPU cost should be proportional to the
// screen area that actually changed, not to the full frame. Gameplay code
// mutates [Graphic] properties or registers interpolations on a [Scheduler];
// each frame the scheduler fires due timeouts, and the [GraphicsManager]
// then computes the minimal set of changed rectangles and recomposites only
// those, skipping any graphic hidden behind an opaque one.
//
// # Quick start
//
// The display package wraps the engine in an Ebitengine window:
//
//	sched := easel.NewScheduler(60)
//	mgr := easel.NewGraphicsManager(sched, 640, 480)
//	mgr.Add(easel.NewColour(color.RGBA{40, 40, 60, 255},
//		image.Rect(0, 0, 640, 480), 0))
//	game := display.New(mgr, display.RunConfig{Title: "My Game"})
//	if err := game.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, drive the scheduler yourself and present the regions
// reported by [GraphicsManager.Draw].
//
// # Graphics
//
// Every visual element is a [Graphic]: a pixel-buffer surface with a screen
// rectangle, a draw layer, and an ordered chain of cacheable transforms
// (resize, crop, flip, rotate, plus custom stages). [Colour] is a solid
// fill, [Particles] a burst emitter, and [GraphicsManager] is itself a
// Graphic, so managers nest.
//
// # Scheduling
//
// [Scheduler.AddTimeout] is the only way to schedule future or periodic
// work; [Scheduler.Interp] varies any value over time using the composable
// interpolation functions [InterpLinear], [InterpTarget] and [InterpShake].
//
// The engine is single-threaded and frame-driven: every callback runs on
// the scheduler's loop, so no locking is needed anywhere.
package easel
