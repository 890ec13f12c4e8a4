// Package piviz is an interactive Monte Carlo π estimation visualizer
// built on [Ebitengine].
//
// A user-controlled sample count drives a seeded Monte Carlo simulation
// (random points in a square, counted against the inscribed circle);
// the result is rendered as a scatter-plot pixel buffer plus a panel of
// summary statistics. Input is debounced so that dragging the
// sample-count slider triggers at most one computation per settling of
// input, and computations are single-flight: a request arriving while
// one is in flight is dropped rather than queued.
//
// # Quick start
//
// The simplest way to get started is [App.Run], which creates a window
// and game loop for you:
//
//	sim := piviz.NewMonteCarloSimulation(piviz.SimConfig{})
//	app := piviz.NewApp(sim, piviz.AppConfig{
//		Title: "Monte Carlo π", Width: 960, Height: 720,
//	})
//	if err := app.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Pipeline
//
// The package is organized around two components composed linearly:
//
//   - [RefreshController] owns the debounce timer and the "one active
//     computation at a time" invariant. It turns a stream of raw input
//     values into at most one in-flight request to a [Simulator] and
//     funnels each completed [SimulationResult] back to the event-loop
//     thread.
//   - [FrameRenderer] converts the row-major RGB pixel buffer of a
//     result into a displayable bitmap and formats the derived
//     statistics for the text display fields.
//
// Data flow: slider event → [RefreshController.OnInputChanged] →
// debounce → [Simulator.Run] on a worker goroutine → result drained by
// [RefreshController.Tick] → [FrameRenderer.Blit] + [FormatStats].
//
// # Browser streaming
//
// [FrameStream] serves the same pipeline to a browser: an embedded page
// with a range input and a canvas, connected over a WebSocket. Each
// result is pushed as a PNG frame plus a stats message. See
// examples/web.
//
// # Headless analysis
//
// [AnalyzeConvergence] runs the estimator across a ladder of sample
// sizes and reports estimates with theoretical confidence intervals.
// See examples/convergence.
//
// [Ebitengine]: https://ebitengine.org
package piviz
