package engine

import (
	"time"

	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/profiler"
	"github.com/Carmen-Shannon/siege/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler, e.g. to change its reporting interval.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithDrawCounter sets the function reporting how many draws the last frame submitted.
//
// Parameters:
//   - counter: function returning the draw count of the last frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDrawCounter(counter func() int) EngineBuilderOption {
	return func(e *engine) {
		e.drawCounter = counter
	}
}

// WithContext sets the rendering context whose matrix stack statistics feed the profiler.
// The statistics are reset after every profiled frame.
//
// Parameters:
//   - ctx: the rendering context
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithContext(ctx gfx.Context) EngineBuilderOption {
	return func(e *engine) {
		e.ctx = ctx
	}
}

// WithTickPeriod sets the period of the animation tick timer.
// Values <= 0 are treated as DefaultTickPeriod.
//
// Parameters:
//   - period: the tick period
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickPeriod(period time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.timer = NewTimer(period)
	}
}

// WithWindow sets the window whose message loop drives the engine.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}

// WithClock replaces the time source used for tick accounting.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}
