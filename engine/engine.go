// Package engine runs the host loop: window events, fixed-period animation ticks and rendering
// all happen on the single OS-locked main thread.
package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/profiler"
	"github.com/Carmen-Shannon/siege/engine/window"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// engine implements the Engine interface.
type engine struct {
	window window.Window
	timer  Timer
	now    func() time.Time

	profiler         *profiler.Profiler
	profilingEnabled bool
	drawCounter      func() int
	ctx              gfx.Context

	tickCallback   func(ticks int)
	renderCallback func() error
	resizeCallback func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	running       bool
	lastFrame     time.Time
	runErr        error
	renderFailing bool
}

// Engine is the main entry point of the application loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil for a headless engine
	Window() window.Window

	// Timer returns the tick timer. Hand it to whatever arms and disarms the animation.
	//
	// Returns:
	//   - Timer: the timer
	Timer() Timer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function run with the number of elapsed tick periods while
	// the timer is armed. It is called before the render callback of the same frame.
	//
	// Parameters:
	//   - callback: function receiving the number of ticks to apply
	SetTickCallback(callback func(ticks int))

	// SetRenderCallback registers the function called once per frame. A returned error is logged and
	// the loop keeps running.
	//
	// Parameters:
	//   - callback: function rendering one frame
	SetRenderCallback(callback func() error)

	// SetResizeCallback registers the function called when the window framebuffer changes size.
	//
	// Parameters:
	//   - callback: function receiving the new size in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run drives the window message loop until the window closes, Quit is called or a callback panics.
	//
	// Returns:
	//   - error: the recovered panic that stopped the loop, nil on a normal close
	Run() error

	// Quit stops the loop after the current iteration. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, tick period, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		now:   time.Now,
		timer: NewTimer(DefaultTickPeriod),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithClock(e.now))
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.resizeCallback != nil {
				e.resizeCallback(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Timer() Timer {
	return e.timer
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	e.running = true
	e.runErr = nil
	e.renderFailing = false
	e.lastFrame = e.now()

	e.window.SetUpdateCallback(func() {
		if !e.running {
			return
		}
		if err := e.safeFrame(); err != nil {
			e.runErr = err
			e.Quit()
		}
	})
	e.window.ProcessMessages()
	e.window.SetUpdateCallback(nil)

	e.running = false
	return e.runErr
}

func (e *engine) Quit() {
	if !e.running {
		return
	}
	e.running = false
	if e.window != nil {
		e.window.RequestClose()
	}
}

// safeFrame runs one frame, turning a panic into an error.
func (e *engine) safeFrame() (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame recovered from panic: %v", r)
			err = fmt.Errorf("engine: panic: %v", r)
		}
	}()
	e.frame()
	return nil
}

// frame runs the due ticks, renders, feeds the profiler and sleeps out the frame cap.
func (e *engine) frame() {
	frameStart := e.now()
	elapsed := frameStart.Sub(e.lastFrame)
	e.lastFrame = frameStart

	if ticks := e.timer.Advance(elapsed); ticks > 0 {
		if e.tickCallback != nil {
			e.tickCallback(ticks)
		}
		if e.profilingEnabled {
			e.profiler.AddTicks(ticks)
		}
	}

	if e.renderCallback != nil {
		e.render()
	}

	if e.profilingEnabled {
		draws := 0
		if e.drawCounter != nil {
			draws = e.drawCounter()
		}
		if e.ctx != nil {
			e.profiler.ObserveStackDepth(maxStackDepth(e.ctx.Stats()))
			e.ctx.ResetStats()
		}
		e.profiler.Frame(draws)
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(frameStart); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// render runs the render callback. Failures are logged once per streak.
func (e *engine) render() {
	err := e.renderCallback()
	switch {
	case err != nil && !e.renderFailing:
		log.Printf("[Engine] render failed, continuing: %v", err)
		e.renderFailing = true
	case err == nil && e.renderFailing:
		log.Printf("[Engine] render recovered")
		e.renderFailing = false
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(ticks int)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func() error) {
	e.renderCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func maxStackDepth(s gfx.Stats) int {
	depth := 0
	for _, d := range s.MaxDepth {
		depth = max(depth, d)
	}
	return depth
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
