package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/profiler"
	"github.com/Carmen-Shannon/siege/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs its update callback until closed or maxIterations is reached.
type fakeWindow struct {
	running       bool
	iterations    int
	maxIterations int
	onUpdate      func()
	onResize      func(width, height int)
	beforeUpdate  func(i int)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(callback func())                  { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetScrollCallback(func(delta float32))              {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32))            {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))              {}
func (w *fakeWindow) SetMouseDownCallback(func(x, y int32))              {}
func (w *fakeWindow) SetMouseUpCallback(func(x, y int32))                {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y int32))              {}
func (w *fakeWindow) SetTitle(string)                                    {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor         { return nil }
func (w *fakeWindow) IsRunning() bool                                    { return w.running }
func (w *fakeWindow) RequestClose()                                      { w.running = false }
func (w *fakeWindow) Close() error                                       { w.running = false; return nil }
func (w *fakeWindow) Width() int                                         { return 800 }
func (w *fakeWindow) Height() int                                        { return 600 }

func (w *fakeWindow) ProcessMessages() {
	w.running = true
	for w.running && w.iterations < w.maxIterations {
		if w.beforeUpdate != nil {
			w.beforeUpdate(w.iterations)
		}
		w.iterations++
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

// stepClock advances by a fixed step every time it is read.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestTimerAdvance(t *testing.T) {
	tm := NewTimer(30 * time.Millisecond)

	assert.Zero(t, tm.Advance(time.Second), "disarmed timers never tick")

	tm.Start()
	assert.True(t, tm.Armed())
	assert.Equal(t, 0, tm.Advance(20*time.Millisecond))
	assert.Equal(t, 1, tm.Advance(20*time.Millisecond))
	assert.Equal(t, 2, tm.Advance(50*time.Millisecond))
	assert.Equal(t, maxCatchUpTicks, tm.Advance(10*time.Second))
	assert.Equal(t, 0, tm.Advance(29*time.Millisecond))

	tm.Stop()
	assert.False(t, tm.Armed())
	assert.Zero(t, tm.Advance(time.Second))

	tm.Start()
	assert.Equal(t, 0, tm.Advance(29*time.Millisecond), "start discards leftover time")
}

func TestNewTimerDefaultPeriod(t *testing.T) {
	assert.Equal(t, DefaultTickPeriod, NewTimer(0).Period())
	assert.Equal(t, time.Second, NewTimer(time.Second).Period())
}

func TestRunTicksOnlyWhileArmed(t *testing.T) {
	w := &fakeWindow{maxIterations: 10}
	clock := &stepClock{t: time.Unix(0, 0), step: 30 * time.Millisecond}
	e := NewEngine(WithWindow(w), WithClock(clock.now), WithTickPeriod(30*time.Millisecond))

	ticks, frames := 0, 0
	e.SetTickCallback(func(n int) { ticks += n })
	e.SetRenderCallback(func() error { frames++; return nil })
	w.beforeUpdate = func(i int) {
		if i == 4 {
			e.Timer().Start()
		}
	}

	require.NoError(t, e.Run())
	assert.Equal(t, 10, frames)
	// six armed frames of 30 ms each
	assert.Equal(t, 6, ticks)
}

func TestRenderErrorDoesNotStopRun(t *testing.T) {
	w := &fakeWindow{maxIterations: 20}
	e := NewEngine(WithWindow(w))
	lost := errors.New("surface lost")

	frames := 0
	e.SetRenderCallback(func() error {
		frames++
		if frames == 3 || frames == 4 {
			return lost
		}
		return nil
	})

	require.NoError(t, e.Run())
	assert.Equal(t, 20, frames)
	assert.Equal(t, 20, w.iterations)
}

func TestPanicIsRecovered(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e Engine)
	}{
		{"render", func(e Engine) {
			e.SetRenderCallback(func() error { panic("bad frame") })
		}},
		{"tick", func(e Engine) {
			e.Timer().Start()
			e.SetTickCallback(func(int) { panic("bad tick") })
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &fakeWindow{maxIterations: 100}
			clock := &stepClock{t: time.Unix(0, 0), step: time.Second}
			e := NewEngine(WithWindow(w), WithClock(clock.now))
			tt.setup(e)

			var err error
			require.NotPanics(t, func() { err = e.Run() })
			require.Error(t, err)
			assert.Contains(t, err.Error(), "bad")
			assert.Equal(t, 1, w.iterations)
		})
	}
}

func TestProfilerReceivesStackDepth(t *testing.T) {
	w := &fakeWindow{maxIterations: 3}
	clock := &stepClock{t: time.Unix(0, 0), step: time.Second}
	ctx := gfx.NewContext(gfx.NewRecordingDevice())

	var reports []profiler.Report
	p := profiler.NewProfiler(
		profiler.WithClock(clock.now),
		profiler.WithReportCallback(func(r profiler.Report) { reports = append(reports, r) }),
	)
	e := NewEngine(WithWindow(w), WithClock(clock.now), WithProfiler(p), WithProfiling(true), WithContext(ctx))

	e.SetRenderCallback(func() error {
		for range 3 {
			ctx.PushMatrix()
		}
		for range 3 {
			if err := ctx.PopMatrix(); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, e.Run())
	require.NotEmpty(t, reports)
	for _, r := range reports {
		assert.Equal(t, 3, r.MaxStackDepth)
	}
	assert.Zero(t, ctx.Stats().Pushes[gfx.ModeModelView], "stats are reset each frame")
}

func TestResizeIsForwarded(t *testing.T) {
	w := &fakeWindow{}
	e := NewEngine(WithWindow(w))

	var got [2]int
	e.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })
	w.onResize(1024, 768)

	assert.Equal(t, [2]int{1024, 768}, got)
}

func TestRunWithoutWindow(t *testing.T) {
	assert.ErrorIs(t, NewEngine().Run(), ErrNoWindow)
}

func TestQuitStopsLoop(t *testing.T) {
	w := &fakeWindow{maxIterations: 100}
	e := NewEngine(WithWindow(w))
	e.SetRenderCallback(func() error {
		e.Quit()
		e.Quit()
		return nil
	})

	require.NoError(t, e.Run())
	assert.Equal(t, 1, w.iterations)
}

func TestFrameDuration(t *testing.T) {
	assert.Zero(t, frameDuration(0))
	assert.Zero(t, frameDuration(-5))
	assert.Equal(t, 20*time.Millisecond, frameDuration(50))
}
