package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/siege/config"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/renderer"
	"github.com/Carmen-Shannon/siege/engine/texture"
	"github.com/Carmen-Shannon/siege/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type headlessWindow struct {
	closed int
	titles []string
}

var _ window.Window = &headlessWindow{}

func (w *headlessWindow) SetUpdateCallback(func())                   {}
func (w *headlessWindow) SetResizeCallback(func(width, height int))  {}
func (w *headlessWindow) SetScrollCallback(func(delta float32))      {}
func (w *headlessWindow) SetKeyDownCallback(func(keyCode uint32))    {}
func (w *headlessWindow) SetKeyUpCallback(func(keyCode uint32))      {}
func (w *headlessWindow) SetMouseDownCallback(func(x, y int32))      {}
func (w *headlessWindow) SetMouseUpCallback(func(x, y int32))        {}
func (w *headlessWindow) SetMouseMoveCallback(func(x, y int32))      {}
func (w *headlessWindow) SetTitle(title string)                      { w.titles = append(w.titles, title) }
func (w *headlessWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *headlessWindow) ProcessMessages()                           {}
func (w *headlessWindow) IsRunning() bool                            { return false }
func (w *headlessWindow) RequestClose()                              {}
func (w *headlessWindow) Close() error                               { w.closed++; return nil }
func (w *headlessWindow) Width() int                                 { return 800 }
func (w *headlessWindow) Height() int                                { return 600 }

// headlessDevice is a recording device that also satisfies renderer.Renderer.
type headlessDevice struct {
	*gfx.RecordingDevice
	released int
}

var _ renderer.Renderer = &headlessDevice{}

func (d *headlessDevice) SetPresentMode(renderer.PresentMode) {}
func (d *headlessDevice) LastFrameDraws() int                 { return 0 }
func (d *headlessDevice) TextureCount() int                   { return len(d.Textures) }
func (d *headlessDevice) Release() {
	d.released++
	d.RecordingDevice.Release()
}

func missingAssets(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Assets.TextureDir = filepath.Join(dir, "textures")
	cfg.Assets.ModelDir = filepath.Join(dir, "models")
	return cfg
}

func TestRunReleasesEverythingOnWorldFailure(t *testing.T) {
	win := &headlessWindow{}
	dev := &headlessDevice{RecordingDevice: gfx.NewRecordingDevice()}

	err := run(missingAssets(t),
		func(config.Config) (window.Window, error) { return win, nil },
		func(config.Config, window.Window) (renderer.Renderer, error) { return dev, nil },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, texture.ErrDecode)
	assert.Contains(t, err.Error(), "world")
	assert.Equal(t, 1, dev.released)
	assert.Empty(t, dev.Textures)
	assert.Equal(t, 1, win.closed)
}

func TestRunClosesWindowOnDeviceFailure(t *testing.T) {
	win := &headlessWindow{}
	noAdapter := errors.New("no adapter")

	err := run(missingAssets(t),
		func(config.Config) (window.Window, error) { return win, nil },
		func(config.Config, window.Window) (renderer.Renderer, error) { return nil, noAdapter },
	)

	assert.ErrorIs(t, err, noAdapter)
	assert.Contains(t, err.Error(), "renderer")
	assert.Equal(t, 1, win.closed)
}

func TestRunReportsWindowFailure(t *testing.T) {
	noDisplay := errors.New("no display")
	devices := 0

	err := run(config.Default(),
		func(config.Config) (window.Window, error) { return nil, noDisplay },
		func(config.Config, window.Window) (renderer.Renderer, error) { devices++; return nil, nil },
	)

	assert.ErrorIs(t, err, noDisplay)
	assert.Zero(t, devices)
}
