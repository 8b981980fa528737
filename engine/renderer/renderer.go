// Package renderer implements gfx.Device on top of WebGPU. Every draw command is resolved into a
// per-draw uniform slot and encoded into a single render pass per frame.
package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend

	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount

	lastFrameDraws int
	textureCount   int
}

// Renderer is the WebGPU rendering device of a window.
type Renderer interface {
	gfx.Device

	// SetPresentMode changes how frames are delivered. Takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// LastFrameDraws returns the number of draws encoded by the most recent EndFrame.
	LastFrameDraws() int

	// TextureCount returns the number of live textures created through CreateTexture.
	TextureCount() int
}

var _ Renderer = &renderer{}

// NewRenderer creates the device, the swapchain for the window's surface and the fixed function pipelines.
//
// Parameters:
//   - backendType: the graphics API to use
//   - win: the window providing the surface and its initial size
//   - options: functional options for the renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: error if no adapter or device could be obtained
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		backendType: backendType,
	}

	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		b, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = b
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r, nil
}

func (r *renderer) BeginFrame(clear mgl32.Vec4) error {
	return r.backend.BeginFrame(clear)
}

func (r *renderer) Draw(cmd gfx.DrawCommand) {
	r.backend.Draw(cmd)
}

func (r *renderer) EndFrame() error {
	n, err := r.backend.EndFrame()
	r.lastFrameDraws = n
	return err
}

func (r *renderer) CreateTexture(staging common.TextureStagingData, sampler common.SamplerStagingData) (gfx.TextureHandle, error) {
	h, err := r.backend.CreateTexture(staging, sampler)
	if err == nil {
		r.textureCount++
	}
	return h, err
}

func (r *renderer) ReleaseTexture(h gfx.TextureHandle) {
	if h == 0 {
		return
	}
	r.backend.ReleaseTexture(h)
	r.textureCount = max(r.textureCount-1, 0)
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Release() {
	r.backend.Release()
	r.textureCount = 0
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) LastFrameDraws() int {
	return r.lastFrameDraws
}

func (r *renderer) TextureCount() int {
	return r.textureCount
}
