package renderer

import (
	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the graphics API used by a Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU renders through WebGPU (wgpu-native).
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are delivered to the display.
type PresentMode int

const (
	// PresentModeVSync waits for the display's vertical blank (FIFO). Caps the frame rate to the refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples per pixel used by the main render pass.
type MSAASampleCount uint32

const (
	// MSAAOff renders directly into the swapchain image.
	MSAAOff MSAASampleCount = 1

	// MSAA4x renders into a 4x multisampled target resolved into the swapchain image.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the API specific half of a Renderer.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and depth targets for a framebuffer size.
	// Non-positive sizes are ignored so a minimized window keeps its last configuration.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// BeginFrame opens a frame that will be cleared to the given color.
	//
	// Parameters:
	//   - clear: the RGBA clear color
	//
	// Returns:
	//   - error: error if a frame is already open
	BeginFrame(clear mgl32.Vec4) error

	// Draw queues a draw for the open frame.
	//
	// Parameters:
	//   - cmd: the resolved draw command
	Draw(cmd gfx.DrawCommand)

	// EndFrame encodes every queued draw in a single render pass, submits it and presents.
	//
	// Returns:
	//   - int: the number of draws encoded
	//   - error: error if the frame could not be acquired or submitted
	EndFrame() (int, error)

	// CreateTexture uploads a 2D RGBA texture and its sampler.
	//
	// Parameters:
	//   - staging: the pixel data
	//   - sampler: the sampler configuration, zero fields take defaults
	//
	// Returns:
	//   - gfx.TextureHandle: the handle of the new texture
	//   - error: error if the texture could not be created
	CreateTexture(staging common.TextureStagingData, sampler common.SamplerStagingData) (gfx.TextureHandle, error)

	// ReleaseTexture frees a texture. Unknown handles are ignored.
	//
	// Parameters:
	//   - h: the texture handle
	ReleaseTexture(h gfx.TextureHandle)

	// Release frees every GPU object owned by the backend.
	Release()
}
