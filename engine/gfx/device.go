// Package gfx provides a fixed-function style rendering context: three matrix stacks,
// a viewport, a bound texture, two directional lights and a depth test switch. Draws
// are resolved against that state and handed to a Device as self-contained commands.
package gfx

import (
	"errors"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the number of directional lights a DrawCommand carries.
const MaxLights = 2

// ErrStackUnderflow is returned by PopMatrix when the selected stack only holds its base matrix.
var ErrStackUnderflow = errors.New("matrix stack underflow")

// ErrNoFrame is returned when drawing or flushing outside of a Clear/Flush pair.
var ErrNoFrame = errors.New("no frame in progress")

// TextureHandle identifies a texture created by a Device. The zero handle means "no texture".
type TextureHandle uint32

// Rect is a viewport rectangle in framebuffer pixels with a bottom-left origin.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Light is a directional light. Direction is expressed in eye space and points towards the light.
type Light struct {
	Enabled   bool
	Direction mgl32.Vec3
}

// DrawCommand is a single mesh draw with all state resolved at the time DrawMesh was called.
type DrawCommand struct {
	Mesh *Mesh

	Projection mgl32.Mat4
	ModelView  mgl32.Mat4
	Texture    mgl32.Mat4

	TextureHandle TextureHandle
	Color         mgl32.Vec4

	Lighting  bool
	Lights    [MaxLights]Light
	DepthTest bool

	Viewport Rect
}

// Device is the GPU side of a Context. Implementations receive fully resolved draw commands
// and own every GPU resource they create.
type Device interface {
	// BeginFrame starts a new frame cleared to the given color, with depth cleared to the far plane.
	//
	// Parameters:
	//   - clear: the RGBA clear color
	//
	// Returns:
	//   - error: error if the frame could not be started
	BeginFrame(clear mgl32.Vec4) error

	// Draw records a single draw within the current frame.
	//
	// Parameters:
	//   - cmd: the resolved draw command
	Draw(cmd DrawCommand)

	// EndFrame submits all draws recorded since BeginFrame and presents the frame.
	//
	// Returns:
	//   - error: error if submission failed
	EndFrame() error

	// CreateTexture uploads RGBA pixels as a 2D texture with the given sampler configuration.
	//
	// Parameters:
	//   - staging: the pixel data and dimensions
	//   - sampler: the sampler configuration
	//
	// Returns:
	//   - TextureHandle: the handle of the created texture
	//   - error: error if the texture could not be created
	CreateTexture(staging common.TextureStagingData, sampler common.SamplerStagingData) (TextureHandle, error)

	// ReleaseTexture frees a texture created by CreateTexture. Unknown handles are ignored.
	//
	// Parameters:
	//   - h: the texture handle
	ReleaseTexture(h TextureHandle)

	// Resize reconfigures the presentation surface for a new framebuffer size.
	//
	// Parameters:
	//   - width, height: the new framebuffer size in pixels
	Resize(width, height int)

	// Release frees all remaining device resources.
	Release()
}
