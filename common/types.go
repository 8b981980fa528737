// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Rows are stored bottom-up so that texture coordinate (0, 0) addresses the first pixel.
type TextureStagingData struct {
	// Label is a human readable name used for GPU resource labels and error messages.
	Label string
	// Pixels is the RGBA pixel data, 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Valid reports whether the pixel buffer matches the declared dimensions.
//
// Returns:
//   - bool: true if Width*Height*4 equals the length of Pixels and both dimensions are non-zero
func (t TextureStagingData) Valid() bool {
	return t.Width > 0 && t.Height > 0 && uint64(len(t.Pixels)) == uint64(t.Width)*uint64(t.Height)*4
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero values are replaced with linear filtering and repeat addressing at creation time.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// LinearRepeatSampler returns the sampler configuration used for all scene textures:
// linear minification and magnification with repeat wrapping on both axes.
//
// Returns:
//   - SamplerStagingData: the sampler configuration
func LinearRepeatSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	}
}

// ClampedSampler returns a linear sampler that clamps coordinates to the edge, used for overlay text.
//
// Returns:
//   - SamplerStagingData: the sampler configuration
func ClampedSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	}
}
