package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// FixedFunctionShaderSource is the WGSL module used for every draw. It matches GPUDrawUniforms
// and gfx.Vertex exactly.
//
//go:embed assets/fixed_function.wgsl
var FixedFunctionShaderSource string

// GPUDrawUniformsSize is the size of a marshalled GPUDrawUniforms in bytes.
const GPUDrawUniformsSize = 304

// uniformAlignment is the minimum dynamic uniform offset alignment guaranteed by WebGPU.
const uniformAlignment = 256

// uniformStride is the distance between consecutive per-draw uniform slots.
var uniformStride = alignUp(GPUDrawUniformsSize, uniformAlignment)

// clipCorrection maps OpenGL clip space depth [-w, w] onto the WebGPU range [0, w].
var clipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// GPUDrawUniforms is the per-draw uniform block of the fixed function shader.
// Matches the WGSL DrawUniforms struct layout (uniform address space).
type GPUDrawUniforms struct {
	Projection    mgl32.Mat4                // offset   0
	ModelView     mgl32.Mat4                // offset  64
	TextureMatrix mgl32.Mat4                // offset 128
	NormalMatrix  [3][4]float32             // offset 192: mat3x3 columns padded to 16 bytes
	Color         mgl32.Vec4                // offset 240
	LightDirs     [gfx.MaxLights][4]float32 // offset 256: xyz direction, w enabled
	Flags         [4]uint32                 // offset 288: x lighting
}

// newGPUDrawUniforms resolves a draw command into its uniform block. The projection is
// corrected for the WebGPU depth range and light directions are normalized.
func newGPUDrawUniforms(cmd gfx.DrawCommand) GPUDrawUniforms {
	u := GPUDrawUniforms{
		Projection:    clipCorrection.Mul4(cmd.Projection),
		ModelView:     cmd.ModelView,
		TextureMatrix: cmd.Texture,
		Color:         cmd.Color,
	}

	normal := cmd.ModelView.Mat3()
	if normal.Det() != 0 {
		normal = normal.Inv().Transpose()
	}
	for c := 0; c < 3; c++ {
		col := normal.Col(c)
		u.NormalMatrix[c] = [4]float32{col[0], col[1], col[2], 0}
	}

	for i, l := range cmd.Lights {
		if !l.Enabled || l.Direction.Len() == 0 {
			continue
		}
		d := l.Direction.Normalize()
		u.LightDirs[i] = [4]float32{d[0], d[1], d[2], 1}
	}
	if cmd.Lighting {
		u.Flags[0] = 1
	}
	return u
}

// Marshal serializes the uniform block into a little-endian byte buffer.
//
// Returns:
//   - []byte: GPUDrawUniformsSize bytes ready for GPU upload
func (u *GPUDrawUniforms) Marshal() []byte {
	buf := make([]byte, GPUDrawUniformsSize)
	off := 0
	putF := func(values ...float32) {
		for _, v := range values {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
			off += 4
		}
	}
	putF(u.Projection[:]...)
	putF(u.ModelView[:]...)
	putF(u.TextureMatrix[:]...)
	for _, col := range u.NormalMatrix {
		putF(col[:]...)
	}
	putF(u.Color[:]...)
	for _, l := range u.LightDirs {
		putF(l[:]...)
	}
	for _, f := range u.Flags {
		binary.LittleEndian.PutUint32(buf[off:off+4], f)
		off += 4
	}
	return buf
}

func alignUp(n, alignment int) int {
	return (n + alignment - 1) / alignment * alignment
}

// surfaceViewport converts a bottom-left origin viewport into the top-left origin rectangle
// WebGPU expects, clipped to the surface. ok is false when nothing of the rectangle is visible.
func surfaceViewport(r gfx.Rect, width, height int) (x, y, w, h float32, ok bool) {
	left := max(r.X, 0)
	right := min(r.X+r.Width, width)
	top := max(height-(r.Y+r.Height), 0)
	bottom := min(height-r.Y, height)
	if right <= left || bottom <= top {
		return 0, 0, 0, 0, false
	}
	return float32(left), float32(top), float32(right - left), float32(bottom - top), true
}
