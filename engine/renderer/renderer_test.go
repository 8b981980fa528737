package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	configured [][2]int
	draws      []gfx.DrawCommand
	released   []gfx.TextureHandle
	next       gfx.TextureHandle
	failCreate bool
	mode       PresentMode
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}
func (f *fakeBackend) SetPresentMode(mode PresentMode)   { f.mode = mode }
func (f *fakeBackend) BeginFrame(clear mgl32.Vec4) error { f.draws = nil; return nil }
func (f *fakeBackend) Draw(cmd gfx.DrawCommand)          { f.draws = append(f.draws, cmd) }
func (f *fakeBackend) EndFrame() (int, error)            { return len(f.draws), nil }
func (f *fakeBackend) Release()                          {}
func (f *fakeBackend) ReleaseTexture(h gfx.TextureHandle) {
	f.released = append(f.released, h)
}
func (f *fakeBackend) CreateTexture(staging common.TextureStagingData, sampler common.SamplerStagingData) (gfx.TextureHandle, error) {
	if f.failCreate {
		return 0, errors.New("out of memory")
	}
	f.next++
	return f.next, nil
}

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestRendererThroughContext(t *testing.T) {
	fb := &fakeBackend{}
	r := &renderer{backend: fb}
	ctx := gfx.NewContext(r)

	h, err := ctx.UploadTexture(common.TextureStagingData{Label: "t", Width: 1, Height: 1, Pixels: []byte{1, 2, 3, 4}}, common.LinearRepeatSampler())
	require.NoError(t, err)
	assert.Equal(t, 1, r.TextureCount())

	require.NoError(t, ctx.Clear(0, 0, 0, 1))
	ctx.BindTexture(h)
	ctx.DrawMesh(gfx.NewCuboid("box"))
	ctx.DrawMesh(gfx.NewCuboid("box"))
	require.NoError(t, ctx.Flush())

	assert.Equal(t, 2, r.LastFrameDraws())
	assert.Equal(t, h, fb.draws[0].TextureHandle)

	ctx.ReleaseTexture(h)
	r.ReleaseTexture(0)
	assert.Equal(t, []gfx.TextureHandle{h}, fb.released)
	assert.Equal(t, 0, r.TextureCount())

	fb.failCreate = true
	_, err = r.CreateTexture(common.TextureStagingData{}, common.SamplerStagingData{})
	assert.Error(t, err)
	assert.Equal(t, 0, r.TextureCount())
}

func TestRendererForwardsResizeAndPresentMode(t *testing.T) {
	fb := &fakeBackend{}
	r := &renderer{backend: fb}

	r.Resize(640, 480)
	r.SetPresentMode(PresentModeUncapped)

	assert.Equal(t, [][2]int{{640, 480}}, fb.configured)
	assert.Equal(t, PresentModeUncapped, fb.mode)
}

func TestUniformLayout(t *testing.T) {
	assert.Equal(t, 512, uniformStride)

	cmd := gfx.DrawCommand{
		Projection: mgl32.Perspective(mgl32.DegToRad(60), 1, 1, 100),
		ModelView:  mgl32.Translate3D(1, 2, 3),
		Texture:    mgl32.Scale3D(8, 8, 1),
		Color:      mgl32.Vec4{0.5, 0.25, 1, 1},
		Lighting:   true,
		Lights: [gfx.MaxLights]gfx.Light{
			{Enabled: true, Direction: mgl32.Vec3{0, 2, 0}},
			{Enabled: false, Direction: mgl32.Vec3{1, 0, 0}},
		},
	}
	u := newGPUDrawUniforms(cmd)
	buf := u.Marshal()
	require.Len(t, buf, GPUDrawUniformsSize)

	// model view translation column
	assert.Equal(t, float32(1), floatAt(buf, 64+48))
	assert.Equal(t, float32(3), floatAt(buf, 64+56))
	// texture matrix scale
	assert.Equal(t, float32(8), floatAt(buf, 128))
	// normal matrix columns are padded to 16 bytes
	assert.Equal(t, float32(1), floatAt(buf, 192))
	assert.Equal(t, float32(0), floatAt(buf, 192+12))
	assert.Equal(t, float32(1), floatAt(buf, 192+16+4))
	// color
	assert.Equal(t, float32(0.25), floatAt(buf, 244))
	// light 0 is normalized and enabled, light 1 is zeroed
	assert.Equal(t, float32(1), floatAt(buf, 256+4))
	assert.Equal(t, float32(1), floatAt(buf, 256+12))
	assert.Equal(t, float32(0), floatAt(buf, 272))
	assert.Equal(t, float32(0), floatAt(buf, 272+12))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[288:]))
}

func TestClipCorrectionMapsDepthRange(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 1, 100)
	u := newGPUDrawUniforms(gfx.DrawCommand{Projection: proj, ModelView: mgl32.Ident4()})

	near := u.Projection.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := u.Projection.Mul4x1(mgl32.Vec4{0, 0, -100, 1})

	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-4)
}

func TestNormalMatrixUsesInverseTranspose(t *testing.T) {
	u := newGPUDrawUniforms(gfx.DrawCommand{ModelView: mgl32.Scale3D(2, 1, 1)})
	assert.InDelta(t, 0.5, u.NormalMatrix[0][0], 1e-6)

	// a degenerate scale keeps the raw matrix
	u = newGPUDrawUniforms(gfx.DrawCommand{ModelView: mgl32.Scale3D(0, 0, 0)})
	assert.Equal(t, [3][4]float32{}, u.NormalMatrix)
}

func TestSurfaceViewport(t *testing.T) {
	tests := []struct {
		name       string
		rect       gfx.Rect
		x, y, w, h float32
		ok         bool
	}{
		{"full", gfx.Rect{Width: 800, Height: 600}, 0, 0, 800, 600, true},
		{"right half", gfx.Rect{X: 400, Width: 400, Height: 600}, 400, 0, 400, 600, true},
		{"bottom strip flips to top origin", gfx.Rect{Y: 0, Width: 800, Height: 100}, 0, 500, 800, 100, true},
		{"clipped", gfx.Rect{X: -100, Y: 500, Width: 300, Height: 300}, 0, 0, 200, 100, true},
		{"outside", gfx.Rect{X: 900, Width: 10, Height: 10}, 0, 0, 0, 0, false},
		{"empty", gfx.Rect{}, 0, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h, ok := surfaceViewport(tt.rect, 800, 600)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, []float32{tt.x, tt.y, tt.w, tt.h}, []float32{x, y, w, h})
		})
	}
}

func TestSamplerDescriptorDefaults(t *testing.T) {
	d := samplerDescriptor("grass", common.SamplerStagingData{})
	assert.Equal(t, wgpu.AddressModeRepeat, d.AddressModeU)
	assert.Equal(t, wgpu.FilterModeLinear, d.MinFilter)
	assert.Equal(t, float32(32), d.LodMaxClamp)
	assert.Equal(t, uint16(1), d.MaxAnisotropy)

	d = samplerDescriptor("text", common.ClampedSampler())
	assert.Equal(t, wgpu.AddressModeClampToEdge, d.AddressModeV)
	assert.Equal(t, "text Sampler", d.Label)
}
