package gfx

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (Context, *RecordingDevice) {
	dev := NewRecordingDevice()
	return NewContext(dev, WithViewport(800, 600)), dev
}

func TestContextDefaults(t *testing.T) {
	ctx, _ := newTestContext()

	assert.Equal(t, ModeModelView, ctx.CurrentMode())
	for _, mode := range []MatrixMode{ModeModelView, ModeProjection, ModeTexture} {
		assert.Equal(t, mgl32.Ident4(), ctx.Matrix(mode), mode.String())
		assert.Equal(t, 0, ctx.Depth(mode), mode.String())
	}
	assert.Equal(t, Rect{Width: 800, Height: 600}, ctx.CurrentViewport())
}

func TestPopMatrixUnderflow(t *testing.T) {
	ctx, _ := newTestContext()

	err := ctx.PopMatrix()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	ctx.PushMatrix()
	require.NoError(t, ctx.PopMatrix())
	assert.True(t, ctx.Stats().Balanced())
}

func TestStacksAreIndependent(t *testing.T) {
	ctx, _ := newTestContext()

	ctx.Translate(1, 2, 3)
	ctx.MatrixMode(ModeTexture)
	ctx.Scale(8, 8, 1)
	ctx.MatrixMode(ModeProjection)
	ctx.PushMatrix()

	assert.Equal(t, mgl32.Translate3D(1, 2, 3), ctx.Matrix(ModeModelView))
	assert.Equal(t, mgl32.Scale3D(8, 8, 1), ctx.Matrix(ModeTexture))
	assert.Equal(t, 1, ctx.Depth(ModeProjection))
	assert.Equal(t, 0, ctx.Depth(ModeModelView))
}

func TestTransformsComposeRightToLeft(t *testing.T) {
	ctx, _ := newTestContext()

	ctx.Translate(0, 0, -10)
	ctx.Rotate(90, 0, 1, 0)

	want := mgl32.Translate3D(0, 0, -10).Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	assert.True(t, want.ApproxEqualThreshold(ctx.Matrix(ModeModelView), 1e-5))

	p := ctx.Matrix(ModeModelView).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, -11, p.Z(), 1e-5)
}

func TestRotateIgnoresZeroAxis(t *testing.T) {
	ctx, _ := newTestContext()
	ctx.Rotate(45, 0, 0, 0)
	assert.Equal(t, mgl32.Ident4(), ctx.Matrix(ModeModelView))
}

func TestSetLightUsesCurrentModelView(t *testing.T) {
	ctx, _ := newTestContext()

	ctx.Rotate(90, 0, 1, 0)
	ctx.SetLight(0, true, mgl32.Vec3{1, 0, 0})
	ctx.SetLight(5, true, mgl32.Vec3{1, 0, 0})

	l := ctx.Light(0)
	assert.True(t, l.Enabled)
	assert.InDelta(t, 0, l.Direction.X(), 1e-5)
	assert.InDelta(t, -1, l.Direction.Z(), 1e-5)
	assert.Equal(t, Light{}, ctx.Light(5))
}

func TestDrawMeshCapturesState(t *testing.T) {
	ctx, dev := newTestContext()
	quad := NewGroundQuad("quad", 1, 1)

	ctx.DrawMesh(quad)
	require.NoError(t, ctx.Clear(0, 0, 0, 1))
	ctx.MatrixMode(ModeProjection)
	ctx.Perspective(60, 4.0/3.0, 1, 100)
	ctx.MatrixMode(ModeModelView)
	ctx.Translate(0, 0, -5)
	ctx.BindTexture(7)
	ctx.SetDepthTest(false)
	ctx.DrawMesh(quad)
	ctx.DrawMesh(nil)
	require.NoError(t, ctx.Flush())

	require.Len(t, dev.Frames, 1)
	draws := dev.DrawsOf("quad")
	require.Len(t, draws, 1)
	cmd := draws[0]
	assert.Equal(t, mgl32.Translate3D(0, 0, -5), cmd.ModelView)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(60), 4.0/3.0, 1, 100), cmd.Projection)
	assert.Equal(t, TextureHandle(7), cmd.TextureHandle)
	assert.False(t, cmd.DepthTest)
	assert.Equal(t, Rect{Width: 800, Height: 600}, cmd.Viewport)
	assert.Equal(t, 1, ctx.Stats().Draws)
	assert.Equal(t, 1, ctx.Stats().Frames)
}

func TestFlushWithoutFrame(t *testing.T) {
	ctx, _ := newTestContext()
	assert.ErrorIs(t, ctx.Flush(), ErrNoFrame)

	require.NoError(t, ctx.Clear(0, 0, 0, 1))
	assert.Error(t, ctx.Clear(0, 0, 0, 1))
}

func TestUploadTexture(t *testing.T) {
	ctx, dev := newTestContext()

	_, err := ctx.UploadTexture(common.TextureStagingData{Label: "bad", Width: 2, Height: 2, Pixels: make([]byte, 3)}, common.LinearRepeatSampler())
	assert.Error(t, err)

	h, err := ctx.UploadTexture(common.TextureStagingData{Label: "ok", Width: 2, Height: 2, Pixels: make([]byte, 16)}, common.LinearRepeatSampler())
	require.NoError(t, err)
	assert.Contains(t, dev.Textures, h)

	ctx.BindTexture(h)
	ctx.ReleaseTexture(h)
	assert.Equal(t, TextureHandle(0), ctx.BoundTexture())
	assert.NotContains(t, dev.Textures, h)
}
