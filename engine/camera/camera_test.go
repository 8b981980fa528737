package camera

import (
	"testing"

	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/sequencer"
	"github.com/Carmen-Shannon/siege/engine/view"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func transform(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-3, "component %d", i)
	}
}

func TestDefaultProjection(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, float32(60), c.Fov())
	assert.Equal(t, float32(1), c.Near())
	assert.Equal(t, float32(20000), c.Far())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(60), 1, 1, 20000), c.ProjectionMatrix())
}

func TestSetViewportSize(t *testing.T) {
	c := NewCamera()

	c.SetViewportSize(800, 600)
	assert.InDelta(t, 800.0/600.0, c.Aspect(), 1e-6)

	c.SetViewportSize(800, 0)
	assert.InDelta(t, 800.0/600.0, c.Aspect(), 1e-6)

	c.SetAspect(-2)
	assert.InDelta(t, 800.0/600.0, c.Aspect(), 1e-6)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(60), 800.0/600.0, 1, 20000), c.ProjectionMatrix())
}

func TestOrbitView(t *testing.T) {
	vs := view.NewViewState()
	c := NewCamera(WithOrbitController(NewOrbitController(vs)))

	m := c.ViewMatrix(false)
	assertVec(t, mgl32.Vec3{0, 0, -150}, transform(m, mgl32.Vec3{}))

	s, co := math32.Sincos(mgl32.DegToRad(10))
	assertVec(t, mgl32.Vec3{0, 10 * co, -150 + 10*s}, transform(m, mgl32.Vec3{0, 10, 0}))
}

func TestOrbitViewAppliesPitchBeforeYaw(t *testing.T) {
	vs := view.NewViewState()
	vs.SetRotationY(90)
	c := NewCamera(WithOrbitController(NewOrbitController(vs)))

	got := transform(c.ViewMatrix(false), mgl32.Vec3{10, 0, 0})

	// yaw maps +X to -Z, then pitch tilts it about X
	s, co := math32.Sincos(mgl32.DegToRad(10))
	assertVec(t, mgl32.Vec3{0, 10 * s, -150 - 10*co}, got)
}

func TestWalkView(t *testing.T) {
	state := sequencer.State{Phase: sequencer.PhaseApproach, WorldZ: 0, WorldRotationY: 0}
	walk := NewWalkController(func() sequencer.State { return state }, WithEyeHeight(8))
	c := NewCamera(WithWalkController(walk))

	assertVec(t, mgl32.Vec3{0, 0, -10}, transform(c.ViewMatrix(true), mgl32.Vec3{0, 8, -10}))

	state.WorldRotationY = 180
	assertVec(t, mgl32.Vec3{0, 0, -10}, transform(c.ViewMatrix(true), mgl32.Vec3{0, 8, 10}))

	state.WorldZ = 40
	assertVec(t, mgl32.Vec3{0, -8, 0}, transform(c.ViewMatrix(true), mgl32.Vec3{0, 0, -40}))
}

func TestModesAreExclusive(t *testing.T) {
	vs := view.NewViewState()
	state := sequencer.State{Phase: sequencer.PhaseFire, WorldZ: -40}
	c := NewCamera(
		WithOrbitController(NewOrbitController(vs)),
		WithWalkController(NewWalkController(func() sequencer.State { return state })),
	)

	assert.NotEqual(t, c.ViewMatrix(false), c.ViewMatrix(true))
	vs.SetSceneDistance(10)
	walkBefore := c.ViewMatrix(true)
	assert.Equal(t, walkBefore, c.ViewMatrix(true))
}

func TestMissingControllerIsIdentity(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, mgl32.Ident4(), c.ViewMatrix(false))
	assert.Equal(t, mgl32.Ident4(), c.ViewMatrix(true))
}

func TestApplyProjection(t *testing.T) {
	ctx := gfx.NewContext(gfx.NewRecordingDevice())
	c := NewCamera(WithAspect(2))

	ctx.MatrixMode(gfx.ModeProjection)
	ctx.Translate(1, 1, 1)
	c.ApplyProjection(ctx)

	assert.Equal(t, gfx.ModeModelView, ctx.CurrentMode())
	assert.Equal(t, c.ProjectionMatrix(), ctx.Matrix(gfx.ModeProjection))
	assert.Equal(t, mgl32.Ident4(), ctx.Matrix(gfx.ModeModelView))
}
