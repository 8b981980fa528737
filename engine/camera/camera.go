package camera

import (
	"sync"

	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	projectionMatrix mgl32.Mat4

	orbit CameraController
	walk  CameraController
}

// Camera holds the perspective settings and selects the view transform for the frame.
// The orbit controller drives the view while the scene is idle and the walk controller
// while the animation runs; the two are never combined.
type Camera interface {
	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetAspect sets the aspect ratio and recomputes the projection. Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetViewportSize sets the aspect ratio from a viewport size. A zero height is ignored.
	//
	// Parameters:
	//   - width, height: the viewport size in pixels
	SetViewportSize(width, height int)

	// ProjectionMatrix returns the perspective projection.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewMatrix returns the view transform for the given mode.
	//
	// Parameters:
	//   - animating: true to use the walk controller, false for the orbit controller
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix, or identity if the selected controller is missing
	ViewMatrix(animating bool) mgl32.Mat4

	// ApplyProjection loads the projection into the context's projection stack and re-selects model-view.
	//
	// Parameters:
	//   - ctx: the rendering context
	ApplyProjection(ctx gfx.Context)

	// ApplyView multiplies the view transform onto the model-view stack.
	//
	// Parameters:
	//   - ctx: the rendering context
	//   - animating: selects the controller, see ViewMatrix
	ApplyView(ctx gfx.Context, animating bool)

	// SetOrbitController replaces the idle-mode controller.
	SetOrbitController(ctrl CameraController)

	// SetWalkController replaces the animation-mode controller.
	SetWalkController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with a 60 degree field of view, near plane 1, far plane 20000 and aspect 1.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    60,
		aspect: 1,
		near:   1,
		far:    20000,
	}
	for _, option := range options {
		option(c)
	}
	c.updateProjection()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) SetViewportSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.SetAspect(float32(width) / float32(height))
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewMatrix(animating bool) mgl32.Mat4 {
	c.mu.Lock()
	ctrl := c.orbit
	if animating {
		ctrl = c.walk
	}
	c.mu.Unlock()

	if ctrl == nil {
		return mgl32.Ident4()
	}
	return ctrl.ViewMatrix()
}

func (c *cameraImpl) ApplyProjection(ctx gfx.Context) {
	ctx.MatrixMode(gfx.ModeProjection)
	ctx.LoadMatrix(c.ProjectionMatrix())
	ctx.MatrixMode(gfx.ModeModelView)
}

func (c *cameraImpl) ApplyView(ctx gfx.Context, animating bool) {
	ctx.MatrixMode(gfx.ModeModelView)
	ctx.MultMatrix(c.ViewMatrix(animating))
}

func (c *cameraImpl) SetOrbitController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orbit = ctrl
}

func (c *cameraImpl) SetWalkController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.walk = ctrl
}

// updateProjection recalculates the projection matrix. Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
}
