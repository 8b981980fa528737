package camera

import (
	"github.com/Carmen-Shannon/siege/engine/sequencer"
	"github.com/Carmen-Shannon/siege/engine/view"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController supplies the view transform for one camera mode.
type CameraController interface {
	// ViewMatrix returns the world-to-eye transform.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4
}

// orbitController views the scene from a point on a sphere around the origin. The eye sits at
// the canonical origin looking down -Z; the scene is pushed back by the distance and then
// pitched about X before being yawed about Y.
type orbitController struct {
	state view.ViewState
}

var _ CameraController = &orbitController{}

// NewOrbitController creates the user-driven controller.
//
// Parameters:
//   - state: the view parameters read every frame
//
// Returns:
//   - CameraController: the controller
func NewOrbitController(state view.ViewState) CameraController {
	return &orbitController{state: state}
}

func (oc *orbitController) ViewMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(0, 0, -oc.state.SceneDistance()).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(oc.state.RotationX()))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(oc.state.RotationY())))
}

// walkController views the scene from a fixed height above the ground looking along -Z,
// yawed by the sequencer's world rotation and then moved along Z by its world offset.
type walkController struct {
	source    func() sequencer.State
	eyeHeight float32
}

var _ CameraController = &walkController{}

// NewWalkController creates the sequencer-driven controller.
//
// Parameters:
//   - source: returns the current sequencer state
//   - options: functional options for the controller
//
// Returns:
//   - CameraController: the controller
func NewWalkController(source func() sequencer.State, options ...CameraControllerOption) CameraController {
	wc := &walkController{
		source:    source,
		eyeHeight: 8,
	}
	for _, opt := range options {
		opt(wc)
	}
	return wc
}

func (wc *walkController) ViewMatrix() mgl32.Mat4 {
	s := wc.source()
	eye := mgl32.LookAtV(
		mgl32.Vec3{0, wc.eyeHeight, 0},
		mgl32.Vec3{0, wc.eyeHeight, -1},
		mgl32.Vec3{0, 1, 0},
	)
	return eye.
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(float32(s.WorldRotationY)))).
		Mul4(mgl32.Translate3D(0, 0, float32(s.WorldZ)))
}
