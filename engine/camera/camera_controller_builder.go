package camera

// CameraControllerOption is a functional option for configuring the walk controller.
type CameraControllerOption func(*walkController)

// WithEyeHeight sets the eye height above the ground used while the animation drives the camera.
//
// Parameters:
//   - height: eye height in world units
//
// Returns:
//   - CameraControllerOption: functional option to set the eye height
func WithEyeHeight(height float32) CameraControllerOption {
	return func(wc *walkController) {
		wc.eyeHeight = height
	}
}
