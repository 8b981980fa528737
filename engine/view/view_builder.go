package view

// ViewStateBuilderOption is a functional option for configuring a ViewState.
type ViewStateBuilderOption func(*viewState)

// WithRotationBounds sets the pitch bounds in degrees. Bounds that are not ordered are ignored.
//
// Parameters:
//   - min, max: the pitch bounds
//
// Returns:
//   - ViewStateBuilderOption: option function to apply
func WithRotationBounds(min, max float32) ViewStateBuilderOption {
	return func(v *viewState) {
		if min > max {
			return
		}
		v.minRotationX = min
		v.maxRotationX = max
	}
}

// WithRotation sets the initial pitch and yaw in degrees. The pitch is clamped once all options are applied.
//
// Parameters:
//   - x: the pitch
//   - y: the yaw
//
// Returns:
//   - ViewStateBuilderOption: option function to apply
func WithRotation(x, y float32) ViewStateBuilderOption {
	return func(v *viewState) {
		v.rotationX = x
		v.SetRotationY(y)
	}
}

// WithSceneDistance sets the initial camera distance. Non-positive values keep the default.
//
// Parameters:
//   - d: the distance
//
// Returns:
//   - ViewStateBuilderOption: option function to apply
func WithSceneDistance(d float32) ViewStateBuilderOption {
	return func(v *viewState) {
		v.SetSceneDistance(d)
	}
}

// WithArrowScale sets the initial projectile scale.
//
// Parameters:
//   - s: the scale, clamped to 0 if negative
//
// Returns:
//   - ViewStateBuilderOption: option function to apply
func WithArrowScale(s float32) ViewStateBuilderOption {
	return func(v *viewState) {
		v.SetArrowScale(s)
	}
}
