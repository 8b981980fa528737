// Package view holds the user-controlled scene parameters. Every setter applies its own
// validation rule before storing, so readers never observe out-of-range values.
package view

import (
	"github.com/chewxy/math32"
)

const (
	// DefaultMinRotationX is the lowest allowed camera pitch in degrees.
	DefaultMinRotationX float32 = 4
	// DefaultMaxRotationX is the highest allowed camera pitch in degrees.
	DefaultMaxRotationX float32 = 60
)

type viewState struct {
	rotationX       float32
	rotationY       float32
	sceneDistance   float32
	leftWallAngle   float32
	rightWallOffset float32
	arrowScale      float32
	lights          [2]bool

	minRotationX float32
	maxRotationX float32
}

// ViewState is the set of user-adjustable view parameters read once per frame.
type ViewState interface {
	// RotationX returns the camera pitch in degrees, always within the configured bounds.
	RotationX() float32

	// RotationY returns the camera yaw in degrees.
	RotationY() float32

	// SceneDistance returns the camera distance, always positive.
	SceneDistance() float32

	// LeftWallAngle returns the left wall rotation in degrees.
	LeftWallAngle() float32

	// RightWallOffset returns the right wall translation along X.
	RightWallOffset() float32

	// ArrowScale returns the projectile scale, never negative.
	ArrowScale() float32

	// LightEnabled reports whether a light is switched on.
	//
	// Parameters:
	//   - index: 0 or 1
	//
	// Returns:
	//   - bool: the light state, false for other indices
	LightEnabled(index int) bool

	// SetRotationX clamps v into the pitch bounds and stores it.
	SetRotationX(v float32)

	// AddRotationX is SetRotationX(RotationX() + d).
	AddRotationX(d float32)

	// SetRotationY stores v unclamped.
	SetRotationY(v float32)

	// AddRotationY is SetRotationY(RotationY() + d).
	AddRotationY(d float32)

	// SetSceneDistance stores v when it is positive and ignores it otherwise.
	//
	// Returns:
	//   - bool: true if the value was stored
	SetSceneDistance(v float32) bool

	// AddSceneDistance is SetSceneDistance(SceneDistance() + d).
	//
	// Returns:
	//   - bool: true if the value was stored
	AddSceneDistance(d float32) bool

	// SetLeftWallAngle stores v.
	SetLeftWallAngle(v float32)

	// SetRightWallOffset stores v.
	SetRightWallOffset(v float32)

	// SetArrowScale stores v, clamping negative values to 0.
	SetArrowScale(v float32)

	// SetLightEnabled switches a light. Indices other than 0 and 1 are ignored.
	SetLightEnabled(index int, enabled bool)
}

var _ ViewState = &viewState{}

// NewViewState creates a ViewState with distance 150, pitch 10, yaw 0, walls at rest,
// arrow scale 1 and both lights on. Options are applied through their setters so every
// initial value obeys the same rules as later input.
//
// Parameters:
//   - options: functional options for initial values and pitch bounds
//
// Returns:
//   - ViewState: the new view state
func NewViewState(options ...ViewStateBuilderOption) ViewState {
	v := &viewState{
		rotationX:     10,
		sceneDistance: 150,
		arrowScale:    1,
		lights:        [2]bool{true, true},
		minRotationX:  DefaultMinRotationX,
		maxRotationX:  DefaultMaxRotationX,
	}
	for _, opt := range options {
		opt(v)
	}
	v.SetRotationX(v.rotationX)
	return v
}

func (v *viewState) RotationX() float32       { return v.rotationX }
func (v *viewState) RotationY() float32       { return v.rotationY }
func (v *viewState) SceneDistance() float32   { return v.sceneDistance }
func (v *viewState) LeftWallAngle() float32   { return v.leftWallAngle }
func (v *viewState) RightWallOffset() float32 { return v.rightWallOffset }
func (v *viewState) ArrowScale() float32      { return v.arrowScale }

func (v *viewState) LightEnabled(index int) bool {
	if index < 0 || index >= len(v.lights) {
		return false
	}
	return v.lights[index]
}

func (v *viewState) SetRotationX(r float32) {
	if math32.IsNaN(r) {
		return
	}
	v.rotationX = math32.Max(v.minRotationX, math32.Min(v.maxRotationX, r))
}

func (v *viewState) AddRotationX(d float32) {
	v.SetRotationX(v.rotationX + d)
}

func (v *viewState) SetRotationY(r float32) {
	if math32.IsNaN(r) || math32.IsInf(r, 0) {
		return
	}
	v.rotationY = r
}

func (v *viewState) AddRotationY(d float32) {
	v.SetRotationY(v.rotationY + d)
}

func (v *viewState) SetSceneDistance(d float32) bool {
	if !(d > 0) || math32.IsInf(d, 1) {
		return false
	}
	v.sceneDistance = d
	return true
}

func (v *viewState) AddSceneDistance(d float32) bool {
	return v.SetSceneDistance(v.sceneDistance + d)
}

func (v *viewState) SetLeftWallAngle(a float32) {
	v.leftWallAngle = a
}

func (v *viewState) SetRightWallOffset(o float32) {
	v.rightWallOffset = o
}

func (v *viewState) SetArrowScale(s float32) {
	if math32.IsNaN(s) {
		return
	}
	v.arrowScale = math32.Max(0, s)
}

func (v *viewState) SetLightEnabled(index int, enabled bool) {
	if index < 0 || index >= len(v.lights) {
		return
	}
	v.lights[index] = enabled
}
