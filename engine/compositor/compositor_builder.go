package compositor

import (
	"github.com/Carmen-Shannon/siege/engine/camera"
	"github.com/Carmen-Shannon/siege/engine/loader"
	"github.com/Carmen-Shannon/siege/engine/overlay"
	"github.com/Carmen-Shannon/siege/engine/sequencer"
	"github.com/Carmen-Shannon/siege/engine/texture"
	"github.com/Carmen-Shannon/siege/engine/view"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameCompositorBuilderOption is a functional option for configuring a FrameCompositor.
type FrameCompositorBuilderOption func(*frameCompositor)

// WithCamera sets the camera supplying the projection and both view modes.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - FrameCompositorBuilderOption: option function to apply
func WithCamera(c camera.Camera) FrameCompositorBuilderOption {
	return func(fc *frameCompositor) {
		fc.camera = c
	}
}

// WithViewState sets the user parameters read every frame.
//
// Parameters:
//   - v: the view state
//
// Returns:
//   - FrameCompositorBuilderOption: option function to apply
func WithViewState(v view.ViewState) FrameCompositorBuilderOption {
	return func(fc *frameCompositor) {
		fc.view = v
	}
}

// WithSequencerState sets the function returning the current animation state.
//
// Parameters:
//   - source: returns the sequencer state; nil keeps the default of an idle state
//
// Returns:
//   - FrameCompositorBuilderOption: option function to apply
func WithSequencerState(source func() sequencer.State) FrameCompositorBuilderOption {
	return func(fc *frameCompositor) {
		if source != nil {
			fc.state = source
		}
	}
}

// WithRegistry sets the texture registry.
//
// Parameters:
//   - r: the registry
//
// Returns:
//   - FrameCompositorBuilderOption: option function to apply
func WithRegistry(r texture.Registry) FrameCompositorBuilderOption {
	return func(fc *frameCompositor) {
		fc.registry = r
	}
}

// WithOverlay sets the text overlay drawn last.
//
// Parameters:
//   - o: the overlay
//
// Returns:
//   - FrameCompositorBuilderOption: option function to apply
func WithOverlay(o overlay.Overlay) FrameCompositorBuilderOption {
	return func(fc *frameCompositor) {
		fc.overlay = o
	}
}

// WithScenes sets the imported castle, ballista and arrow meshes. Nil scenes are not drawn.
//
// Parameters:
//   - castle: the castle scene
//   - ballista: the ballista scene, drawn while idle
//   - arrow: the arrow scene, drawn once per volley slot
//
// Returns:
//   - FrameCompositorBuilderOption: option function to apply
func WithScenes(castle, ballista, arrow loader.Scene) FrameCompositorBuilderOption {
	return func(fc *frameCompositor) {
		fc.castle = castle
		fc.ballista = ballista
		fc.arrow = arrow
	}
}

// WithClearColor sets the background color. The default is opaque black.
//
// Parameters:
//   - r, g, b, a: the color components in [0, 1]
//
// Returns:
//   - FrameCompositorBuilderOption: option function to apply
func WithClearColor(r, g, b, a float32) FrameCompositorBuilderOption {
	return func(fc *frameCompositor) {
		fc.clearColor = mgl32.Vec4{r, g, b, a}
	}
}
