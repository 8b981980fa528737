package world

import (
	"github.com/Carmen-Shannon/siege/engine/loader"
	"github.com/Carmen-Shannon/siege/engine/overlay"
	"github.com/Carmen-Shannon/siege/engine/sequencer"
	"github.com/Carmen-Shannon/siege/engine/texture"
	"github.com/Carmen-Shannon/siege/engine/view"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldBuilderOption is a functional option for configuring a World.
type WorldBuilderOption func(*world)

// WithAssetDirs sets the directories textures and models are loaded from.
//
// Parameters:
//   - textureDir: directory holding the texture images
//   - modelDir: directory holding the glTF models
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithAssetDirs(textureDir, modelDir string) WorldBuilderOption {
	return func(w *world) {
		w.textureDir = textureDir
		w.modelDir = modelDir
	}
}

// WithSceneFile overrides the model file of one scene.
//
// Parameters:
//   - id: the scene
//   - file: the file name inside the model directory
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithSceneFile(id SceneID, file string) WorldBuilderOption {
	return func(w *world) {
		if id >= 0 && id < sceneCount && file != "" {
			w.sceneFiles[id] = file
		}
	}
}

// WithTextureSource sets the decoder for texture files and externally referenced model images.
//
// Parameters:
//   - src: the texture source
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithTextureSource(src texture.Source) WorldBuilderOption {
	return func(w *world) {
		if src != nil {
			w.source = src
		}
	}
}

// WithRegistry replaces the texture registry, e.g. to override file names.
//
// Parameters:
//   - r: the registry, not yet initialized
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithRegistry(r texture.Registry) WorldBuilderOption {
	return func(w *world) {
		w.registry = r
	}
}

// WithLoader replaces the model loader.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithLoader(l loader.Loader) WorldBuilderOption {
	return func(w *world) {
		w.loader = l
	}
}

// WithOverlay replaces the text overlay.
//
// Parameters:
//   - o: the overlay, not yet initialized
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithOverlay(o overlay.Overlay) WorldBuilderOption {
	return func(w *world) {
		w.overlay = o
	}
}

// WithViewState sets the user parameters, letting input handlers be created before the world.
//
// Parameters:
//   - v: the view state
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithViewState(v view.ViewState) WorldBuilderOption {
	return func(w *world) {
		w.viewParams = v
	}
}

// WithUIEnableSink sets the receiver of control enable/disable requests during the animation.
//
// Parameters:
//   - sink: the control surface
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithUIEnableSink(sink sequencer.UIEnableSink) WorldBuilderOption {
	return func(w *world) {
		w.sink = sink
	}
}

// WithTimer sets the tick source armed while the animation runs.
//
// Parameters:
//   - t: the timer
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithTimer(t sequencer.Timer) WorldBuilderOption {
	return func(w *world) {
		w.timer = t
	}
}

// WithEyeHeight sets the camera height used while the animation drives the camera.
//
// Parameters:
//   - height: eye height in world units
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithEyeHeight(height float32) WorldBuilderOption {
	return func(w *world) {
		w.eyeHeight = height
	}
}

// WithClearColor sets the background color of every frame.
//
// Parameters:
//   - r, g, b, a: the color components in [0, 1]
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithClearColor(r, g, b, a float32) WorldBuilderOption {
	return func(w *world) {
		w.clearColor = &mgl32.Vec4{r, g, b, a}
	}
}

// WithPhaseObserver registers a callback invoked after the world logs each animation phase change.
//
// Parameters:
//   - fn: function receiving the previous and the new phase
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithPhaseObserver(fn func(from, to sequencer.Phase)) WorldBuilderOption {
	return func(w *world) {
		w.phaseObserver = fn
	}
}
