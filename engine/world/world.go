// Package world owns the scene: textures, imported meshes, view parameters, camera, animation and
// the frame compositor.
package world

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/siege/engine/camera"
	"github.com/Carmen-Shannon/siege/engine/compositor"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/loader"
	"github.com/Carmen-Shannon/siege/engine/overlay"
	"github.com/Carmen-Shannon/siege/engine/sequencer"
	"github.com/Carmen-Shannon/siege/engine/texture"
	"github.com/Carmen-Shannon/siege/engine/view"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneID names an imported mesh.
type SceneID int

const (
	Castle SceneID = iota
	Ballista
	Arrow
	sceneCount
)

func (id SceneID) String() string {
	switch id {
	case Castle:
		return "Castle"
	case Ballista:
		return "Ballista"
	case Arrow:
		return "Arrow"
	default:
		return fmt.Sprintf("SceneID(%d)", int(id))
	}
}

// DefaultSceneFiles are the model file names loaded from the model directory.
var DefaultSceneFiles = [sceneCount]string{
	Castle:   "castle.glb",
	Ballista: "ballista.glb",
	Arrow:    "arrow.glb",
}

// viewParams lets world promote the ViewState setters while still exposing ViewState().
type viewParams = view.ViewState

type world struct {
	viewParams

	ctx gfx.Context

	textureDir string
	modelDir   string
	sceneFiles [sceneCount]string

	source   texture.Source
	registry texture.Registry
	loader   loader.Loader
	scenes   [sceneCount]loader.Scene
	overlay  overlay.Overlay

	camera     camera.Camera
	eyeHeight  float32
	sequencer  sequencer.Sequencer
	sink       sequencer.UIEnableSink
	timer      sequencer.Timer
	compositor compositor.FrameCompositor

	clearColor    *mgl32.Vec4
	phaseObserver func(from, to sequencer.Phase)

	width, height int
	disposed      bool
}

// World is the siege scene. All methods must be called from the thread that owns the context.
// The ViewState setters are promoted so input can be applied to the world directly.
type World interface {
	view.ViewState

	// Draw renders one frame.
	//
	// Returns:
	//   - error: error from the device or a sub-draw
	Draw() error

	// Resize sets the viewport to the full surface, recomputes the perspective projection for
	// the new aspect and resets ModelView to identity. Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width, height: the surface size in pixels
	Resize(width, height int)

	// Tick advances the animation.
	//
	// Parameters:
	//   - n: the number of elapsed tick periods
	Tick(n int)

	// StartAnimation starts the approach-rotate-fire sequence.
	//
	// Returns:
	//   - bool: false if the sequence was already running
	StartAnimation() bool

	// ViewState returns the user parameters.
	ViewState() view.ViewState

	// SequencerState returns a snapshot of the animation.
	SequencerState() sequencer.State

	// Camera returns the camera.
	Camera() camera.Camera

	// Dispose releases textures owned by the world. The context itself is not released.
	Dispose()
}

var _ World = &world{}

// NewWorld loads every resource the scene needs and returns a ready world. Any failure releases
// what was already created and is returned as a single error wrapping texture.ErrDecode or
// loader.ErrImport.
//
// Parameters:
//   - ctx: the rendering context used for uploads and drawing
//   - width, height: the initial surface size
//   - options: functional options for the world
//
// Returns:
//   - World: the world
//   - error: error if any texture, mesh or overlay could not be created
func NewWorld(ctx gfx.Context, width, height int, options ...WorldBuilderOption) (World, error) {
	w := &world{
		ctx:        ctx,
		textureDir: "assets/textures",
		modelDir:   "assets/models",
		sceneFiles: DefaultSceneFiles,
		source:     texture.FileSource{},
	}
	for _, option := range options {
		option(w)
	}

	if w.viewParams == nil {
		w.viewParams = view.NewViewState()
	}
	if w.registry == nil {
		w.registry = texture.NewRegistry(w.textureDir)
	}
	if w.loader == nil {
		w.loader = loader.NewLoader(loader.BackendTypeGLTF, loader.WithTextureSource(w.source))
	}
	if w.overlay == nil {
		w.overlay = overlay.NewOverlay()
	}

	w.sequencer = sequencer.NewSequencer(w.sink, w.timer, sequencer.WithPhaseObserver(func(from, to sequencer.Phase) {
		log.Printf("[World] phase %s -> %s", from, to)
		if w.phaseObserver != nil {
			w.phaseObserver(from, to)
		}
	}))

	var walkOptions []camera.CameraControllerOption
	if w.eyeHeight > 0 {
		walkOptions = append(walkOptions, camera.WithEyeHeight(w.eyeHeight))
	}
	w.camera = camera.NewCamera(
		camera.WithOrbitController(camera.NewOrbitController(w.viewParams)),
		camera.WithWalkController(camera.NewWalkController(w.sequencer.State, walkOptions...)),
	)

	if err := w.load(); err != nil {
		w.release()
		return nil, err
	}

	compositorOptions := []compositor.FrameCompositorBuilderOption{
		compositor.WithCamera(w.camera),
		compositor.WithViewState(w.viewParams),
		compositor.WithSequencerState(w.sequencer.State),
		compositor.WithRegistry(w.registry),
		compositor.WithScenes(w.scenes[Castle], w.scenes[Ballista], w.scenes[Arrow]),
		compositor.WithOverlay(w.overlay),
	}
	if c := w.clearColor; c != nil {
		compositorOptions = append(compositorOptions, compositor.WithClearColor(c[0], c[1], c[2], c[3]))
	}
	w.compositor = compositor.NewFrameCompositor(compositorOptions...)

	w.Resize(width, height)
	log.Printf("[World] ready: %d textures, %d scenes", texture.Count, sceneCount)
	return w, nil
}

// load initializes textures, scenes and the overlay in that order.
func (w *world) load() error {
	if err := w.registry.Initialize(w.ctx, w.source); err != nil {
		return fmt.Errorf("world: %w", err)
	}

	for id := SceneID(0); id < sceneCount; id++ {
		s, err := w.loader.Load(w.modelDir, w.sceneFiles[id])
		if err != nil {
			return fmt.Errorf("world: %s scene: %w", id, err)
		}
		if err := s.Initialize(w.ctx); err != nil {
			return fmt.Errorf("world: %s scene: %w", id, err)
		}
		w.scenes[id] = s
	}

	if err := w.overlay.Initialize(w.ctx); err != nil {
		return fmt.Errorf("world: overlay: %w", err)
	}
	return nil
}

// release frees whatever load managed to create.
func (w *world) release() {
	w.overlay.Dispose(w.ctx)
	for id, s := range w.scenes {
		if s != nil {
			s.Dispose(w.ctx)
			w.scenes[id] = nil
		}
	}
	w.registry.Release(w.ctx)
}

func (w *world) Draw() error {
	if w.disposed {
		return errors.New("world: draw after dispose")
	}
	return w.compositor.Draw(w.ctx)
}

func (w *world) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		log.Printf("[World] ignoring resize to %dx%d", width, height)
		return
	}
	w.width, w.height = width, height

	w.ctx.Viewport(0, 0, width, height)
	w.camera.SetViewportSize(width, height)
	w.camera.ApplyProjection(w.ctx)
	w.ctx.MatrixMode(gfx.ModeModelView)
	w.ctx.LoadIdentity()
}

func (w *world) Tick(n int) {
	w.sequencer.Step(n)
}

func (w *world) StartAnimation() bool {
	return w.sequencer.Start()
}

func (w *world) ViewState() view.ViewState {
	return w.viewParams
}

func (w *world) SequencerState() sequencer.State {
	return w.sequencer.State()
}

func (w *world) Camera() camera.Camera {
	return w.camera
}

func (w *world) Dispose() {
	if w.disposed {
		return
	}
	w.sequencer.Abort()
	w.release()
	w.disposed = true
}
