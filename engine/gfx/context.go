package gfx

import (
	"fmt"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl32/matstack"
)

// MatrixMode selects which matrix stack subsequent matrix operations apply to.
type MatrixMode int

const (
	// ModeModelView selects the model-view stack.
	ModeModelView MatrixMode = iota
	// ModeProjection selects the projection stack.
	ModeProjection
	// ModeTexture selects the texture coordinate stack.
	ModeTexture

	modeCount
)

func (m MatrixMode) String() string {
	switch m {
	case ModeModelView:
		return "ModelView"
	case ModeProjection:
		return "Projection"
	case ModeTexture:
		return "Texture"
	default:
		return fmt.Sprintf("MatrixMode(%d)", int(m))
	}
}

// Stats counts matrix stack and draw activity since the last ResetStats.
type Stats struct {
	Pushes   [modeCount]int
	Pops     [modeCount]int
	MaxDepth [modeCount]int
	Draws    int
	Frames   int
}

// Balanced reports whether every push was matched by a pop on every stack.
//
// Returns:
//   - bool: true if pushes equal pops for all matrix modes
func (s Stats) Balanced() bool {
	for i := range s.Pushes {
		if s.Pushes[i] != s.Pops[i] {
			return false
		}
	}
	return true
}

type renderContext struct {
	device Device

	stacks [modeCount]*matstack.MatStack
	mode   MatrixMode

	viewport   Rect
	texture    TextureHandle
	color      mgl32.Vec4
	lighting   bool
	lights     [MaxLights]Light
	depthTest  bool
	clearColor mgl32.Vec4

	inFrame bool
	stats   Stats
}

// Context is a fixed-function style rendering context.
// All operations are expected to be called from a single thread.
type Context interface {
	// MatrixMode selects the stack that subsequent matrix operations apply to.
	//
	// Parameters:
	//   - mode: the matrix stack to select
	MatrixMode(mode MatrixMode)

	// CurrentMode returns the selected matrix stack.
	//
	// Returns:
	//   - MatrixMode: the selected stack
	CurrentMode() MatrixMode

	// PushMatrix duplicates the top of the selected stack.
	PushMatrix()

	// PopMatrix discards the top of the selected stack.
	//
	// Returns:
	//   - error: ErrStackUnderflow if only the base matrix remains
	PopMatrix() error

	// Depth returns the number of pushed entries above the base matrix of a stack.
	//
	// Parameters:
	//   - mode: the stack to inspect
	//
	// Returns:
	//   - int: the push depth
	Depth(mode MatrixMode) int

	// LoadIdentity replaces the top of the selected stack with the identity matrix.
	LoadIdentity()

	// LoadMatrix replaces the top of the selected stack.
	//
	// Parameters:
	//   - m: the matrix to load
	LoadMatrix(m mgl32.Mat4)

	// MultMatrix right-multiplies the top of the selected stack.
	//
	// Parameters:
	//   - m: the matrix to multiply by
	MultMatrix(m mgl32.Mat4)

	// Translate right-multiplies the top of the selected stack by a translation.
	Translate(x, y, z float32)

	// Rotate right-multiplies the top of the selected stack by a rotation of angle degrees about the axis (x, y, z).
	Rotate(angle, x, y, z float32)

	// Scale right-multiplies the top of the selected stack by a scale.
	Scale(x, y, z float32)

	// Perspective right-multiplies the top of the selected stack by a perspective projection.
	//
	// Parameters:
	//   - fovY: vertical field of view in degrees
	//   - aspect: width / height
	//   - near, far: clip plane distances
	Perspective(fovY, aspect, near, far float32)

	// Ortho right-multiplies the top of the selected stack by an orthographic projection.
	Ortho(left, right, bottom, top, near, far float32)

	// Matrix returns the top of the given stack.
	//
	// Parameters:
	//   - mode: the stack to read
	//
	// Returns:
	//   - mgl32.Mat4: the current matrix
	Matrix(mode MatrixMode) mgl32.Mat4

	// Viewport sets the viewport rectangle for subsequent draws.
	Viewport(x, y, width, height int)

	// CurrentViewport returns the viewport rectangle.
	//
	// Returns:
	//   - Rect: the viewport
	CurrentViewport() Rect

	// BindTexture selects the texture used by subsequent draws. The zero handle draws untextured.
	//
	// Parameters:
	//   - h: the texture handle
	BindTexture(h TextureHandle)

	// BoundTexture returns the currently bound texture.
	//
	// Returns:
	//   - TextureHandle: the bound texture
	BoundTexture() TextureHandle

	// UploadTexture creates a texture on the device.
	//
	// Parameters:
	//   - staging: the pixel data
	//   - sampler: the sampler configuration
	//
	// Returns:
	//   - TextureHandle: the created texture
	//   - error: error if creation failed or the staging data is malformed
	UploadTexture(staging common.TextureStagingData, sampler common.SamplerStagingData) (TextureHandle, error)

	// ReleaseTexture frees a texture on the device. Releasing the bound texture unbinds it.
	//
	// Parameters:
	//   - h: the texture handle
	ReleaseTexture(h TextureHandle)

	// SetColor sets the base color multiplied into subsequent draws.
	SetColor(r, g, b, a float32)

	// Color returns the current base color.
	Color() mgl32.Vec4

	// SetLighting enables or disables lighting for subsequent draws.
	//
	// Parameters:
	//   - enabled: true to apply the directional lights
	SetLighting(enabled bool)

	// Lighting reports whether lighting is enabled.
	Lighting() bool

	// SetLight configures a directional light. The direction is transformed by the current
	// model-view matrix at call time and stored in eye space.
	//
	// Parameters:
	//   - index: the light slot, 0 to MaxLights-1; other values are ignored
	//   - enabled: whether the light contributes
	//   - dir: the direction towards the light in the current model space
	SetLight(index int, enabled bool, dir mgl32.Vec3)

	// Light returns the stored state of a light slot.
	//
	// Parameters:
	//   - index: the light slot
	//
	// Returns:
	//   - Light: the light state, or the zero Light for an invalid slot
	Light(index int) Light

	// SetDepthTest enables or disables depth testing for subsequent draws.
	//
	// Parameters:
	//   - enabled: true to depth test
	SetDepthTest(enabled bool)

	// DepthTest reports whether depth testing is enabled.
	DepthTest() bool

	// Clear begins a frame cleared to the given color with depth cleared.
	//
	// Returns:
	//   - error: error if the device could not begin a frame
	Clear(r, g, b, a float32) error

	// DrawMesh draws a mesh with the current matrices and state.
	//
	// Parameters:
	//   - m: the mesh to draw
	DrawMesh(m *Mesh)

	// Flush ends the frame and submits it to the device.
	//
	// Returns:
	//   - error: error if no frame is in progress or submission failed
	Flush() error

	// Stats returns the activity counters.
	//
	// Returns:
	//   - Stats: a copy of the counters
	Stats() Stats

	// ResetStats zeroes the activity counters.
	ResetStats()

	// Device returns the underlying device.
	//
	// Returns:
	//   - Device: the device
	Device() Device
}

var _ Context = &renderContext{}

// NewContext creates a Context over the given device. Every stack starts with an identity
// matrix, the selected mode is ModeModelView, depth testing and lighting are enabled and
// the base color is opaque white.
//
// Parameters:
//   - device: the device that receives draw commands
//   - options: functional options for context configuration
//
// Returns:
//   - Context: the new context
func NewContext(device Device, options ...ContextBuilderOption) Context {
	c := &renderContext{
		device:     device,
		mode:       ModeModelView,
		color:      mgl32.Vec4{1, 1, 1, 1},
		lighting:   true,
		depthTest:  true,
		clearColor: mgl32.Vec4{0, 0, 0, 1},
	}
	for i := range c.stacks {
		c.stacks[i] = matstack.NewMatStack()
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *renderContext) top() *matstack.MatStack {
	return c.stacks[c.mode]
}

func (c *renderContext) MatrixMode(mode MatrixMode) {
	if mode < 0 || mode >= modeCount {
		return
	}
	c.mode = mode
}

func (c *renderContext) CurrentMode() MatrixMode {
	return c.mode
}

func (c *renderContext) PushMatrix() {
	c.top().Push()
	c.stats.Pushes[c.mode]++
	if d := c.Depth(c.mode); d > c.stats.MaxDepth[c.mode] {
		c.stats.MaxDepth[c.mode] = d
	}
}

func (c *renderContext) PopMatrix() error {
	if err := c.top().Pop(); err != nil {
		return fmt.Errorf("%s: %w", c.mode, ErrStackUnderflow)
	}
	c.stats.Pops[c.mode]++
	return nil
}

func (c *renderContext) Depth(mode MatrixMode) int {
	if mode < 0 || mode >= modeCount {
		return 0
	}
	return len(*c.stacks[mode]) - 1
}

func (c *renderContext) LoadIdentity() {
	c.top().LoadIdent()
}

func (c *renderContext) LoadMatrix(m mgl32.Mat4) {
	c.top().Load(m)
}

func (c *renderContext) MultMatrix(m mgl32.Mat4) {
	c.top().RightMul(m)
}

func (c *renderContext) Translate(x, y, z float32) {
	c.MultMatrix(mgl32.Translate3D(x, y, z))
}

func (c *renderContext) Rotate(angle, x, y, z float32) {
	axis := mgl32.Vec3{x, y, z}
	if axis.Len() == 0 {
		return
	}
	c.MultMatrix(mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize()))
}

func (c *renderContext) Scale(x, y, z float32) {
	c.MultMatrix(mgl32.Scale3D(x, y, z))
}

func (c *renderContext) Perspective(fovY, aspect, near, far float32) {
	c.MultMatrix(mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far))
}

func (c *renderContext) Ortho(left, right, bottom, top, near, far float32) {
	c.MultMatrix(mgl32.Ortho(left, right, bottom, top, near, far))
}

func (c *renderContext) Matrix(mode MatrixMode) mgl32.Mat4 {
	if mode < 0 || mode >= modeCount {
		return mgl32.Ident4()
	}
	return c.stacks[mode].Peek()
}

func (c *renderContext) Viewport(x, y, width, height int) {
	c.viewport = Rect{X: x, Y: y, Width: width, Height: height}
}

func (c *renderContext) CurrentViewport() Rect {
	return c.viewport
}

func (c *renderContext) BindTexture(h TextureHandle) {
	c.texture = h
}

func (c *renderContext) BoundTexture() TextureHandle {
	return c.texture
}

func (c *renderContext) UploadTexture(staging common.TextureStagingData, sampler common.SamplerStagingData) (TextureHandle, error) {
	if !staging.Valid() {
		return 0, fmt.Errorf("texture %q: %d bytes do not match %dx%d RGBA", staging.Label, len(staging.Pixels), staging.Width, staging.Height)
	}
	return c.device.CreateTexture(staging, sampler)
}

func (c *renderContext) ReleaseTexture(h TextureHandle) {
	if h == 0 {
		return
	}
	if c.texture == h {
		c.texture = 0
	}
	c.device.ReleaseTexture(h)
}

func (c *renderContext) SetColor(r, g, b, a float32) {
	c.color = mgl32.Vec4{r, g, b, a}
}

func (c *renderContext) Color() mgl32.Vec4 {
	return c.color
}

func (c *renderContext) SetLighting(enabled bool) {
	c.lighting = enabled
}

func (c *renderContext) Lighting() bool {
	return c.lighting
}

func (c *renderContext) SetLight(index int, enabled bool, dir mgl32.Vec3) {
	if index < 0 || index >= MaxLights {
		return
	}
	eye := c.stacks[ModeModelView].Peek().Mul4x1(dir.Vec4(0)).Vec3()
	if l := math32.Sqrt(eye.Dot(eye)); l > 0 {
		eye = eye.Mul(1 / l)
	}
	c.lights[index] = Light{Enabled: enabled, Direction: eye}
}

func (c *renderContext) Light(index int) Light {
	if index < 0 || index >= MaxLights {
		return Light{}
	}
	return c.lights[index]
}

func (c *renderContext) SetDepthTest(enabled bool) {
	c.depthTest = enabled
}

func (c *renderContext) DepthTest() bool {
	return c.depthTest
}

func (c *renderContext) Clear(r, g, b, a float32) error {
	if c.inFrame {
		return fmt.Errorf("clear: previous frame was not flushed")
	}
	c.clearColor = mgl32.Vec4{r, g, b, a}
	if err := c.device.BeginFrame(c.clearColor); err != nil {
		return err
	}
	c.inFrame = true
	return nil
}

func (c *renderContext) DrawMesh(m *Mesh) {
	if !c.inFrame || m == nil || len(m.Indices) == 0 {
		return
	}
	c.device.Draw(DrawCommand{
		Mesh:          m,
		Projection:    c.stacks[ModeProjection].Peek(),
		ModelView:     c.stacks[ModeModelView].Peek(),
		Texture:       c.stacks[ModeTexture].Peek(),
		TextureHandle: c.texture,
		Color:         c.color,
		Lighting:      c.lighting,
		Lights:        c.lights,
		DepthTest:     c.depthTest,
		Viewport:      c.viewport,
	})
	c.stats.Draws++
}

func (c *renderContext) Flush() error {
	if !c.inFrame {
		return ErrNoFrame
	}
	c.inFrame = false
	c.stats.Frames++
	return c.device.EndFrame()
}

func (c *renderContext) Stats() Stats {
	return c.stats
}

func (c *renderContext) ResetStats() {
	c.stats = Stats{}
}

func (c *renderContext) Device() Device {
	return c.device
}
