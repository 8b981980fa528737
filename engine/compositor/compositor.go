// Package compositor draws one frame of the siege scene.
package compositor

import (
	"errors"

	"github.com/Carmen-Shannon/siege/engine/camera"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/loader"
	"github.com/Carmen-Shannon/siege/engine/overlay"
	"github.com/Carmen-Shannon/siege/engine/sequencer"
	"github.com/Carmen-Shannon/siege/engine/texture"
	"github.com/Carmen-Shannon/siege/engine/view"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene layout in world units.
const (
	FloorHalfSize = 50
	FloorTiling   = 8

	PathHalfWidth = 5
	PathNearZ     = 50
	PathFarZ      = 20
	PathLift      = 0.1

	WallX         = 50
	WallThickness = 0.2
	WallHeight    = 40
	WallLength    = 100

	BallistaX     = -40
	BallistaY     = 0.5
	BallistaZ     = 40
	BallistaScale = 0.3

	CastleZ = -30

	ArrowCount   = 11
	ArrowBaseX   = 10
	ArrowSpacing = 2
	ArrowTilt    = 30
)

// Mesh labels of the built-in geometry.
const (
	FloorLabel     = "floor"
	PathLabel      = "path"
	LeftWallLabel  = "left_wall"
	RightWallLabel = "right_wall"
)

// LightDirections are the model-space directions towards the two lights, positioned after the view transform.
var LightDirections = [gfx.MaxLights]mgl32.Vec3{
	{0, 1, 1},
	{-1, 0.5, -0.5},
}

type frameCompositor struct {
	camera   camera.Camera
	view     view.ViewState
	state    func() sequencer.State
	registry texture.Registry
	overlay  overlay.Overlay

	castle   loader.Scene
	ballista loader.Scene
	arrow    loader.Scene

	clearColor mgl32.Vec4

	floor     *gfx.Mesh
	path      *gfx.Mesh
	leftWall  *gfx.Mesh
	rightWall *gfx.Mesh
}

// FrameCompositor performs the ordered draw pass of one frame.
// Missing collaborators are skipped, so a partially configured compositor still draws.
type FrameCompositor interface {
	// Draw clears the frame, draws the ground, walls, castle, ballista or arrow volley and the
	// text overlay, then flushes. Every matrix push made by the pass is popped before it returns
	// and ModelView is left selected.
	//
	// Parameters:
	//   - ctx: the rendering context
	//
	// Returns:
	//   - error: the first error met by a sub-draw or the device; the frame is still flushed
	Draw(ctx gfx.Context) error
}

var _ FrameCompositor = &frameCompositor{}

// NewFrameCompositor creates a compositor.
//
// Parameters:
//   - options: functional options supplying the collaborators
//
// Returns:
//   - FrameCompositor: the compositor
func NewFrameCompositor(options ...FrameCompositorBuilderOption) FrameCompositor {
	c := &frameCompositor{
		state:      func() sequencer.State { return sequencer.State{} },
		clearColor: mgl32.Vec4{0, 0, 0, 1},
		floor:      gfx.NewGroundQuad(FloorLabel, FloorHalfSize, FloorHalfSize),
		path:       gfx.NewGroundQuad(PathLabel, PathHalfWidth, (PathNearZ-PathFarZ)/2.0),
		leftWall:   gfx.NewCuboid(LeftWallLabel),
		rightWall:  gfx.NewCuboid(RightWallLabel),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *frameCompositor) Draw(ctx gfx.Context) error {
	if err := ctx.Clear(c.clearColor[0], c.clearColor[1], c.clearColor[2], c.clearColor[3]); err != nil {
		return err
	}

	state := c.state()
	if c.camera != nil {
		c.camera.ApplyProjection(ctx)
	}
	ctx.MatrixMode(gfx.ModeModelView)

	err := gfx.Scope(ctx, func() error {
		if c.camera != nil {
			c.camera.ApplyView(ctx, state.Animating())
		}
		c.placeLights(ctx)

		if err := c.drawFloor(ctx); err != nil {
			return err
		}
		if err := c.drawPath(ctx); err != nil {
			return err
		}
		if err := c.drawWalls(ctx); err != nil {
			return err
		}
		if err := c.drawCastle(ctx); err != nil {
			return err
		}

		switch {
		case state.Phase == sequencer.PhaseIdle:
			if err := c.drawBallista(ctx); err != nil {
				return err
			}
		case state.WorldRotationY == 0:
			if err := c.drawVolley(ctx, state); err != nil {
				return err
			}
		}

		if c.overlay != nil {
			return c.overlay.Draw(ctx)
		}
		return nil
	})

	ctx.MatrixMode(gfx.ModeModelView)
	return errors.Join(err, ctx.Flush())
}

// placeLights positions both lights in the current (view) space.
func (c *frameCompositor) placeLights(ctx gfx.Context) {
	for i, dir := range LightDirections {
		enabled := true
		if c.view != nil {
			enabled = c.view.LightEnabled(i)
		}
		ctx.SetLight(i, enabled, dir)
	}
}

func (c *frameCompositor) bind(ctx gfx.Context, id texture.ID) {
	var h gfx.TextureHandle
	if c.registry != nil {
		h = c.registry.Handle(id)
	}
	ctx.BindTexture(h)
}

// drawFloor draws the grass quad tiled through the texture matrix. The texture matrix is identity
// and ModelView is selected when it returns.
func (c *frameCompositor) drawFloor(ctx gfx.Context) error {
	return gfx.Scope(ctx, func() error {
		c.bind(ctx, texture.Grass)
		err := gfx.ScopeMode(ctx, gfx.ModeTexture, func() error {
			ctx.LoadIdentity()
			ctx.Scale(FloorTiling, FloorTiling, 1)
			ctx.DrawMesh(c.floor)
			return nil
		})
		ctx.MatrixMode(gfx.ModeModelView)
		return err
	})
}

func (c *frameCompositor) drawPath(ctx gfx.Context) error {
	return gfx.Scope(ctx, func() error {
		ctx.Translate(0, PathLift, (PathNearZ+PathFarZ)/2.0)
		c.bind(ctx, texture.PavedMud)
		ctx.DrawMesh(c.path)
		return nil
	})
}

// drawWalls draws the two slabs. The left one swings about its base by the wall angle; the right
// one slides along X by the wall offset.
func (c *frameCompositor) drawWalls(ctx gfx.Context) error {
	var angle, offset float32
	if c.view != nil {
		angle = c.view.LeftWallAngle()
		offset = c.view.RightWallOffset()
	}
	c.bind(ctx, texture.CastleWalls)

	err := gfx.Scope(ctx, func() error {
		ctx.Translate(-WallX, 0, 0)
		ctx.Rotate(angle, 0, 1, 0)
		ctx.Scale(WallThickness, WallHeight, WallLength)
		ctx.Translate(-0.5, 0.5, 0)
		ctx.DrawMesh(c.leftWall)
		return nil
	})
	if err != nil {
		return err
	}
	return gfx.Scope(ctx, func() error {
		ctx.Translate(WallX+offset, 0, 0)
		ctx.Scale(WallThickness, WallHeight, WallLength)
		ctx.Translate(0.5, 0.5, 0)
		ctx.DrawMesh(c.rightWall)
		return nil
	})
}

func (c *frameCompositor) drawCastle(ctx gfx.Context) error {
	if c.castle == nil {
		return nil
	}
	return gfx.Scope(ctx, func() error {
		ctx.Translate(0, 0, CastleZ)
		c.castle.Draw(ctx)
		return nil
	})
}

func (c *frameCompositor) drawBallista(ctx gfx.Context) error {
	if c.ballista == nil {
		return nil
	}
	return gfx.Scope(ctx, func() error {
		ctx.Translate(BallistaX, BallistaY, BallistaZ)
		ctx.Rotate(180, 0, 1, 0)
		ctx.Scale(BallistaScale, BallistaScale, BallistaScale)
		c.ballista.Draw(ctx)
		return nil
	})
}

// drawVolley draws the arrow mesh ArrowCount times in a row along X at the sequencer's arrow height and depth.
func (c *frameCompositor) drawVolley(ctx gfx.Context, state sequencer.State) error {
	if c.arrow == nil {
		return nil
	}
	scale := float32(1)
	if c.view != nil {
		scale = c.view.ArrowScale()
	}
	for i := 0; i < ArrowCount; i++ {
		x := float32(ArrowBaseX - ArrowSpacing*i)
		err := gfx.Scope(ctx, func() error {
			ctx.Translate(x, state.ArrowY, float32(state.ArrowZ))
			ctx.Rotate(ArrowTilt, 1, 0, 0)
			ctx.Scale(scale, scale, scale)
			c.arrow.Draw(ctx)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
