// Package overlay draws the fixed key help text in the right half of the viewport.
package overlay

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/Carmen-Shannon/siege/engine/texture"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MeshLabel is the label of the quad every text line is drawn with.
const MeshLabel = "overlay_line"

// DefaultLines is the help text shown by default.
var DefaultLines = []string{
	"Arrows / drag: rotate view",
	"+ / - / wheel: zoom",
	"[ ]: rotate left wall   , .: slide right wall",
	"9 0: arrow scale   1 2: lights",
	"F: fire ballista",
}

type line struct {
	text    string
	handle  gfx.TextureHandle
	aspect  float32
	staging common.TextureStagingData
}

type overlay struct {
	lines    []line
	rows     float32
	margin   float32
	fontSize float64
	quad     *gfx.Mesh
}

// Overlay renders a fixed list of text lines. Each line is rasterized once into its own
// texture and drawn as a quad one unit tall in an orthographic space rows units high.
type Overlay interface {
	// Initialize rasterizes and uploads every line.
	//
	// Parameters:
	//   - ctx: the rendering context used for upload
	//
	// Returns:
	//   - error: error if the font could not be loaded or a texture could not be created
	Initialize(ctx gfx.Context) error

	// Draw renders the lines into the right half of the current viewport. The viewport,
	// the projection matrix and the model-view matrix are restored before returning, and
	// model-view is left selected.
	//
	// Parameters:
	//   - ctx: the rendering context
	//
	// Returns:
	//   - error: error from the transform scopes
	Draw(ctx gfx.Context) error

	// Lines returns the displayed text.
	//
	// Returns:
	//   - []string: the lines in display order
	Lines() []string

	// Dispose releases the line textures.
	//
	// Parameters:
	//   - ctx: the rendering context that owns the textures
	Dispose(ctx gfx.Context)
}

var _ Overlay = &overlay{}

// NewOverlay creates an Overlay showing DefaultLines.
//
// Parameters:
//   - options: functional options for overlay configuration
//
// Returns:
//   - Overlay: the new overlay
func NewOverlay(options ...OverlayBuilderOption) Overlay {
	o := &overlay{
		rows:     20,
		margin:   0.5,
		fontSize: 32,
		quad:     gfx.NewScreenQuad(MeshLabel, 1, 1),
	}
	for _, text := range DefaultLines {
		o.lines = append(o.lines, line{text: text})
	}
	for _, opt := range options {
		opt(o)
	}
	if fit := float32(len(o.lines)) + 2*o.margin; o.rows < fit {
		o.rows = fit
	}
	return o
}

func (o *overlay) Lines() []string {
	out := make([]string, len(o.lines))
	for i, l := range o.lines {
		out[i] = l.text
	}
	return out
}

func (o *overlay) Initialize(ctx gfx.Context) error {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse overlay font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    o.fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("create overlay font face: %w", err)
	}
	defer face.Close()

	for i := range o.lines {
		o.lines[i].staging = rasterize(face, o.lines[i].text, fmt.Sprintf("overlay line %d", i))
		h, upErr := ctx.UploadTexture(o.lines[i].staging, common.ClampedSampler())
		if upErr != nil {
			o.Dispose(ctx)
			return fmt.Errorf("upload overlay line %d: %w", i, upErr)
		}
		o.lines[i].handle = h
		o.lines[i].aspect = float32(o.lines[i].staging.Width) / float32(o.lines[i].staging.Height)
	}
	return nil
}

// rasterize draws white text on a transparent background sized to the string's advance and the face's line height.
func rasterize(face font.Face, text, label string) common.TextureStagingData {
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	width := font.MeasureString(face, text).Ceil()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(text)

	return texture.FromImage(label, img)
}

func (o *overlay) Draw(ctx gfx.Context) error {
	vp := ctx.CurrentViewport()
	half := vp.Width / 2
	right := gfx.Rect{X: vp.X + half, Y: vp.Y, Width: vp.Width - half, Height: vp.Height}
	if right.Width <= 0 || right.Height <= 0 {
		return nil
	}
	cols := o.rows * float32(right.Width) / float32(right.Height)
	defer ctx.MatrixMode(gfx.ModeModelView)

	return gfx.ViewportScope(ctx, right, func() error {
		return gfx.ScopeMode(ctx, gfx.ModeProjection, func() error {
			ctx.LoadIdentity()
			ctx.Ortho(0, cols, 0, o.rows, -1, 1)
			return gfx.ScopeMode(ctx, gfx.ModeModelView, func() error {
				return gfx.StateScope(ctx, func() error {
					ctx.LoadIdentity()
					ctx.SetDepthTest(false)
					ctx.SetLighting(false)
					ctx.SetColor(1, 1, 1, 1)

					for i, l := range o.lines {
						if l.handle == 0 {
							continue
						}
						y := o.rows - o.margin - float32(i+1)
						if err := gfx.Scope(ctx, func() error {
							ctx.Translate(o.margin, y, 0)
							ctx.Scale(l.aspect, 1, 1)
							ctx.BindTexture(l.handle)
							ctx.DrawMesh(o.quad)
							return nil
						}); err != nil {
							return err
						}
					}
					return nil
				})
			})
		})
	})
}

func (o *overlay) Dispose(ctx gfx.Context) {
	for i := range o.lines {
		if o.lines[i].handle != 0 {
			ctx.ReleaseTexture(o.lines[i].handle)
			o.lines[i].handle = 0
		}
	}
}
