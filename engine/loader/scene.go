package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

// Material is the CPU side of an imported material: a base color and an optional decoded texture.
type Material struct {
	Name      string
	BaseColor mgl32.Vec4
	Texture   *common.TextureStagingData

	handle gfx.TextureHandle
}

// Primitive is one drawable part of an imported scene. Vertices are already in scene space.
type Primitive struct {
	Mesh     *gfx.Mesh
	Material int // index into the scene materials, or -1
}

type importedScene struct {
	name       string
	primitives []Primitive
	materials  []*Material

	initialized bool
}

// Scene is an imported model. It is used in the order Initialize, Draw (any number of times),
// Dispose.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// Primitives returns the drawable parts.
	//
	// Returns:
	//   - []Primitive: the primitives in draw order
	Primitives() []Primitive

	// Initialize uploads material textures.
	//
	// Parameters:
	//   - ctx: the rendering context used for upload
	//
	// Returns:
	//   - error: error if a texture could not be created; textures created by this call are released
	Initialize(ctx gfx.Context) error

	// Draw draws every primitive with the current transform. The base color is reset to white afterwards.
	//
	// Parameters:
	//   - ctx: the rendering context
	Draw(ctx gfx.Context)

	// Dispose releases material textures.
	//
	// Parameters:
	//   - ctx: the rendering context that owns the textures
	Dispose(ctx gfx.Context)
}

var _ Scene = &importedScene{}

// NewScene builds a Scene from already extracted primitives and materials.
//
// Parameters:
//   - name: the scene name
//   - primitives: the drawable parts
//   - materials: the materials referenced by the primitives
//
// Returns:
//   - Scene: the scene
func NewScene(name string, primitives []Primitive, materials []*Material) Scene {
	return &importedScene{
		name:       name,
		primitives: primitives,
		materials:  materials,
	}
}

func (s *importedScene) Name() string {
	return s.name
}

func (s *importedScene) Primitives() []Primitive {
	return s.primitives
}

func (s *importedScene) Initialize(ctx gfx.Context) error {
	if s.initialized {
		return nil
	}
	for i, m := range s.materials {
		if m.Texture == nil {
			continue
		}
		h, err := ctx.UploadTexture(*m.Texture, common.LinearRepeatSampler())
		if err != nil {
			s.Dispose(ctx)
			return fmt.Errorf("%w: %s material %d (%s): %w", ErrImport, s.name, i, m.Name, err)
		}
		m.handle = h
	}
	s.initialized = true
	return nil
}

func (s *importedScene) Draw(ctx gfx.Context) {
	for _, p := range s.primitives {
		var tex gfx.TextureHandle
		color := mgl32.Vec4{1, 1, 1, 1}
		if p.Material >= 0 && p.Material < len(s.materials) {
			m := s.materials[p.Material]
			tex = m.handle
			color = m.BaseColor
		}
		ctx.BindTexture(tex)
		ctx.SetColor(color[0], color[1], color[2], color[3])
		ctx.DrawMesh(p.Mesh)
	}
	ctx.SetColor(1, 1, 1, 1)
}

func (s *importedScene) Dispose(ctx gfx.Context) {
	for _, m := range s.materials {
		if m.handle != 0 {
			ctx.ReleaseTexture(m.handle)
			m.handle = 0
		}
	}
	s.initialized = false
}
