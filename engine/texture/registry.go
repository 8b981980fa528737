// Package texture loads the fixed set of scene textures and maps each texture id to a GPU handle.
package texture

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/gfx"
)

// ID names one of the scene textures.
type ID int

const (
	Grass ID = iota
	MetalFence
	PavedMud
	CastleWalls

	// Count is the number of scene textures.
	Count
)

func (id ID) String() string {
	switch id {
	case Grass:
		return "Grass"
	case MetalFence:
		return "MetalFence"
	case PavedMud:
		return "PavedMud"
	case CastleWalls:
		return "CastleWalls"
	default:
		return fmt.Sprintf("ID(%d)", int(id))
	}
}

// DefaultFiles are the file names loaded for each texture id, relative to the registry directory.
var DefaultFiles = [Count]string{
	Grass:       "grass.png",
	MetalFence:  "metal_fence.png",
	PavedMud:    "paved_mud.png",
	CastleWalls: "castle_walls.png",
}

// ErrAlreadyInitialized is returned by a second call to Initialize.
var ErrAlreadyInitialized = errors.New("texture registry already initialized")

type registry struct {
	dir     string
	files   [Count]string
	workers int

	handles     [Count]gfx.TextureHandle
	initialized bool
}

// Registry maps every texture id to an uploaded texture. It is filled once by Initialize and
// is read-only afterwards.
type Registry interface {
	// Initialize decodes every texture file in parallel and uploads them in id order. Any
	// failure releases the textures uploaded by this call and returns a single error naming
	// the texture and its path.
	//
	// Parameters:
	//   - ctx: the rendering context used for upload
	//   - src: the image decoder
	//
	// Returns:
	//   - error: error if any texture could not be loaded, or ErrAlreadyInitialized
	Initialize(ctx gfx.Context, src Source) error

	// Handle returns the texture handle for an id, or the zero handle before initialization.
	//
	// Parameters:
	//   - id: the texture id
	//
	// Returns:
	//   - gfx.TextureHandle: the handle
	Handle(id ID) gfx.TextureHandle

	// Path returns the resolved file path for an id.
	//
	// Parameters:
	//   - id: the texture id
	//
	// Returns:
	//   - string: the path, or "" for an unknown id
	Path(id ID) string

	// Initialized reports whether Initialize completed successfully.
	Initialized() bool

	// Release frees every texture. The registry cannot be initialized again.
	//
	// Parameters:
	//   - ctx: the rendering context that owns the textures
	Release(ctx gfx.Context)
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry that loads DefaultFiles from dir.
//
// Parameters:
//   - dir: the directory holding the texture files
//   - options: functional options for registry configuration
//
// Returns:
//   - Registry: the new registry
func NewRegistry(dir string, options ...RegistryBuilderOption) Registry {
	r := &registry{
		dir:     dir,
		files:   DefaultFiles,
		workers: int(Count),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Path(id ID) string {
	if id < 0 || id >= Count {
		return ""
	}
	if filepath.IsAbs(r.files[id]) {
		return r.files[id]
	}
	return filepath.Join(r.dir, r.files[id])
}

func (r *registry) Initialize(ctx gfx.Context, src Source) error {
	if r.initialized {
		return ErrAlreadyInitialized
	}

	staged, err := r.decodeAll(src)
	if err != nil {
		return err
	}

	var uploaded [Count]gfx.TextureHandle
	sampler := common.LinearRepeatSampler()
	for id := ID(0); id < Count; id++ {
		staged[id].Label = id.String()
		h, upErr := ctx.UploadTexture(staged[id], sampler)
		if upErr != nil {
			for prev := ID(0); prev < id; prev++ {
				ctx.ReleaseTexture(uploaded[prev])
			}
			return fmt.Errorf("upload texture %s (%s): %w", id, r.Path(id), upErr)
		}
		uploaded[id] = h
	}

	r.handles = uploaded
	r.initialized = true
	return nil
}

// decodeAll decodes every file on a worker pool. Each task writes only its own slot, and the
// first error in id order is reported.
func (r *registry) decodeAll(src Source) ([Count]common.TextureStagingData, error) {
	var staged [Count]common.TextureStagingData
	var errs [Count]error

	pool := worker.NewDynamicWorkerPool(r.workers, int(Count), 1*time.Second)
	var wg sync.WaitGroup
	for id := ID(0); id < Count; id++ {
		wg.Add(1)
		idCap := id
		path := r.Path(id)
		pool.SubmitTask(worker.Task{
			ID: int(idCap),
			Do: func() (any, error) {
				defer wg.Done()
				staged[idCap], errs[idCap] = src.Decode(path)
				return nil, errs[idCap]
			},
		})
	}
	wg.Wait()

	for id := ID(0); id < Count; id++ {
		if errs[id] != nil {
			return staged, fmt.Errorf("load texture %s (%s): %w", id, r.Path(id), errs[id])
		}
	}
	return staged, nil
}

func (r *registry) Handle(id ID) gfx.TextureHandle {
	if id < 0 || id >= Count {
		return 0
	}
	return r.handles[id]
}

func (r *registry) Initialized() bool {
	return r.initialized
}

func (r *registry) Release(ctx gfx.Context) {
	for id := range r.handles {
		if r.handles[id] != 0 {
			ctx.ReleaseTexture(r.handles[id])
			r.handles[id] = 0
		}
	}
}
