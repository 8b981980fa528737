package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/siege/engine/texture"
)

// ErrImport is wrapped by every error returned while importing or uploading a scene.
var ErrImport = errors.New("import failed")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	source     texture.Source
	sceneCache map[string]Scene

	backendType LoaderBackendType
	backend     loaderBackend
}

// Loader imports model files into Scenes and caches them by path.
// The file format is selected by extension; .gltf and .glb are supported.
type Loader interface {
	// Load imports dir/filename and caches the result.
	// A cached scene is returned without touching the file again.
	//
	// Parameters:
	//   - dir: the directory holding the model
	//   - filename: the model file name
	//
	// Returns:
	//   - Scene: the imported scene, not yet initialized
	//   - error: an error wrapping ErrImport if the file is missing, malformed or of an unsupported format
	Load(dir, filename string) (Scene, error)

	// Get retrieves a cached scene by path. Returns nil if not found.
	//
	// Parameters:
	//   - path: the joined path the scene was loaded from
	//
	// Returns:
	//   - Scene: the cached scene or nil
	Get(path string) Scene

	// Scenes returns a copy of the scene cache.
	//
	// Returns:
	//   - map[string]Scene: all cached scenes keyed by path
	Scenes() map[string]Scene
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:          sync.RWMutex{},
		source:      texture.FileSource{},
		sceneCache:  make(map[string]Scene),
		backendType: backendType,
	}

	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(l.source)
	}
	return l
}

// Load imports a single file with a default glTF loader. Scenes loaded this way are not shared.
//
// Parameters:
//   - dir: the directory holding the model
//   - filename: the model file name
//
// Returns:
//   - Scene: the imported scene
//   - error: an error wrapping ErrImport on failure
func Load(dir, filename string) (Scene, error) {
	return NewLoader(BackendTypeGLTF).Load(dir, filename)
}

func (l *loader) Load(dir, filename string) (Scene, error) {
	path := filepath.Join(dir, filename)

	l.mu.RLock()
	if cached, ok := l.sceneCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	s, err := backend.Load(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.sceneCache[path] = s
	l.mu.Unlock()

	return s, nil
}

func (l *loader) Get(path string) Scene {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sceneCache[path]
}

func (l *loader) Scenes() map[string]Scene {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]Scene, len(l.sceneCache))
	for k, v := range l.sceneCache {
		result[k] = v
	}
	return result
}

// resolveBackend selects an appropriate loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend == nil {
			return nil, fmt.Errorf("%w: no backend for %s", ErrImport, path)
		}
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: unsupported model format %q: %s", ErrImport, ext, path)
	}
}
