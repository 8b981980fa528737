package loader

// loaderBackend defines the generic interface for importing scenes from files.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports meshes and materials from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - Scene: the imported scene, not yet initialized
	//   - error: error wrapping ErrImport if loading fails
	Load(path string) (Scene, error)
}
