package texture

// RegistryBuilderOption is a functional option for configuring a Registry.
type RegistryBuilderOption func(*registry)

// WithFile overrides the file loaded for a texture id. Absolute paths ignore the registry directory.
//
// Parameters:
//   - id: the texture id
//   - file: the file name or path
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithFile(id ID, file string) RegistryBuilderOption {
	return func(r *registry) {
		if id < 0 || id >= Count || file == "" {
			return
		}
		r.files[id] = file
	}
}

// WithDecodeWorkers sets the number of decode workers. Values <= 0 keep the default of one per texture.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithDecodeWorkers(n int) RegistryBuilderOption {
	return func(r *registry) {
		if n > 0 {
			r.workers = n
		}
	}
}
