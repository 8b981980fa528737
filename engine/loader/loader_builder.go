package loader

import "github.com/Carmen-Shannon/siege/engine/texture"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithTextureSource sets the Source used to decode images referenced by URI.
//
// Parameters:
//   - src: the texture source
//
// Returns:
//   - LoaderBuilderOption: a function that applies the source option to a loader
func WithTextureSource(src texture.Source) LoaderBuilderOption {
	return func(l *loader) {
		if src != nil {
			l.source = src
		}
	}
}

// WithScene is an option builder that pre-populates the scene cache.
//
// Parameters:
//   - path: the cache key for the scene
//   - scene: the scene to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the scene option to a loader
func WithScene(path string, scene Scene) LoaderBuilderOption {
	return func(l *loader) {
		l.sceneCache[path] = scene
	}
}
