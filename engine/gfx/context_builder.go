package gfx

// ContextBuilderOption is a functional option for configuring a Context.
type ContextBuilderOption func(*renderContext)

// WithViewport sets the initial viewport rectangle.
//
// Parameters:
//   - width, height: the viewport size in pixels
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithViewport(width, height int) ContextBuilderOption {
	return func(c *renderContext) {
		c.viewport = Rect{Width: width, Height: height}
	}
}

// WithDepthTest sets the initial depth test state.
//
// Parameters:
//   - enabled: true to depth test
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithDepthTest(enabled bool) ContextBuilderOption {
	return func(c *renderContext) {
		c.depthTest = enabled
	}
}

// WithLighting sets the initial lighting state.
//
// Parameters:
//   - enabled: true to apply directional lights
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithLighting(enabled bool) ContextBuilderOption {
	return func(c *renderContext) {
		c.lighting = enabled
	}
}
