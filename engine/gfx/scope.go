package gfx

// Scope runs fn between a push and a pop of the currently selected matrix stack.
// The pop is deferred, so the stack is restored even if fn returns early or panics.
//
// Parameters:
//   - ctx: the context
//   - fn: the body to run inside the scope
//
// Returns:
//   - error: the error returned by fn, or the pop error if fn succeeded
func Scope(ctx Context, fn func() error) error {
	return ScopeMode(ctx, ctx.CurrentMode(), fn)
}

// ScopeMode selects mode, pushes its stack and runs fn with mode selected. On exit the stack
// of mode is popped and the previously selected mode is re-selected, regardless of any mode
// changes made inside fn.
//
// Parameters:
//   - ctx: the context
//   - mode: the stack to push
//   - fn: the body to run inside the scope
//
// Returns:
//   - error: the error returned by fn, or the pop error if fn succeeded
func ScopeMode(ctx Context, mode MatrixMode, fn func() error) (err error) {
	prev := ctx.CurrentMode()
	ctx.MatrixMode(mode)
	ctx.PushMatrix()
	defer func() {
		ctx.MatrixMode(mode)
		if popErr := ctx.PopMatrix(); popErr != nil && err == nil {
			err = popErr
		}
		ctx.MatrixMode(prev)
	}()
	return fn()
}

// ViewportScope runs fn with the viewport set to r and restores the previous viewport on exit.
//
// Parameters:
//   - ctx: the context
//   - r: the viewport to use inside the scope
//   - fn: the body to run inside the scope
//
// Returns:
//   - error: the error returned by fn
func ViewportScope(ctx Context, r Rect, fn func() error) error {
	prev := ctx.CurrentViewport()
	ctx.Viewport(r.X, r.Y, r.Width, r.Height)
	defer ctx.Viewport(prev.X, prev.Y, prev.Width, prev.Height)
	return fn()
}

// StateScope runs fn and restores the base color, lighting and depth test flags on exit.
//
// Parameters:
//   - ctx: the context
//   - fn: the body to run inside the scope
//
// Returns:
//   - error: the error returned by fn
func StateScope(ctx Context, fn func() error) error {
	color, lighting, depthTest := ctx.Color(), ctx.Lighting(), ctx.DepthTest()
	defer func() {
		ctx.SetColor(color[0], color[1], color[2], color[3])
		ctx.SetLighting(lighting)
		ctx.SetDepthTest(depthTest)
	}()
	return fn()
}
