package overlay

// OverlayBuilderOption is a functional option for configuring an Overlay.
type OverlayBuilderOption func(*overlay)

// WithLines replaces the displayed text.
//
// Parameters:
//   - lines: the text lines in display order
//
// Returns:
//   - OverlayBuilderOption: option function to apply
func WithLines(lines ...string) OverlayBuilderOption {
	return func(o *overlay) {
		o.lines = o.lines[:0]
		for _, text := range lines {
			o.lines = append(o.lines, line{text: text})
		}
	}
}

// WithRows sets the height of the orthographic text space in line units. Values below the
// number of lines are raised to fit.
//
// Parameters:
//   - rows: the text space height
//
// Returns:
//   - OverlayBuilderOption: option function to apply
func WithRows(rows float32) OverlayBuilderOption {
	return func(o *overlay) {
		o.rows = rows
	}
}

// WithFontSize sets the rasterization size in points.
//
// Parameters:
//   - size: the font size
//
// Returns:
//   - OverlayBuilderOption: option function to apply
func WithFontSize(size float64) OverlayBuilderOption {
	return func(o *overlay) {
		if size > 0 {
			o.fontSize = size
		}
	}
}
