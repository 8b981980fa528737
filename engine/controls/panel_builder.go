package controls

// PanelBuilderOption is a functional option for configuring a Panel.
type PanelBuilderOption func(*panel)

// WithSteps overrides the per-input increments. Non-positive values keep the defaults.
//
// Parameters:
//   - rotation: degrees per arrow key press
//   - distance: units per zoom key press or wheel notch
//   - wallAngle: degrees per left wall key press
//   - wallOffset: units per right wall key press
//   - arrowScale: scale change per key press
//
// Returns:
//   - PanelBuilderOption: option function to apply
func WithSteps(rotation, distance, wallAngle, wallOffset, arrowScale float32) PanelBuilderOption {
	return func(p *panel) {
		set := func(dst *float32, v float32) {
			if v > 0 {
				*dst = v
			}
		}
		set(&p.rotationStep, rotation)
		set(&p.distanceStep, distance)
		set(&p.wallAngleStep, wallAngle)
		set(&p.wallOffsetStep, wallOffset)
		set(&p.arrowScaleStep, arrowScale)
	}
}

// WithDragSensitivity sets the degrees of rotation per pixel of mouse drag.
//
// Parameters:
//   - degreesPerPixel: the sensitivity; non-positive values are ignored
//
// Returns:
//   - PanelBuilderOption: option function to apply
func WithDragSensitivity(degreesPerPixel float32) PanelBuilderOption {
	return func(p *panel) {
		if degreesPerPixel > 0 {
			p.dragSensitivity = degreesPerPixel
		}
	}
}
