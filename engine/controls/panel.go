// Package controls maps keyboard and mouse input onto the view parameters and the animation trigger.
package controls

import (
	"log"

	"github.com/Carmen-Shannon/siege/common"
	"github.com/Carmen-Shannon/siege/engine/sequencer"
	"github.com/Carmen-Shannon/siege/engine/view"
)

// Default input steps.
const (
	DefaultRotationStep    = 5
	DefaultDistanceStep    = 10
	DefaultWallAngleStep   = 5
	DefaultWallOffsetStep  = 1
	DefaultArrowScaleStep  = 0.25
	DefaultDragSensitivity = 0.5
)

type panel struct {
	view  view.ViewState
	start func() bool

	enabled [len(sequencer.ControlGroups)]bool

	rotationStep    float32
	distanceStep    float32
	wallAngleStep   float32
	wallOffsetStep  float32
	arrowScaleStep  float32
	dragSensitivity float32

	dragging     bool
	lastX, lastY int32
}

// Panel is the input surface of the scene. It holds one enabled flag per control group and
// drops input aimed at a disabled group. Rotation belongs to no group; it is dropped while any
// group is disabled, which is the case for the whole animation.
type Panel interface {
	sequencer.UIEnableSink

	// Enabled reports whether a control group accepts input.
	//
	// Parameters:
	//   - group: the control group
	//
	// Returns:
	//   - bool: true if enabled; false for unknown groups
	Enabled(group sequencer.ControlGroup) bool

	// HandleKeyDown applies a key press or repeat.
	//
	// Parameters:
	//   - keyCode: the virtual key code (see common key codes)
	//
	// Returns:
	//   - bool: true if the key is bound and its group was enabled
	HandleKeyDown(keyCode uint32) bool

	// HandleScroll changes the scene distance; scrolling up moves closer.
	//
	// Parameters:
	//   - delta: the wheel delta, positive up
	HandleScroll(delta float32)

	// HandleMouseDown starts a rotation drag.
	HandleMouseDown(x, y int32)

	// HandleMouseUp ends a rotation drag.
	HandleMouseUp(x, y int32)

	// HandleMouseMove rotates the view while dragging.
	HandleMouseMove(x, y int32)
}

var _ Panel = &panel{}

// NewPanel creates a control panel with every group enabled.
//
// Parameters:
//   - state: the view parameters the panel edits
//   - start: starts the animation; may be nil
//   - options: functional options for the panel
//
// Returns:
//   - Panel: the panel
func NewPanel(state view.ViewState, start func() bool, options ...PanelBuilderOption) Panel {
	p := &panel{
		view:            state,
		start:           start,
		rotationStep:    DefaultRotationStep,
		distanceStep:    DefaultDistanceStep,
		wallAngleStep:   DefaultWallAngleStep,
		wallOffsetStep:  DefaultWallOffsetStep,
		arrowScaleStep:  DefaultArrowScaleStep,
		dragSensitivity: DefaultDragSensitivity,
	}
	for i := range p.enabled {
		p.enabled[i] = true
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *panel) SetEnabled(group sequencer.ControlGroup, enabled bool) {
	if group < 0 || int(group) >= len(p.enabled) {
		return
	}
	p.enabled[group] = enabled
}

func (p *panel) Enabled(group sequencer.ControlGroup) bool {
	if group < 0 || int(group) >= len(p.enabled) {
		return false
	}
	return p.enabled[group]
}

func (p *panel) HandleKeyDown(keyCode uint32) bool {
	switch keyCode {
	case common.KeyUp:
		return p.rotate(-p.rotationStep, 0)
	case common.KeyDown:
		return p.rotate(p.rotationStep, 0)
	case common.KeyLeft:
		return p.rotate(0, -p.rotationStep)
	case common.KeyRight:
		return p.rotate(0, p.rotationStep)

	case common.KeyEqual, common.KeyKPAdd:
		return p.guarded(sequencer.GroupDistance, func() { p.view.AddSceneDistance(-p.distanceStep) })
	case common.KeyMinus, common.KeyKPSubtract:
		return p.guarded(sequencer.GroupDistance, func() { p.view.AddSceneDistance(p.distanceStep) })

	case common.KeyLeftBrace:
		return p.guarded(sequencer.GroupLeftWall, func() {
			p.view.SetLeftWallAngle(p.view.LeftWallAngle() - p.wallAngleStep)
		})
	case common.KeyRightBrace:
		return p.guarded(sequencer.GroupLeftWall, func() {
			p.view.SetLeftWallAngle(p.view.LeftWallAngle() + p.wallAngleStep)
		})

	case common.KeyComma:
		return p.guarded(sequencer.GroupRightWall, func() {
			p.view.SetRightWallOffset(p.view.RightWallOffset() - p.wallOffsetStep)
		})
	case common.KeyPeriod:
		return p.guarded(sequencer.GroupRightWall, func() {
			p.view.SetRightWallOffset(p.view.RightWallOffset() + p.wallOffsetStep)
		})

	case common.Key9:
		return p.guarded(sequencer.GroupArrowScale, func() {
			p.view.SetArrowScale(p.view.ArrowScale() - p.arrowScaleStep)
		})
	case common.Key0:
		return p.guarded(sequencer.GroupArrowScale, func() {
			p.view.SetArrowScale(p.view.ArrowScale() + p.arrowScaleStep)
		})

	case common.Key1:
		return p.guarded(sequencer.GroupLights, func() { p.view.SetLightEnabled(0, !p.view.LightEnabled(0)) })
	case common.Key2:
		return p.guarded(sequencer.GroupLights, func() { p.view.SetLightEnabled(1, !p.view.LightEnabled(1)) })

	case common.KeyF:
		if p.start == nil {
			return false
		}
		if !p.start() {
			log.Printf("[Controls] animation already running")
			return false
		}
	default:
		return false
	}
	return true
}

// locked reports whether any control group is disabled.
func (p *panel) locked() bool {
	for _, enabled := range p.enabled {
		if !enabled {
			return true
		}
	}
	return false
}

// rotate applies a pitch and yaw delta in degrees unless the panel is locked.
func (p *panel) rotate(pitch, yaw float32) bool {
	if p.locked() {
		return false
	}
	p.view.AddRotationX(pitch)
	p.view.AddRotationY(yaw)
	return true
}

// guarded runs apply only when group is enabled.
func (p *panel) guarded(group sequencer.ControlGroup, apply func()) bool {
	if !p.Enabled(group) {
		return false
	}
	apply()
	return true
}

func (p *panel) HandleScroll(delta float32) {
	if delta == 0 {
		return
	}
	p.guarded(sequencer.GroupDistance, func() {
		p.view.AddSceneDistance(-delta * p.distanceStep)
	})
}

func (p *panel) HandleMouseDown(x, y int32) {
	p.dragging = true
	p.lastX, p.lastY = x, y
}

func (p *panel) HandleMouseUp(x, y int32) {
	p.dragging = false
}

func (p *panel) HandleMouseMove(x, y int32) {
	if !p.dragging {
		return
	}
	dx, dy := float32(x-p.lastX), float32(y-p.lastY)
	p.lastX, p.lastY = x, y
	p.rotate(dy*p.dragSensitivity, dx*p.dragSensitivity)
}
