// Package sequencer drives the scripted siege animation: the camera approaches the
// castle, turns around to face the ballista and the volley of arrows is fired.
package sequencer

import (
	"fmt"
	"time"
)

// TickPeriod is the host timer period the sequencer is designed for.
const TickPeriod = 30 * time.Millisecond

// Animation constants. Positions are in world units, angles in degrees.
const (
	ApproachStartZ = 40
	ApproachEndZ   = -40

	RotateStartY = 180
	RotateEndY   = 0
	RotateStep   = 5

	ArrowStartZ         = -25
	ArrowStartY float32 = 35
	ArrowStepZ          = 2
	ArrowStepY  float32 = 1.19
	FireEndZ            = 40
)

// Phase is the sequencer phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseApproach
	PhaseRotate
	PhaseFire
	// PhaseDone is reported to the phase observer when the volley completes.
	// The sequencer returns to PhaseIdle within the same step.
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseApproach:
		return "Approach"
	case PhaseRotate:
		return "Rotate"
	case PhaseFire:
		return "Fire"
	case PhaseDone:
		return "Done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ControlGroup identifies a group of user controls that is disabled while animating.
type ControlGroup int

const (
	GroupDistance ControlGroup = iota
	GroupLeftWall
	GroupRightWall
	GroupArrowScale
	GroupLights
)

// ControlGroups lists every group the sequencer toggles.
var ControlGroups = [...]ControlGroup{GroupDistance, GroupLeftWall, GroupRightWall, GroupArrowScale, GroupLights}

func (g ControlGroup) String() string {
	switch g {
	case GroupDistance:
		return "Distance"
	case GroupLeftWall:
		return "LeftWall"
	case GroupRightWall:
		return "RightWall"
	case GroupArrowScale:
		return "ArrowScale"
	case GroupLights:
		return "Lights"
	default:
		return fmt.Sprintf("ControlGroup(%d)", int(g))
	}
}

// UIEnableSink receives enable/disable requests for the user controls.
type UIEnableSink interface {
	SetEnabled(group ControlGroup, enabled bool)
}

// Timer is the host's periodic tick source. The sequencer arms it on Start and disarms it when the volley completes.
type Timer interface {
	Start()
	Stop()
}

// State is a snapshot of the sequencer.
type State struct {
	Phase          Phase
	WorldZ         int
	WorldRotationY int
	ArrowZ         int
	ArrowY         float32
}

// Animating reports whether the sequencer owns the camera.
func (s State) Animating() bool {
	return s.Phase != PhaseIdle
}

type sequencer struct {
	state State
	sink  UIEnableSink
	timer Timer

	onPhaseChange func(from, to Phase)
}

// Sequencer is the phase machine. It is not safe for concurrent use; Start and Step must
// be called from the thread that renders.
type Sequencer interface {
	// Start begins the animation. It is a no-op unless the sequencer is idle.
	//
	// Returns:
	//   - bool: true if the animation was started
	Start() bool

	// Step advances the animation by deltaTicks timer ticks. Each tick applies exactly one
	// phase rule. Ticks delivered while idle are ignored.
	//
	// Parameters:
	//   - deltaTicks: the number of ticks to apply
	Step(deltaTicks int)

	// Abort stops a running animation, disarms the timer and re-enables the controls.
	Abort()

	// State returns a snapshot of the sequencer.
	//
	// Returns:
	//   - State: the current state
	State() State
}

var _ Sequencer = &sequencer{}

// NewSequencer creates an idle Sequencer with its world rotation at the rest angle.
//
// Parameters:
//   - sink: receives control enable/disable requests (may be nil)
//   - timer: the host tick source (may be nil)
//   - options: functional options for sequencer configuration
//
// Returns:
//   - Sequencer: the new sequencer
func NewSequencer(sink UIEnableSink, timer Timer, options ...SequencerBuilderOption) Sequencer {
	s := &sequencer{
		state: State{
			Phase:          PhaseIdle,
			WorldZ:         ApproachStartZ,
			WorldRotationY: RotateStartY,
			ArrowZ:         ArrowStartZ,
			ArrowY:         ArrowStartY,
		},
		sink:  sink,
		timer: timer,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *sequencer) Start() bool {
	if s.state.Phase != PhaseIdle {
		return false
	}
	s.setControls(false)
	s.state = State{
		Phase:          PhaseIdle,
		WorldZ:         ApproachStartZ,
		WorldRotationY: RotateStartY,
		ArrowZ:         ArrowStartZ,
		ArrowY:         ArrowStartY,
	}
	s.transition(PhaseApproach)
	if s.timer != nil {
		s.timer.Start()
	}
	return true
}

func (s *sequencer) Step(deltaTicks int) {
	for i := 0; i < deltaTicks && s.state.Phase != PhaseIdle; i++ {
		s.tick()
	}
}

// tick applies one phase rule. The cascade only ever runs one branch per tick.
func (s *sequencer) tick() {
	if s.state.Phase == PhaseApproach {
		s.state.WorldZ--
		if s.state.WorldZ <= ApproachEndZ {
			s.state.WorldZ = ApproachEndZ
			s.transition(PhaseRotate)
		}
	} else if s.state.Phase == PhaseRotate {
		s.state.WorldRotationY -= RotateStep
		if s.state.WorldRotationY <= RotateEndY {
			s.state.WorldRotationY = RotateEndY
			s.transition(PhaseFire)
		}
	} else if s.state.Phase == PhaseFire {
		s.state.ArrowZ += ArrowStepZ
		s.state.ArrowY -= ArrowStepY
		if s.state.ArrowZ > FireEndZ {
			s.finish()
		}
	}
}

func (s *sequencer) finish() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.setControls(true)
	s.state.WorldRotationY = RotateStartY
	s.transition(PhaseDone)
	s.transition(PhaseIdle)
}

func (s *sequencer) Abort() {
	if s.state.Phase == PhaseIdle {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.setControls(true)
	s.state.WorldRotationY = RotateStartY
	s.transition(PhaseIdle)
}

func (s *sequencer) State() State {
	return s.state
}

func (s *sequencer) transition(to Phase) {
	from := s.state.Phase
	s.state.Phase = to
	if s.onPhaseChange != nil {
		s.onPhaseChange(from, to)
	}
}

func (s *sequencer) setControls(enabled bool) {
	if s.sink == nil {
		return
	}
	for _, g := range ControlGroups {
		s.sink.SetEnabled(g, enabled)
	}
}
