package sequencer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	enabled map[ControlGroup]bool
	calls   int
}

func newFakeSink() *fakeSink {
	s := &fakeSink{enabled: make(map[ControlGroup]bool)}
	for _, g := range ControlGroups {
		s.enabled[g] = true
	}
	return s
}

func (s *fakeSink) SetEnabled(group ControlGroup, enabled bool) {
	s.enabled[group] = enabled
	s.calls++
}

func (s *fakeSink) allEnabled() bool {
	for _, g := range ControlGroups {
		if !s.enabled[g] {
			return false
		}
	}
	return true
}

func (s *fakeSink) noneEnabled() bool {
	for _, g := range ControlGroups {
		if s.enabled[g] {
			return false
		}
	}
	return true
}

type fakeTimer struct {
	armed         bool
	starts, stops int
}

func (t *fakeTimer) Start() { t.armed = true; t.starts++ }
func (t *fakeTimer) Stop()  { t.armed = false; t.stops++ }

const (
	approachTicks = ApproachStartZ - ApproachEndZ
	rotateTicks   = (RotateStartY - RotateEndY) / RotateStep
	fireTicks     = 33
)

func TestStartInitializesAnimation(t *testing.T) {
	sink, timer := newFakeSink(), &fakeTimer{}
	s := NewSequencer(sink, timer)

	require.True(t, s.Start())

	st := s.State()
	assert.Equal(t, PhaseApproach, st.Phase)
	assert.Equal(t, 40, st.WorldZ)
	assert.Equal(t, 180, st.WorldRotationY)
	assert.Equal(t, -25, st.ArrowZ)
	assert.Equal(t, float32(35), st.ArrowY)
	assert.True(t, sink.noneEnabled())
	assert.True(t, timer.armed)
}

func TestStartIsNoOpWhileAnimating(t *testing.T) {
	sink, timer := newFakeSink(), &fakeTimer{}
	s := NewSequencer(sink, timer)
	require.True(t, s.Start())
	s.Step(4)
	before := s.State()
	calls := sink.calls

	assert.False(t, s.Start())
	assert.Equal(t, before, s.State())
	assert.Equal(t, calls, sink.calls)
	assert.Equal(t, 1, timer.starts)
}

func TestApproachAdvancesOnePerTick(t *testing.T) {
	s := NewSequencer(newFakeSink(), &fakeTimer{})
	s.Start()

	s.Step(4)

	st := s.State()
	assert.Equal(t, PhaseApproach, st.Phase)
	assert.Equal(t, 36, st.WorldZ)
}

func TestPhaseBoundaries(t *testing.T) {
	s := NewSequencer(newFakeSink(), &fakeTimer{})
	s.Start()

	s.Step(approachTicks - 1)
	assert.Equal(t, PhaseApproach, s.State().Phase)
	s.Step(1)
	assert.Equal(t, PhaseRotate, s.State().Phase)
	assert.Equal(t, -40, s.State().WorldZ)

	s.Step(rotateTicks - 1)
	assert.Equal(t, PhaseRotate, s.State().Phase)
	assert.Equal(t, 5, s.State().WorldRotationY)
	s.Step(1)
	assert.Equal(t, PhaseFire, s.State().Phase)
	assert.Equal(t, 0, s.State().WorldRotationY)

	s.Step(fireTicks - 1)
	assert.Equal(t, PhaseFire, s.State().Phase)
	assert.Equal(t, 39, s.State().ArrowZ)
	assert.InDelta(t, 35-1.19*32, s.State().ArrowY, 1e-3)
	s.Step(1)
	assert.Equal(t, PhaseIdle, s.State().Phase)
	assert.Equal(t, 41, s.State().ArrowZ)
}

func TestFullRunVisitsPhasesInOrder(t *testing.T) {
	sink, timer := newFakeSink(), &fakeTimer{}
	var visited []Phase
	s := NewSequencer(sink, timer, WithPhaseObserver(func(_, to Phase) {
		visited = append(visited, to)
	}))

	s.Start()
	ticks := 0
	for timer.armed {
		s.Step(1)
		ticks++
		require.Less(t, ticks, 1000, "animation did not terminate")
	}

	assert.Equal(t, []Phase{PhaseApproach, PhaseRotate, PhaseFire, PhaseDone, PhaseIdle}, visited)
	assert.Equal(t, approachTicks+rotateTicks+fireTicks, ticks)

	st := s.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 180, st.WorldRotationY)
	assert.True(t, sink.allEnabled())
	assert.Equal(t, 1, timer.stops)
}

func TestStepWhileIdleIsIgnored(t *testing.T) {
	s := NewSequencer(nil, nil)
	before := s.State()

	s.Step(10)

	assert.Equal(t, before, s.State())
	assert.False(t, s.State().Animating())
}

func TestStepBeyondCompletionStops(t *testing.T) {
	timer := &fakeTimer{}
	s := NewSequencer(newFakeSink(), timer)
	s.Start()

	s.Step(10000)

	assert.Equal(t, PhaseIdle, s.State().Phase)
	assert.Equal(t, 41, s.State().ArrowZ)
	assert.Equal(t, 1, timer.stops)
}

func TestRestartAfterCompletion(t *testing.T) {
	s := NewSequencer(newFakeSink(), &fakeTimer{})
	s.Start()
	s.Step(10000)

	require.True(t, s.Start())
	assert.Equal(t, 40, s.State().WorldZ)
	assert.Equal(t, -25, s.State().ArrowZ)
}

func TestAbort(t *testing.T) {
	sink, timer := newFakeSink(), &fakeTimer{}
	s := NewSequencer(sink, timer)
	s.Start()
	s.Step(90)

	s.Abort()

	assert.Equal(t, PhaseIdle, s.State().Phase)
	assert.Equal(t, 180, s.State().WorldRotationY)
	assert.False(t, timer.armed)
	assert.True(t, sink.allEnabled())
}
