package sequencer

// SequencerBuilderOption is a functional option for configuring a Sequencer.
type SequencerBuilderOption func(*sequencer)

// WithPhaseObserver registers a callback invoked on every phase transition, including the
// transient PhaseDone.
//
// Parameters:
//   - fn: receives the previous and the new phase
//
// Returns:
//   - SequencerBuilderOption: option function to apply
func WithPhaseObserver(fn func(from, to Phase)) SequencerBuilderOption {
	return func(s *sequencer) {
		s.onPhaseChange = fn
	}
}
