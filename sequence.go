package warviz

import (
	"fmt"

	"go.uber.org/zap"
)

// Phase is one named stage of a Sequence. Run must eventually call exactly
// one of next or fail; either may be called later, from an animation
// completion callback.
type Phase struct {
	Name string
	Run  func(next func(), fail func(error))
}

// PhaseError reports which phase of which sequence failed.
type PhaseError struct {
	Sequence string
	Phase    string
	Err      error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("warviz: %s: phase %s: %v", e.Sequence, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Sequence runs phases in declared order, each starting only when the
// previous one signals completion. A panic inside a phase is turned into a
// failure. Once the sequence has completed, failed or been aborted, stale
// signals from earlier phases are ignored.
type Sequence struct {
	name       string
	phases     []Phase
	cursor     int
	logger     *zap.Logger
	onComplete func()
	onFailure  func(error)
	started    bool
	finished   bool
}

// NewSequence creates an empty sequence. A nil logger is replaced with a
// no-op logger.
func NewSequence(name string, logger *zap.Logger) *Sequence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequence{name: name, logger: logger, cursor: -1}
}

// Then appends a phase.
func (s *Sequence) Then(name string, run func(next func(), fail func(error))) *Sequence {
	s.phases = append(s.phases, Phase{Name: name, Run: run})
	return s
}

// OnComplete sets the callback fired once after the last phase.
func (s *Sequence) OnComplete(fn func()) *Sequence {
	s.onComplete = fn
	return s
}

// OnFailure sets the callback fired once when a phase fails or panics.
// The error is a *PhaseError.
func (s *Sequence) OnFailure(fn func(error)) *Sequence {
	s.onFailure = fn
	return s
}

// Start runs the first phase. Calling Start again is a no-op.
func (s *Sequence) Start() {
	if s.started {
		return
	}
	s.started = true
	s.run(0)
}

// Abort stops the sequence without firing either callback.
func (s *Sequence) Abort() {
	s.finished = true
}

// Done reports whether the sequence completed, failed or was aborted.
func (s *Sequence) Done() bool {
	return s.finished
}

// Current returns the name of the running phase, or "" when none is.
func (s *Sequence) Current() string {
	if s.finished || s.cursor < 0 || s.cursor >= len(s.phases) {
		return ""
	}
	return s.phases[s.cursor].Name
}

func (s *Sequence) run(i int) {
	if s.finished {
		return
	}
	if i >= len(s.phases) {
		s.finished = true
		s.logger.Debug("sequence complete", zap.String("sequence", s.name))
		if s.onComplete != nil {
			s.onComplete()
		}
		return
	}

	s.cursor = i
	p := s.phases[i]
	s.logger.Debug("sequence phase", zap.String("sequence", s.name), zap.String("phase", p.Name))

	signalled := false
	next := func() {
		if signalled || s.finished || s.cursor != i {
			return
		}
		signalled = true
		s.run(i + 1)
	}
	fail := func(err error) {
		if signalled || s.finished {
			s.logger.Error("failure after phase settled",
				zap.String("sequence", s.name), zap.String("phase", p.Name), zap.Error(err))
			return
		}
		signalled = true
		s.finished = true
		perr := &PhaseError{Sequence: s.name, Phase: p.Name, Err: err}
		s.logger.Warn("sequence failed", zap.Error(perr))
		if s.onFailure != nil {
			s.onFailure(perr)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			fail(fmt.Errorf("panic: %v", r))
		}
	}()
	p.Run(next, fail)
}

// Join returns a function that must be called n times; done runs on the
// n-th call. With n <= 0, done runs immediately and the returned function
// does nothing.
func Join(n int, done func()) func() {
	if n <= 0 {
		done()
		return func() {}
	}
	remaining := n
	return func() {
		if remaining == 0 {
			return
		}
		remaining--
		if remaining == 0 {
			done()
		}
	}
}
