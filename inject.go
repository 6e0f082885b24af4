package warviz

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates, fed through the same state machine as real mouse input.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
}

// InjectPress queues a pointer press event at the given screen coordinates
// (left button). The event is consumed on the next Step.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectMove queues a pointer move event with the button held down.
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: true,
		button:  MouseButtonLeft,
	})
}

// InjectHover queues a pointer move event with no button held.
func (s *Scene) InjectHover(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release event at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		pressed: false,
		button:  MouseButtonLeft,
	})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectHold queues a press that stays down for the given number of frames
// before releasing at the same point. The press-to-release time is
// frames × the step duration. Minimum frames is 1.
func (s *Scene) InjectHold(x, y float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	s.InjectPress(x, y)
	for i := 1; i < frames; i++ {
		s.InjectMove(x, y)
	}
	s.InjectRelease(x, y)
}

// PendingInput reports how many injected events have not been consumed yet.
func (s *Scene) PendingInput() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer. Returns true if an event was consumed (real input
// is skipped for that frame).
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.processPointer(0, evt.screenX, evt.screenY, evt.pressed, evt.button)
	return true
}
