package warviz

import "testing"

func TestInjectClickQueuesPressRelease(t *testing.T) {
	s := NewScene()
	s.InjectClick(10, 20)

	if s.PendingInput() != 2 {
		t.Fatalf("queue length = %d, want 2", s.PendingInput())
	}
	if !s.injectQueue[0].pressed || s.injectQueue[1].pressed {
		t.Error("want press then release")
	}
}

func TestInjectQueueOrder(t *testing.T) {
	s := NewScene()
	s.InjectHover(1, 1)
	s.InjectPress(2, 2)
	s.InjectMove(3, 3)
	s.InjectRelease(4, 4)

	want := []struct {
		x       float64
		pressed bool
	}{{1, false}, {2, true}, {3, true}, {4, false}}
	for i, w := range want {
		e := s.injectQueue[i]
		if e.screenX != w.x || e.pressed != w.pressed {
			t.Errorf("queue[%d] = %+v, want x=%v pressed=%v", i, e, w.x, w.pressed)
		}
	}
}

func TestProcessInjectedInputOnePerFrame(t *testing.T) {
	s := newTestScene()
	s.InjectClick(5, 5)

	if !s.processInjectedInput() {
		t.Fatal("expected an event to be consumed")
	}
	if s.PendingInput() != 1 {
		t.Errorf("queue length = %d, want 1", s.PendingInput())
	}
	if !s.pointers[0].down {
		t.Error("pointer should be down after the press")
	}

	s.processInjectedInput()
	if s.pointers[0].down {
		t.Error("pointer should be up after the release")
	}
	if s.processInjectedInput() {
		t.Error("empty queue should report false")
	}
}
