package prism

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestInjectPressRelease(t *testing.T) {
	s, _ := newTestScene(t)
	s.InjectPress(50, 60)
	s.InjectRelease(70, 80)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(s.injectQueue))
	}

	// Frame 1: press
	s.processInjectedInput()
	if len(s.injectQueue) != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", len(s.injectQueue))
	}
	if !s.input.Pressed() {
		t.Error("latch should be pressed after the press event")
	}

	// Frame 2: release at its own position
	s.processInjectedInput()
	if s.input.Pressed() {
		t.Error("latch still pressed after the release event")
	}
	if s.input.Cursor() != (mgl32.Vec2{70, 80}) {
		t.Errorf("cursor = %v, want (70,80)", s.input.Cursor())
	}
	if s.processInjectedInput() {
		t.Error("empty queue reported a consumed event")
	}
}

func TestInjectDrag(t *testing.T) {
	s, _ := newTestScene(t)

	// frame 0: press at (10,10)
	// frame 1..3: moves to ~(73,73), ~(137,137), (200,200)
	// frame 4: release at (200,200)
	s.InjectDrag(10, 10, 200, 200, 5)
	if len(s.injectQueue) != 5 {
		t.Fatalf("expected 5 queued events, got %d", len(s.injectQueue))
	}
	if s.injectQueue[0].kind != syntheticPress || s.injectQueue[4].kind != syntheticRelease {
		t.Fatalf("queue = %v, want press first and release last", s.injectQueue)
	}
	last := s.injectQueue[3]
	if last.kind != syntheticMove || last.x != 200 || last.y != 200 {
		t.Errorf("final move = %+v, want move to (200,200)", last)
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	s, _ := newTestScene(t)
	s.InjectDrag(0, 0, 10, 10, 0)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected press and release only, got %d events", len(s.injectQueue))
	}
}

func TestInjectDragPansCamera(t *testing.T) {
	s, _ := newTestScene(t)
	// Moves are 50 px apart, so dragging begins at x=450 and grabs the
	// world point under it.
	anchor := s.Camera().ScreenToWorld(mgl32.Vec2{450, 300})

	s.InjectDrag(400, 300, 600, 300, 6)
	var states []MouseState
	for i := range 6 {
		stats := s.Frame(float64(i)*16, 1280, 720)
		states = append(states, stats.Mouse)
	}

	if states[0] != MouseDown {
		t.Errorf("frame 0 state = %v, want down", states[0])
	}
	if states[4] != MouseDragging {
		t.Errorf("frame 4 state = %v, want dragging", states[4])
	}
	if states[5] != MouseUp {
		t.Errorf("frame 5 state = %v, want up", states[5])
	}

	got := s.Camera().ScreenToWorld(mgl32.Vec2{600, 300})
	if !approxEqual(float64(got[0]), float64(anchor[0]), epsilon) {
		t.Errorf("world under release = %v, want x %f", got, anchor[0])
	}
	if s.Camera().Position()[0] >= 0 {
		t.Errorf("dragging right should move the camera left, got %v", s.Camera().Position())
	}
}

func TestInjectZoom(t *testing.T) {
	s, _ := newTestScene(t)
	before := s.Camera().ScreenToWorld(mgl32.Vec2{200, 100})
	s.InjectZoom(200, 100, 1)
	stats := s.Frame(0, 1280, 720)
	if stats.Zoom != ZoomIn {
		t.Errorf("stats.Zoom = %v, want in", stats.Zoom)
	}
	after := s.Camera().ScreenToWorld(mgl32.Vec2{200, 100})
	if !approxVec3(before, after, epsilon) {
		t.Errorf("world point under cursor moved from %v to %v", before, after)
	}
}

func TestInjectIgnoresPointerScale(t *testing.T) {
	s, _ := newTestScene(t)
	s.Input().SetPointerScale(2, 2)
	s.InjectMove(100, 50)
	s.processInjectedInput()
	if s.Input().Cursor() != (mgl32.Vec2{100, 50}) {
		t.Errorf("cursor = %v, want canvas (100,50)", s.Input().Cursor())
	}
	s.Input().MoveTo(10, 10)
	if s.Input().Cursor() != (mgl32.Vec2{20, 20}) {
		t.Errorf("host scale lost after injection: cursor = %v", s.Input().Cursor())
	}
}
