package prism

// syntheticKind selects what a queued event does to the input latch.
type syntheticKind uint8

const (
	syntheticPress syntheticKind = iota
	syntheticMove
	syntheticRelease
	syntheticWheel
)

// syntheticEvent is one injected pointer or wheel event. Coordinates are in
// canvas pixels, the same space screenshots are taken in.
type syntheticEvent struct {
	kind    syntheticKind
	x, y    float64
	wheelDY float64
}

// InjectPress queues a button press at the given canvas coordinates. The
// event is applied on the next frame, before the pan controller runs.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticPress, x: x, y: y})
}

// InjectMove queues a pointer move to the given canvas coordinates.
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticMove, x: x, y: y})
}

// InjectRelease queues a button release at the given canvas coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticRelease, x: x, y: y})
}

// InjectZoom queues a wheel event at the given canvas coordinates. dy follows
// InputLatch.Wheel: positive latches ZoomIn, negative ZoomOut.
func (s *Scene) InjectZoom(x, y, dy float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticWheel, x: x, y: y, wheelDY: dy})
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2 linearly
// interpolated moves ending on (toX, toY) and a release there. The sequence
// consumes frames frames; the minimum is 2.
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// processInjectedInput pops one event from the queue and applies it to the
// latch in canvas pixels. Returns true if an event was consumed.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	// Injected coordinates are already canvas pixels.
	l := s.input
	sx, sy := l.scaleX, l.scaleY
	l.scaleX, l.scaleY = 1, 1
	switch evt.kind {
	case syntheticPress:
		l.Press(evt.x, evt.y)
	case syntheticMove:
		l.MoveTo(evt.x, evt.y)
	case syntheticRelease:
		l.MoveTo(evt.x, evt.y)
		l.Release()
	case syntheticWheel:
		l.MoveTo(evt.x, evt.y)
		l.Wheel(evt.wheelDY)
	}
	l.scaleX, l.scaleY = sx, sy
	return true
}
