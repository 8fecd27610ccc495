package ecs

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/prism"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []prism.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e prism.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(prism.InteractionEvent{
		Type:   prism.EventPanStart,
		Frame:  42,
		Screen: mgl32.Vec2{100, 200},
		World:  mgl32.Vec3{1, 2, 0},
	})

	store.EmitEvent(prism.InteractionEvent{
		Type:  prism.EventZoom,
		Pulse: prism.ZoomIn,
		Zoom:  1.1,
	})

	// Events are queued; process them.
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	e0 := received[0]
	if e0.Type != prism.EventPanStart || e0.Frame != 42 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.Screen != (mgl32.Vec2{100, 200}) {
		t.Errorf("event 0 position: %v", e0.Screen)
	}

	e1 := received[1]
	if e1.Type != prism.EventZoom || e1.Pulse != prism.ZoomIn {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e prism.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e prism.InteractionEvent) {
		count2++
	})

	store.EmitEvent(prism.InteractionEvent{Type: prism.EventPress})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

// A scene driven through a drag publishes its pan events into the world.
func TestDonburiStore_FromScene(t *testing.T) {
	world := donburi.NewWorld()
	var types []prism.EventType
	InteractionEventType.Subscribe(world, func(w donburi.World, e prism.InteractionEvent) {
		types = append(types, e.Type)
	})

	s, err := prism.NewScene(nopDevice{}, prism.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.SetEntityStore(NewDonburiStore(world))

	s.InjectDrag(100, 100, 300, 100, 4)
	for i := range 4 {
		s.Frame(float64(i)*16, 1280, 720)
	}
	InteractionEventType.ProcessEvents(world)

	want := []prism.EventType{prism.EventPress, prism.EventPanStart, prism.EventPan, prism.EventPanEnd}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
}

// nopDevice accepts every call and draws nothing.
type nopDevice struct{}

func (nopDevice) NewVertexBuffer([]float32) (prism.BufferID, error) { return 1, nil }
func (nopDevice) NewIndexBuffer([]uint16) (prism.BufferID, error) { return 1, nil }
func (nopDevice) NewProgram(prism.ShaderSource) (prism.ProgramID, error) { return 1, nil }
func (nopDevice) NewTexture(image.Image) (prism.TextureID, error) { return 1, nil }
func (nopDevice) UploadTexture(prism.TextureID, image.Image) error { return nil }
func (nopDevice) AttribLocation(prism.ProgramID, string) (prism.Location, bool) {
	return 0, true
}
func (nopDevice) UniformLocation(prism.ProgramID, string) (prism.Location, bool) {
	return 0, true
}
func (nopDevice) UseProgram(prism.ProgramID) {}
func (nopDevice) BindAttribute(prism.Location, prism.BufferID, int) {}
func (nopDevice) BindIndices(prism.BufferID) {}
func (nopDevice) BindTexture(int, prism.TextureID, prism.Location) {}
func (nopDevice) UniformMatrix4(prism.Location, mgl32.Mat4) {}
func (nopDevice) DrawIndexed(int) {}
func (nopDevice) BeginFrame(int, int, prism.Color) {}
func (nopDevice) DeleteBuffer(prism.BufferID) {}
func (nopDevice) DeleteTexture(prism.TextureID) {}
func (nopDevice) DeleteProgram(prism.ProgramID) {}
