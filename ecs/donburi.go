package ecs

import (
	"github.com/phanxgames/prism"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for prism interaction
// events. Subscribe to this in your ECS systems to receive press, pan and
// zoom events.
var InteractionEventType = events.NewEventType[prism.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) prism.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event prism.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}
