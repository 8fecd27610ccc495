// Package ecs provides ECS adapters for prism's camera interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges prism interaction
// events (press, pan, zoom) into a [Donburi] world as typed events.
// Subscribe to [InteractionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
