// Package ecs provides ECS adapters for scrollrig.
//
// [NewDonburiStore] bridges rig events (segment changes, held poses,
// recovered frames) into a [Donburi] world as typed events. Subscribe to
// [RigEventType] in your ECS systems to receive them.
//
// [RigComponent] lets a world own rigs: set Progress from any system and
// call [UpdateRigs] once per tick.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
