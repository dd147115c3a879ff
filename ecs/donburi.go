package ecs

import (
	"github.com/phanxgames/scrollrig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// RigEventType is the Donburi event type for scrollrig rig events.
var RigEventType = events.NewEventType[scrollrig.RigEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Rig events are published to RigEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) scrollrig.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event scrollrig.RigEvent) {
	RigEventType.Publish(s.world, event)
}

// RigData attaches a rig to an entity. Progress is the scroll progress the
// rig is driven to on the next UpdateRigs; State is the last frame state.
type RigData struct {
	Rig      *scrollrig.Rig
	Progress float32
	State    scrollrig.FrameState
}

// RigComponent is the component holding RigData.
var RigComponent = donburi.NewComponentType[RigData]()

var rigQuery = donburi.NewQuery(filter.Contains(RigComponent))

// UpdateRigs advances every rig in world to its entity's Progress. Entities
// with a nil Rig are skipped.
func UpdateRigs(world donburi.World) {
	rigQuery.Each(world, func(entry *donburi.Entry) {
		d := RigComponent.Get(entry)
		if d.Rig == nil {
			return
		}
		d.State = d.Rig.Update(d.Progress)
	})
}
