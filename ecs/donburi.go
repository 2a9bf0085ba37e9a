package ecs

import (
	"github.com/phanxgames/bubblepop"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for bubblepop scene events.
// Subscribe to this in your ECS systems to receive pops, resets and popup
// activity.
var SceneEventType = events.NewEventType[bubblepop.SceneEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Scene events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) bubblepop.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event bubblepop.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}
