package ecs

import (
	"github.com/phanxgames/bubblepop"

	"github.com/yohamta/donburi"
)

// SessionStats is the running tally kept by a Stats entity.
type SessionStats struct {
	Pops     int
	Resets   int
	Popups   int
	Thoughts int
	Bubbles  int
	Peak     int
	LargestR float64
	LastTick uint64
	LastText string
}

// SessionStatsComponent stores SessionStats on an entity.
var SessionStatsComponent = donburi.NewComponentType[SessionStats]()

// Stats owns one entity carrying SessionStatsComponent and keeps it current
// from SceneEventType.
type Stats struct {
	world  donburi.World
	entity donburi.Entity
}

// NewStats creates the stats entity in world and subscribes it to scene
// events. Totals advance when the world's events are processed.
func NewStats(world donburi.World) *Stats {
	st := &Stats{world: world, entity: world.Create(SessionStatsComponent)}
	SceneEventType.Subscribe(world, st.onEvent)
	return st
}

// Get returns a copy of the current totals.
func (st *Stats) Get() SessionStats {
	return *SessionStatsComponent.Get(st.world.Entry(st.entity))
}

func (st *Stats) onEvent(w donburi.World, e bubblepop.SceneEvent) {
	s := SessionStatsComponent.Get(w.Entry(st.entity))
	s.LastTick = e.Tick
	switch e.Type {
	case bubblepop.EventPop:
		s.Pops++
		s.Bubbles = e.Count
		if e.Popped.Radius > s.LargestR {
			s.LargestR = e.Popped.Radius
		}
	case bubblepop.EventReset:
		s.Resets++
		s.Bubbles = e.Count
	case bubblepop.EventPopup:
		s.Popups++
		s.LastText = e.Text
	case bubblepop.EventThought:
		s.Thoughts++
		s.LastText = e.Text
	}
	if s.Bubbles > s.Peak {
		s.Peak = s.Bubbles
	}
}
