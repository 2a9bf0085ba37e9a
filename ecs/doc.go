// Package ecs provides ECS adapters for bubblepop scene events.
//
// The primary adapter is [NewDonburiStore], which bridges scene events
// (pops, resets, popup activity) into a [Donburi] world as typed events.
// Subscribe to [SceneEventType] in your ECS systems to receive them, or
// attach [NewStats] to keep running totals in a world entity.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEventStore(store)
//	stats := ecs.NewStats(world)
//	// each frame:
//	events.ProcessAllEvents(world)
//	fmt.Println(stats.Get().Pops)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
