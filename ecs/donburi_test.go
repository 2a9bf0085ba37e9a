package ecs

import (
	"testing"

	"github.com/phanxgames/bubblepop"

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

	var received []bubblepop.SceneEvent
	SceneEventType.Subscribe(world, func(w donburi.World, e bubblepop.SceneEvent) {
		received = append(received, e)
	})

	store.EmitEvent(bubblepop.SceneEvent{
		Type:   bubblepop.EventPop,
		Tick:   42,
		X:      100,
		Y:      200,
		Popped: bubblepop.Bubble{Radius: 30},
		Count:  16,
	})
	store.EmitEvent(bubblepop.SceneEvent{Type: bubblepop.EventReset, Count: 15})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before ProcessEvents", len(received))
	}
	SceneEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != bubblepop.EventPop || e0.Tick != 42 || e0.Count != 16 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.X, e0.Y)
	}
	if received[1].Type != bubblepop.EventReset {
		t.Errorf("event 1 type = %v, want reset", received[1].Type)
	}
}

func TestDonburiStore_ImplementsEventStore(t *testing.T) {
	world := donburi.NewWorld()
	var store bubblepop.EventStore = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_SceneIntegration(t *testing.T) {
	world := donburi.NewWorld()
	scene := bubblepop.NewScene()
	scene.SetSeed(7)
	scene.SetEventStore(NewDonburiStore(world))
	stats := NewStats(world)

	scene.Reset(640, 480)
	b := scene.Bubbles()[0]
	x, y, r := b.X, b.Y, b.Radius
	scene.PointerDown(x, y)
	popped := scene.PointerUp(x, y)
	events.ProcessAllEvents(world)

	got := stats.Get()
	if got.Resets != 1 {
		t.Errorf("Resets = %d, want 1", got.Resets)
	}
	if got.Pops != popped {
		t.Errorf("Pops = %d, want %d", got.Pops, popped)
	}
	if got.Bubbles != 15+popped {
		t.Errorf("Bubbles = %d, want %d", got.Bubbles, 15+popped)
	}
	if got.Peak != got.Bubbles {
		t.Errorf("Peak = %d, want %d", got.Peak, got.Bubbles)
	}
	if popped > 0 && got.LargestR < r {
		t.Errorf("LargestR = %v, want >= %v", got.LargestR, r)
	}
}

func TestStats_PopupEvents(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	stats := NewStats(world)

	store.EmitEvent(bubblepop.SceneEvent{Type: bubblepop.EventPopup, Text: "wasted"})
	store.EmitEvent(bubblepop.SceneEvent{Type: bubblepop.EventThought, Text: "deep"})
	events.ProcessAllEvents(world)

	got := stats.Get()
	if got.Popups != 1 || got.Thoughts != 1 {
		t.Errorf("Popups, Thoughts = %d, %d; want 1, 1", got.Popups, got.Thoughts)
	}
	if got.LastText != "deep" {
		t.Errorf("LastText = %q, want %q", got.LastText, "deep")
	}
}
