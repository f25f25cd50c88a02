package ecs

import (
	"testing"

	"github.com/phanxgames/mapoverlay"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []mapoverlay.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e mapoverlay.InteractionEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(mapoverlay.InteractionEvent{
		Type:   mapoverlay.EventBegin,
		Target: mapoverlay.Target{Kind: mapoverlay.TargetPanel, ID: "timer"},
		Mode:   mapoverlay.ModeMove,
		X:      100,
		Y:      200,
	})
	sink.EmitEvent(mapoverlay.InteractionEvent{
		Type:   mapoverlay.EventUpdate,
		Target: mapoverlay.Target{Kind: mapoverlay.TargetOverlay, ID: "o1"},
		Mode:   mapoverlay.ModeSubresize,
		DeltaY: 12,
	})

	// Events are queued until processed.
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	e0 := received[0]
	if e0.Type != mapoverlay.EventBegin || e0.Target.ID != "timer" {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.X, e0.Y)
	}

	e1 := received[1]
	if e1.Mode != mapoverlay.ModeSubresize || e1.DeltaY != 12 {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiSink_ConsoleDrag(t *testing.T) {
	world := donburi.NewWorld()
	c := mapoverlay.NewConsole(mapoverlay.DefaultConfig())
	c.Layout(1280, 720)
	c.SetEventSink(NewDonburiSink(world))

	var types []mapoverlay.EventType
	InteractionEventType.Subscribe(world, func(w donburi.World, e mapoverlay.InteractionEvent) {
		types = append(types, e.Type)
	})

	r, _ := c.Panels().Rect(mapoverlay.PanelTimer)
	if err := c.Panels().StartDrag(mapoverlay.PanelTimer, r.Position()); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	c.Window().DispatchMove(mapoverlay.PointerEvent{X: r.X + 10, Y: r.Y + 10})
	c.Window().DispatchUp(mapoverlay.PointerEvent{X: r.X + 10, Y: r.Y + 10})
	events.ProcessAllEvents(world)

	want := []mapoverlay.EventType{mapoverlay.EventBegin, mapoverlay.EventUpdate, mapoverlay.EventEnd}
	if len(types) != len(want) {
		t.Fatalf("got %d events, want %d", len(types), len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestDonburiSink_KindFilter(t *testing.T) {
	world := donburi.NewWorld()
	c := mapoverlay.NewConsole(mapoverlay.DefaultConfig())
	c.Layout(1280, 720)
	c.SetEventSink(NewDonburiSink(world, mapoverlay.TargetOverlay))

	var got []mapoverlay.Target
	InteractionEventType.Subscribe(world, func(w donburi.World, e mapoverlay.InteractionEvent) {
		got = append(got, e.Target)
	})

	// A panel drag is filtered out.
	r, _ := c.Panels().Rect(mapoverlay.PanelTimer)
	_ = c.Panels().StartDrag(mapoverlay.PanelTimer, r.Position())
	c.Window().DispatchMove(mapoverlay.PointerEvent{X: r.X + 10, Y: r.Y + 10})
	c.Window().DispatchUp(mapoverlay.PointerEvent{X: r.X + 10, Y: r.Y + 10})

	id, err := c.Overlays().Add("Harbor Guild")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	o, _ := c.Overlays().ScreenRect(id)
	p := o.Center()
	_ = c.Overlays().StartDrag(id, p)
	c.Window().DispatchMove(mapoverlay.PointerEvent{X: p.X + 20, Y: p.Y})
	c.Window().DispatchUp(mapoverlay.PointerEvent{X: p.X + 20, Y: p.Y})
	events.ProcessAllEvents(world)

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3 overlay events", len(got))
	}
	for i, target := range got {
		if target.Kind != mapoverlay.TargetOverlay || target.ID != id {
			t.Errorf("event %d target = %v", i, target)
		}
	}
}

func TestCurrentInteraction(t *testing.T) {
	world := donburi.NewWorld()
	if _, ok := CurrentInteraction(world); ok {
		t.Fatal("interaction reported without a sink")
	}

	c := mapoverlay.NewConsole(mapoverlay.DefaultConfig())
	c.Layout(1280, 720)
	c.SetEventSink(NewDonburiSink(world))

	r, _ := c.Panels().Rect(mapoverlay.PanelInterest)
	from := r.Position().Add(mapoverlay.Vec2{X: 5, Y: 5})
	_ = c.Panels().StartDrag(mapoverlay.PanelInterest, from)
	c.Window().DispatchMove(mapoverlay.PointerEvent{X: from.X + 30, Y: from.Y + 40})

	in, ok := CurrentInteraction(world)
	if !ok {
		t.Fatal("no interaction during drag")
	}
	if in.Target.ID != mapoverlay.PanelInterest || in.Mode != mapoverlay.ModeMove {
		t.Errorf("interaction = %+v", in)
	}
	if in.OriginX != from.X || in.OriginY != from.Y || in.X != from.X+30 || in.Y != from.Y+40 {
		t.Errorf("pointer = (%v,%v) from (%v,%v)", in.X, in.Y, in.OriginX, in.OriginY)
	}

	c.Window().DispatchUp(mapoverlay.PointerEvent{X: from.X + 30, Y: from.Y + 40})
	if _, ok := CurrentInteraction(world); ok {
		t.Error("interaction still active after release")
	}
}

func TestOnInteraction(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var panels, overlays int
	OnInteraction(world, mapoverlay.TargetPanel, func(w donburi.World, e mapoverlay.InteractionEvent) {
		panels++
	})
	OnInteraction(world, mapoverlay.TargetOverlay, func(w donburi.World, e mapoverlay.InteractionEvent) {
		overlays++
	})

	sink.EmitEvent(mapoverlay.InteractionEvent{Type: mapoverlay.EventBegin, Target: mapoverlay.Target{Kind: mapoverlay.TargetPanel, ID: "timer"}})
	sink.EmitEvent(mapoverlay.InteractionEvent{Type: mapoverlay.EventEnd, Target: mapoverlay.Target{Kind: mapoverlay.TargetPanel, ID: "timer"}})
	sink.EmitEvent(mapoverlay.InteractionEvent{Type: mapoverlay.EventBegin, Target: mapoverlay.Target{Kind: mapoverlay.TargetOverlay, ID: "o1"}})
	InteractionEventType.ProcessEvents(world)

	if panels != 2 || overlays != 1 {
		t.Errorf("panels = %d, overlays = %d, want 2, 1", panels, overlays)
	}
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink mapoverlay.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}
