package ecs

import (
	"github.com/phanxgames/mapoverlay"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for panel and overlay
// interactions. Events are queued on publish and delivered by ProcessEvents.
var InteractionEventType = events.NewEventType[mapoverlay.InteractionEvent]()

// Interaction mirrors the console's single interaction slot as ECS data.
// Active is false between interactions; the other fields then describe the
// last one.
type Interaction struct {
	Active bool
	Target mapoverlay.Target
	Mode   mapoverlay.Mode
	// Origin is the pointer position at which the interaction began.
	OriginX, OriginY float64
	X, Y             float64
}

// InteractionComponent holds the Interaction of the entity a sink creates.
var InteractionComponent = donburi.NewComponentType[Interaction]()

type donburiSink struct {
	world donburi.World
	entry *donburi.Entry
	kinds map[mapoverlay.TargetKind]bool
}

// NewDonburiSink creates an EventSink backed by a Donburi world. It creates
// one entity carrying InteractionComponent, kept in step with every event,
// and publishes each event to InteractionEventType.
//
// When kinds are given only interactions on those target kinds are
// forwarded; the others leave the world untouched.
func NewDonburiSink(world donburi.World, kinds ...mapoverlay.TargetKind) mapoverlay.EventSink {
	s := &donburiSink{
		world: world,
		entry: world.Entry(world.Create(InteractionComponent)),
	}
	if len(kinds) > 0 {
		s.kinds = make(map[mapoverlay.TargetKind]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}
	return s
}

func (s *donburiSink) EmitEvent(event mapoverlay.InteractionEvent) {
	if s.kinds != nil && !s.kinds[event.Target.Kind] {
		return
	}
	in := InteractionComponent.Get(s.entry)
	in.Target = event.Target
	in.Mode = event.Mode
	in.X, in.Y = event.X, event.Y
	in.OriginX, in.OriginY = event.X-event.DeltaX, event.Y-event.DeltaY
	switch event.Type {
	case mapoverlay.EventBegin, mapoverlay.EventUpdate:
		in.Active = true
	case mapoverlay.EventEnd, mapoverlay.EventCancel:
		in.Active = false
	}
	InteractionEventType.Publish(s.world, event)
}

// CurrentInteraction returns the interaction a sink in world is tracking.
// It reports false when no interaction is in progress or no sink exists.
func CurrentInteraction(world donburi.World) (Interaction, bool) {
	entry, ok := InteractionComponent.First(world)
	if !ok {
		return Interaction{}, false
	}
	in := InteractionComponent.Get(entry)
	return *in, in.Active
}

// OnInteraction subscribes fn to interaction events on targets of the given
// kind. fn runs when the world's events are processed.
func OnInteraction(world donburi.World, kind mapoverlay.TargetKind, fn func(donburi.World, mapoverlay.InteractionEvent)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, e mapoverlay.InteractionEvent) {
		if e.Target.Kind == kind {
			fn(w, e)
		}
	})
}
