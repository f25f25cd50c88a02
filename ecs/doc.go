// Package ecs provides ECS adapters for mapoverlay's interaction events.
//
// The primary adapter is [NewDonburiSink], which forwards begin, update, end
// and cancel events for panel and overlay interactions into a [Donburi] world
// as typed events. Subscribe to [InteractionEventType], or use [OnInteraction]
// to receive only panel or only overlay events. Systems that poll instead can
// read the live interaction with [CurrentInteraction].
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world, mapoverlay.TargetOverlay)
//	console.SetEventSink(sink)
//	ecs.OnInteraction(world, mapoverlay.TargetOverlay, onOverlayMoved)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
