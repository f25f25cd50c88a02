// Package mapoverlay is the overlay positioning engine of a game-master map
// console built on [Ebitengine].
//
// It manages two kinds of movable, resizable boxes drawn over a zoomable
// world map:
//
//   - floating panels (a phase timer, an interest tracker) that live in fixed
//     screen space and may be dragged, resized, minimized and reset;
//   - geo-anchored overlays, annotation boxes pinned to a latitude/longitude
//     that follow the map as it pans and zooms.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	console := mapoverlay.NewConsole(mapoverlay.DefaultConfig())
//	mapoverlay.Run(console, mapoverlay.RunConfig{
//		Title: "Map Console", Width: 1280, Height: 720,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Console.Layout], [Console.Update] and [Console.Draw] directly.
//
// # Interactions
//
// Every drag and resize, whether it targets a panel or an overlay, goes
// through the single [Controller]. Starting an interaction snapshots the
// target's geometry and the pointer position, and attaches one move and one
// up listener to the [Window]. Every move applies the total delta from the
// original pointer position to the snapshot, so no error accumulates over a
// long drag. Releasing the pointer commits the last value and detaches both
// listeners.
//
// Only one interaction is active at a time. Starting another while one is in
// progress returns [ErrInteractionActive].
//
// # Panels
//
// [PanelStore] owns the panel layouts. Positions are clamped so a panel can
// overhang the top and left edges slightly but always keeps a grabbable part
// on screen. Focusing a panel takes a fresh value from the shared [ZOrder]
// counter, which never decreases.
//
// # Overlays
//
// [OverlayProjector] keeps each overlay's geographic coordinate as the source
// of truth and derives its screen rectangle from the [MapView] projection.
// Dragging an overlay converts the screen delta to a geographic delta with two
// unprojections, so overlays stay attached to the map at every zoom level.
//
// # Logging
//
// Components log through [go.uber.org/zap]. The default logger is a no-op;
// use [Console.SetLogger] or [Console.SetDebugMode] to see interaction
// tracing.
//
// # Testing
//
// [Console.InjectPress], [Console.InjectMove], [Console.InjectRelease] and
// [Console.InjectDrag] queue synthetic pointer events consumed one per frame.
// [LoadGestureScript] sequences them from YAML for automated runs.
//
// [Ebitengine]: https://ebitengine.org
package mapoverlay
