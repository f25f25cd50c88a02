package mapoverlay

import (
	"fmt"

	"go.uber.org/zap"
)

// EventSink is the interface for optional ECS integration.
// When set on a Controller, interaction events are forwarded to it.
type EventSink interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type   EventType
	Target Target
	Mode   Mode
	// Pointer position in screen space.
	X, Y float64
	// Delta from the pointer position at which the interaction began.
	DeltaX, DeltaY float64
}

// Snapshot is the geometry of a target at the moment an interaction begins.
// Only the fields relevant to the target kind and mode are meaningful.
type Snapshot struct {
	Position  Vec2   // panel top-left
	Size      Size   // panel or overlay outer size
	Geo       LatLng // overlay anchor
	Subregion float64
}

// InteractionState describes the single in-progress drag or resize.
type InteractionState struct {
	Target Target
	Mode   Mode
	// Origin is the pointer position at pointer-down. Every delta is measured
	// from here, never from the previous move.
	Origin Vec2
	// Start is captured once at Begin and never re-read mid-drag.
	Start Snapshot
}

// panelSpace applies screen-space mutations. Implemented by PanelStore.
// Methods report false when the target no longer exists.
type panelSpace interface {
	movePanel(id string, pos Vec2) bool
	resizePanel(id string, size Size) bool
}

// overlaySpace applies geo-space mutations. Implemented by OverlayProjector.
type overlaySpace interface {
	projection() Projection
	moveOverlay(id string, geo LatLng) bool
	resizeOverlay(id string, size Size) bool
	resizeSubregion(id string, height float64) bool
}

// Controller owns the one active interaction slot shared by every panel and
// overlay handle, and the window-level move/up listener pair that drives it.
type Controller struct {
	window   *Window
	panels   panelSpace
	overlays overlaySpace
	sink     EventSink
	log      *zap.Logger

	active     *InteractionState
	attached   bool
	moveHandle ListenerHandle
	upHandle   ListenerHandle
}

// NewController creates a controller that listens on the given window.
func NewController(window *Window) *Controller {
	return &Controller{window: window, log: zap.NewNop()}
}

// SetEventSink sets the optional ECS bridge.
func (c *Controller) SetEventSink(sink EventSink) {
	c.sink = sink
}

// SetLogger replaces the controller's logger. A nil logger disables logging.
func (c *Controller) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	c.log = log
}

// Active reports whether an interaction is in progress.
func (c *Controller) Active() bool {
	return c.active != nil
}

// State returns a copy of the active interaction, if any.
func (c *Controller) State() (InteractionState, bool) {
	if c.active == nil {
		return InteractionState{}, false
	}
	return *c.active, true
}

// Begin starts an interaction on target. Only one interaction may be active:
// a second Begin before the first is released is rejected with
// ErrInteractionActive and the first continues untouched.
func (c *Controller) Begin(target Target, mode Mode, origin Vec2, start Snapshot) error {
	if c.active != nil {
		c.log.Debug("interaction rejected",
			zap.Stringer("target", target),
			zap.Stringer("active", c.active.Target))
		return fmt.Errorf("begin %s %s: %w", mode, target, ErrInteractionActive)
	}
	c.active = &InteractionState{
		Target: target,
		Mode:   mode,
		Origin: origin,
		Start:  start,
	}
	c.attach()
	c.log.Debug("interaction begin",
		zap.Stringer("target", target),
		zap.Stringer("mode", mode),
		zap.Float64("x", origin.X),
		zap.Float64("y", origin.Y))
	c.emit(EventBegin, origin)
	return nil
}

// Close tears down the active interaction, if any, and detaches the window
// listeners. Call it when the owner of the handles goes away mid-drag.
// Close is idempotent.
func (c *Controller) Close() {
	if c.active != nil {
		pos := c.active.Origin
		c.emit(EventCancel, pos)
		c.log.Debug("interaction cancelled", zap.Stringer("target", c.active.Target))
		c.active = nil
	}
	c.detach()
}

// attach registers the window listener pair. Repeated calls never stack
// additional listeners.
func (c *Controller) attach() {
	if c.attached {
		return
	}
	c.moveHandle = c.window.OnPointerMove(c.handleMove)
	c.upHandle = c.window.OnPointerUp(c.handleUp)
	c.attached = true
}

func (c *Controller) detach() {
	if !c.attached {
		return
	}
	c.moveHandle.Remove()
	c.upHandle.Remove()
	c.moveHandle = ListenerHandle{}
	c.upHandle = ListenerHandle{}
	c.attached = false
}

// handleMove routes a pointer move to the space that owns the target.
func (c *Controller) handleMove(ev PointerEvent) {
	st := c.active
	if st == nil {
		return
	}
	d := ev.Pos().Sub(st.Origin)

	var applied bool
	switch st.Target.Kind {
	case TargetPanel:
		applied = c.movePanelTarget(st, d)
	case TargetOverlay:
		applied = c.moveOverlayTarget(st, d)
	}
	if !applied {
		return
	}
	c.emit(EventUpdate, ev.Pos())
}

func (c *Controller) movePanelTarget(st *InteractionState, d Vec2) bool {
	if c.panels == nil {
		return false
	}
	var ok bool
	switch st.Mode {
	case ModeMove:
		ok = c.panels.movePanel(st.Target.ID, st.Start.Position.Add(d))
	case ModeResize:
		ok = c.panels.resizePanel(st.Target.ID, st.Start.Size.Add(d))
	}
	if !ok {
		c.log.Debug("stale interaction target", zap.Stringer("target", st.Target))
	}
	return ok
}

func (c *Controller) moveOverlayTarget(st *InteractionState, d Vec2) bool {
	if c.overlays == nil {
		return false
	}
	var ok bool
	switch st.Mode {
	case ModeMove:
		proj := c.overlays.projection()
		if proj == nil || !proj.Ready() {
			c.log.Debug("projection not ready", zap.Stringer("target", st.Target))
			return false
		}
		// Two unprojections: a screen pixel is not a constant angle.
		from := proj.Unproject(st.Origin)
		to := proj.Unproject(st.Origin.Add(d))
		ok = c.overlays.moveOverlay(st.Target.ID, st.Start.Geo.Add(to.Sub(from)))
	case ModeResize:
		ok = c.overlays.resizeOverlay(st.Target.ID, st.Start.Size.Add(d))
	case ModeSubresize:
		ok = c.overlays.resizeSubregion(st.Target.ID, st.Start.Subregion+d.Y)
	}
	if !ok {
		c.log.Debug("stale interaction target", zap.Stringer("target", st.Target))
	}
	return ok
}

// handleUp commits the last computed value by simply ending the interaction.
func (c *Controller) handleUp(ev PointerEvent) {
	if c.active == nil {
		c.detach()
		return
	}
	target := c.active.Target
	c.emit(EventEnd, ev.Pos())
	c.active = nil
	c.detach()
	c.log.Debug("interaction end", zap.Stringer("target", target))
}

// --- ECS bridge ---

func (c *Controller) emit(t EventType, pos Vec2) {
	if c.sink == nil || c.active == nil {
		return
	}
	d := pos.Sub(c.active.Origin)
	c.sink.EmitEvent(InteractionEvent{
		Type:   t,
		Target: c.active.Target,
		Mode:   c.active.Mode,
		X:      pos.X,
		Y:      pos.Y,
		DeltaX: d.X,
		DeltaY: d.Y,
	})
}
