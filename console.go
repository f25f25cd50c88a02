package mapoverlay

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// wheelZoomStep is the zoom change per wheel notch.
const wheelZoomStep = 0.5

// pointerState tracks the primary pointer between frames.
type pointerState struct {
	down  bool
	start Vec2
	last  Vec2
	// mapPress is set when the press landed on empty map space; panning
	// starts once the pointer leaves the drag dead zone.
	mapPress bool
	panning  bool
}

// Console is the top-level object that owns the window listener registry,
// the interaction controller, the z-order counter, the floating panels, the
// map view and the geo-anchored overlays.
type Console struct {
	cfg      Config
	window   *Window
	ctrl     *Controller
	zorder   *ZOrder
	panels   *PanelStore
	view     *MapView
	overlays *OverlayProjector

	log       *zap.Logger
	logCustom bool
	debug     bool

	pointer     pointerState
	injectQueue []syntheticPointerEvent
	runner      *GestureRunner
	closed      bool
}

// NewConsole creates a console from cfg. Nothing is laid out until the first
// Layout call reports the viewport size.
func NewConsole(cfg Config) *Console {
	window := NewWindow()
	ctrl := NewController(window)
	zorder := &ZOrder{}
	view := NewMapView(cfg.Map)
	c := &Console{
		cfg:      cfg,
		window:   window,
		ctrl:     ctrl,
		zorder:   zorder,
		panels:   NewPanelStore(ctrl, zorder, cfg, Size{}),
		view:     view,
		overlays: NewOverlayProjector(ctrl, view, cfg),
		log:      zap.NewNop(),
	}
	return c
}

// Config returns the configuration the console was built with.
func (c *Console) Config() Config { return c.cfg }

// Window returns the window-level listener registry.
func (c *Console) Window() *Window { return c.window }

// Controller returns the shared interaction controller.
func (c *Console) Controller() *Controller { return c.ctrl }

// Panels returns the floating panel store.
func (c *Console) Panels() *PanelStore { return c.panels }

// Map returns the map view.
func (c *Console) Map() *MapView { return c.view }

// Overlays returns the geo-anchored overlay projector.
func (c *Console) Overlays() *OverlayProjector { return c.overlays }

// ZOrder returns the shared stacking counter.
func (c *Console) ZOrder() *ZOrder { return c.zorder }

// SetEventSink sets the optional ECS bridge.
func (c *Console) SetEventSink(sink EventSink) {
	c.ctrl.SetEventSink(sink)
}

// Layout receives the viewport size from the host. The first call applies
// the initial map view; later calls re-clamp panels. A zero size, reported
// while the window is minimized, leaves everything as it was.
func (c *Console) Layout(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	size := Size{Width: float64(width), Height: float64(height)}
	if size == c.panels.Viewport() && c.view.Ready() {
		return
	}
	c.view.SetViewport(size)
	c.view.initView(c.cfg.Map.Center, c.cfg.Map.InitialZoom)
	c.panels.OnViewportResize(size)
}

// Update advances map animations, steps an attached gesture script and
// processes one frame of pointer input.
func (c *Console) Update() {
	if c.closed {
		return
	}
	dt := float32(1.0 / float64(ebiten.TPS()))
	c.view.Update(dt)
	if c.runner != nil {
		c.runner.step(c)
	}
	c.processInput()
}

// Close tears down any in-progress interaction and detaches every listener
// the console registered. The console ignores input afterwards.
func (c *Console) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.ctrl.Close()
	c.overlays.Close()
	c.pointer = pointerState{}
	c.injectQueue = c.injectQueue[:0]
}

// --- Input processing ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput feeds one pointer sample per frame: an injected one when
// queued, otherwise the real mouse.
func (c *Console) processInput() {
	if c.processInjectedInput() {
		return
	}
	mods := readModifiers()
	mx, my := ebiten.CursorPosition()
	pos := Vec2{float64(mx), float64(my)}
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	c.processPointer(pos, pressed, mods)

	if _, wy := ebiten.Wheel(); wy != 0 && c.view.Ready() {
		if h := c.HitTest(pos); h.Kind == HandleMap {
			c.view.ZoomAt(pos, wy*wheelZoomStep)
		}
	}
}

// processPointer runs the press/move/release state machine for the primary
// pointer. Moves and releases go to window-level listeners, so an active
// interaction keeps receiving them wherever the pointer is.
func (c *Console) processPointer(pos Vec2, pressed bool, mods KeyModifiers) {
	ps := &c.pointer
	ev := PointerEvent{X: pos.X, Y: pos.Y, Modifiers: mods}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.start = pos
		ps.last = pos
		ps.mapPress = false
		ps.panning = false
		c.pointerDown(pos)
	case !pressed && ps.down:
		ps.down = false
		ps.mapPress = false
		ps.panning = false
		ps.last = pos
		c.window.DispatchUp(ev)
	case pressed && ps.down:
		if pos == ps.last {
			return
		}
		if ps.mapPress {
			c.panMap(ps, pos)
		}
		c.window.DispatchMove(ev)
		ps.last = pos
	}
}

// panMap drags the map itself once the pointer leaves the dead zone.
func (c *Console) panMap(ps *pointerState, pos Vec2) {
	if !ps.panning {
		d := pos.Sub(ps.start)
		if math.Hypot(d.X, d.Y) <= c.cfg.DragDeadZone {
			return
		}
		ps.panning = true
		ps.last = ps.start
	}
	d := pos.Sub(ps.last)
	c.view.Pan(d.X, d.Y)
}

// pointerDown routes a press to the handle under the pointer. Failures to
// start an interaction are logged and otherwise ignored.
func (c *Console) pointerDown(pos Vec2) {
	h := c.HitTest(pos)
	var err error
	switch h.Kind {
	case HandlePanelHeader:
		err = c.panels.StartDrag(h.ID, pos)
	case HandlePanelResize:
		err = c.panels.StartResize(h.ID, pos)
	case HandlePanelBody:
		err = c.panels.Focus(h.ID)
	case HandlePanelMinimize:
		if err = c.panels.Focus(h.ID); err == nil {
			err = c.panels.ToggleMinimize(h.ID)
		}
	case HandlePanelReset:
		err = c.panels.Reset(h.ID)
	case HandleOverlayHeader:
		err = c.overlays.StartDrag(h.ID, pos)
	case HandleOverlayResize:
		err = c.overlays.StartResize(h.ID, pos)
	case HandleOverlaySubregion:
		err = c.overlays.StartSubregionResize(h.ID, pos)
	case HandleMap:
		c.pointer.mapPress = true
	}
	if err != nil {
		c.log.Debug("pointer down ignored", zap.Stringer("handle", h), zap.Error(err))
	}
}
