package mapoverlay

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// PanelLayout is the screen-space layout of one floating panel.
type PanelLayout struct {
	Position Vec2
	Width    float64
	// Height is the explicit height. Zero means automatic: the panel is as
	// tall as its content. Height is kept but not applied while minimized.
	Height    float64
	Minimized bool
	ZIndex    int
}

// panelEntry is the store's record for a panel.
type panelEntry struct {
	spec    PanelSpec
	layout  PanelLayout
	measure func() Size
}

// PanelStore owns the layouts of every floating panel and routes their
// handles into the shared Controller.
type PanelStore struct {
	ctrl     *Controller
	zorder   *ZOrder
	cfg      Config
	order    []string
	panels   map[string]*panelEntry
	viewport Size
	log      *zap.Logger
}

// NewPanelStore creates layouts for every panel in cfg.Panels from the given
// viewport and registers the store with ctrl. The z-order counter is seeded
// from the highest default z-index.
func NewPanelStore(ctrl *Controller, zorder *ZOrder, cfg Config, viewport Size) *PanelStore {
	s := &PanelStore{
		ctrl:     ctrl,
		zorder:   zorder,
		cfg:      cfg,
		panels:   make(map[string]*panelEntry, len(cfg.Panels)),
		viewport: viewport,
		log:      zap.NewNop(),
	}
	for i, spec := range cfg.Panels {
		layout := s.defaultLayout(spec)
		layout.ZIndex = i + 1
		s.order = append(s.order, spec.ID)
		s.panels[spec.ID] = &panelEntry{spec: spec, layout: layout}
	}
	zorder.Seed(len(cfg.Panels))
	ctrl.panels = s
	return s
}

// SetLogger replaces the store's logger. A nil logger disables logging.
func (s *PanelStore) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

// IDs returns the panel ids in configuration order.
func (s *PanelStore) IDs() []string {
	return append([]string(nil), s.order...)
}

// Layout returns the current layout of a panel.
func (s *PanelStore) Layout(id string) (PanelLayout, bool) {
	e, ok := s.panels[id]
	if !ok {
		return PanelLayout{}, false
	}
	return e.layout, true
}

// Layouts returns every panel layout keyed by id.
func (s *PanelStore) Layouts() map[string]PanelLayout {
	out := make(map[string]PanelLayout, len(s.panels))
	for id, e := range s.panels {
		out[id] = e.layout
	}
	return out
}

// Viewport returns the viewport size the store lays out against.
func (s *PanelStore) Viewport() Size {
	return s.viewport
}

// Rect returns the rectangle a panel currently occupies on screen. Minimized
// panels collapse to their header; automatic heights use the registered
// measure callback, falling back to the minimum panel height.
func (s *PanelStore) Rect(id string) (Rect, bool) {
	e, ok := s.panels[id]
	if !ok {
		return Rect{}, false
	}
	l := e.layout
	r := Rect{X: l.Position.X, Y: l.Position.Y, Width: l.Width}
	switch {
	case l.Minimized:
		r.Height = s.cfg.HeaderHeight
	case l.Height > 0:
		r.Height = l.Height
	default:
		r.Height = s.measuredSize(e).Height
	}
	return r, true
}

// DefaultLayout computes the viewport-proportional layout of a panel without
// touching the stored state. ZIndex is left zero.
func (s *PanelStore) DefaultLayout(id string) (PanelLayout, error) {
	e, ok := s.panels[id]
	if !ok {
		return PanelLayout{}, fmt.Errorf("default layout %q: %w", id, ErrUnknownPanel)
	}
	return s.defaultLayout(e.spec), nil
}

func (s *PanelStore) defaultLayout(spec PanelSpec) PanelLayout {
	vw, vh := s.viewport.Width, s.viewport.Height

	maxW := spec.MaxWidth
	if maxW <= 0 {
		maxW = math.Inf(1)
	}
	w := clampFloat(vw*spec.WidthFraction, spec.MinWidth, maxW)
	w = math.Max(w, s.cfg.PanelMinSize.Width)

	var h float64
	if spec.HeightFraction > 0 {
		h = math.Max(vh*spec.HeightFraction, s.cfg.PanelMinSize.Height)
	}

	var x float64
	switch spec.Anchor {
	case AnchorTopCenter:
		x = (vw - w) / 2
	case AnchorTopRight:
		x = vw - w - spec.Margin
	default:
		x = spec.Margin
	}
	return PanelLayout{
		Position: ClampPosition(Vec2{x, spec.Margin}, s.bounds()),
		Width:    w,
		Height:   h,
	}
}

func (s *PanelStore) bounds() Bounds {
	return Bounds{Viewport: s.viewport, Overhang: s.cfg.Overhang, MinVisible: s.cfg.MinVisible}
}

// --- Focus and z-order ---

// BringToFront makes id the front-most panel. It is a no-op when the panel
// already holds the top z-index.
func (s *PanelStore) BringToFront(id string) error {
	e, ok := s.panels[id]
	if !ok {
		return fmt.Errorf("bring to front %q: %w", id, ErrUnknownPanel)
	}
	if e.layout.ZIndex == s.zorder.Top() {
		return nil
	}
	e.layout.ZIndex = s.zorder.Next()
	return nil
}

// Focus is BringToFront under the name view code binds to pointer-down on a
// panel body.
func (s *PanelStore) Focus(id string) error {
	return s.BringToFront(id)
}

// --- Minimize and reset ---

// ToggleMinimize flips the minimized flag. Position, width and any explicit
// height survive the round trip. A panel cannot be minimized mid-drag.
func (s *PanelStore) ToggleMinimize(id string) error {
	e, ok := s.panels[id]
	if !ok {
		return fmt.Errorf("toggle minimize %q: %w", id, ErrUnknownPanel)
	}
	if st, active := s.ctrl.State(); active && st.Target == (Target{TargetPanel, id}) {
		return fmt.Errorf("toggle minimize %q: %w", id, ErrInteractionActive)
	}
	e.layout.Minimized = !e.layout.Minimized
	return nil
}

// Reset restores the default layout of one panel and brings it to front.
func (s *PanelStore) Reset(id string) error {
	e, ok := s.panels[id]
	if !ok {
		return fmt.Errorf("reset %q: %w", id, ErrUnknownPanel)
	}
	e.layout = s.defaultLayout(e.spec)
	e.layout.ZIndex = s.zorder.Next()
	return nil
}

// ResetAll restores every default layout. The counter is reseeded from the
// defaults' maximum and fresh values are issued above everything handed out
// before, in configuration order.
func (s *PanelStore) ResetAll() {
	s.zorder.Seed(len(s.order))
	for _, id := range s.order {
		e := s.panels[id]
		e.layout = s.defaultLayout(e.spec)
		e.layout.ZIndex = s.zorder.Next()
	}
}

// --- Viewport ---

// OnViewportResize adapts layouts to a new viewport. Top-center panels are
// re-centered, every position is re-clamped, and explicit heights are
// re-clamped to the space below the panel. While an interaction is active
// the re-layout is skipped so it does not fight the user's drag; the new
// viewport still bounds the drag. Non-positive sizes, such as a minimized
// window, and unchanged sizes are ignored.
func (s *PanelStore) OnViewportResize(viewport Size) {
	if viewport.Width <= 0 || viewport.Height <= 0 {
		s.log.Debug("non-positive viewport ignored",
			zap.Float64("width", viewport.Width),
			zap.Float64("height", viewport.Height))
		return
	}
	if viewport == s.viewport {
		return
	}
	first := s.viewport.Width <= 0 || s.viewport.Height <= 0
	s.viewport = viewport
	if first {
		// First measurement: the constructor had nothing to be proportional to.
		for _, id := range s.order {
			e := s.panels[id]
			z := e.layout.ZIndex
			e.layout = s.defaultLayout(e.spec)
			e.layout.ZIndex = z
		}
		return
	}
	if s.ctrl.Active() {
		s.log.Debug("viewport re-layout skipped during interaction",
			zap.Float64("width", viewport.Width),
			zap.Float64("height", viewport.Height))
		return
	}
	b := s.bounds()
	for _, id := range s.order {
		e := s.panels[id]
		l := &e.layout
		if e.spec.Anchor == AnchorTopCenter {
			l.Position.X = (viewport.Width - l.Width) / 2
		}
		l.Position = ClampPosition(l.Position, b)
		if l.Height > 0 {
			l.Height = clampFloat(l.Height, s.cfg.PanelMinSize.Height, viewport.Height-l.Position.Y)
		}
	}
}

// --- Measurement ---

// RegisterMeasure installs the callback that reports a panel's rendered
// size. Passing nil unregisters it.
func (s *PanelStore) RegisterMeasure(id string, fn func() Size) error {
	e, ok := s.panels[id]
	if !ok {
		return fmt.Errorf("register measure %q: %w", id, ErrUnknownPanel)
	}
	e.measure = fn
	return nil
}

func (s *PanelStore) measuredSize(e *panelEntry) Size {
	size := Size{Width: e.layout.Width, Height: s.cfg.PanelMinSize.Height}
	if e.measure != nil {
		m := e.measure()
		if m.Height > 0 {
			size.Height = m.Height
		}
		if size.Width <= 0 {
			size.Width = m.Width
		}
	}
	return size
}

// --- Interaction entry points ---

// StartDrag brings the panel to front and begins a move interaction at
// pointer.
func (s *PanelStore) StartDrag(id string, pointer Vec2) error {
	return s.start(id, ModeMove, pointer)
}

// StartResize brings the panel to front and begins a resize interaction at
// pointer. An automatic height starts from the measured height.
func (s *PanelStore) StartResize(id string, pointer Vec2) error {
	return s.start(id, ModeResize, pointer)
}

func (s *PanelStore) start(id string, mode Mode, pointer Vec2) error {
	e, ok := s.panels[id]
	if !ok {
		return fmt.Errorf("start %s %q: %w", mode, id, ErrUnknownPanel)
	}
	if e.layout.Minimized {
		return fmt.Errorf("start %s %q: %w", mode, id, ErrPanelMinimized)
	}
	if s.ctrl.Active() {
		return fmt.Errorf("start %s %q: %w", mode, id, ErrInteractionActive)
	}
	if err := s.BringToFront(id); err != nil {
		return err
	}

	size := Size{Width: e.layout.Width, Height: e.layout.Height}
	if size.Height <= 0 {
		size = s.measuredSize(e)
	}
	return s.ctrl.Begin(Target{Kind: TargetPanel, ID: id}, mode, pointer, Snapshot{
		Position: e.layout.Position,
		Size:     size,
	})
}

// --- panelSpace ---

func (s *PanelStore) movePanel(id string, pos Vec2) bool {
	e, ok := s.panels[id]
	if !ok {
		return false
	}
	e.layout.Position = ClampPosition(pos, s.bounds())
	return true
}

func (s *PanelStore) resizePanel(id string, size Size) bool {
	e, ok := s.panels[id]
	if !ok {
		return false
	}
	size = ClampSize(size, e.layout.Position, s.cfg.PanelMinSize, s.bounds())
	e.layout.Width = size.Width
	e.layout.Height = size.Height
	return true
}
