package mapoverlay

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Overlay is an annotation box pinned to a geographic coordinate, such as an
// external organization placed on the map. Geo is authoritative; the screen
// rectangle is always derived from it.
type Overlay struct {
	ID    string
	Title string
	Geo   LatLng
	Size  Size
	// Subregion is the height of the embedded image area below the header.
	// It is resized independently of the outer box.
	Subregion float64
}

// ProjectedOverlay pairs an overlay with its current screen rectangle.
type ProjectedOverlay struct {
	Overlay
	Rect Rect
}

// rectKey is everything a screen rectangle depends on.
type rectKey struct {
	geo     LatLng
	size    Size
	version uint64
}

type overlayEntry struct {
	overlay Overlay
	key     rectKey
	rect    Rect
	cached  bool
}

// OverlayProjector keeps geo-anchored overlays pinned to the map. Screen
// rectangles are a pure function of (Geo, Size, view version), memoized per
// overlay and refreshed synchronously on every view change.
type OverlayProjector struct {
	ctrl       *Controller
	view       ViewSource
	cfg        Config
	order      []string
	entries    map[string]*overlayEntry
	viewHandle ListenerHandle
	log        *zap.Logger
}

// NewOverlayProjector creates an empty projector over view, subscribes to its
// view changes and registers with ctrl.
func NewOverlayProjector(ctrl *Controller, view ViewSource, cfg Config) *OverlayProjector {
	p := &OverlayProjector{
		ctrl:    ctrl,
		view:    view,
		cfg:     cfg,
		entries: make(map[string]*overlayEntry),
		log:     zap.NewNop(),
	}
	p.viewHandle = view.OnViewChange(p.Refresh)
	ctrl.overlays = p
	return p
}

// SetLogger replaces the projector's logger. A nil logger disables logging.
func (p *OverlayProjector) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	p.log = log
}

// Close detaches the projector from view-change notifications.
func (p *OverlayProjector) Close() {
	p.viewHandle.Remove()
	p.viewHandle = ListenerHandle{}
}

// --- Collection ---

// Add creates an overlay at the map's current center with the default size.
func (p *OverlayProjector) Add(title string) (string, error) {
	if !p.view.Ready() {
		return "", fmt.Errorf("add overlay %q: %w", title, ErrMapNotReady)
	}
	return p.AddAt(title, p.view.Center()), nil
}

// AddAt creates an overlay at geo with the default size.
func (p *OverlayProjector) AddAt(title string, geo LatLng) string {
	o := Overlay{
		ID:        uuid.NewString(),
		Title:     title,
		Geo:       clampLatLng(geo),
		Size:      p.cfg.OverlayDefaultSize,
		Subregion: p.cfg.Subregion.Clamp(p.cfg.SubregionDefault),
	}
	p.order = append(p.order, o.ID)
	p.entries[o.ID] = &overlayEntry{overlay: o}
	p.refreshEntry(p.entries[o.ID])
	p.log.Debug("overlay added", zap.String("id", o.ID), zap.String("title", title))
	return o.ID
}

// Remove deletes an overlay. An interaction still targeting it turns into a
// no-op until the pointer is released.
func (p *OverlayProjector) Remove(id string) error {
	if _, ok := p.entries[id]; !ok {
		return fmt.Errorf("remove overlay %q: %w", id, ErrUnknownOverlay)
	}
	delete(p.entries, id)
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.log.Debug("overlay removed", zap.String("id", id))
	return nil
}

// Len returns the number of overlays.
func (p *OverlayProjector) Len() int {
	return len(p.order)
}

// Overlay returns an overlay by id.
func (p *OverlayProjector) Overlay(id string) (Overlay, bool) {
	e, ok := p.entries[id]
	if !ok {
		return Overlay{}, false
	}
	return e.overlay, true
}

// Overlays returns every overlay in insertion order.
func (p *OverlayProjector) Overlays() []Overlay {
	out := make([]Overlay, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.entries[id].overlay)
	}
	return out
}

// SetGeo moves an overlay to a new coordinate.
func (p *OverlayProjector) SetGeo(id string, geo LatLng) error {
	if !p.moveOverlay(id, geo) {
		return fmt.Errorf("set geo %q: %w", id, ErrUnknownOverlay)
	}
	return nil
}

// SetSize resizes an overlay's outer box, never below the minimum size.
func (p *OverlayProjector) SetSize(id string, size Size) error {
	if !p.resizeOverlay(id, size) {
		return fmt.Errorf("set size %q: %w", id, ErrUnknownOverlay)
	}
	return nil
}

// SetSubregion sets the embedded image-area height, clamped to the
// configured range.
func (p *OverlayProjector) SetSubregion(id string, height float64) error {
	if !p.resizeSubregion(id, height) {
		return fmt.Errorf("set subregion %q: %w", id, ErrUnknownOverlay)
	}
	return nil
}

// --- Projection ---

// ScreenRect returns the overlay's box in viewport pixels, centered on the
// projection of its coordinate. It reports false for unknown overlays and
// while the map is not ready.
func (p *OverlayProjector) ScreenRect(id string) (Rect, bool) {
	e, ok := p.entries[id]
	if !ok {
		return Rect{}, false
	}
	return p.rectFor(e)
}

// SubregionRect returns the screen rectangle of the overlay's image area:
// directly below the header, never taller than the box body.
func (p *OverlayProjector) SubregionRect(id string) (Rect, bool) {
	r, ok := p.ScreenRect(id)
	if !ok {
		return Rect{}, false
	}
	o := p.entries[id].overlay
	body := r.Height - p.cfg.HeaderHeight
	return Rect{
		X:      r.X,
		Y:      r.Y + p.cfg.HeaderHeight,
		Width:  r.Width,
		Height: clampFloat(o.Subregion, 0, body),
	}, true
}

// Rects returns every overlay with its screen rectangle in insertion order.
// Nothing is returned until the map reports ready.
func (p *OverlayProjector) Rects() []ProjectedOverlay {
	if !p.view.Ready() {
		return nil
	}
	out := make([]ProjectedOverlay, 0, len(p.order))
	for _, id := range p.order {
		e := p.entries[id]
		r, ok := p.rectFor(e)
		if !ok {
			continue
		}
		out = append(out, ProjectedOverlay{Overlay: e.overlay, Rect: r})
	}
	return out
}

// Refresh recomputes every stale screen rectangle. It runs on every view
// change; calling it again without changes recomputes nothing.
func (p *OverlayProjector) Refresh() {
	if !p.view.Ready() {
		return
	}
	for _, id := range p.order {
		p.refreshEntry(p.entries[id])
	}
}

func (p *OverlayProjector) refreshEntry(e *overlayEntry) {
	if p.view.Ready() {
		p.rectFor(e)
	}
}

func (p *OverlayProjector) rectFor(e *overlayEntry) (Rect, bool) {
	if !p.view.Ready() {
		return Rect{}, false
	}
	key := rectKey{geo: e.overlay.Geo, size: e.overlay.Size, version: p.view.Version()}
	if e.cached && e.key == key {
		return e.rect, true
	}
	e.rect = CenteredRect(p.view.Project(e.overlay.Geo), e.overlay.Size)
	e.key = key
	e.cached = true
	return e.rect, true
}

// --- Interaction entry points ---

// StartDrag begins moving an overlay. The drag is converted to geographic
// deltas through the map's unprojection on every move.
func (p *OverlayProjector) StartDrag(id string, pointer Vec2) error {
	if !p.view.Ready() {
		return fmt.Errorf("start drag %q: %w", id, ErrMapNotReady)
	}
	return p.start(id, ModeMove, pointer)
}

// StartResize begins resizing an overlay's outer box.
func (p *OverlayProjector) StartResize(id string, pointer Vec2) error {
	return p.start(id, ModeResize, pointer)
}

// StartSubregionResize begins resizing an overlay's image area.
func (p *OverlayProjector) StartSubregionResize(id string, pointer Vec2) error {
	return p.start(id, ModeSubresize, pointer)
}

func (p *OverlayProjector) start(id string, mode Mode, pointer Vec2) error {
	e, ok := p.entries[id]
	if !ok {
		return fmt.Errorf("start %s %q: %w", mode, id, ErrUnknownOverlay)
	}
	o := e.overlay
	sub := o.Subregion
	if mode == ModeSubresize {
		// The drag starts from the rendered edge, not the stored value.
		if r, ok := p.SubregionRect(id); ok {
			sub = p.cfg.Subregion.Clamp(r.Height)
		}
	}
	return p.ctrl.Begin(Target{Kind: TargetOverlay, ID: id}, mode, pointer, Snapshot{
		Size:      o.Size,
		Geo:       o.Geo,
		Subregion: sub,
	})
}

// --- overlaySpace ---

func (p *OverlayProjector) projection() Projection {
	return p.view
}

func (p *OverlayProjector) moveOverlay(id string, geo LatLng) bool {
	e, ok := p.entries[id]
	if !ok {
		return false
	}
	e.overlay.Geo = clampLatLng(geo)
	p.refreshEntry(e)
	return true
}

func (p *OverlayProjector) resizeOverlay(id string, size Size) bool {
	e, ok := p.entries[id]
	if !ok {
		return false
	}
	e.overlay.Size = MaxSize(size, p.cfg.OverlayMinSize)
	p.refreshEntry(e)
	return true
}

func (p *OverlayProjector) resizeSubregion(id string, height float64) bool {
	e, ok := p.entries[id]
	if !ok {
		return false
	}
	e.overlay.Subregion = p.cfg.Subregion.Clamp(height)
	return true
}
