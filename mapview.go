package mapoverlay

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxLatitude is the Web Mercator latitude limit, where the projected world
// becomes square.
const maxLatitude = 85.05112878

// Projection is the map capability the overlay engine consumes: a mapping
// between geographic coordinates and viewport pixels, its inverse, and a
// readiness signal. Version changes every time the mapping changes.
type Projection interface {
	Project(g LatLng) Vec2
	Unproject(p Vec2) LatLng
	Ready() bool
	Version() uint64
}

// ViewSource is a Projection that also reports its center and notifies
// subscribers when the view changes. MapView implements it.
type ViewSource interface {
	Projection
	Center() LatLng
	OnViewChange(fn func()) ListenerHandle
}

// flyAnim holds active fly-to tweens for latitude, longitude and zoom.
type flyAnim struct {
	lat, lng, zoom *gween.Tween
	done           [3]bool

	// Tweens run in float32; the exact target is applied on completion.
	center     LatLng
	targetZoom float64
}

// MapView is a Web Mercator view of the world: a center coordinate and a
// zoom level rendered into a viewport. It implements Projection.
type MapView struct {
	center    LatLng
	zoom      float64
	viewport  Size
	tileSize  float64
	zoomRange Range

	initialized bool
	version     uint64

	// Derived; recomputed lazily when dirty.
	scale       float64
	centerWorld Vec2
	dirty       bool

	fly     *flyAnim
	changes listenerList[uint64]
}

// NewMapView creates a map view. It is not ready until it has a measured
// viewport and an initial view.
func NewMapView(cfg MapConfig) *MapView {
	return &MapView{
		center:    cfg.Center,
		zoom:      cfg.Zoom.Clamp(cfg.InitialZoom),
		tileSize:  cfg.TileSize,
		zoomRange: cfg.Zoom,
		dirty:     true,
	}
}

// Ready reports whether the view has been measured and initialized.
func (m *MapView) Ready() bool {
	return m.initialized && m.viewport.Width > 0 && m.viewport.Height > 0
}

// Version returns a counter that increases on every view change.
func (m *MapView) Version() uint64 {
	return m.version
}

// Center returns the geographic coordinate at the middle of the viewport.
func (m *MapView) Center() LatLng { return m.center }

// Zoom returns the current zoom level.
func (m *MapView) Zoom() float64 { return m.zoom }

// Viewport returns the measured viewport size.
func (m *MapView) Viewport() Size { return m.viewport }

// OnViewChange registers a callback fired synchronously after every pan,
// zoom or viewport change.
func (m *MapView) OnViewChange(fn func()) ListenerHandle {
	id := m.changes.add(func(uint64) { fn() })
	return ListenerHandle{remove: func() bool { return m.changes.remove(id) }}
}

// SetViewport records the measured size of the map container.
func (m *MapView) SetViewport(size Size) {
	if size == m.viewport {
		return
	}
	m.viewport = size
	m.changed()
}

// SetView jumps to center at zoom and marks the view initialized.
func (m *MapView) SetView(center LatLng, zoom float64) {
	m.fly = nil
	m.center = clampLatLng(center)
	m.zoom = m.zoomRange.Clamp(zoom)
	m.initialized = true
	m.changed()
}

// initView applies the starting view unless one was already set. A FlyTo
// issued before the first layout keeps running.
func (m *MapView) initView(center LatLng, zoom float64) {
	if m.initialized {
		return
	}
	m.center = clampLatLng(center)
	m.zoom = m.zoomRange.Clamp(zoom)
	m.initialized = true
	m.changed()
}

// Pan moves the map content by (dx, dy) screen pixels.
func (m *MapView) Pan(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	m.fly = nil
	m.computeView()
	cw := m.centerWorld.Sub(Vec2{dx, dy})
	m.center = clampLatLng(fromWorld(cw, m.scale))
	m.changed()
}

// ZoomAt changes the zoom level by delta while keeping the coordinate under
// the screen point anchor fixed.
func (m *MapView) ZoomAt(anchor Vec2, delta float64) {
	zoom := m.zoomRange.Clamp(m.zoom + delta)
	if zoom == m.zoom {
		return
	}
	m.fly = nil
	g := m.Unproject(anchor)
	scale := m.tileSize * math.Exp2(zoom)
	half := Vec2{m.viewport.Width / 2, m.viewport.Height / 2}
	cw := toWorld(g, scale).Sub(anchor.Sub(half))
	m.zoom = zoom
	m.center = clampLatLng(fromWorld(cw, scale))
	m.changed()
}

// FlyTo animates the view to center at zoom over duration seconds.
func (m *MapView) FlyTo(center LatLng, zoom float64, duration float32, easeFn ease.TweenFunc) {
	center = clampLatLng(center)
	zoom = m.zoomRange.Clamp(zoom)
	m.fly = &flyAnim{
		lat:  gween.New(float32(m.center.Lat), float32(center.Lat), duration, easeFn),
		lng:  gween.New(float32(m.center.Lng), float32(center.Lng), duration, easeFn),
		zoom: gween.New(float32(m.zoom), float32(zoom), duration, easeFn),

		center:     center,
		targetZoom: zoom,
	}
}

// Flying reports whether a FlyTo animation is in progress.
func (m *MapView) Flying() bool {
	return m.fly != nil
}

// Update advances an active FlyTo animation by dt seconds.
func (m *MapView) Update(dt float32) {
	f := m.fly
	if f == nil {
		return
	}
	if !f.done[0] {
		v, done := f.lat.Update(dt)
		m.center.Lat = float64(v)
		f.done[0] = done
	}
	if !f.done[1] {
		v, done := f.lng.Update(dt)
		m.center.Lng = float64(v)
		f.done[1] = done
	}
	if !f.done[2] {
		v, done := f.zoom.Update(dt)
		m.zoom = float64(v)
		f.done[2] = done
	}
	if f.done[0] && f.done[1] && f.done[2] {
		m.center = f.center
		m.zoom = f.targetZoom
		m.fly = nil
	}
	m.initialized = true
	m.changed()
}

// Project converts a geographic coordinate to viewport pixels.
func (m *MapView) Project(g LatLng) Vec2 {
	m.computeView()
	w := toWorld(g, m.scale)
	return w.Sub(m.centerWorld).Add(Vec2{m.viewport.Width / 2, m.viewport.Height / 2})
}

// Unproject converts viewport pixels to a geographic coordinate.
func (m *MapView) Unproject(p Vec2) LatLng {
	m.computeView()
	w := p.Sub(Vec2{m.viewport.Width / 2, m.viewport.Height / 2}).Add(m.centerWorld)
	return fromWorld(w, m.scale)
}

func (m *MapView) changed() {
	m.dirty = true
	m.version++
	m.changes.dispatch(m.version)
}

// computeView recomputes the cached world scale and center if dirty.
func (m *MapView) computeView() {
	if !m.dirty {
		return
	}
	m.dirty = false
	m.scale = m.tileSize * math.Exp2(m.zoom)
	m.centerWorld = toWorld(m.center, m.scale)
}

// toWorld projects g into world pixels for a world of the given size.
func toWorld(g LatLng, scale float64) Vec2 {
	siny := math.Sin(g.Lat * math.Pi / 180)
	siny = clampFloat(siny, -0.9999, 0.9999)
	return Vec2{
		X: (g.Lng + 180) / 360 * scale,
		Y: (0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi)) * scale,
	}
}

// fromWorld is the inverse of toWorld.
func fromWorld(w Vec2, scale float64) LatLng {
	n := math.Pi - 2*math.Pi*w.Y/scale
	return LatLng{
		Lat: math.Atan(math.Sinh(n)) * 180 / math.Pi,
		Lng: w.X/scale*360 - 180,
	}
}

func clampLatLng(g LatLng) LatLng {
	g.Lat = clampFloat(g.Lat, -maxLatitude, maxLatitude)
	return g
}
