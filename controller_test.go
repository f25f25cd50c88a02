package mapoverlay

import (
	"errors"
	"testing"
)

// fakePanels is an in-memory panelSpace.
type fakePanels struct {
	pos  map[string]Vec2
	size map[string]Size
}

func newFakePanels(ids ...string) *fakePanels {
	f := &fakePanels{pos: map[string]Vec2{}, size: map[string]Size{}}
	for _, id := range ids {
		f.pos[id] = Vec2{}
		f.size[id] = Size{}
	}
	return f
}

func (f *fakePanels) movePanel(id string, pos Vec2) bool {
	if _, ok := f.pos[id]; !ok {
		return false
	}
	f.pos[id] = pos
	return true
}

func (f *fakePanels) resizePanel(id string, size Size) bool {
	if _, ok := f.size[id]; !ok {
		return false
	}
	f.size[id] = size
	return true
}

// linearProjection maps 1 degree to 10 pixels around the origin.
type linearProjection struct {
	ready   bool
	version uint64
}

func (p *linearProjection) Project(g LatLng) Vec2 { return Vec2{g.Lng * 10, -g.Lat * 10} }
func (p *linearProjection) Unproject(v Vec2) LatLng { return LatLng{Lat: -v.Y / 10, Lng: v.X / 10} }
func (p *linearProjection) Ready() bool { return p.ready }
func (p *linearProjection) Version() uint64 { return p.version }

// fakeOverlays is an in-memory overlaySpace.
type fakeOverlays struct {
	proj *linearProjection
	geo  map[string]LatLng
	size map[string]Size
	sub  map[string]float64
}

func newFakeOverlays(ids ...string) *fakeOverlays {
	f := &fakeOverlays{
		proj: &linearProjection{ready: true},
		geo:  map[string]LatLng{},
		size: map[string]Size{},
		sub:  map[string]float64{},
	}
	for _, id := range ids {
		f.geo[id] = LatLng{}
		f.size[id] = Size{}
		f.sub[id] = 0
	}
	return f
}

func (f *fakeOverlays) projection() Projection { return f.proj }

func (f *fakeOverlays) moveOverlay(id string, geo LatLng) bool {
	if _, ok := f.geo[id]; !ok {
		return false
	}
	f.geo[id] = geo
	return true
}

func (f *fakeOverlays) resizeOverlay(id string, size Size) bool {
	if _, ok := f.size[id]; !ok {
		return false
	}
	f.size[id] = size
	return true
}

func (f *fakeOverlays) resizeSubregion(id string, h float64) bool {
	if _, ok := f.sub[id]; !ok {
		return false
	}
	f.sub[id] = h
	return true
}

// recordingSink collects every emitted event.
type recordingSink struct {
	events []InteractionEvent
}

func (s *recordingSink) EmitEvent(e InteractionEvent) { s.events = append(s.events, e) }

func newTestController(panelIDs []string, overlayIDs []string) (*Controller, *Window, *fakePanels, *fakeOverlays) {
	w := NewWindow()
	c := NewController(w)
	fp := newFakePanels(panelIDs...)
	fo := newFakeOverlays(overlayIDs...)
	c.panels = fp
	c.overlays = fo
	return c, w, fp, fo
}

func panelTarget(id string) Target { return Target{Kind: TargetPanel, ID: id} }
func overlayTarget(id string) Target { return Target{Kind: TargetOverlay, ID: id} }

func TestControllerDeltaFromOrigin(t *testing.T) {
	c, w, fp, _ := newTestController([]string{"a"}, nil)
	if err := c.Begin(panelTarget("a"), ModeMove, Vec2{100, 100}, Snapshot{Position: Vec2{50, 50}}); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	w.DispatchMove(PointerEvent{X: 130, Y: 140})
	if got := fp.pos["a"]; got != (Vec2{80, 90}) {
		t.Errorf("position = %v, want (80,90)", got)
	}
}

func TestControllerNoDriftOverManyMoves(t *testing.T) {
	single, sw, sp, _ := newTestController([]string{"a"}, nil)
	many, mw, mp, _ := newTestController([]string{"a"}, nil)
	start := Snapshot{Position: Vec2{10.5, 20.25}}
	_ = single.Begin(panelTarget("a"), ModeMove, Vec2{200, 200}, start)
	_ = many.Begin(panelTarget("a"), ModeMove, Vec2{200, 200}, start)

	sw.DispatchMove(PointerEvent{X: 263.3, Y: 187.7})
	for i := 0; i < 500; i++ {
		mw.DispatchMove(PointerEvent{X: 200 + float64(i%37)*0.7, Y: 200 - float64(i%11)*1.3})
	}
	mw.DispatchMove(PointerEvent{X: 263.3, Y: 187.7})

	if sp.pos["a"] != mp.pos["a"] {
		t.Errorf("many moves = %v, single move = %v", mp.pos["a"], sp.pos["a"])
	}
}

func TestControllerResize(t *testing.T) {
	c, w, fp, _ := newTestController([]string{"a"}, nil)
	_ = c.Begin(panelTarget("a"), ModeResize, Vec2{300, 300}, Snapshot{Size: Size{250, 150}})
	w.DispatchMove(PointerEvent{X: 320, Y: 290})
	if got := fp.size["a"]; got != (Size{270, 140}) {
		t.Errorf("size = %v, want (270,140)", got)
	}
}

func TestControllerSingleActive(t *testing.T) {
	c, w, fp, _ := newTestController([]string{"a", "b"}, nil)
	if err := c.Begin(panelTarget("a"), ModeMove, Vec2{0, 0}, Snapshot{}); err != nil {
		t.Fatalf("Begin a: %v", err)
	}
	err := c.Begin(panelTarget("b"), ModeMove, Vec2{0, 0}, Snapshot{})
	if !errors.Is(err, ErrInteractionActive) {
		t.Fatalf("Begin b err = %v, want ErrInteractionActive", err)
	}
	st, ok := c.State()
	if !ok || st.Target != panelTarget("a") {
		t.Fatalf("active = %v, want panel:a", st.Target)
	}
	if w.ListenerCount() != 2 {
		t.Errorf("ListenerCount = %d, want 2", w.ListenerCount())
	}

	w.DispatchMove(PointerEvent{X: 5, Y: 5})
	if fp.pos["a"] != (Vec2{5, 5}) || fp.pos["b"] != (Vec2{}) {
		t.Errorf("a = %v, b = %v", fp.pos["a"], fp.pos["b"])
	}
}

func TestControllerDetachOnUp(t *testing.T) {
	c, w, fp, _ := newTestController([]string{"a"}, nil)
	_ = c.Begin(panelTarget("a"), ModeMove, Vec2{0, 0}, Snapshot{})
	w.DispatchMove(PointerEvent{X: 10, Y: 10})
	w.DispatchUp(PointerEvent{X: 10, Y: 10})

	if c.Active() {
		t.Error("still active after up")
	}
	if w.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d after up, want 0", w.ListenerCount())
	}

	w.DispatchMove(PointerEvent{X: 99, Y: 99})
	if fp.pos["a"] != (Vec2{10, 10}) {
		t.Errorf("move after up mutated position to %v", fp.pos["a"])
	}
}

func TestControllerReattach(t *testing.T) {
	c, w, _, _ := newTestController([]string{"a"}, nil)
	for i := 0; i < 3; i++ {
		_ = c.Begin(panelTarget("a"), ModeMove, Vec2{}, Snapshot{})
		if w.ListenerCount() != 2 {
			t.Fatalf("round %d: ListenerCount = %d, want 2", i, w.ListenerCount())
		}
		w.DispatchUp(PointerEvent{})
	}
	if w.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d, want 0", w.ListenerCount())
	}
}

func TestControllerClose(t *testing.T) {
	c, w, fp, _ := newTestController([]string{"a"}, nil)
	sink := &recordingSink{}
	c.SetEventSink(sink)
	_ = c.Begin(panelTarget("a"), ModeMove, Vec2{0, 0}, Snapshot{})
	c.Close()
	c.Close()

	if c.Active() {
		t.Error("active after Close")
	}
	if w.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d after Close, want 0", w.ListenerCount())
	}
	w.DispatchMove(PointerEvent{X: 40, Y: 40})
	if fp.pos["a"] != (Vec2{}) {
		t.Errorf("move after Close mutated position to %v", fp.pos["a"])
	}
	last := sink.events[len(sink.events)-1]
	if last.Type != EventCancel {
		t.Errorf("last event = %v, want EventCancel", last.Type)
	}
	if len(sink.events) != 2 {
		t.Errorf("got %d events, want begin and cancel", len(sink.events))
	}
}

func TestControllerStaleTarget(t *testing.T) {
	c, w, fp, _ := newTestController([]string{"a"}, nil)
	sink := &recordingSink{}
	c.SetEventSink(sink)
	_ = c.Begin(panelTarget("a"), ModeMove, Vec2{0, 0}, Snapshot{})
	delete(fp.pos, "a")

	w.DispatchMove(PointerEvent{X: 10, Y: 10})
	if _, ok := fp.pos["a"]; ok {
		t.Error("stale target was recreated")
	}
	w.DispatchUp(PointerEvent{X: 10, Y: 10})
	if c.Active() || w.ListenerCount() != 0 {
		t.Error("stale interaction not cleaned up on release")
	}
	for _, e := range sink.events {
		if e.Type == EventUpdate {
			t.Error("update emitted for stale target")
		}
	}
}

func TestControllerOverlayGeoDelta(t *testing.T) {
	c, w, _, fo := newTestController(nil, []string{"o"})
	start := LatLng{Lat: 20, Lng: 10}
	_ = c.Begin(overlayTarget("o"), ModeMove, Vec2{0, 0}, Snapshot{Geo: start})

	w.DispatchMove(PointerEvent{X: 50, Y: -30})
	got := fo.geo["o"]
	if !approxEqual(got.Lat, 23, epsilon) || !approxEqual(got.Lng, 15, epsilon) {
		t.Errorf("geo = %v, want (23,15)", got)
	}
}

func TestControllerUnreadyProjection(t *testing.T) {
	c, w, _, fo := newTestController(nil, []string{"o"})
	fo.proj.ready = false
	start := LatLng{Lat: 1, Lng: 2}
	fo.geo["o"] = start
	_ = c.Begin(overlayTarget("o"), ModeMove, Vec2{0, 0}, Snapshot{Geo: start})

	w.DispatchMove(PointerEvent{X: 100, Y: 100})
	if fo.geo["o"] != start {
		t.Errorf("geo changed to %v while projection unready", fo.geo["o"])
	}

	fo.proj.ready = true
	w.DispatchMove(PointerEvent{X: 10, Y: 0})
	if got := fo.geo["o"]; !approxEqual(got.Lng, 3, epsilon) || !approxEqual(got.Lat, 1, epsilon) {
		t.Errorf("geo = %v, want (1,3)", got)
	}
}

func TestControllerOverlayResizeAndSubresize(t *testing.T) {
	c, w, _, fo := newTestController(nil, []string{"o"})
	_ = c.Begin(overlayTarget("o"), ModeResize, Vec2{100, 100}, Snapshot{Size: Size{220, 140}})
	w.DispatchMove(PointerEvent{X: 130, Y: 90})
	w.DispatchUp(PointerEvent{X: 130, Y: 90})
	if got := fo.size["o"]; got != (Size{250, 130}) {
		t.Errorf("size = %v, want (250,130)", got)
	}

	_ = c.Begin(overlayTarget("o"), ModeSubresize, Vec2{100, 100}, Snapshot{Subregion: 80})
	w.DispatchMove(PointerEvent{X: 300, Y: 125})
	if got := fo.sub["o"]; got != 105 {
		t.Errorf("subregion = %v, want 105", got)
	}
}

func TestControllerEvents(t *testing.T) {
	c, w, _, _ := newTestController([]string{"a"}, nil)
	sink := &recordingSink{}
	c.SetEventSink(sink)

	_ = c.Begin(panelTarget("a"), ModeMove, Vec2{100, 100}, Snapshot{})
	w.DispatchMove(PointerEvent{X: 110, Y: 95})
	w.DispatchUp(PointerEvent{X: 112, Y: 95})

	want := []EventType{EventBegin, EventUpdate, EventEnd}
	if len(sink.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(sink.events), len(want))
	}
	for i, e := range sink.events {
		if e.Type != want[i] {
			t.Errorf("event %d = %v, want %v", i, e.Type, want[i])
		}
		if e.Target != panelTarget("a") || e.Mode != ModeMove {
			t.Errorf("event %d target/mode = %v/%v", i, e.Target, e.Mode)
		}
	}
	if u := sink.events[1]; u.DeltaX != 10 || u.DeltaY != -5 {
		t.Errorf("update delta = (%v,%v), want (10,-5)", u.DeltaX, u.DeltaY)
	}
	if e := sink.events[2]; e.X != 112 || e.DeltaX != 12 {
		t.Errorf("end = %+v", e)
	}
}
