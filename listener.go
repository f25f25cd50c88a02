package mapoverlay

// PointerEvent is a single pointer sample in screen coordinates.
type PointerEvent struct {
	X, Y      float64
	Modifiers KeyModifiers
}

// Pos returns the event position as a vector.
func (e PointerEvent) Pos() Vec2 { return Vec2{e.X, e.Y} }

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// --- Handler registry ---

type listener[T any] struct {
	id uint32
	fn func(T)
}

// listenerList is an ordered set of callbacks addressed by id.
type listenerList[T any] struct {
	entries []listener[T]
	nextID  uint32
}

func (l *listenerList[T]) add(fn func(T)) uint32 {
	l.nextID++
	l.entries = append(l.entries, listener[T]{id: l.nextID, fn: fn})
	return l.nextID
}

// remove drops the entry with the given id. The slice is compacted so
// dispatch never iterates dead entries.
func (l *listenerList[T]) remove(id uint32) bool {
	for i := range l.entries {
		if l.entries[i].id == id {
			copy(l.entries[i:], l.entries[i+1:])
			l.entries[len(l.entries)-1] = listener[T]{}
			l.entries = l.entries[:len(l.entries)-1]
			return true
		}
	}
	return false
}

// dispatch calls every listener registered at the time of the call. A
// listener that removes itself (or another) does not disturb the iteration.
func (l *listenerList[T]) dispatch(v T) {
	if len(l.entries) == 0 {
		return
	}
	snapshot := append([]listener[T](nil), l.entries...)
	for _, e := range snapshot {
		if l.has(e.id) {
			e.fn(v)
		}
	}
}

func (l *listenerList[T]) has(id uint32) bool {
	for i := range l.entries {
		if l.entries[i].id == id {
			return true
		}
	}
	return false
}

// ListenerHandle allows removing a registered callback.
type ListenerHandle struct {
	remove func() bool
}

// Remove unregisters the callback so it no longer fires. Calling Remove more
// than once, or on the zero handle, is a no-op.
func (h ListenerHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

// --- Window ---

// Window is the host-level pointer event source. Listeners registered here
// receive every pointer move and release regardless of which box is under the
// pointer, which is what lets a drag continue after the pointer leaves its
// handle.
type Window struct {
	move listenerList[PointerEvent]
	up   listenerList[PointerEvent]
}

// NewWindow creates an empty listener registry.
func NewWindow() *Window {
	return &Window{}
}

// OnPointerMove registers a window-level callback for pointer moves.
func (w *Window) OnPointerMove(fn func(PointerEvent)) ListenerHandle {
	id := w.move.add(fn)
	return ListenerHandle{remove: func() bool { return w.move.remove(id) }}
}

// OnPointerUp registers a window-level callback for pointer releases.
func (w *Window) OnPointerUp(fn func(PointerEvent)) ListenerHandle {
	id := w.up.add(fn)
	return ListenerHandle{remove: func() bool { return w.up.remove(id) }}
}

// DispatchMove delivers a pointer move to every move listener.
func (w *Window) DispatchMove(ev PointerEvent) {
	w.move.dispatch(ev)
}

// DispatchUp delivers a pointer release to every up listener.
func (w *Window) DispatchUp(ev PointerEvent) {
	w.up.dispatch(ev)
}

// ListenerCount returns the number of attached move and up listeners.
func (w *Window) ListenerCount() int {
	return len(w.move.entries) + len(w.up.entries)
}
