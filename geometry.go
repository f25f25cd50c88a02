package mapoverlay

import "math"

// Bounds describes where a screen-space box may be placed. A box may hang
// past the top/left edge by up to Overhang pixels and must keep at least
// MinVisible pixels on screen at the bottom/right edge.
type Bounds struct {
	Viewport   Size
	Overhang   float64
	MinVisible float64
}

// ClampPosition restricts pos so the box stays reachable inside the viewport.
// Each axis lies in [-Overhang, viewport - MinVisible]; when the viewport is
// smaller than MinVisible the lower bound wins.
func ClampPosition(pos Vec2, b Bounds) Vec2 {
	return Vec2{
		X: clampFloat(pos.X, -b.Overhang, b.Viewport.Width-b.MinVisible),
		Y: clampFloat(pos.Y, -b.Overhang, b.Viewport.Height-b.MinVisible),
	}
}

// ClampSize restricts size to at least min and at most the space between pos
// and the bottom-right viewport edge. min always wins over the viewport limit.
func ClampSize(size Size, pos Vec2, min Size, b Bounds) Size {
	return Size{
		Width:  clampFloat(size.Width, min.Width, b.Viewport.Width-pos.X),
		Height: clampFloat(size.Height, min.Height, b.Viewport.Height-pos.Y),
	}
}

// MaxSize returns the component-wise maximum of s and min.
func MaxSize(s, min Size) Size {
	return Size{math.Max(s.Width, min.Width), math.Max(s.Height, min.Height)}
}

// CenteredRect returns the rectangle of the given size centered on anchor.
// It is the inverse of Rect.Center for a fixed size.
func CenteredRect(anchor Vec2, size Size) Rect {
	return Rect{
		X:      anchor.X - size.Width/2,
		Y:      anchor.Y - size.Height/2,
		Width:  size.Width,
		Height: size.Height,
	}
}

// clampFloat restricts v to [lo, hi]. If hi < lo, lo is returned.
func clampFloat(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
