package mapoverlay

import (
	"errors"
	"math"
)

// Vec2 is a 2D vector used for screen positions, pointer coordinates and
// deltas throughout the API.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Size is a width/height pair in screen pixels.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Add grows the size by a delta.
func (s Size) Add(d Vec2) Size { return Size{s.Width + d.X, s.Height + d.Y} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Position returns the top-left corner.
func (r Rect) Position() Vec2 { return Vec2{r.X, r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{r.Width, r.Height} }

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// Add returns the coordinate offset by another coordinate treated as a delta.
func (g LatLng) Add(d LatLng) LatLng { return LatLng{g.Lat + d.Lat, g.Lng + d.Lng} }

// Sub returns the delta g - o.
func (g LatLng) Sub(o LatLng) LatLng { return LatLng{g.Lat - o.Lat, g.Lng - o.Lng} }

// Range is a general-purpose min/max range.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Clamp restricts v to [Min, Max].
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(v, r.Max))
}

// TargetKind distinguishes the coordinate space a manipulated target lives in.
type TargetKind uint8

const (
	TargetPanel   TargetKind = iota // floating panel in fixed screen space
	TargetOverlay                   // geo-anchored overlay reprojected from the map
)

func (k TargetKind) String() string {
	switch k {
	case TargetPanel:
		return "panel"
	case TargetOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Target identifies a panel or overlay that can be manipulated.
type Target struct {
	Kind TargetKind
	ID   string
}

func (t Target) String() string { return t.Kind.String() + ":" + t.ID }

// Mode selects what an interaction manipulates.
type Mode uint8

const (
	ModeMove      Mode = iota // drag the whole box
	ModeResize                // resize the outer box from its bottom-right corner
	ModeSubresize             // resize an embedded sub-region (e.g. an image area)
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	case ModeSubresize:
		return "subresize"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of interaction event published to an EventSink.
type EventType uint8

const (
	EventBegin  EventType = iota // an interaction started
	EventUpdate                  // a move event changed the target
	EventEnd                     // the pointer was released and the last value committed
	EventCancel                  // the interaction was torn down without a release
)

// Errors returned by the engine. Pointer handling never surfaces these to the
// user; they are returned to callers that start interactions or edit state.
var (
	ErrInteractionActive = errors.New("mapoverlay: interaction already active")
	ErrUnknownPanel      = errors.New("mapoverlay: unknown panel")
	ErrUnknownOverlay    = errors.New("mapoverlay: unknown overlay")
	ErrPanelMinimized    = errors.New("mapoverlay: panel is minimized")
	ErrMapNotReady       = errors.New("mapoverlay: map projection not ready")
	ErrInvalidConfig     = errors.New("mapoverlay: invalid config")
)
