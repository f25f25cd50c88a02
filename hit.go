package mapoverlay

import "sort"

// HandleKind identifies the part of the console under a pointer.
type HandleKind uint8

const (
	HandleNone             HandleKind = iota // outside the viewport
	HandleMap                                // empty map space
	HandlePanelHeader                        // panel drag handle
	HandlePanelBody                          // panel content; focuses the panel
	HandlePanelResize                        // panel bottom-right resize corner
	HandlePanelMinimize                      // minimize/restore button in the header
	HandlePanelReset                         // reset-layout button in the header
	HandleOverlayHeader                      // overlay drag handle
	HandleOverlayBody                        // overlay content
	HandleOverlayResize                      // overlay bottom-right resize corner
	HandleOverlaySubregion                   // bottom edge of the overlay image area
)

var handleNames = [...]string{
	"none", "map",
	"panel-header", "panel-body", "panel-resize", "panel-minimize", "panel-reset",
	"overlay-header", "overlay-body", "overlay-resize", "overlay-subregion",
}

func (k HandleKind) String() string {
	if int(k) < len(handleNames) {
		return handleNames[k]
	}
	return "unknown"
}

// Handle is the result of a hit test.
type Handle struct {
	Kind HandleKind
	ID   string
}

func (h Handle) String() string {
	if h.ID == "" {
		return h.Kind.String()
	}
	return h.Kind.String() + ":" + h.ID
}

// HitTest finds the top-most handle at screen point p. Panels float above
// overlays; among panels the highest z-index wins, among overlays the most
// recently added.
func (c *Console) HitTest(p Vec2) Handle {
	vp := c.panels.Viewport()
	if p.X < 0 || p.Y < 0 || p.X > vp.Width || p.Y > vp.Height {
		return Handle{Kind: HandleNone}
	}

	for _, id := range c.panelsTopDown() {
		if k := c.hitPanel(id, p); k != HandleNone {
			return Handle{Kind: k, ID: id}
		}
	}

	rects := c.overlays.Rects()
	for i := len(rects) - 1; i >= 0; i-- {
		if k := c.hitOverlay(rects[i], p); k != HandleNone {
			return Handle{Kind: k, ID: rects[i].ID}
		}
	}
	return Handle{Kind: HandleMap}
}

// panelsTopDown returns panel ids sorted front-most first.
func (c *Console) panelsTopDown() []string {
	ids := c.panels.IDs()
	sort.SliceStable(ids, func(i, j int) bool {
		li, _ := c.panels.Layout(ids[i])
		lj, _ := c.panels.Layout(ids[j])
		return li.ZIndex > lj.ZIndex
	})
	return ids
}

func (c *Console) hitPanel(id string, p Vec2) HandleKind {
	r, ok := c.panels.Rect(id)
	if !ok || !r.Contains(p.X, p.Y) {
		return HandleNone
	}
	l, _ := c.panels.Layout(id)
	hh := c.cfg.HeaderHeight
	hs := c.cfg.HandleSize

	if p.Y <= r.Y+hh {
		switch {
		case p.X >= r.X+r.Width-hh:
			return HandlePanelMinimize
		case p.X >= r.X+r.Width-2*hh:
			return HandlePanelReset
		}
		return HandlePanelHeader
	}
	if !l.Minimized && p.X >= r.X+r.Width-hs && p.Y >= r.Y+r.Height-hs {
		return HandlePanelResize
	}
	return HandlePanelBody
}

func (c *Console) hitOverlay(o ProjectedOverlay, p Vec2) HandleKind {
	r := o.Rect
	if !r.Contains(p.X, p.Y) {
		return HandleNone
	}
	hh := c.cfg.HeaderHeight
	hs := c.cfg.HandleSize

	if p.X >= r.X+r.Width-hs && p.Y >= r.Y+r.Height-hs {
		return HandleOverlayResize
	}
	if p.Y <= r.Y+hh {
		return HandleOverlayHeader
	}
	if sub, ok := c.overlays.SubregionRect(o.ID); ok {
		edge := sub.Y + sub.Height
		if p.Y >= edge-hs/2 && p.Y <= edge+hs/2 {
			return HandleOverlaySubregion
		}
	}
	return HandleOverlayBody
}
