package mapoverlay

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
}

// game adapts a Console to ebiten.Game.
type game struct {
	console *Console
	showFPS bool
}

func (g *game) Update() error {
	g.console.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.console.Draw(screen)
	if g.showFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f  TPS: %.0f",
			ebiten.ActualFPS(), ebiten.ActualTPS()), 4, screen.Bounds().Dy()-16)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.console.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens a resizable window and drives the console until the window is
// closed. The console is closed on return.
func Run(console *Console, cfg RunConfig) error {
	defer console.Close()
	ebiten.SetWindowTitle(cfg.Title)
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&game{console: console, showFPS: cfg.ShowFPS})
}

// --- Debug renderer ---

var (
	colorSea        = color.RGBA{0x1b, 0x2a, 0x3a, 0xff}
	colorGraticule  = color.RGBA{0x3a, 0x52, 0x6b, 0xff}
	colorPanel      = color.RGBA{0x24, 0x1e, 0x2d, 0xf0}
	colorHeader     = color.RGBA{0x4a, 0x3b, 0x5c, 0xff}
	colorOverlay    = color.RGBA{0x2d, 0x3b, 0x2a, 0xe8}
	colorOverlayHdr = color.RGBA{0x4f, 0x6b, 0x3a, 0xff}
	colorSubregion  = color.RGBA{0x18, 0x22, 0x16, 0xff}
	colorBorder     = color.RGBA{0xd0, 0xc8, 0xe0, 0xff}
	colorActive     = color.RGBA{0xff, 0xc8, 0x40, 0xff}
)

// Draw renders the map graticule, the overlays and the panels as plain
// rectangles. Panel and overlay content belongs to the host application.
func (c *Console) Draw(screen *ebiten.Image) {
	screen.Fill(colorSea)
	if !c.view.Ready() {
		return
	}
	c.drawGraticule(screen)

	active, _ := c.ctrl.State()
	for _, o := range c.overlays.Rects() {
		c.drawOverlay(screen, o, active.Target == Target{TargetOverlay, o.ID})
	}

	ids := c.panels.IDs()
	sort.SliceStable(ids, func(i, j int) bool {
		li, _ := c.panels.Layout(ids[i])
		lj, _ := c.panels.Layout(ids[j])
		return li.ZIndex < lj.ZIndex
	})
	for _, id := range ids {
		c.drawPanel(screen, id, active.Target == Target{TargetPanel, id})
	}
}

// drawGraticule strokes meridians and parallels every 10 degrees.
func (c *Console) drawGraticule(screen *ebiten.Image) {
	vp := c.view.Viewport()
	for lng := -180.0; lng <= 180; lng += 10 {
		a := c.view.Project(LatLng{Lat: maxLatitude, Lng: lng})
		b := c.view.Project(LatLng{Lat: -maxLatitude, Lng: lng})
		if a.X < 0 || a.X > vp.Width {
			continue
		}
		vector.StrokeLine(screen, float32(a.X), float32(math.Max(a.Y, 0)),
			float32(b.X), float32(math.Min(b.Y, vp.Height)), 1, colorGraticule, false)
	}
	for lat := -80.0; lat <= 80; lat += 10 {
		a := c.view.Project(LatLng{Lat: lat, Lng: -180})
		b := c.view.Project(LatLng{Lat: lat, Lng: 180})
		if a.Y < 0 || a.Y > vp.Height {
			continue
		}
		vector.StrokeLine(screen, float32(math.Max(a.X, 0)), float32(a.Y),
			float32(math.Min(b.X, vp.Width)), float32(b.Y), 1, colorGraticule, false)
	}
}

func (c *Console) drawOverlay(screen *ebiten.Image, o ProjectedOverlay, active bool) {
	r := o.Rect
	fillRect(screen, r, colorOverlay)
	fillRect(screen, Rect{r.X, r.Y, r.Width, c.cfg.HeaderHeight}, colorOverlayHdr)
	if sub, ok := c.overlays.SubregionRect(o.ID); ok {
		fillRect(screen, sub, colorSubregion)
	}
	strokeRect(screen, r, active)
	ebitenutil.DebugPrintAt(screen, o.Title, int(r.X)+6, int(r.Y)+6)
}

func (c *Console) drawPanel(screen *ebiten.Image, id string, active bool) {
	r, ok := c.panels.Rect(id)
	if !ok {
		return
	}
	l, _ := c.panels.Layout(id)
	hh := c.cfg.HeaderHeight
	if !l.Minimized {
		fillRect(screen, r, colorPanel)
	}
	fillRect(screen, Rect{r.X, r.Y, r.Width, hh}, colorHeader)
	strokeRect(screen, r, active)

	ebitenutil.DebugPrintAt(screen, id, int(r.X)+6, int(r.Y)+6)
	button := "_"
	if l.Minimized {
		button = "+"
	}
	ebitenutil.DebugPrintAt(screen, button, int(r.X+r.Width-hh/2)-3, int(r.Y)+6)
	ebitenutil.DebugPrintAt(screen, "R", int(r.X+r.Width-hh*1.5)-3, int(r.Y)+6)
}

func fillRect(screen *ebiten.Image, r Rect, clr color.Color) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), clr, false)
}

func strokeRect(screen *ebiten.Image, r Rect, active bool) {
	clr, w := color.Color(colorBorder), float32(1)
	if active {
		clr, w = colorActive, 2
	}
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), w, clr, false)
}
