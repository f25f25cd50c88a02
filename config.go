package mapoverlay

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Anchor selects where a panel's default layout is placed.
type Anchor string

const (
	AnchorTopLeft   Anchor = "top-left"
	AnchorTopCenter Anchor = "top-center" // viewport-centered; re-centered on resize
	AnchorTopRight  Anchor = "top-right"
)

// PanelSpec describes a floating panel and how its default layout derives
// from the viewport size.
type PanelSpec struct {
	ID     string `yaml:"id"`
	Anchor Anchor `yaml:"anchor"`
	// WidthFraction of the viewport width, clamped to [MinWidth, MaxWidth].
	WidthFraction float64 `yaml:"width_fraction"`
	MinWidth      float64 `yaml:"min_width"`
	MaxWidth      float64 `yaml:"max_width"`
	// HeightFraction of the viewport height. Zero leaves the height automatic
	// (measured from the rendered content).
	HeightFraction float64 `yaml:"height_fraction"`
	Margin         float64 `yaml:"margin"`
}

// MapConfig configures the map projection.
type MapConfig struct {
	TileSize float64 `yaml:"tile_size"`
	Zoom     Range   `yaml:"zoom"`
	Center   LatLng  `yaml:"center"`
	// InitialZoom is applied with Center when the console starts.
	InitialZoom float64 `yaml:"initial_zoom"`
}

// Config holds every tunable of the overlay engine.
type Config struct {
	// Overhang is how far a panel may be dragged past the top/left edge.
	Overhang float64 `yaml:"overhang"`
	// MinVisible is how much of a panel must stay on screen at the
	// bottom/right edge.
	MinVisible float64 `yaml:"min_visible"`

	PanelMinSize Size    `yaml:"panel_min_size"`
	HeaderHeight float64 `yaml:"header_height"`
	HandleSize   float64 `yaml:"handle_size"`

	OverlayMinSize     Size    `yaml:"overlay_min_size"`
	OverlayDefaultSize Size    `yaml:"overlay_default_size"`
	Subregion          Range   `yaml:"subregion"`
	SubregionDefault   float64 `yaml:"subregion_default"`

	// DragDeadZone is the pointer travel in pixels before a press on empty
	// map space becomes a pan.
	DragDeadZone float64 `yaml:"drag_dead_zone"`

	Map    MapConfig   `yaml:"map"`
	Panels []PanelSpec `yaml:"panels"`
}

// Panel ids used by DefaultConfig.
const (
	PanelTimer    = "timer"
	PanelInterest = "interest"
)

// DefaultConfig returns the stock console layout: a viewport-centered phase
// timer and a national-interest tracker docked to the right.
func DefaultConfig() Config {
	return Config{
		Overhang:           40,
		MinVisible:         60,
		PanelMinSize:       Size{Width: 200, Height: 120},
		HeaderHeight:       28,
		HandleSize:         14,
		OverlayMinSize:     Size{Width: 120, Height: 60},
		OverlayDefaultSize: Size{Width: 220, Height: 140},
		Subregion:          Range{Min: 40, Max: 400},
		SubregionDefault:   80,
		DragDeadZone:       4,
		Map: MapConfig{
			TileSize:    256,
			Zoom:        Range{Min: 1, Max: 8},
			Center:      LatLng{Lat: 48, Lng: 10},
			InitialZoom: 3,
		},
		Panels: []PanelSpec{
			{
				ID:            PanelTimer,
				Anchor:        AnchorTopCenter,
				WidthFraction: 0.3,
				MinWidth:      280,
				MaxWidth:      480,
				Margin:        16,
			},
			{
				ID:             PanelInterest,
				Anchor:         AnchorTopRight,
				WidthFraction:  0.22,
				MinWidth:       240,
				MaxWidth:       360,
				HeightFraction: 0.45,
				Margin:         16,
			},
		},
	}
}

// ParseConfig decodes YAML over DefaultConfig, so a document only needs the
// keys it changes. A panels list replaces the default panels entirely.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch {
	case c.Overhang < 0 || c.MinVisible < 0:
		return fmt.Errorf("overhang and min_visible must be non-negative: %w", ErrInvalidConfig)
	case c.PanelMinSize.Width <= 0 || c.PanelMinSize.Height <= 0:
		return fmt.Errorf("panel_min_size must be positive: %w", ErrInvalidConfig)
	case c.OverlayMinSize.Width <= 0 || c.OverlayMinSize.Height <= 0:
		return fmt.Errorf("overlay_min_size must be positive: %w", ErrInvalidConfig)
	case c.Subregion.Min < 0 || c.Subregion.Max < c.Subregion.Min:
		return fmt.Errorf("subregion range [%v, %v] is empty: %w", c.Subregion.Min, c.Subregion.Max, ErrInvalidConfig)
	case c.Map.TileSize <= 0:
		return fmt.Errorf("map tile_size must be positive: %w", ErrInvalidConfig)
	case c.Map.Zoom.Max < c.Map.Zoom.Min:
		return fmt.Errorf("map zoom range [%v, %v] is empty: %w", c.Map.Zoom.Min, c.Map.Zoom.Max, ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Panels))
	for _, p := range c.Panels {
		if p.ID == "" {
			return fmt.Errorf("panel without id: %w", ErrInvalidConfig)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate panel %q: %w", p.ID, ErrInvalidConfig)
		}
		seen[p.ID] = true
		switch p.Anchor {
		case AnchorTopLeft, AnchorTopCenter, AnchorTopRight:
		default:
			return fmt.Errorf("panel %q: unknown anchor %q: %w", p.ID, p.Anchor, ErrInvalidConfig)
		}
	}
	return nil
}
