// Package theme holds the built-in visual themes used by the deck renderer.
package theme

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultName is the theme used for unknown names.
const DefaultName = "business"

// FontFamily is shared by all built-in themes.
const FontFamily = "微软雅黑"

// Decoration is the preset geometry used for the decorative side shape.
type Decoration string

// Decoration presets. Values are DrawingML preset geometry names.
const (
	DecorationRectangle Decoration = "rect"
	DecorationChevron   Decoration = "chevron"
	DecorationOval      Decoration = "ellipse"
)

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ARGB returns the color as fully opaque AARRGGBB.
func (c RGB) ARGB() string {
	return "FF" + c.Hex()
}

// Theme bundles colors, typography and the decoration shape of a deck.
type Theme struct {
	Name       string
	Background RGB
	Title      RGB
	Text       RGB
	Accent     RGB
	Font       string
	Decoration Decoration
}

var registry = map[string]Theme{
	"business": {
		Name:       "business",
		Background: RGB{255, 255, 255},
		Title:      RGB{12, 45, 87},
		Text:       RGB{40, 40, 40},
		Accent:     RGB{255, 193, 7},
		Font:       FontFamily,
		Decoration: DecorationRectangle,
	},
	"tech": {
		Name:       "tech",
		Background: RGB{10, 10, 26},
		Title:      RGB{0, 255, 255},
		Text:       RGB{200, 200, 220},
		Accent:     RGB{138, 43, 226},
		Font:       FontFamily,
		Decoration: DecorationChevron,
	},
	"creative": {
		Name:       "creative",
		Background: RGB{255, 248, 240},
		Title:      RGB{255, 87, 34},
		Text:       RGB{62, 39, 35},
		Accent:     RGB{76, 175, 80},
		Font:       FontFamily,
		Decoration: DecorationOval,
	},
}

// Resolve returns the named theme, falling back to the business theme.
func Resolve(name string) Theme {
	if t, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return registry[DefaultName]
}

// Exists reports whether name is a built-in theme.
func Exists(name string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the built-in theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
