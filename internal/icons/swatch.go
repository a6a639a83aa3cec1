package icons

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Size selects one of the three fixed swatch presets.
type Size int

// Swatch size presets.
const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

func (s Size) width() int {
	switch s {
	case SizeSmall:
		return 3
	case SizeLarge:
		return 7
	default:
		return 5
	}
}

// swatchCache memoizes rendered swatches per slug/color/size for the
// lifetime of the process. The TUI re-renders lists on every frame, so
// styling the same category over and over would be wasted work.
var swatchCache = map[string]string{}

// Swatch renders the category glyph over a tinted background derived
// from the category color, at one of the fixed size presets.
func Swatch(slug, colorHex string, size Size) string {
	key := fmt.Sprintf("%s|%s|%d", slug, colorHex, size)
	if rendered, ok := swatchCache[key]; ok {
		return rendered
	}

	style := lipgloss.NewStyle().
		Width(size.width()).
		Align(lipgloss.Center).
		Background(lipgloss.Color(Tint(colorHex))).
		Foreground(lipgloss.Color(colorHex))

	rendered := style.Render(string(Resolve(slug)))
	swatchCache[key] = rendered
	return rendered
}

// Tint washes a hex color out toward the panel background, mimicking the
// reduced-opacity swatch background of the web client. Unparseable
// colors tint to a neutral gray.
func Tint(colorHex string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(colorHex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "#3a3a3a"
	}

	blend := func(c int) int {
		return c/4 + 0x28
	}
	return fmt.Sprintf("#%02x%02x%02x", blend(r), blend(g), blend(b))
}
