// Package icons renders category icons in the terminal. Category records
// reference icons by slug. Resolution is total: an unknown slug falls
// back to a placeholder glyph and never fails.
package icons

import "sort"

// Glyph is a renderable icon.
type Glyph string

// FallbackGlyph is returned for unknown slugs.
const FallbackGlyph Glyph = "❓"

// registry maps icon slugs to glyphs. The slugs mirror the icon set the
// backend hands out on categories.
var registry = map[string]Glyph{
	"utensils":        "🍜",
	"car":             "🚗",
	"fuel":            "⛽",
	"shopping-bag":    "🛍️",
	"receipt":         "🧾",
	"film":            "🎬",
	"heart":           "❤️",
	"heart-pulse":     "💓",
	"graduation-cap":  "🎓",
	"book-open":       "📖",
	"more-horizontal": "⋯",
	"briefcase":       "💼",
	"gift":            "🎁",
	"piggy-bank":      "🐷",
	"wallet":          "👛",
	"trending-up":     "📈",
	"laptop":          "💻",
	"plus-circle":     "➕",
	"gamepad-2":       "🎮",
	"home":            "🏠",
	"coffee":          "☕",
	"plane":           "✈️",
	"music":           "🎵",
	"camera":          "📷",
	"shirt":           "👕",
	"dumbbell":        "🏋️",
	"baby":            "👶",
	"dog":             "🐕",
	"cat":             "🐈",
	"smartphone":      "📱",
	"wifi":            "📶",
	"zap":             "⚡",
	"droplet":         "💧",
	"pill":            "💊",
	"stethoscope":     "🩺",
	"bus":             "🚌",
	"train":           "🚆",
	"bike":            "🚲",
	"pizza":           "🍕",
	"beer":            "🍺",
	"wine":            "🍷",
	"scissors":        "✂️",
	"wrench":          "🔧",
	"hammer":          "🔨",
	"paintbrush":      "🖌️",
}

// Resolve maps an icon slug to its glyph. Unknown slugs get the
// fallback glyph.
func Resolve(slug string) Glyph {
	if glyph, ok := registry[slug]; ok {
		return glyph
	}
	return FallbackGlyph
}

// Known reports whether the slug resolves to a real glyph.
func Known(slug string) bool {
	_, ok := registry[slug]
	return ok
}

// Slugs returns every registered slug in sorted order, so pickers lay
// out a stable grid.
func Slugs() []string {
	slugs := make([]string, 0, len(registry))
	for slug := range registry {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
