package icons

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownSlug(t *testing.T) {
	assert.Equal(t, Glyph("🍜"), Resolve("utensils"))
	assert.Equal(t, Glyph("👛"), Resolve("wallet"))
	assert.True(t, Known("piggy-bank"))
}

func TestResolve_UnknownSlugFallsBack(t *testing.T) {
	tests := []string{"", "no-such-icon", "UTENSILS", "lucide:sparkles"}
	for _, slug := range tests {
		t.Run(fmt.Sprintf("slug=%q", slug), func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, FallbackGlyph, Resolve(slug))
			})
			assert.False(t, Known(slug))
		})
	}
}

func TestSlugs_SortedAndStable(t *testing.T) {
	slugs := Slugs()
	require.NotEmpty(t, slugs)
	assert.True(t, sort.StringsAreSorted(slugs))
	assert.Equal(t, slugs, Slugs())
}

func TestSwatch_CachesAndTolerateBadColor(t *testing.T) {
	first := Swatch("utensils", "#10b981", SizeMedium)
	second := Swatch("utensils", "#10b981", SizeMedium)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)

	// Unknown slug and garbage color still render something.
	assert.NotEmpty(t, Swatch("no-such-icon", "not-a-color", SizeSmall))
}

func TestTint(t *testing.T) {
	assert.Equal(t, "#634a60", Tint("#ec8ae0"))
	assert.Equal(t, "#3a3a3a", Tint("oops"))
}

func testRecents(t *testing.T) *Recents {
	t.Helper()
	return NewRecents(filepath.Join(t.TempDir(), "recent_icons.json"))
}

func TestRecents_EmptyWhenMissing(t *testing.T) {
	assert.Empty(t, testRecents(t).List())
}

func TestRecents_MostRecentFirstAndDeduplicated(t *testing.T) {
	r := testRecents(t)

	r.Add("utensils")
	r.Add("car")
	r.Add("utensils")

	assert.Equal(t, []string{"utensils", "car"}, r.List())
}

func TestRecents_CappedAtMax(t *testing.T) {
	r := testRecents(t)

	for i := 0; i < MaxRecent+5; i++ {
		r.Add(fmt.Sprintf("icon-%d", i))
	}

	got := r.List()
	require.Len(t, got, MaxRecent)
	assert.Equal(t, fmt.Sprintf("icon-%d", MaxRecent+4), got[0])
}

func TestRecents_CorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent_icons.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0600))

	r := NewRecents(path)
	assert.Empty(t, r.List())

	// And recovers on the next write.
	r.Add("wallet")
	assert.Equal(t, []string{"wallet"}, r.List())
}
