package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategories_FixedOrder(t *testing.T) {
	want := []WasteCategory{
		"Restmüll",
		"Papiermüll",
		"Biomüll",
		"Verpackungsmüll",
		"Glasmüll",
		"Sondermüll",
		"Elektroschrott",
	}

	got := Categories()
	require.Len(t, got, len(want))
	for i, info := range got {
		require.Equal(t, want[i], info.Category)
		require.NotEmpty(t, info.Icon)
		require.NotEmpty(t, info.Color)
		require.NotEmpty(t, info.Description)
	}
	require.Equal(t, CategoryRestmuell, DefaultCategory)
}

func TestCategories_ReturnsCopy(t *testing.T) {
	got := Categories()
	got[0].Description = "changed"

	info, ok := CategoryRestmuell.Info()
	require.True(t, ok)
	require.Equal(t, "Dieser Abfall gehört in die schwarze Restmülltonne.", info.Description)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("Glasmüll")
	require.True(t, ok)
	require.Equal(t, CategoryGlasmuell, c)

	_, ok = ParseCategory("glasmüll")
	require.False(t, ok)

	_, ok = ParseCategory(" Glasmüll")
	require.False(t, ok)
}

func TestWasteCategory_Info(t *testing.T) {
	info, ok := CategoryElektroschrott.Info()
	require.True(t, ok)
	require.Equal(t, "purple", info.Color)
	require.Equal(t, "Wertstoffhof", info.Bin)

	_, ok = WasteCategory("Sperrmüll").Info()
	require.False(t, ok)
}
