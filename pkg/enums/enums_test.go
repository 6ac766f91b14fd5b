package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductCategory(t *testing.T) {
	got, err := ParseProductCategory("rings")
	require.NoError(t, err)
	assert.Equal(t, ProductCategoryRings, got)

	_, err = ParseProductCategory("earrings")
	assert.Error(t, err)
	assert.False(t, ProductCategory("Rings").IsValid())
}

func TestParseProductMaterial(t *testing.T) {
	got, err := ParseProductMaterial("Rose Gold")
	require.NoError(t, err)
	assert.Equal(t, ProductMaterialRoseGold, got)

	_, err = ParseProductMaterial("rose gold")
	assert.Error(t, err)
}

func TestPriceCeilings(t *testing.T) {
	assert.True(t, IsValidPriceCeiling(1500))
	assert.False(t, IsValidPriceCeiling(750))
}

func TestParseOptionTypeAcceptsSingleSelectAlias(t *testing.T) {
	got, err := ParseOptionType("single_select")
	require.NoError(t, err)
	assert.Equal(t, OptionTypeSelect, got)

	got, err = ParseOptionType("Multi_Select")
	require.NoError(t, err)
	assert.Equal(t, OptionTypeMultiSelect, got)

	_, err = ParseOptionType("number")
	assert.Error(t, err)
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())

	theme, err := ParseTheme(" DARK ")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	_, err = ParseTheme("sepia")
	assert.Error(t, err)
}

func TestOptionTypeUnmarshalTextAcceptsAlias(t *testing.T) {
	var got OptionType
	require.NoError(t, got.UnmarshalText([]byte("single_select")))
	assert.Equal(t, OptionTypeSelect, got)

	require.NoError(t, got.UnmarshalText([]byte("multi_select")))
	assert.Equal(t, OptionTypeMultiSelect, got)

	assert.Error(t, got.UnmarshalText([]byte("number")))
}
