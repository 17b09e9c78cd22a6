package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsParseAndOrder(t *testing.T) {
	themes, err := Builtins()
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "default-dark", themes[0].Name)
	assert.Equal(t, "default-light", themes[1].Name)

	style, ok := themes[0].Style("keyword")
	require.True(t, ok)
	assert.NotEmpty(t, style.Foreground)
}

func TestStyleLookupMissingNameIsNotAnError(t *testing.T) {
	themes, err := Builtins()
	require.NoError(t, err)
	_, ok := themes[0].Style("nonexistent")
	assert.False(t, ok)
}

func TestRegistryByIndexWraps(t *testing.T) {
	r, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())
	assert.Equal(t, r.ByIndex(0).Name, r.ByIndex(2).Name)
	assert.Equal(t, r.ByIndex(-1).Name, r.ByIndex(1).Name)
}

func TestUserThemesMissingDirIsNotAnError(t *testing.T) {
	themes, err := UserThemes(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, themes)
}
