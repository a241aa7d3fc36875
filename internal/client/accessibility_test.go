package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAccessibility(t *testing.T) {
	prefs := DefaultAccessibility()

	assert.False(t, prefs.HighContrast)
	assert.False(t, prefs.LargeText)
	assert.False(t, prefs.ReduceMotion)
	assert.True(t, prefs.FocusOutline, "focus outlines must default on")
	assert.False(t, prefs.TTSEnabled)
}

func TestAccessibilityStore_RoundTrip(t *testing.T) {
	store, err := NewAccessibilityStore(t.TempDir())
	require.NoError(t, err)

	prefs := Accessibility{
		HighContrast: true,
		ReduceMotion: true,
		FocusOutline: false,
		TTSEnabled:   true,
	}
	require.NoError(t, store.Save(prefs))

	loaded := store.Load()
	assert.Equal(t, prefs, loaded)
}

func TestAccessibilityStore_MissingFileGivesDefaults(t *testing.T) {
	store, err := NewAccessibilityStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultAccessibility(), store.Load())
}

// Settings written by an older client that didn't know all the fields must
// still load, with the unknown fields at their defaults.
func TestAccessibilityStore_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAccessibilityStore(dir)
	require.NoError(t, err)

	partial := []byte(`{"highContrast": true}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, accessibilityFile), partial, 0o600))

	prefs := store.Load()
	assert.True(t, prefs.HighContrast)
	assert.True(t, prefs.FocusOutline, "absent fields keep their defaults")
}

func TestAccessibilityStore_CorruptFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAccessibilityStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, accessibilityFile), []byte("oops"), 0o600))

	assert.Equal(t, DefaultAccessibility(), store.Load())
}
