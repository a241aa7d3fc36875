package client

// ACCESSIBILITY PREFERENCES:
// Purely client-side display settings, persisted next to the session under
// the same name the web client uses for its localStorage key. They never
// travel to the server — accessibility is a rendering concern.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const accessibilityFile = "emoai_accessibility_settings.json"

// Accessibility holds the display preference toggles.
type Accessibility struct {
	HighContrast bool `json:"highContrast"`
	LargeText    bool `json:"largeText"`
	ReduceMotion bool `json:"reduceMotion"`
	FocusOutline bool `json:"focusOutline"`
	TTSEnabled   bool `json:"ttsEnabled"`
}

// DefaultAccessibility returns the out-of-the-box settings. Focus outlines
// start ON: hiding them by default would break keyboard navigation.
func DefaultAccessibility() Accessibility {
	return Accessibility{FocusOutline: true}
}

// AccessibilityStore persists preferences in the client state directory.
type AccessibilityStore struct {
	dir string
}

// NewAccessibilityStore creates a store rooted at dir, creating it if needed.
func NewAccessibilityStore(dir string) (*AccessibilityStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("client: creating state dir %s: %w", dir, err)
	}
	return &AccessibilityStore{dir: dir}, nil
}

// Load returns the saved preferences, falling back to defaults when the file
// is missing or unreadable. Fields absent from the file keep their default,
// so settings saved by an older client version still load cleanly.
func (st *AccessibilityStore) Load() Accessibility {
	prefs := DefaultAccessibility()

	data, err := os.ReadFile(st.path())
	if errors.Is(err, fs.ErrNotExist) {
		return prefs
	}
	if err != nil {
		return prefs
	}

	// Unmarshal over the defaults: present fields overwrite, absent keep.
	if err := json.Unmarshal(data, &prefs); err != nil {
		return DefaultAccessibility()
	}
	return prefs
}

// Save persists the preferences.
func (st *AccessibilityStore) Save(prefs Accessibility) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("client: encoding accessibility settings: %w", err)
	}
	if err := os.WriteFile(st.path(), data, 0o600); err != nil {
		return fmt.Errorf("client: writing accessibility settings: %w", err)
	}
	return nil
}

func (st *AccessibilityStore) path() string {
	return filepath.Join(st.dir, accessibilityFile)
}
