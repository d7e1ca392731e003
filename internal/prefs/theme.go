package prefs

import (
	"fmt"
	"strings"
)

// Theme is the page color scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark", case-insensitively
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences reads and writes the theme and draft on top of a Store
type Preferences struct {
	store        Store
	defaultTheme Theme
}

// NewPreferences creates preferences backed by store. fallback is used
// when no theme was saved, standing in for the system color-scheme preference.
func NewPreferences(store Store, fallback string) *Preferences {
	def, err := ParseTheme(fallback)
	if err != nil {
		def = ThemeLight
	}
	return &Preferences{store: store, defaultTheme: def}
}

// Theme returns the saved theme, or the fallback when none (or garbage) is stored
func (p *Preferences) Theme() Theme {
	if v, ok := p.store.Get(KeyTheme); ok {
		if t, err := ParseTheme(v); err == nil {
			return t
		}
	}
	return p.defaultTheme
}

// SetTheme saves t
func (p *Preferences) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return p.store.Set(KeyTheme, string(t))
}

// ToggleTheme flips and saves the theme, returning the new one
func (p *Preferences) ToggleTheme() (Theme, error) {
	next := p.Theme().Toggle()
	if err := p.SetTheme(next); err != nil {
		return p.Theme(), err
	}
	return next, nil
}

// LastText returns the saved draft
func (p *Preferences) LastText() (string, bool) {
	return p.store.Get(KeyLastText)
}

// SaveLastText stores the draft
func (p *Preferences) SaveLastText(text string) error {
	return p.store.Set(KeyLastText, text)
}

// ClearLastText forgets the draft
func (p *Preferences) ClearLastText() error {
	return p.store.Delete(KeyLastText)
}
