package preference

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// ThemeKey is the store key holding the theme preference
const ThemeKey = "theme"

// Theme is the colour scheme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme applies when nothing valid is stored
const DefaultTheme = ThemeDark

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Opposite returns the other theme
func (t Theme) Opposite() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Preferences reads and writes user preferences in a key-value store.
type Preferences struct {
	kv     domain.KeyValueStore
	logger *slog.Logger
	mu     sync.Mutex
}

// New creates preferences backed by kv.
func New(kv domain.KeyValueStore, logger *slog.Logger) *Preferences {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preferences{kv: kv, logger: logger}
}

// Theme returns the stored theme, or DefaultTheme if unset or unknown
func (p *Preferences) Theme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme()
}

func (p *Preferences) theme() Theme {
	raw, ok := p.kv.Get(ThemeKey)
	if !ok {
		return DefaultTheme
	}
	t := Theme(raw)
	if !t.Valid() {
		p.logger.Warn("ignoring unknown theme", "value", raw)
		return DefaultTheme
	}
	return t
}

// SetTheme stores t
func (p *Preferences) SetTheme(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("unknown theme %q", t)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kv.Set(ThemeKey, string(t))
}

// ToggleTheme flips between light and dark and returns the new theme.
// A failed write is logged and the new theme is still returned.
func (p *Preferences) ToggleTheme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.theme().Opposite()
	if err := p.kv.Set(ThemeKey, string(next)); err != nil {
		p.logger.Error("failed to save theme", "error", err, "theme", next)
	}
	return next
}
