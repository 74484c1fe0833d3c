// Package settings wraps the toolkit preference store behind plain
// accessors so the core packages depend on capabilities, not on Fyne.
package settings

import (
	"fyne.io/fyne/v2"

	"github.com/deckhandapp/deckhand/internal/logger"
)

const (
	keyTrayIcon    = "TrayIcon"
	keyBrightness  = "Brightness"
	keyLastProfile = "LastProfile"

	defaultBrightness = 80
)

type Settings struct {
	prefs fyne.Preferences
}

func New(prefs fyne.Preferences) *Settings {
	return &Settings{prefs: prefs}
}

// TrayIconEnabled is the tray-visibility preference consulted before any
// registration attempt starts.
func (s *Settings) TrayIconEnabled() bool {
	return s.prefs.BoolWithFallback(keyTrayIcon, true)
}

func (s *Settings) SetTrayIconEnabled(enabled bool) {
	s.prefs.SetBool(keyTrayIcon, enabled)
}

func (s *Settings) Brightness() int {
	pct := s.prefs.IntWithFallback(keyBrightness, defaultBrightness)
	if pct < 0 || pct > 100 {
		logger.Warn("brightness clamped", "requested", pct)
		pct = min(max(pct, 0), 100)
		s.prefs.SetInt(keyBrightness, pct)
	}
	return pct
}

func (s *Settings) SetBrightness(pct int) {
	s.prefs.SetInt(keyBrightness, min(max(pct, 0), 100))
}

func (s *Settings) LastProfile() string {
	return s.prefs.String(keyLastProfile)
}

func (s *Settings) SetLastProfile(name string) {
	s.prefs.SetString(keyLastProfile, name)
}
