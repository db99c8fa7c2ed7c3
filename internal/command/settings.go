package command

import (
	"github.com/xcenweb/delin-ocr/internal/config"
	"go.uber.org/zap"
)

// Settings exposes the persisted user settings.
type Settings struct {
	store *config.SettingsStore
	log   *zap.Logger
}

// NewSettings returns the settings command handler.
func NewSettings(store *config.SettingsStore, log *zap.Logger) *Settings {
	return &Settings{store: store, log: log}
}

// GetSettings returns the current settings, or the defaults if none are saved.
func (s *Settings) GetSettings() (*config.UserSettings, error) {
	return s.store.Load()
}

// SetSettings validates and saves the given settings.
func (s *Settings) SetSettings(us config.UserSettings) error {
	if err := s.store.Save(&us); err != nil {
		s.log.Warn("rejected settings", zap.Error(err))
		return err
	}
	s.log.Info("settings saved", zap.String("theme", us.Theme), zap.String("language", us.Language))
	return nil
}

// ResetSettings restores the defaults.
func (s *Settings) ResetSettings() (*config.UserSettings, error) {
	return s.store.Reset()
}
