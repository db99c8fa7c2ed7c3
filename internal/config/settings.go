package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// SettingsFileName is the user settings file inside the data dir.
const SettingsFileName = "settings.json"

// Allowed values for the enumerated settings.
var (
	Themes         = []string{"system", "light", "dark"}
	Languages      = []string{"zh", "en"}
	OCRLanguages   = []string{"chi_sim", "eng"}
	UpdateChannels = []string{"official", "beta", "alpha"}
)

// UserSettings represents the user-configurable settings persisted to disk.
type UserSettings struct {
	Theme           string   `json:"theme"`
	Language        string   `json:"language"`
	OCRLanguages    []string `json:"ocrLanguages"`
	AutoCheckUpdate bool     `json:"autoCheckUpdate"`
	UpdateChannel   string   `json:"updateChannel"`
}

// DefaultSettings returns the default user settings.
func DefaultSettings() *UserSettings {
	return &UserSettings{
		Theme:           "system",
		Language:        "zh",
		OCRLanguages:    []string{"chi_sim", "eng"},
		AutoCheckUpdate: true,
		UpdateChannel:   "beta",
	}
}

// Validate rejects values the front-end cannot render.
func (s *UserSettings) Validate() error {
	if !slices.Contains(Themes, s.Theme) {
		return fmt.Errorf("invalid theme %q", s.Theme)
	}
	if !slices.Contains(Languages, s.Language) {
		return fmt.Errorf("invalid language %q", s.Language)
	}
	for _, l := range s.OCRLanguages {
		if !slices.Contains(OCRLanguages, l) {
			return fmt.Errorf("invalid ocr language %q", l)
		}
	}
	if !slices.Contains(UpdateChannels, s.UpdateChannel) {
		return fmt.Errorf("invalid update channel %q", s.UpdateChannel)
	}
	return nil
}

// SettingsStore loads and saves UserSettings at a fixed path.
type SettingsStore struct {
	mu   sync.Mutex
	path string
}

// NewSettingsStore returns a store backed by dataDir/settings.json.
func NewSettingsStore(dataDir string) *SettingsStore {
	return &SettingsStore{path: filepath.Join(dataDir, SettingsFileName)}
}

// Load returns the stored settings. If the file does not exist, it returns
// default settings.
func (s *SettingsStore) Load() (*UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := DefaultSettings()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return defaults, nil
	}
	if err != nil {
		return defaults, err
	}

	var us UserSettings
	if err := json.Unmarshal(data, &us); err != nil {
		return defaults, err
	}

	// Merge with defaults (in case of missing fields)
	if us.Theme == "" {
		us.Theme = defaults.Theme
	}
	if us.Language == "" {
		us.Language = defaults.Language
	}
	if us.OCRLanguages == nil {
		us.OCRLanguages = defaults.OCRLanguages
	}
	if us.UpdateChannel == "" {
		us.UpdateChannel = defaults.UpdateChannel
	}
	return &us, nil
}

// Save validates and writes the settings.
func (s *SettingsStore) Save(us *UserSettings) error {
	if err := us.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(us, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Reset removes the stored file so the defaults apply again.
func (s *SettingsStore) Reset() (*UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return DefaultSettings(), nil
}
