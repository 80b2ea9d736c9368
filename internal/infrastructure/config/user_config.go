package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	preferencesDir  = ".overmind-logistics"
	preferencesFile = "preferences.yaml"
	recentColonies  = 5
)

// Preferences are the per-user CLI settings kept next to the home directory
type Preferences struct {
	DefaultColony string `yaml:"default_colony,omitempty"`
	SocketPath    string `yaml:"socket_path,omitempty"`

	// Most recently selected colonies, newest first
	Recent []string `yaml:"recent,omitempty"`
}

// SelectColony makes name the default and moves it to the front of Recent
func (p *Preferences) SelectColony(name string) {
	p.DefaultColony = name
	p.Recent = slices.DeleteFunc(p.Recent, func(c string) bool { return c == name })
	p.Recent = append([]string{name}, p.Recent...)
	if len(p.Recent) > recentColonies {
		p.Recent = p.Recent[:recentColonies]
	}
}

// PreferencesStore reads and writes Preferences as YAML
type PreferencesStore struct {
	path string
}

// OpenPreferences uses ~/.overmind-logistics/preferences.yaml
func OpenPreferences() (*PreferencesStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}
	return OpenPreferencesIn(filepath.Join(home, preferencesDir))
}

// OpenPreferencesIn keeps the preferences file in dir, creating it if needed
func OpenPreferencesIn(dir string) (*PreferencesStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}
	return &PreferencesStore{path: filepath.Join(dir, preferencesFile)}, nil
}

// Path is the file backing the store
func (s *PreferencesStore) Path() string {
	return s.path
}

// Load returns empty preferences when nothing was saved yet
func (s *PreferencesStore) Load() (*Preferences, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Preferences{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return &prefs, nil
}

// Update loads, applies fn and saves; the file is replaced atomically
func (s *PreferencesStore) Update(fn func(*Preferences)) error {
	prefs, err := s.Load()
	if err != nil {
		return err
	}
	fn(prefs)

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return os.Rename(tmp, s.path)
}
