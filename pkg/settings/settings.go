// Package settings manages persistent user settings for the hostplan CLI.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds persistent user preferences
type Settings struct {
	// NetplanDir overrides the default netplan configuration directory
	NetplanDir string `json:"netplan_dir,omitempty"`

	// HelperPath is the privileged helper binary to delegate operations to.
	// When empty, operations run in-process.
	HelperPath string `json:"helper_path,omitempty"`

	// ManagedUnits overrides the default set of managed systemd units
	ManagedUnits []string `json:"managed_units,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hostplan_settings.json"
	}
	return filepath.Join(home, ".hostplan", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetNetplanDir sets the netplan configuration directory
func (s *Settings) SetNetplanDir(dir string) {
	s.NetplanDir = dir
}

// GetNetplanDir returns the netplan directory (with fallback)
func (s *Settings) GetNetplanDir() string {
	if s.NetplanDir != "" {
		return s.NetplanDir
	}
	return "/etc/netplan"
}

// SetHelperPath sets the privileged helper binary path
func (s *Settings) SetHelperPath(path string) {
	s.HelperPath = path
}

// SetManagedUnits sets the managed systemd units
func (s *Settings) SetManagedUnits(units []string) {
	s.ManagedUnits = units
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
