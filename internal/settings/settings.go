// Package settings persists user-facing overlay preferences. The
// sampling engine never reads these; they belong to the renderer.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	Theme      string  `yaml:"theme"`   // dark | light
	Opacity    float64 `yaml:"opacity"` // 0.2 .. 1.0
	SizePreset string  `yaml:"size"`    // small | medium | large
	PosX       int     `yaml:"pos_x"`
	PosY       int     `yaml:"pos_y"`
	Compact    bool    `yaml:"compact"`
}

func Defaults() *Settings {
	return &Settings{
		Theme:      "dark",
		Opacity:    0.9,
		SizePreset: "small",
		PosX:       20,
		PosY:       20,
	}
}

// Load reads settings from path. A missing file yields defaults;
// out-of-range values are fixed up rather than rejected.
func Load(path string) (*Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	if s.Theme != "dark" && s.Theme != "light" {
		s.Theme = "dark"
	}
	switch s.SizePreset {
	case "small", "medium", "large":
	default:
		s.SizePreset = "small"
	}
	if s.Opacity < 0.2 || s.Opacity > 1.0 {
		s.Opacity = 0.9
	}
	return s, nil
}

// Save writes settings to path, creating parent directories as needed.
func (s *Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
