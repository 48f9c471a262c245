package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// LoadFromINI reads defaults from the [umadetail] section of a settings
// file. A missing file yields the built-in defaults.
func LoadFromINI(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	section := file.Section("umadetail")

	config.LayoutPath = section.Key("layout").MustString(config.LayoutPath)
	config.SkillsPath = section.Key("skills").MustString(config.SkillsPath)
	config.LogPath = section.Key("log").MustString(config.LogPath)
	config.Recognizer = section.Key("recognizer").MustString(config.Recognizer)
	config.Workers = section.Key("workers").MustInt(config.Workers)
	config.DPI = section.Key("dpi").MustInt(config.DPI)
	config.ShowStats = section.Key("stats").MustBool(false)
	config.DebugDir = section.Key("debugDir").MustString("")

	if config.Workers < 1 {
		config.Workers = 1
	}
	return config, nil
}
