package config

import "runtime"

type Config struct {
	InputPath    string
	LayoutPath   string
	SkillsPath   string
	LogPath      string
	Recognizer   string
	Workers      int
	DPI          int
	QRPath       string
	ReportPath   string
	DebugDir     string
	DumpLayout   bool
	ShowStats    bool
	BuildVersion string
}

// Default returns the settings used when neither flags nor a settings
// file say otherwise.
func Default() *Config {
	return &Config{
		LayoutPath: "configs/layout.yaml",
		SkillsPath: "configs/skills.yaml",
		LogPath:    "result.txt",
		Recognizer: "tesseract",
		Workers:    runtime.NumCPU(),
		DPI:        150,
	}
}
