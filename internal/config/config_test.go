package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromINI(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, c *Config)
	}{
		{
			name:    "overrides",
			content: "[umadetail]\nlayout = l.yaml\nworkers = 3\nstats = true\ndpi = 300\n",
			check: func(t *testing.T, c *Config) {
				if c.LayoutPath != "l.yaml" || c.Workers != 3 || !c.ShowStats || c.DPI != 300 {
					t.Errorf("unexpected config: %+v", c)
				}
				if c.SkillsPath != "configs/skills.yaml" {
					t.Errorf("unset keys should keep defaults, got %q", c.SkillsPath)
				}
			},
		},
		{
			name:    "other section",
			content: "[other]\nworkers = 9\n",
			check: func(t *testing.T, c *Config) {
				if c.Workers != Default().Workers {
					t.Errorf("Workers = %d, want default", c.Workers)
				}
			},
		},
		{
			name:    "invalid workers",
			content: "[umadetail]\nworkers = 0\n",
			check: func(t *testing.T, c *Config) {
				if c.Workers != 1 {
					t.Errorf("Workers = %d, want 1", c.Workers)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".ini")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			c, err := LoadFromINI(path)
			if err != nil {
				t.Fatalf("LoadFromINI failed: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoadFromINIMissing(t *testing.T) {
	c, err := LoadFromINI(filepath.Join(t.TempDir(), "settings.ini"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if *c != *Default() {
		t.Errorf("expected defaults, got %+v", c)
	}
}
