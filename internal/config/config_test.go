package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGlobalPath(t *testing.T) {
	tests := []struct {
		name      string
		xdgConfig string
		want      string
	}{
		{
			name:      "with XDG_CONFIG_HOME set",
			xdgConfig: "/custom/config",
			want:      "/custom/config/planforge/planforge.yml",
		},
		{
			name:      "without XDG_CONFIG_HOME",
			xdgConfig: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.xdgConfig != "" {
				t.Setenv("XDG_CONFIG_HOME", tt.xdgConfig)
				if got := GlobalPath(); got != tt.want {
					t.Errorf("GlobalPath() = %v, want %v", got, tt.want)
				}
				return
			}

			t.Setenv("XDG_CONFIG_HOME", "")
			_ = os.Unsetenv("XDG_CONFIG_HOME")
			got := GlobalPath()
			if !filepath.IsAbs(got) {
				t.Errorf("GlobalPath() should return absolute path, got %v", got)
			}
			if filepath.Base(got) != "planforge.yml" {
				t.Errorf("GlobalPath() should end with planforge.yml, got %v", got)
			}
		})
	}
}

func TestProjectPath(t *testing.T) {
	if got := ProjectPath(); got != "planforge.yml" {
		t.Errorf("ProjectPath() = %v, want planforge.yml", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataDir != ".planforge" {
		t.Errorf("DataDir = %q, want .planforge", cfg.DataDir)
	}
	if cfg.AutosaveDebounceMS != 750 {
		t.Errorf("AutosaveDebounceMS = %d, want 750", cfg.AutosaveDebounceMS)
	}
	if cfg.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", cfg.Currency)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("PLANFORGE_AUTOSAVE_DEBOUNCE_MS", "250")
	t.Setenv("PLANFORGE_DATA_DIR", "custom-data")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AutosaveDebounceMS != 250 {
		t.Errorf("AutosaveDebounceMS = %d, want 250", cfg.AutosaveDebounceMS)
	}
	if cfg.DataDir != "custom-data" {
		t.Errorf("DataDir = %q, want custom-data", cfg.DataDir)
	}
}

func TestWriteProject_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))

	in := &Config{
		DataDir:            ".planforge",
		AutosaveDebounceMS: 500,
		Currency:           "EUR",
		LogLevel:           "debug",
	}
	if err := WriteProject(in); err != nil {
		t.Fatalf("WriteProject() failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", cfg.Currency)
	}
	if cfg.AutosaveDebounceMS != 500 {
		t.Errorf("AutosaveDebounceMS = %d, want 500", cfg.AutosaveDebounceMS)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}
