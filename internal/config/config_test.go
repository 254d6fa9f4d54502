package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestConfigDir(t *testing.T) {
	t.Parallel()

	home := filepath.Join("home", "alice")
	tests := []struct {
		name   string
		global bool
		goos   string
		want   string
	}{
		{"local", false, "linux", filepath.Join(home, ".jvirtualenv.d")},
		{"local windows", false, "windows", filepath.Join(home, ".jvirtualenv.d")},
		{"global posix", true, "linux", "/etc/jvirtualenv.d"},
		{"global windows", true, "windows", filepath.Join("home", "All Users", ".jvirtualenv.d")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := configDir(home, tt.global, tt.goos); got != tt.want {
				t.Errorf("configDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewDiscoveryConfigHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	cfg, err := NewDiscoveryConfig(true)
	if err != nil {
		t.Fatalf("NewDiscoveryConfig() error = %v", err)
	}
	if cfg.ConfigDir != dir || !cfg.Global {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.StorePath != filepath.Join(dir, "tag-list.json") {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.SettingsPath != filepath.Join(dir, "settings.json") {
		t.Errorf("SettingsPath = %q", cfg.SettingsPath)
	}
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	nested := filepath.Join(dir, "a", "b")
	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir(new) error = %v", err)
	}
	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir(existing) error = %v", err)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := EnsureDir(file)
	var conflict *DirectoryConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("EnsureDir(file) error = %v, want DirectoryConflictError", err)
	}
	if conflict.Path != file {
		t.Errorf("conflict.Path = %q, want %q", conflict.Path, file)
	}
	if conflict.Error() != "directory "+file+" conflict" {
		t.Errorf("Error() = %q", conflict.Error())
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if !s.UpdateConfig.Enabled || !s.UpdateConfig.AutoCheck {
		t.Errorf("UpdateConfig = %+v, want enabled defaults", s.UpdateConfig)
	}
	if len(s.SearchPaths) != 0 {
		t.Errorf("SearchPaths = %q", s.SearchPaths)
	}
	if s.Path() != path {
		t.Errorf("Path() = %q", s.Path())
	}
}

func TestLoadSettingsSanitizes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{
  "search_paths": ["/opt/jdks", " ", "/opt/jdks/", "/usr/local/java"],
  "update_config": {"enabled": false, "auto_check": true, "skip_version": "0.3.0"}
}`)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	want := []string{filepath.Clean("/opt/jdks"), filepath.Clean("/usr/local/java")}
	if !slices.Equal(s.SearchPaths, want) {
		t.Errorf("SearchPaths = %q, want %q", s.SearchPaths, want)
	}
	if s.UpdateConfig.Enabled || s.UpdateConfig.SkipVersion != "0.3.0" {
		t.Errorf("UpdateConfig = %+v", s.UpdateConfig)
	}
}

func TestSettingsSaveAndSearchPaths(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}

	if !s.AddSearchPath("/opt/jdks") {
		t.Error("AddSearchPath(new) = false")
	}
	if s.AddSearchPath("/opt/jdks/") {
		t.Error("AddSearchPath(duplicate) = true")
	}
	if s.AddSearchPath("  ") {
		t.Error("AddSearchPath(blank) = true")
	}
	if !s.HasSearchPath("/opt/jdks") {
		t.Error("HasSearchPath() = false")
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(loaded.SearchPaths, []string{filepath.Clean("/opt/jdks")}) {
		t.Errorf("reloaded SearchPaths = %q", loaded.SearchPaths)
	}

	if !loaded.RemoveSearchPath("/opt/jdks") {
		t.Error("RemoveSearchPath() = false")
	}
	if loaded.RemoveSearchPath("/opt/jdks") {
		t.Error("RemoveSearchPath(absent) = true")
	}
}
