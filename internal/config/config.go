package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	dirName          = ".jvirtualenv.d"
	globalPOSIXDir   = "/etc/jvirtualenv.d"
	tagListFileName  = "tag-list.json"
	settingsFileName = "settings.json"

	// HomeEnv overrides the configuration directory.
	HomeEnv = "JVIRTUALENV_HOME"
)

// DiscoveryConfig locates the files of one mode (per-user or global).
// It is built once from the --global flag and passed down explicitly.
type DiscoveryConfig struct {
	ConfigDir    string
	StorePath    string
	SettingsPath string
	Global       bool
}

// NewDiscoveryConfig resolves the configuration directory:
// per-user ~/.jvirtualenv.d, or for global mode /etc/jvirtualenv.d
// (POSIX) and "All Users\.jvirtualenv.d" next to the user profile (Windows).
func NewDiscoveryConfig(global bool) (DiscoveryConfig, error) {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		home, err := homeDir()
		if err != nil {
			return DiscoveryConfig{}, err
		}
		dir = configDir(home, global, runtime.GOOS)
	}
	return NewDiscoveryConfigAt(dir, global), nil
}

// NewDiscoveryConfigAt builds a DiscoveryConfig rooted at dir.
func NewDiscoveryConfigAt(dir string, global bool) DiscoveryConfig {
	return DiscoveryConfig{
		ConfigDir:    dir,
		StorePath:    filepath.Join(dir, tagListFileName),
		SettingsPath: filepath.Join(dir, settingsFileName),
		Global:       global,
	}
}

func configDir(home string, global bool, goos string) string {
	switch {
	case !global:
		return filepath.Join(home, dirName)
	case goos == "windows":
		return filepath.Join(filepath.Dir(home), "All Users", dirName)
	default:
		return globalPOSIXDir
	}
}

func homeDir() (string, error) {
	if runtime.GOOS == "windows" {
		if home := os.Getenv("USERPROFILE"); home != "" {
			return home, nil
		}
	}
	return os.UserHomeDir()
}

// DirectoryConflictError reports a path that must be a directory but is
// occupied by something else.
type DirectoryConflictError struct {
	Path string
}

func (e *DirectoryConflictError) Error() string {
	return "directory " + e.Path + " conflict"
}

// EnsureDir creates path (and parents) unless it already is a directory.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return &DirectoryConflictError{Path: path}
	}
	if _, lerr := os.Lstat(path); lerr == nil {
		// dangling symlink
		return &DirectoryConflictError{Path: path}
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.MkdirAll(path, 0755)
}

// Settings holds user preferences stored next to the tag list
type Settings struct {
	SearchPaths  []string     `json:"search_paths"`  // Extra directories to scan for JDKs
	UpdateConfig UpdateConfig `json:"update_config"` // Auto-update configuration
	path         string
}

// UpdateConfig holds settings for auto-update feature
type UpdateConfig struct {
	Enabled     bool      `json:"enabled"`      // Master toggle for update functionality
	AutoCheck   bool      `json:"auto_check"`   // Check for updates on startup
	LastCheck   time.Time `json:"last_check"`   // Last time update check was performed
	SkipVersion string    `json:"skip_version"` // Version user chose to skip
}

// LoadSettings reads the settings file at path. A missing file yields defaults.
func LoadSettings(path string) (*Settings, error) {
	s := &Settings{
		SearchPaths: make([]string, 0),
		UpdateConfig: UpdateConfig{
			Enabled:   true,
			AutoCheck: true,
		},
		path: path,
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	// Remove BOM if present (UTF-8 BOM is EF BB BF)
	// This handles files created by PowerShell with Set-Content -Encoding UTF8
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	// Sanitize: drop empty and duplicate search paths
	cleaned := make([]string, 0, len(s.SearchPaths))
	seen := make(map[string]bool)
	for _, p := range s.SearchPaths {
		p = filepath.Clean(strings.TrimSpace(p))
		if p == "" || p == "." {
			continue
		}
		key := pathKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, p)
	}
	s.SearchPaths = cleaned

	s.path = path
	return s, nil
}

// Path returns the file the settings are saved to.
func (s *Settings) Path() string {
	return s.path
}

// Save writes the settings to disk
func (s *Settings) Save() error {
	if err := EnsureDir(filepath.Dir(s.path)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// AddSearchPath adds a directory to scan. It reports whether the path was new.
func (s *Settings) AddSearchPath(path string) bool {
	path = filepath.Clean(strings.TrimSpace(path))
	if path == "" || path == "." || s.HasSearchPath(path) {
		return false
	}

	s.SearchPaths = append(s.SearchPaths, path)
	return true
}

// RemoveSearchPath removes a search path. It reports whether it was present.
func (s *Settings) RemoveSearchPath(path string) bool {
	key := pathKey(filepath.Clean(path))

	for i, p := range s.SearchPaths {
		if pathKey(p) == key {
			s.SearchPaths = append(s.SearchPaths[:i], s.SearchPaths[i+1:]...)
			return true
		}
	}
	return false
}

// HasSearchPath checks if a path exists in search paths
func (s *Settings) HasSearchPath(path string) bool {
	key := pathKey(filepath.Clean(path))

	for _, p := range s.SearchPaths {
		if pathKey(p) == key {
			return true
		}
	}
	return false
}

// pathKey folds case on Windows, where paths are case-insensitive.
func pathKey(p string) string {
	if runtime.GOOS == "windows" {
		return strings.ToLower(p)
	}
	return p
}
