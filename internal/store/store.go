// Package store persists discovered JDKs as the tag list: a JSON array of
// {tag, version, bit, home} objects kept in discovery order.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jvirtualenv/internal/config"
	"jvirtualenv/internal/java"
)

// ErrTagNotFound means no stored installation matches a tag prefix.
var ErrTagNotFound = errors.New("no matched tag")

// DiscoverFunc produces a fresh installation list.
type DiscoverFunc func() ([]java.Installation, error)

// Exists reports whether the tag list file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the tag list at path.
func Load(path string) ([]java.Installation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	installs := make([]java.Installation, 0)
	if err := json.Unmarshal(data, &installs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return installs, nil
}

// Save replaces the tag list at path with installs. The file is written
// beside the target and renamed over it, so readers never see half a list.
func Save(path string, installs []java.Installation) error {
	if installs == nil {
		installs = make([]java.Installation, 0)
	}
	data, err := json.MarshalIndent(installs, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tag-list-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Init runs discover and overwrites the tag list with the result.
func Init(cfg config.DiscoveryConfig, discover DiscoverFunc) ([]java.Installation, error) {
	if err := config.EnsureDir(cfg.ConfigDir); err != nil {
		return nil, err
	}
	installs, err := discover()
	if err != nil {
		return nil, err
	}
	if err := Save(cfg.StorePath, installs); err != nil {
		return nil, err
	}
	return installs, nil
}

// LoadOrInit returns the stored tag list, building it first if the file
// does not exist yet. created reports whether discovery ran.
func LoadOrInit(cfg config.DiscoveryConfig, discover DiscoverFunc) (installs []java.Installation, created bool, err error) {
	if Exists(cfg.StorePath) {
		installs, err = Load(cfg.StorePath)
		return installs, false, err
	}
	installs, err = Init(cfg, discover)
	return installs, err == nil, err
}

// Find returns the first installation whose tag starts with prefix.
// Stored order decides between several matches.
func Find(installs []java.Installation, prefix string) (java.Installation, bool) {
	for _, inst := range installs {
		if strings.HasPrefix(inst.Tag, prefix) {
			return inst, true
		}
	}
	return java.Installation{}, false
}

// Lookup resolves a tag prefix against the tag list of cfg.
func Lookup(cfg config.DiscoveryConfig, discover DiscoverFunc, prefix string) (java.Installation, error) {
	installs, _, err := LoadOrInit(cfg, discover)
	if err != nil {
		return java.Installation{}, err
	}
	inst, ok := Find(installs, prefix)
	if !ok {
		return java.Installation{}, fmt.Errorf("%w: %s", ErrTagNotFound, prefix)
	}
	return inst, nil
}
