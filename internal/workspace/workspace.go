// Package workspace lays out the local data root: configuration, cache
// storage, an optional API mirror, and archived warm reports.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ecfr_analytics/internal/config"
)

const BaseDirName = ".ecfr-analytics"

type Layout struct {
	Root       string
	ConfigPath string
	CacheDir   string
	MirrorDir  string
	ReportsDir string
}

func EnsureDefault() (Layout, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Layout{}, fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

// EnsureAt creates the directory tree under base and writes a default
// config.yaml pointing the cache at it. An existing config is left alone.
func EnsureAt(base string) (Layout, error) {
	l := Layout{
		Root:       base,
		ConfigPath: filepath.Join(base, "config.yaml"),
		CacheDir:   filepath.Join(base, "cache"),
		MirrorDir:  filepath.Join(base, "mirror"),
		ReportsDir: filepath.Join(base, "reports"),
	}

	for _, p := range []string{l.CacheDir, l.MirrorDir, l.ReportsDir} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return Layout{}, fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	if _, err := os.Stat(l.ConfigPath); errors.Is(err, os.ErrNotExist) {
		defaults := config.Default()
		defaults.Cache.Location = l.CacheDir
		raw, marshalErr := yaml.Marshal(defaults)
		if marshalErr != nil {
			return Layout{}, fmt.Errorf("marshal config: %w", marshalErr)
		}
		if writeErr := os.WriteFile(l.ConfigPath, raw, 0o644); writeErr != nil {
			return Layout{}, fmt.Errorf("write config: %w", writeErr)
		}
	}

	return l, nil
}
