package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ecfr_analytics/internal/config"
)

func TestEnsureAt(t *testing.T) {
	base := filepath.Join(t.TempDir(), BaseDirName)
	l, err := EnsureAt(base)
	if err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}

	for _, p := range []string{l.CacheDir, l.MirrorDir, l.ReportsDir, l.ConfigPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected path to exist %s: %v", p, err)
		}
	}

	cfg, err := config.Load(l.ConfigPath)
	if err != nil {
		t.Fatalf("load generated config: %v", err)
	}
	if cfg.Cache.Location != l.CacheDir {
		t.Fatalf("cache location = %q, want %q", cfg.Cache.Location, l.CacheDir)
	}
	if cfg.ECFR.RateWindow != 500*time.Millisecond {
		t.Fatalf("rate window = %v", cfg.ECFR.RateWindow)
	}
}

func TestEnsureAtKeepsExistingConfig(t *testing.T) {
	base := t.TempDir()
	custom := []byte("server:\n  port: 9000\n")
	if err := os.WriteFile(filepath.Join(base, "config.yaml"), custom, 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := EnsureAt(base)
	if err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	raw, err := os.ReadFile(l.ConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != string(custom) {
		t.Fatalf("config was overwritten: %q", raw)
	}
}

func TestReports(t *testing.T) {
	l, err := EnsureAt(t.TempDir())
	if err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}

	var none map[string]any
	if _, err := l.LatestReport(&none); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := l.SaveReport("run-a", first, map[string]int{"written": 1}); err != nil {
		t.Fatalf("save report: %v", err)
	}
	path, err := l.SaveReport("../run-b", first.Add(time.Hour), map[string]int{"written": 2})
	if err != nil {
		t.Fatalf("save report: %v", err)
	}
	if filepath.Dir(path) != l.ReportsDir {
		t.Fatalf("report escaped the reports dir: %s", path)
	}

	var got map[string]int
	latest, err := l.LatestReport(&got)
	if err != nil {
		t.Fatalf("latest report: %v", err)
	}
	if latest != path || got["written"] != 2 {
		t.Fatalf("latest = %s %v, want %s written=2", latest, got, path)
	}
}
