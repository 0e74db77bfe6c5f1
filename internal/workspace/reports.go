package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SaveReport archives v as reports/<UTC timestamp>-<id>.json and returns
// the path written.
func (l Layout) SaveReport(id string, at time.Time, v any) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	name := at.UTC().Format("20060102T150405Z") + "-" + sanitizeID(id) + ".json"
	path := filepath.Join(l.ReportsDir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// LatestReport decodes the most recently archived report into dst.
func (l Layout) LatestReport(dst any) (string, error) {
	entries, err := os.ReadDir(l.ReportsDir)
	if err != nil {
		return "", fmt.Errorf("list reports: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", os.ErrNotExist
	}
	sort.Strings(names)
	path := filepath.Join(l.ReportsDir, names[len(names)-1])
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read report: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return "", fmt.Errorf("decode report %s: %w", path, err)
	}
	return path, nil
}

func sanitizeID(id string) string {
	base := filepath.Base(strings.TrimSpace(id))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "report"
	}
	return strings.ReplaceAll(base, "..", "")
}
