package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecfr_analytics/internal/analytics"
	"ecfr_analytics/internal/workspace"
)

func TestAnalyzeFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part-10.xml")
	require.NoError(t, os.WriteFile(path, []byte("<DIV5><P>Each applicant shall submit the form within 30 days.</P></DIV5>"), 0o644))

	var buf bytes.Buffer
	cmd := analyzeFileCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--json", path})
	require.NoError(t, cmd.Execute())

	var got struct {
		Document string `json:"document"`
		Format   string `json:"format"`
		Burden   struct {
			RestrictionWords int `json:"restrictionWords"`
		} `json:"burden"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())
	assert.Equal(t, "part-10", got.Document)
	assert.Equal(t, "xml", got.Format)
	assert.Positive(t, got.Burden.RestrictionWords)
}

func TestAnalyzeFileText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("The agency may waive the fee."), 0o644))

	var buf bytes.Buffer
	cmd := analyzeFileCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(buf.String(), "notes (txt"), buf.String())
	assert.Contains(t, buf.String(), "words:              6")
}

func TestAnalyzeFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89}, 0o644))

	cmd := analyzeFileCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})
	assert.ErrorContains(t, cmd.Execute(), "unsupported file type")
}

func useDataDir(t *testing.T) workspace.Layout {
	t.Helper()
	dir := t.TempDir()
	prevData, prevConfig := dataDir, configPath
	dataDir, configPath = dir, ""
	t.Cleanup(func() { dataDir, configPath = prevData, prevConfig })
	for _, name := range []string{"CACHE_BACKEND", "CACHE_LOCATION", "LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	l, err := workspace.EnsureAt(dir)
	require.NoError(t, err)
	return l
}

func TestStatusReportsCacheAndLastWarm(t *testing.T) {
	l := useDataDir(t)

	var buf bytes.Buffer
	cmd := statusCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Cache:     file, 0 records")
	assert.Contains(t, buf.String(), "Last warm: never")

	require.NoError(t, os.MkdirAll(filepath.Join(l.CacheDir, "titles"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(l.CacheDir, "titles", "title-5.json"), []byte(`{}`), 0o644))
	at := time.Now().Add(-time.Hour)
	_, err := l.SaveReport("run-1", at, analytics.WarmReport{RunID: "run-1", StartedAt: at, FinishedAt: at, Failures: []analytics.WarmFailure{}})
	require.NoError(t, err)

	buf.Reset()
	cmd = statusCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Cache:     file, 1 records")
	assert.Contains(t, buf.String(), "Last warm: run-1 (1 hour ago), 0 failures")
}
