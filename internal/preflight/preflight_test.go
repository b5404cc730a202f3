package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"textify/internal/config"
	"textify/internal/deps"
)

func stubTools(t *testing.T, names ...string) string {
	t.Helper()
	binDir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", binDir)
	return binDir
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRequireToolsMissingWhisper(t *testing.T) {
	stubTools(t, "yt-dlp", "ffmpeg")
	cfg := config.Default()

	err := RequireTools(&cfg)
	if err == nil {
		t.Fatal("expected error when whisper is absent")
	}
	var missing *deps.MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *deps.MissingError, got %T", err)
	}
	if len(missing.Missing) != 1 || missing.Missing[0].Name != "whisper" {
		t.Fatalf("expected only whisper missing, got %+v", missing.Missing)
	}
	if !strings.Contains(err.Error(), "whisper") || !strings.Contains(err.Error(), HintWhisper) {
		t.Fatalf("expected message naming whisper with hint, got %q", err.Error())
	}
}

func TestRequireToolsAllPresent(t *testing.T) {
	stubTools(t, "yt-dlp", "ffmpeg", "whisper")
	cfg := config.Default()
	if err := RequireTools(&cfg); err != nil {
		t.Fatalf("expected all tools to resolve, got %v", err)
	}
}

func TestToolRequirementsUseConfiguredNames(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.Whisper = "/opt/whisper"
	reqs := ToolRequirements(&cfg)
	if len(reqs) != 3 {
		t.Fatalf("expected three requirements, got %d", len(reqs))
	}
	if reqs[2].Command != "/opt/whisper" {
		t.Fatalf("expected configured whisper command, got %q", reqs[2].Command)
	}
	if reqs[0].Name != "yt-dlp" || reqs[1].Name != "ffmpeg" {
		t.Fatalf("unexpected requirement order: %+v", reqs)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReportsToolsAndDirectories(t *testing.T) {
	stubTools(t, "yt-dlp", "whisper")
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	results := RunAll(&cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "ffmpeg" {
		t.Fatalf("expected only ffmpeg to fail, got %+v", failed)
	}
	if !strings.Contains(failed[0].Detail, HintFFmpeg) {
		t.Fatalf("expected hint in detail, got %q", failed[0].Detail)
	}
}
