package deps

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"textify/internal/services"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary", Hint: "Install it."},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Path != present {
		t.Fatalf("expected resolved path %q, got %q", present, results[0].Path)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Hint != "Install it." {
		t.Fatalf("expected hint to carry through, got %q", results[1].Hint)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("expected unconfigured detail, got %q", results[2].Detail)
	}
}

func TestRequireNamesMissingTool(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	err := Require([]Requirement{{
		Name:    "whisper",
		Command: "whisper",
		Hint:    "Install it using 'pip install openai-whisper'.",
	}})
	if err == nil {
		t.Fatal("expected missing dependency error")
	}
	var missingErr *MissingError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected *MissingError, got %T", err)
	}
	if !errors.Is(err, services.ErrDependency) {
		t.Fatalf("expected ErrDependency marker, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "whisper is not installed or not in PATH.") {
		t.Fatalf("expected message naming whisper, got %q", msg)
	}
	if !strings.Contains(msg, "pip install openai-whisper") {
		t.Fatalf("expected installation hint, got %q", msg)
	}
}

func TestRequireIgnoresOptional(t *testing.T) {
	lookPath := func(string) (string, error) { return "", errors.New("not found") }
	statuses := checkBinaries([]Requirement{{Name: "extra", Command: "extra", Optional: true}}, lookPath)
	if err := Missing(statuses); err != nil {
		t.Fatalf("expected optional dependency to pass, got %v", err)
	}
}

func TestMissingListsEveryAbsentTool(t *testing.T) {
	lookPath := func(name string) (string, error) {
		if name == "ffmpeg" {
			return "/usr/bin/ffmpeg", nil
		}
		return "", errors.New("not found")
	}
	statuses := checkBinaries([]Requirement{
		{Name: "yt-dlp", Command: "yt-dlp"},
		{Name: "ffmpeg", Command: "ffmpeg"},
		{Name: "whisper", Command: "whisper"},
	}, lookPath)
	err := Missing(statuses)
	var missingErr *MissingError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected *MissingError, got %v", err)
	}
	if len(missingErr.Missing) != 2 {
		t.Fatalf("expected two missing tools, got %d", len(missingErr.Missing))
	}
	if strings.Contains(err.Error(), "ffmpeg") {
		t.Fatalf("expected ffmpeg to be omitted, got %q", err.Error())
	}
}
