package services_test

import (
	"errors"
	"strings"
	"testing"

	"textify/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "acquire", "yt-dlp", "download failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"acquire", "yt-dlp", "download failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestIsUserError(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "upload", "save", "unsupported extension", nil)
	if !services.IsUserError(validationErr) {
		t.Fatalf("expected validation error to be a user error")
	}
	toolErr := services.Wrap(services.ErrExternalTool, "acquire", "ffmpeg", "transcode failed", errors.New("exit 1"))
	if services.IsUserError(toolErr) {
		t.Fatalf("expected external tool error not to be a user error")
	}
	if services.IsUserError(nil) {
		t.Fatal("expected nil not to be a user error")
	}
}
