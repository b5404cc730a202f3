package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"textify/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithKeepAudio retains audio inputs after a job finishes.
func WithKeepAudio() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.KeepAudio = true
	}
}

// WithModels sets the allowed model list; the first entry becomes the default.
func WithModels(models ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(models) == 0 {
			return
		}
		b.cfg.Transcription.Model = models[0]
		b.cfg.Transcription.Models = append([]string(nil), models...)
	}
}

// WithStubbedBinaries writes no-op executables for the provided names and
// prepends them to PATH. If names is empty, yt-dlp, ffmpeg, and whisper are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"yt-dlp", "ffmpeg", "whisper"}
		}
		scripts := make(map[string]string, len(names))
		for _, name := range names {
			scripts[name] = "#!/bin/sh\nexit 0\n"
		}
		b.installTools(scripts)
	}
}

// WithFakeTools installs working stand-ins for yt-dlp, ffmpeg, and whisper
// that produce the files each real tool would. The fake whisper writes
// StubTranscript into all three artifacts.
func WithFakeTools() ConfigOption {
	return func(b *configBuilder) {
		b.installTools(map[string]string{
			"yt-dlp":  fakeYTDLP,
			"ffmpeg":  fakeFFmpeg,
			"whisper": fakeWhisper,
		})
	}
}

// WithWhisperScript replaces the whisper executable with a custom shell body.
func WithWhisperScript(body string) ConfigOption {
	return func(b *configBuilder) {
		b.installTools(map[string]string{"whisper": body})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}

func (b *configBuilder) installTools(scripts map[string]string) {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	for name, body := range scripts {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte(body), 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
	}
	path := os.Getenv("PATH")
	if !containsDir(path, binDir) {
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+path)
	}
}

func containsDir(pathList, dir string) bool {
	for _, entry := range filepath.SplitList(pathList) {
		if entry == dir {
			return true
		}
	}
	return false
}
