package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"textify/internal/logging"
	"textify/internal/services"
	"textify/internal/textutil"
)

const (
	stageDownload = "download"

	// DefaultAudioName is the output name used when a URL request omits one.
	DefaultAudioName = "audio"

	tempAudioPrefix = "temp_audio."
)

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithCommandRunner injects a custom runner (primarily for tests).
func WithCommandRunner(runner CommandRunner) DownloaderOption {
	return func(d *Downloader) {
		if runner != nil {
			d.runner = runner
		}
	}
}

// Downloader fetches remote media with yt-dlp and converts it to MP3 with
// ffmpeg.
type Downloader struct {
	ytdlp  string
	ffmpeg string
	runner CommandRunner
	logger *slog.Logger
}

// NewDownloader constructs a downloader for the given tool executables.
func NewDownloader(ytdlp, ffmpeg string, logger *slog.Logger, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		ytdlp:  strings.TrimSpace(ytdlp),
		ffmpeg: strings.TrimSpace(ffmpeg),
		runner: execRunner{},
		logger: logging.NewComponentLogger(logger, "acquire"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ValidateURL accepts absolute http and https URLs.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, services.Wrap(services.ErrValidation, stageDownload, "validate url", "url is required", nil)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, stageDownload, "validate url", "malformed url", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, services.Wrap(services.ErrValidation, stageDownload, "validate url", fmt.Sprintf("unsupported scheme %q", parsed.Scheme), nil)
	}
	if parsed.Host == "" {
		return nil, services.Wrap(services.ErrValidation, stageDownload, "validate url", "url has no host", nil)
	}
	return parsed, nil
}

// FetchAudio downloads the best audio stream at rawURL into saveDir and
// converts it to <saveDir>/<filename>.mp3, returning that path. The
// intermediate download is removed.
func (d *Downloader) FetchAudio(ctx context.Context, rawURL, saveDir, filename string) (string, error) {
	parsed, err := ValidateURL(rawURL)
	if err != nil {
		return "", err
	}
	name := textutil.SanitizeFileName(filename)
	if name == "" {
		name = DefaultAudioName
	}
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stageDownload, "prepare directory", saveDir, err)
	}

	logger := logging.WithContext(ctx, d.logger)
	logger.Info("downloading audio", logging.String("url", parsed.String()))

	template := filepath.Join(saveDir, tempAudioPrefix+"%(ext)s")
	if out, err := d.runner.Run(ctx, d.ytdlp,
		"-f", "bestaudio/best",
		"--no-playlist",
		"-o", template,
		parsed.String(),
	); err != nil {
		return "", services.Wrap(services.ErrExternalTool, stageDownload, "yt-dlp", summarizeOutput(out), err)
	}

	tempPath, err := findTempAudio(saveDir)
	if err != nil {
		return "", err
	}
	target := filepath.Join(saveDir, name+".mp3")
	if tempPath == target {
		// ffmpeg cannot transcode in place.
		moved := tempPath + ".src"
		if err := os.Rename(tempPath, moved); err != nil {
			return "", services.Wrap(services.ErrExternalTool, stageDownload, "prepare conversion", tempPath, err)
		}
		tempPath = moved
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to remove intermediate download", logging.String("path", tempPath), logging.Error(err))
		}
	}()

	if out, err := d.runner.Run(ctx, d.ffmpeg,
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", tempPath,
		"-vn", "-codec:a", "libmp3lame", "-q:a", "2",
		target,
	); err != nil {
		return "", services.Wrap(services.ErrExternalTool, stageDownload, "ffmpeg", summarizeOutput(out), err)
	}
	if _, err := os.Stat(target); err != nil {
		return "", services.Wrap(services.ErrExternalTool, stageDownload, "ffmpeg", "no mp3 produced", err)
	}

	logger.Info("audio ready", logging.String("path", target))
	return target, nil
}

// findTempAudio locates the file yt-dlp wrote for the temp_audio template,
// skipping in-progress fragments.
func findTempAudio(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, stageDownload, "locate download", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, tempAudioPrefix) {
			continue
		}
		if strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", services.Wrap(services.ErrExternalTool, stageDownload, "locate download", "yt-dlp produced no audio file", nil)
}

// summarizeOutput keeps the last non-empty line of tool output for error
// messages.
func summarizeOutput(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
