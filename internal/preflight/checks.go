package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"textify/internal/config"
	"textify/internal/deps"
)

// Installation hints shown when a required tool is missing.
const (
	HintYTDLP   = "Install it using 'pip install yt-dlp'."
	HintFFmpeg  = "Download it from https://ffmpeg.org/download.html."
	HintWhisper = "Install it using 'pip install openai-whisper'."
)

// ToolRequirements lists the executables every transcription job needs,
// resolved from the configured tool names.
func ToolRequirements(cfg *config.Config) []deps.Requirement {
	tools := config.Default().Tools
	if cfg != nil {
		tools = cfg.Tools
	}
	return []deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     tools.YTDLP,
			Description: "Required for downloading audio from URLs",
			Hint:        HintYTDLP,
		},
		{
			Name:        "ffmpeg",
			Command:     tools.FFmpeg,
			Description: "Required for audio conversion",
			Hint:        HintFFmpeg,
		},
		{
			Name:        "whisper",
			Command:     tools.Whisper,
			Description: "Required for speech-to-text transcription",
			Hint:        HintWhisper,
		},
	}
}

// CheckTools reports the availability of every required tool.
func CheckTools(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(ToolRequirements(cfg))
}

// RequireTools fails fast with a *deps.MissingError when any tool is absent.
func RequireTools(cfg *config.Config) error {
	return deps.Require(ToolRequirements(cfg))
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
