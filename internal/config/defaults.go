package config

const (
	defaultWorkDir        = "~/.local/share/textify/work"
	defaultLogDir         = "~/.local/share/textify/logs"
	defaultWhisperBinary  = "whisper"
	defaultYTDLPBinary    = "yt-dlp"
	defaultFFmpegBinary   = "ffmpeg"
	defaultModel          = "base"
	defaultServerBind     = "127.0.0.1:8501"
	defaultMaxUploadMB    = 200
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	maxUploadMBCeiling    = 4096
	modelEnvironmentValue = "TEXTIFY_WHISPER_MODEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Tools: Tools{
			Whisper: defaultWhisperBinary,
			YTDLP:   defaultYTDLPBinary,
			FFmpeg:  defaultFFmpegBinary,
		},
		Transcription: Transcription{
			Model:  defaultModel,
			Models: []string{defaultModel},
		},
		Server: Server{
			Bind:        defaultServerBind,
			MaxUploadMB: defaultMaxUploadMB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
