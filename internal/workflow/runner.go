package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"textify/internal/acquire"
	"textify/internal/config"
	"textify/internal/fileutil"
	"textify/internal/logging"
	"textify/internal/preflight"
	"textify/internal/services"
	"textify/internal/textutil"
	"textify/internal/transcribe"
)

const lockRetryDelay = 250 * time.Millisecond

// Transcriber runs speech-to-text against one audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, modelType string, report func(transcribe.Progress)) transcribe.Result
}

// AudioFetcher downloads remote media as an MP3.
type AudioFetcher interface {
	FetchAudio(ctx context.Context, rawURL, saveDir, filename string) (string, error)
}

// Request describes one transcription. Exactly one of URL, Upload, or
// LocalPath must be set.
type Request struct {
	URL        string
	Upload     io.Reader
	UploadName string
	LocalPath  string

	// Filename is the base name used when exporting artifacts.
	Filename string
	// Model overrides the configured default model.
	Model string
	// KeepAudio retains the audio input even when the config does not.
	KeepAudio bool
	// Wait blocks until the work directory lock is free instead of
	// returning ErrBusy.
	Wait bool

	OnProgress func(transcribe.Progress)
}

func (r Request) source() (Source, error) {
	var sources []Source
	if strings.TrimSpace(r.URL) != "" {
		sources = append(sources, SourceURL)
	}
	if r.Upload != nil {
		sources = append(sources, SourceUpload)
	}
	if strings.TrimSpace(r.LocalPath) != "" {
		sources = append(sources, SourceFile)
	}
	switch len(sources) {
	case 0:
		return "", services.Wrap(services.ErrValidation, "workflow", "request", "a url, upload, or file path is required", nil)
	case 1:
		return sources[0], nil
	default:
		return "", services.Wrap(services.ErrValidation, "workflow", "request", "only one of url, upload, or file path may be set", nil)
	}
}

// Option configures a Runner.
type Option func(*Runner)

// WithTranscriber replaces the whisper monitor (primarily for tests).
func WithTranscriber(t Transcriber) Option {
	return func(r *Runner) {
		if t != nil {
			r.transcriber = t
		}
	}
}

// WithFetcher replaces the yt-dlp downloader (primarily for tests).
func WithFetcher(f AudioFetcher) Option {
	return func(r *Runner) {
		if f != nil {
			r.fetcher = f
		}
	}
}

// WithDependencyCheck replaces the tool presence check.
func WithDependencyCheck(check func(*config.Config) error) Option {
	return func(r *Runner) {
		if check != nil {
			r.requireTools = check
		}
	}
}

// Runner executes transcription requests against the configured tools.
type Runner struct {
	cfg          *config.Config
	logger       *slog.Logger
	transcriber  Transcriber
	fetcher      AudioFetcher
	requireTools func(*config.Config) error
}

// NewRunner constructs a runner using the tools named in cfg.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "init", "config is required", nil)
	}
	r := &Runner{
		cfg:          cfg,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		requireTools: preflight.RequireTools,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.transcriber == nil {
		monitor, err := transcribe.NewMonitor(cfg.Tools.Whisper, transcribe.WithLogger(logging.NewComponentLogger(logger, "transcribe")))
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "workflow", "init", "whisper monitor", err)
		}
		r.transcriber = monitor
	}
	if r.fetcher == nil {
		r.fetcher = acquire.NewDownloader(cfg.Tools.YTDLP, cfg.Tools.FFmpeg, logger)
	}
	return r, nil
}

// Run executes req to completion. On failure the returned job, when non-nil,
// carries the progress history and has already been cleaned up unless audio
// is being kept.
func (r *Runner) Run(ctx context.Context, req Request) (*Job, error) {
	if err := r.requireTools(r.cfg); err != nil {
		r.logger.Error("required tools missing",
			logging.Error(err),
			logging.String(logging.FieldEventType, "dependency_missing"),
			logging.String(logging.FieldErrorHint, "install the missing tools and retry"),
		)
		return nil, err
	}

	source, err := req.source()
	if err != nil {
		return nil, err
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = r.cfg.Transcription.Model
	}
	if !r.cfg.ModelAllowed(model) {
		return nil, services.Wrap(services.ErrValidation, "workflow", "request",
			fmt.Sprintf("model %q is not allowed; choose one of %s", model, strings.Join(r.cfg.Transcription.Models, ", ")), nil)
	}
	if source == SourceURL {
		if _, err := acquire.ValidateURL(req.URL); err != nil {
			return nil, err
		}
	}
	if source == SourceUpload {
		if err := acquire.CheckExtension(req.UploadName); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(r.cfg.JobsDir(), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "prepare", r.cfg.JobsDir(), err)
	}
	unlock, err := r.lock(ctx, req.Wait)
	if err != nil {
		return nil, err
	}
	defer unlock()

	job := &Job{
		ID:        uuid.NewString(),
		Source:    source,
		Filename:  outputName(req.Filename, source),
		Model:     model,
		StartedAt: time.Now(),
	}
	job.Dir = filepath.Join(r.cfg.JobsDir(), job.ID)
	if err := os.MkdirAll(job.Dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "prepare", job.Dir, err)
	}

	keepAudio := r.cfg.Transcription.KeepAudio || req.KeepAudio
	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("job started",
		logging.String("source", string(source)),
		logging.String("model", model),
		logging.Bool("keep_audio", keepAudio),
		logging.String(logging.FieldEventType, "job_started"),
	)

	fail := func(err error) (*Job, error) {
		job.FinishedAt = time.Now()
		logger.Error("job failed",
			logging.Error(err),
			logging.Duration("elapsed", job.FinishedAt.Sub(job.StartedAt)),
			logging.String(logging.FieldEventType, "job_failed"),
		)
		if !keepAudio {
			if cerr := job.Cleanup(); cerr != nil {
				logger.Warn("job cleanup failed", logging.Error(cerr))
			}
		}
		return job, err
	}

	audioPath, err := r.acquire(services.WithStage(ctx, "acquire"), req, source, job)
	if err != nil {
		return fail(err)
	}
	job.AudioPath = audioPath

	result := r.transcriber.Transcribe(services.WithStage(ctx, "transcribe"), audioPath, model, func(p transcribe.Progress) {
		job.record(p)
		if req.OnProgress != nil {
			req.OnProgress(p)
		}
	})
	job.Status = result.Status
	if !result.Succeeded() {
		return fail(fmt.Errorf("%w: %s", ErrTranscriptionFailed, result.Status.Message))
	}
	if missing := result.Artifacts.Missing(); len(missing) > 0 {
		return fail(fmt.Errorf("%w: %s", ErrMissingArtifacts, strings.Join(missing, ", ")))
	}
	job.Artifacts = result.Artifacts
	job.Transcript = result.Transcript

	if !keepAudio {
		if err := fileutil.RemoveFiles(audioPath); err != nil {
			logger.Warn("failed to remove audio input", logging.String("path", audioPath), logging.Error(err))
		} else {
			job.AudioPath = ""
		}
	}

	job.FinishedAt = time.Now()
	logger.Info("job completed",
		logging.String("transcript", job.Artifacts.TXT),
		logging.Duration("elapsed", job.FinishedAt.Sub(job.StartedAt)),
		logging.String(logging.FieldEventType, "job_completed"),
	)
	return job, nil
}

func (r *Runner) acquire(ctx context.Context, req Request, source Source, job *Job) (string, error) {
	switch source {
	case SourceURL:
		return r.fetcher.FetchAudio(ctx, req.URL, job.Dir, job.Filename)
	case SourceUpload:
		return acquire.SaveUpload(req.Upload, req.UploadName, job.Dir)
	default:
		return acquire.ImportLocal(req.LocalPath, job.Dir)
	}
}

// lock takes the work directory lock. Without wait it fails fast with ErrBusy.
func (r *Runner) lock(ctx context.Context, wait bool) (func(), error) {
	lock := flock.New(r.cfg.LockPath())
	var (
		locked bool
		err    error
	)
	if wait {
		locked, err = lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = lock.TryLock()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrBusy
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release lock", logging.Error(err))
		}
	}, nil
}

func outputName(requested string, source Source) string {
	if name := textutil.SanitizeFileName(requested); name != "" {
		return name
	}
	if source == SourceURL {
		return acquire.DefaultAudioName
	}
	return acquire.DefaultTranscriptName
}
