package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"textify/internal/logging"
)

// DefaultModel is passed to whisper when the caller does not name one.
const DefaultModel = "base"

// Result captures the outcome of one monitored transcription.
type Result struct {
	Artifacts  Artifacts
	Transcript string
	Status     Progress
}

// Succeeded reports whether the artifact set is populated.
func (r Result) Succeeded() bool {
	return !r.Artifacts.Empty()
}

// Option configures the monitor.
type Option func(*Monitor)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(m *Monitor) {
		if exec != nil {
			m.exec = exec
		}
	}
}

// WithRules replaces the stderr matching rules.
func WithRules(rules []Rule) Option {
	return func(m *Monitor) {
		if len(rules) > 0 {
			m.rules = append([]Rule(nil), rules...)
		}
	}
}

// WithLogger routes diagnostic output through logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Monitor runs the whisper CLI against one audio file at a time and infers
// progress from its diagnostic stream.
type Monitor struct {
	binary   string
	exec     Executor
	rules    []Rule
	logger   *slog.Logger
	stat     func(string) (os.FileInfo, error)
	readFile func(string) ([]byte, error)
}

// NewMonitor constructs a monitor for the given whisper executable.
func NewMonitor(binary string, opts ...Option) (*Monitor, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("whisper binary required")
	}
	m := &Monitor{
		binary:   binary,
		exec:     commandExecutor{},
		rules:    DefaultRules(),
		logger:   logging.NewNop(),
		stat:     os.Stat,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Args builds the whisper argument list for audioPath. Output lands in the
// audio file's directory so the artifacts sit beside it.
func Args(audioPath, modelType string) []string {
	modelType = strings.TrimSpace(modelType)
	if modelType == "" {
		modelType = DefaultModel
	}
	return []string{
		audioPath,
		"--model", modelType,
		"--output_dir", filepath.Dir(audioPath),
	}
}

// Transcribe runs whisper against audioPath and reports progress through
// report on the calling goroutine. Failure is signalled by an empty artifact
// set; no error is returned.
func (m *Monitor) Transcribe(ctx context.Context, audioPath, modelType string, report func(Progress)) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.WithContext(ctx, m.logger)
	rep := &reporter{fn: report}
	rep.emit(progressIdle)

	fail := func(err error) Result {
		status := failure(err)
		rep.emit(status)
		logger.Error("transcription failed",
			logging.String("audio", audioPath),
			logging.Error(err),
		)
		return Result{Status: status}
	}

	if strings.TrimSpace(audioPath) == "" {
		return fail(errors.New("audio path required"))
	}

	args := Args(audioPath, modelType)
	started := time.Now()
	logger.Info("whisper started",
		logging.String("binary", m.binary),
		logging.String("audio", audioPath),
		logging.String("model", args[2]),
	)

	runErr := m.exec.Run(ctx, m.binary, args,
		func(line string) {
			logger.Debug("whisper stderr", logging.String("line", line))
			if rule, ok := MatchLine(m.rules, line); ok {
				rep.emit(rule.Progress())
			}
		},
		func(line string) {
			logger.Debug("whisper stdout", logging.String("line", line))
		},
	)
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fail(ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return fail(runErr)
		}
		// The filesystem decides success; the exit status is informational.
		logger.Warn("whisper exited with non-zero status",
			logging.Int("exit_code", exitErr.ExitCode()),
			logging.Error(runErr),
		)
	}

	artifacts := ArtifactsFor(audioPath)
	if _, err := m.stat(artifacts.TXT); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			rep.emit(progressNoResults)
			logger.Error("whisper produced no transcript",
				logging.String("expected", artifacts.TXT),
				logging.Duration("elapsed", time.Since(started)),
			)
			return Result{Status: progressNoResults}
		}
		return fail(fmt.Errorf("stat transcript: %w", err))
	}

	rep.emit(progressReading)
	data, err := m.readFile(artifacts.TXT)
	if err != nil {
		return fail(fmt.Errorf("read transcript: %w", err))
	}
	rep.emit(progressComplete)
	logger.Info("whisper completed",
		logging.String("transcript", artifacts.TXT),
		logging.Int("bytes", len(data)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Result{
		Artifacts:  artifacts,
		Transcript: string(data),
		Status:     progressComplete,
	}
}
