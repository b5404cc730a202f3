package workflow_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"textify/internal/config"
	"textify/internal/deps"
	"textify/internal/services"
	"textify/internal/testsupport"
	"textify/internal/transcribe"
	"textify/internal/workflow"
)

type stubTranscriber struct {
	write  []string
	calls  int
	models []string
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath, modelType string, report func(transcribe.Progress)) transcribe.Result {
	s.calls++
	s.models = append(s.models, modelType)
	report(transcribe.Progress{State: transcribe.StateIdle, Message: "Starting transcription..."})
	report(transcribe.Progress{State: transcribe.StateTranscribing, Percent: 60, Message: "Transcribing audio..."})
	artifacts := transcribe.ArtifactsFor(audioPath)
	for _, kind := range s.write {
		path, _ := artifacts.Path(kind)
		if err := os.WriteFile(path, []byte("text"), 0o644); err != nil {
			panic(err)
		}
	}
	if _, err := os.Stat(artifacts.TXT); err != nil {
		status := transcribe.Progress{State: transcribe.StateFailed, Message: "Error: Transcription failed"}
		report(status)
		return transcribe.Result{Status: status}
	}
	status := transcribe.Progress{State: transcribe.StateComplete, Percent: 100, Message: "Complete!"}
	report(status)
	return transcribe.Result{Artifacts: artifacts, Transcript: "text", Status: status}
}

type stubFetcher struct {
	calls int
}

func (s *stubFetcher) FetchAudio(ctx context.Context, rawURL, saveDir, filename string) (string, error) {
	s.calls++
	path := filepath.Join(saveDir, filename+".mp3")
	return path, os.WriteFile(path, []byte("mp3"), 0o644)
}

func noDeps(*config.Config) error { return nil }

func newRunner(t *testing.T, cfg *config.Config, tr workflow.Transcriber) *workflow.Runner {
	t.Helper()
	runner, err := workflow.NewRunner(cfg, nil,
		workflow.WithTranscriber(tr),
		workflow.WithFetcher(&stubFetcher{}),
		workflow.WithDependencyCheck(noDeps),
	)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}
	return runner
}

func uploadRequest(name string) workflow.Request {
	return workflow.Request{Upload: strings.NewReader("audio"), UploadName: name}
}

func TestRunUploadSucceeds(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tr := &stubTranscriber{write: []string{"srt", "txt", "tsv"}}
	var seen []transcribe.State
	req := uploadRequest("lecture.wav")
	req.Filename = "Notes"
	req.OnProgress = func(p transcribe.Progress) { seen = append(seen, p.State) }

	job, err := newRunner(t, cfg, tr).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !job.Succeeded() || job.Transcript != "text" {
		t.Fatalf("unexpected job %+v", job)
	}
	if filepath.Dir(job.Dir) != cfg.JobsDir() || filepath.Base(job.Dir) != job.ID {
		t.Fatalf("unexpected job dir %q", job.Dir)
	}
	if job.Artifacts.TXT != filepath.Join(job.Dir, "temp_lecture.txt") {
		t.Fatalf("unexpected transcript path %q", job.Artifacts.TXT)
	}
	if job.AudioPath != "" {
		t.Fatalf("expected audio path cleared after removal, got %q", job.AudioPath)
	}
	if _, err := os.Stat(filepath.Join(job.Dir, "temp_lecture.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected audio removed, got err=%v", err)
	}
	if len(seen) != 3 || len(job.Progress()) != 3 {
		t.Fatalf("expected three progress reports, got %v / %v", seen, job.Progress())
	}
	if tr.models[0] != cfg.Transcription.Model {
		t.Fatalf("expected default model, got %q", tr.models[0])
	}

	exportDir := filepath.Join(t.TempDir(), "out")
	written, err := job.Export(exportDir)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	for i, kind := range transcribe.Kinds {
		if written[i] != filepath.Join(exportDir, "Notes."+kind) {
			t.Fatalf("unexpected export path %q", written[i])
		}
	}

	if err := job.Cleanup(); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if _, err := os.Stat(job.Dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected job dir removed, got err=%v", err)
	}
}

func TestRunKeepsAudioWhenRequested(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKeepAudio())
	job, err := newRunner(t, cfg, &stubTranscriber{write: []string{"srt", "txt", "tsv"}}).Run(context.Background(), uploadRequest("clip.mp3"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if _, err := os.Stat(job.AudioPath); err != nil {
		t.Fatalf("expected audio kept: %v", err)
	}
}

func TestRunDefaultsFilenameBySource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner := newRunner(t, cfg, &stubTranscriber{write: []string{"srt", "txt", "tsv"}})

	job, err := runner.Run(context.Background(), workflow.Request{URL: "https://example.com/watch?v=1"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if job.Filename != "audio" || job.Source != workflow.SourceURL {
		t.Fatalf("unexpected url job %q %q", job.Filename, job.Source)
	}

	job, err = runner.Run(context.Background(), uploadRequest("clip.mp3"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if job.Filename != "transcription" {
		t.Fatalf("unexpected upload filename %q", job.Filename)
	}
}

func TestRunTranscriptionFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	job, err := newRunner(t, cfg, &stubTranscriber{}).Run(context.Background(), uploadRequest("clip.mp3"))
	if !errors.Is(err, workflow.ErrTranscriptionFailed) {
		t.Fatalf("expected ErrTranscriptionFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "Error: Transcription failed") {
		t.Fatalf("expected status message in error, got %v", err)
	}
	if job == nil || job.Status.State != transcribe.StateFailed {
		t.Fatalf("expected failed job status, got %+v", job)
	}
	if _, err := os.Stat(job.Dir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected job dir removed, got err=%v", err)
	}
}

func TestRunFailureWithKeepAudioRetainsJob(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKeepAudio())
	job, err := newRunner(t, cfg, &stubTranscriber{}).Run(context.Background(), uploadRequest("clip.mp3"))
	if !errors.Is(err, workflow.ErrTranscriptionFailed) {
		t.Fatalf("expected ErrTranscriptionFailed, got %v", err)
	}
	if !job.Retained() {
		t.Fatalf("expected job dir %q kept", job.Dir)
	}
	if err := job.Cleanup(); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if job.Retained() {
		t.Fatal("expected job dir removed after cleanup")
	}
}

func TestRunMissingSiblingArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := newRunner(t, cfg, &stubTranscriber{write: []string{"txt", "srt"}}).Run(context.Background(), uploadRequest("clip.mp3"))
	if !errors.Is(err, workflow.ErrMissingArtifacts) {
		t.Fatalf("expected ErrMissingArtifacts, got %v", err)
	}
	if !strings.Contains(err.Error(), "tsv") {
		t.Fatalf("expected tsv named in error, got %v", err)
	}
}

func TestRunStopsOnMissingDependencies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tr := &stubTranscriber{}
	missing := &deps.MissingError{Missing: []deps.Status{{Name: "whisper"}}}
	runner, err := workflow.NewRunner(cfg, nil,
		workflow.WithTranscriber(tr),
		workflow.WithDependencyCheck(func(*config.Config) error { return missing }),
	)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	_, err = runner.Run(context.Background(), uploadRequest("clip.mp3"))
	if !errors.Is(err, services.ErrDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if tr.calls != 0 {
		t.Fatal("expected no transcription attempt")
	}
	entries, _ := os.ReadDir(cfg.JobsDir())
	if len(entries) != 0 {
		t.Fatalf("expected no job directories, got %d", len(entries))
	}
}

func TestRunValidatesRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner := newRunner(t, cfg, &stubTranscriber{})

	cases := map[string]workflow.Request{
		"no source":    {},
		"two sources":  {URL: "https://example.com/v", LocalPath: "/tmp/a.mp3"},
		"bad model":    {URL: "https://example.com/v", Model: "gigantic"},
		"bad url":      {URL: "ftp://example.com/v"},
		"bad upload":   uploadRequest("notes.pdf"),
		"missing file": {LocalPath: filepath.Join(t.TempDir(), "missing.mp3")},
	}
	for name, req := range cases {
		_, err := runner.Run(context.Background(), req)
		if !services.IsUserError(err) {
			t.Fatalf("%s: expected user error, got %v", name, err)
		}
	}
}

func TestRunReturnsBusyWhileLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.JobsDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	holder := flock.New(cfg.LockPath())
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("failed to take lock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	runner := newRunner(t, cfg, &stubTranscriber{write: []string{"srt", "txt", "tsv"}})
	if _, err := runner.Run(context.Background(), uploadRequest("clip.mp3")); !errors.Is(err, workflow.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := uploadRequest("clip.mp3")
	req.Wait = true
	if _, err := runner.Run(ctx, req); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled while waiting, got %v", err)
	}
}

func TestRunEndToEndWithFakeTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFakeTools())
	runner, err := workflow.NewRunner(cfg, nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	job, err := runner.Run(context.Background(), workflow.Request{URL: "https://example.com/watch?v=abc", Filename: "Talk", Wait: true})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if job.Transcript != testsupport.StubTranscript {
		t.Fatalf("unexpected transcript %q", job.Transcript)
	}
	if job.Artifacts.SRT != filepath.Join(job.Dir, "Talk.srt") {
		t.Fatalf("unexpected srt path %q", job.Artifacts.SRT)
	}
	states := make([]transcribe.State, 0)
	for _, p := range job.Progress() {
		states = append(states, p.State)
	}
	want := []transcribe.State{
		transcribe.StateIdle,
		transcribe.StateDetectingLanguage,
		transcribe.StateTranscribing,
		transcribe.StateReadingResult,
		transcribe.StateComplete,
	}
	if len(states) != len(want) {
		t.Fatalf("unexpected progress %v", states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("unexpected progress %v", states)
		}
	}
}

func TestRunLogsEachComponentOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFakeTools())
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	runner, err := workflow.NewRunner(cfg, logger)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}
	if _, err := runner.Run(context.Background(), workflow.Request{URL: "https://example.com/watch?v=abc", Wait: true}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	seen := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if n := strings.Count(line, `"component":`); n != 1 {
			t.Fatalf("expected one component attribute, got %d in %s", n, line)
		}
		var record struct {
			Component string `json:"component"`
		}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		seen[record.Component] = true
	}
	for _, component := range []string{"workflow", "acquire", "transcribe"} {
		if !seen[component] {
			t.Fatalf("expected %s log lines, saw %v", component, seen)
		}
	}
}
