package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"textify/internal/fileutil"
	"textify/internal/services"
	"textify/internal/transcribe"
)

// Source identifies where a job's audio came from.
type Source string

const (
	SourceURL    Source = "url"
	SourceUpload Source = "upload"
	SourceFile   Source = "file"
)

// Job is one transcription run and the directory holding its files.
type Job struct {
	ID         string
	Dir        string
	Source     Source
	Filename   string
	Model      string
	AudioPath  string
	Artifacts  transcribe.Artifacts
	Transcript string
	Status     transcribe.Progress
	StartedAt  time.Time
	FinishedAt time.Time

	mu       sync.Mutex
	progress []transcribe.Progress
}

func (j *Job) record(p transcribe.Progress) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress = append(j.progress, p)
	j.Status = p
}

// Progress returns a copy of every progress report the job received.
func (j *Job) Progress() []transcribe.Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]transcribe.Progress(nil), j.progress...)
}

// Succeeded reports whether the job produced a complete artifact set.
func (j *Job) Succeeded() bool {
	return j != nil && !j.Artifacts.Empty()
}

// ExportName returns the user-facing file name for an artifact kind.
func (j *Job) ExportName(kind string) string {
	return j.Filename + "." + kind
}

// Export copies the artifacts to dir as <filename>.srt, .txt, and .tsv and
// returns the written paths in that order.
func (j *Job) Export(dir string) ([]string, error) {
	if !j.Succeeded() {
		return nil, services.Wrap(services.ErrNotFound, "export", "artifacts", "job has no artifacts", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "export", "prepare directory", dir, err)
	}
	written := make([]string, 0, len(transcribe.Kinds))
	for _, kind := range transcribe.Kinds {
		src, _ := j.Artifacts.Path(kind)
		dst := filepath.Join(dir, j.ExportName(kind))
		if err := fileutil.CopyFile(src, dst); err != nil {
			return written, services.Wrap(services.ErrExternalTool, "export", "copy "+kind, dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}

// Retained reports whether the job directory is still on disk. Failed runs
// that keep audio leave it behind for the caller to clean up.
func (j *Job) Retained() bool {
	if j == nil || j.Dir == "" {
		return false
	}
	info, err := os.Stat(j.Dir)
	return err == nil && info.IsDir()
}

// Cleanup removes the job directory and everything in it.
func (j *Job) Cleanup() error {
	if j == nil || j.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(j.Dir); err != nil {
		return fmt.Errorf("remove job directory: %w", err)
	}
	return nil
}
