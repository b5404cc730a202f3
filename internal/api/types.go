package api

import (
	"textify/internal/deps"
	"textify/internal/transcribe"
	"textify/internal/workflow"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	Path        string `json:"path,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Hint        string `json:"hint,omitempty"`
}

// HealthResponse reports whether every required tool is installed.
type HealthResponse struct {
	Ready        bool               `json:"ready"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// ModelsResponse lists the models a request may choose from.
type ModelsResponse struct {
	Default string   `json:"default"`
	Models  []string `json:"models"`
}

// URLRequest is the body of POST /api/transcriptions/url.
type URLRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Model    string `json:"model"`
}

// Progress is one progress report in transport form.
type Progress struct {
	State   string `json:"state"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ArtifactLinks holds download URLs for each artifact kind.
type ArtifactLinks struct {
	SRT string `json:"srt"`
	TXT string `json:"txt"`
	TSV string `json:"tsv"`
}

// Transcription describes a finished or failed job.
type Transcription struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Filename   string         `json:"filename"`
	Model      string         `json:"model"`
	Status     Progress       `json:"status"`
	Progress   []Progress     `json:"progress"`
	Transcript string         `json:"transcript,omitempty"`
	Artifacts  *ArtifactLinks `json:"artifacts,omitempty"`
	StartedAt  string         `json:"startedAt,omitempty"`
	FinishedAt string         `json:"finishedAt,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromProgress converts a monitor progress report.
func FromProgress(p transcribe.Progress) Progress {
	return Progress{State: p.State.String(), Percent: p.Percent, Message: p.Message}
}

// FromDependencyStatuses converts dependency check results.
func FromDependencyStatuses(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, DependencyStatus{
			Name:        s.Name,
			Command:     s.Command,
			Description: s.Description,
			Available:   s.Available,
			Path:        s.Path,
			Detail:      s.Detail,
			Hint:        s.Hint,
		})
	}
	return out
}

// FromJob converts a workflow job. Artifact links are only set for jobs that
// produced a full artifact set.
func FromJob(job *workflow.Job) Transcription {
	if job == nil {
		return Transcription{}
	}
	history := job.Progress()
	progress := make([]Progress, 0, len(history))
	for _, p := range history {
		progress = append(progress, FromProgress(p))
	}
	out := Transcription{
		ID:         job.ID,
		Source:     string(job.Source),
		Filename:   job.Filename,
		Model:      job.Model,
		Status:     FromProgress(job.Status),
		Progress:   progress,
		Transcript: job.Transcript,
	}
	if !job.StartedAt.IsZero() {
		out.StartedAt = job.StartedAt.UTC().Format(dateTimeFormat)
	}
	if !job.FinishedAt.IsZero() {
		out.FinishedAt = job.FinishedAt.UTC().Format(dateTimeFormat)
	}
	if job.Succeeded() {
		base := "/api/transcriptions/" + job.ID + "/"
		out.Artifacts = &ArtifactLinks{
			SRT: base + transcribe.KindSRT,
			TXT: base + transcribe.KindTXT,
			TSV: base + transcribe.KindTSV,
		}
	}
	return out
}
