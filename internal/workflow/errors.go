package workflow

import "errors"

var (
	// ErrTranscriptionFailed reports that whisper produced no transcript.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrMissingArtifacts reports that the transcript exists but a sibling
	// subtitle or TSV file does not.
	ErrMissingArtifacts = errors.New("transcription artifacts missing")
	// ErrBusy reports that another run holds the work directory lock.
	ErrBusy = errors.New("another transcription is in progress")
)
