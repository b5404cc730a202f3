// Package workflow turns a transcription request into a finished job.
//
// A Runner checks that yt-dlp, ffmpeg, and whisper are installed, serializes
// runs with a file lock in the work directory, gives each run a UUID-named job
// directory, acquires the audio (URL download, upload, or local file), and
// hands it to the transcription monitor. A run only succeeds when the monitor
// reports a transcript and the .srt and .tsv siblings also exist. Audio inputs
// are removed afterwards unless keep_audio is set.
//
// Jobs own their directory: callers export artifacts with Job.Export and
// release the directory with Job.Cleanup.
package workflow
