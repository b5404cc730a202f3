// Package transcribe supervises the whisper speech-to-text CLI.
//
// A Monitor spawns whisper against a single audio file, scans its stderr line
// by line against an ordered rule list to infer coarse progress, and waits for
// the process to exit. Success is decided by the filesystem: when the .txt
// artifact exists beside the audio file the monitor returns the .srt, .txt,
// and .tsv paths together with the transcript text; otherwise it returns the
// empty artifact set. A non-zero exit status alone never decides the outcome.
//
// Progress callbacks run on the caller's goroutine. Stdout is drained on a
// helper goroutine and logged at debug level.
package transcribe
