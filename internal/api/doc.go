// Package api serves Textify over HTTP.
//
// # Routes
//
//	GET    /api/health                       tool availability
//	GET    /api/models                       offered models and the default
//	POST   /api/transcriptions/url           JSON {url, filename, model}
//	POST   /api/transcriptions/file          multipart file, filename, model
//	GET    /api/transcriptions/{id}/{kind}   srt, txt, or tsv attachment
//	DELETE /api/transcriptions/{id}          remove a finished job
//
// Transcription requests block until whisper exits and answer with the job
// id, progress history, final status, and transcript. Finished jobs stay on
// disk until deleted or until the server shuts down.
//
// # Errors
//
// Errors are JSON {"error": "..."}. Missing tools map to 503, invalid input
// to 400, oversized uploads to 413, transcription failures to 422, unknown
// jobs to 404, and download or conversion failures to 502.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Progress states are exposed as lowercase
// strings. Timestamps use RFC3339 with milliseconds.
package api
