// Package services defines shared utilities consumed by the transcription
// workflow and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     missing dependency or bad input apart from a failing external tool.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across acquisition, transcription, and the
// surfaces that present results.
package services
