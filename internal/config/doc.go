// Package config loads, normalizes, and validates Textify configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TEXTIFY_WHISPER_MODEL
// environment fallback. The Config type centralizes every knob the CLI and the
// HTTP API need: where jobs run, which executables to drive, and how logs are
// written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
