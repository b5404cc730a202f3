// Package main hosts the textify CLI entrypoint and command graph.
//
// The Cobra command tree covers dependency checks, URL and file
// transcription, the HTTP API server, and configuration scaffolding. It
// centralizes configuration resolution and logger setup so subcommands only
// translate flags into workflow requests and render the results.
package main
