package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"textify/internal/services"
	"textify/internal/workflow"
)

// statusFor maps a workflow error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrDependency):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrTranscriptionFailed), errors.Is(err, workflow.ErrMissingArtifacts):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, services.ErrExternalTool):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// isTooLarge reports whether err came from an http.MaxBytesReader limit.
// Multipart parsing does not always preserve the typed error.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
