package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"textify/internal/deps"
	"textify/internal/logging"
	"textify/internal/services"
	"textify/internal/transcribe"
	"textify/internal/workflow"
)

const (
	maxJSONBody     = 1 << 20
	multipartMemory = 32 << 20
)

var artifactContentTypes = map[string]string{
	transcribe.KindSRT: "application/x-subrip; charset=utf-8",
	transcribe.KindTXT: "text/plain; charset=utf-8",
	transcribe.KindTSV: "text/tab-separated-values; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	statuses := s.health(s.cfg)
	payload := HealthResponse{
		Ready:        deps.Missing(statuses) == nil,
		Dependencies: FromDependencyStatuses(statuses),
	}
	status := http.StatusOK
	if !payload.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, payload)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ModelsResponse{
		Default: s.cfg.Transcription.Model,
		Models:  append([]string(nil), s.cfg.Transcription.Models...),
	})
}

func (s *Server) handleTranscribeURL(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	var body URLRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	s.run(w, r, workflow.Request{
		URL:      body.URL,
		Filename: body.Filename,
		Model:    body.Model,
	})
}

func (s *Server) handleTranscribeFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the configured size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	s.run(w, r, workflow.Request{
		Upload:     file,
		UploadName: header.Filename,
		Filename:   r.FormValue("filename"),
		Model:      r.FormValue("model"),
	})
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, req workflow.Request) {
	req.Wait = true
	job, err := s.runner.Run(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		logger := logging.WithContext(r.Context(), s.logger)
		if services.IsUserError(err) {
			logger.Info("transcription request rejected", logging.Error(err), logging.Int("status", status))
		} else {
			logger.Error("transcription request failed", logging.Error(err), logging.Int("status", status))
		}
		if job == nil {
			writeError(w, status, err.Error())
			return
		}
		if job.Retained() {
			s.jobs.put(job)
		}
		payload := FromJob(job)
		payload.Error = err.Error()
		writeJSON(w, status, payload)
		return
	}
	s.jobs.put(job)
	writeJSON(w, http.StatusCreated, FromJob(job))
}

func (s *Server) handleGetTranscription(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "transcription not found")
		return
	}
	writeJSON(w, http.StatusOK, FromJob(job))
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "transcription not found")
		return
	}
	kind := strings.ToLower(chi.URLParam(r, "kind"))
	path, ok := job.Artifacts.Path(kind)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown artifact kind "+kind)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "artifact no longer exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "open artifact")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stat artifact")
		return
	}

	name := job.ExportName(kind)
	w.Header().Set("Content-Type", artifactContentTypes[kind])
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *Server) handleDeleteTranscription(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.remove(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "transcription not found")
		return
	}
	if err := job.Cleanup(); err != nil {
		logging.WithContext(r.Context(), s.logger).Warn("job cleanup failed",
			logging.String(logging.FieldJobID, job.ID),
			logging.Error(err),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
