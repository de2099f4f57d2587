package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sll518/notion-to-md/internal/pipeline"
)

type exportRequest struct {
	PageIDs []string `json:"page_ids"`
}

type exportResponse struct {
	JobID string `json:"job_id"`
	Pages int    `json:"pages"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.PageIDs) == 0 {
		jsonError(w, "page_ids is required", http.StatusBadRequest)
		return
	}

	job, err := s.exporter.Submit(req.PageIDs)
	if err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) {
			jsonError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusAccepted, exportResponse{
		JobID: job.ID,
		Pages: len(job.PageIDs),
	})
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.exporter.Job(jobID)
	if job == nil {
		jsonError(w, "unknown job", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, job.Snapshot())
}
