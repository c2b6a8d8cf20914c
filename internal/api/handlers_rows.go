package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkaran/cvsift/internal/export"
	"github.com/mkaran/cvsift/internal/pipeline"
)

// handleRows returns the assembled profile rows for a completed job.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id": job.ID,
		"rows":   job.Rows(),
	})
}

// handleExport streams the rows as a CSV or XLSX download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		data, err := export.RowsCSV(job.Rows())
		if err != nil {
			jsonError(w, "export failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, exportBasename(job)))
		w.Write(data)

	case "xlsx":
		data, err := export.RowsXLSX(job.Rows())
		if err != nil {
			jsonError(w, "export failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, exportBasename(job)))
		w.Write(data)

	default:
		jsonError(w, "unknown format: "+format, http.StatusBadRequest)
	}
}

func (s *Server) completedJob(w http.ResponseWriter, r *http.Request) (*pipeline.Job, bool) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	snap := job.Snapshot()
	if snap.Status != pipeline.StatusCompleted {
		jsonError(w, fmt.Sprintf("job not completed (status: %s)", snap.Status), http.StatusConflict)
		return nil, false
	}
	return job, true
}

func exportBasename(job *pipeline.Job) string {
	base := job.Filename
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "profile"
	}
	return base + "_profile"
}
