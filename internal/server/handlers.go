package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/veristat-labs/veristat/internal/history"
	"github.com/veristat-labs/veristat/pkg/report"
)

const defaultRunLimit = 50

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := s.history.ListRuns(limit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*history.Run{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	names, err := s.results.Datasets(chi.URLParam(r, "date"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"datasets": names})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	rep, err := s.results.Latest(chi.URLParam(r, "date"), chi.URLParam(r, "dataset"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleArchives(w http.ResponseWriter, r *http.Request) {
	names, err := s.results.Archives(chi.URLParam(r, "date"), chi.URLParam(r, "dataset"))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"archives": names})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	rep, err := s.results.LoadArchive(
		chi.URLParam(r, "date"),
		chi.URLParam(r, "dataset"),
		chi.URLParam(r, "name"),
	)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, report.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "no reports for the requested key")
		return
	}
	s.serverError(w, r, err)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", slog.String("error", err.Error()))
	}
}
