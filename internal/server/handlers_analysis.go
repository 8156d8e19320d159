package server

import (
	"net/http"
	"time"

	"github.com/asanchez/divicast/internal/models"
	"github.com/asanchez/divicast/internal/services/calendar"
)

const defaultSessionID = "default"

// sessionID resolves the UI session identity from the X-Session-ID header or
// the session_id query parameter, falling back to the shared default session.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	if id := r.URL.Query().Get("session_id"); id != "" {
		return id
	}
	return defaultSessionID
}

// analyzeRequest is the POST /api/analysis body.
type analyzeRequest struct {
	Month     string `json:"month"`
	Year      int    `json:"year"`
	SessionID string `json:"session_id,omitempty"`
}

// handleAnalysis dispatches /api/analysis:
//
//	POST   — trigger an analysis (async by default, ?wait=true runs inline)
//	GET    — current session snapshot
//	DELETE — reset the session to empty
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleAnalysisTrigger(w, r)
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, s.app.Analysis.Current(sessionID(r)))
	case http.MethodDelete:
		s.app.Analysis.Reset(sessionID(r))
		WriteJSON(w, http.StatusOK, s.app.Analysis.Current(sessionID(r)))
	default:
		RequireMethod(w, r, http.MethodPost, http.MethodGet, http.MethodDelete)
	}
}

func (s *Server) handleAnalysisTrigger(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sid := req.SessionID
	if sid == "" {
		sid = sessionID(r)
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}

	if s.app.Oracle == nil {
		WriteError(w, http.StatusServiceUnavailable, "Dividend oracle is not configured")
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		snapshot, err := s.app.Analysis.Analyze(r.Context(), sid, req.Month, req.Year)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, snapshot)
		return
	}

	snapshot, err := s.app.Analysis.AnalyzeAsync(r.Context(), sid, req.Month, req.Year)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusAccepted, snapshot)
}

// handleAnalysisCalendar serves the projected month grid for the session's
// completed analysis (?view=list returns the tabular ledger instead).
func (s *Server) handleAnalysisCalendar(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot := s.app.Analysis.Current(sessionID(r))
	if snapshot.State != models.SessionReady || snapshot.Summary == nil {
		WriteError(w, http.StatusNotFound, "No completed analysis for session")
		return
	}

	summary := snapshot.Summary

	if r.URL.Query().Get("view") == "list" {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"month":          summary.Month,
			"year":           summary.Year,
			"results":        summary.Results,
			"totalCompanies": summary.TotalCompanies,
			"totalGrossEur":  summary.TotalGrossEur,
			"totalNetEur":    summary.TotalNetEur,
		})
		return
	}

	cells, err := calendar.Project(summary.Month, summary.Year, summary.Results)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"month": summary.Month,
		"year":  summary.Year,
		"cells": cells,
		"weeks": models.ChunkWeeks(cells),
	})
}

// handleMonths serves the month vocabulary and selectable years
// (current year plus the next two).
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	currentYear := time.Now().Year()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"months": models.Months,
		"years":  []int{currentYear, currentYear + 1, currentYear + 2},
	})
}

// handlePortfolio serves the configured securities.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.Analysis.Portfolio())
}
