package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
)

func (s *HTTPServer) handleTimeslots(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createTimeslot(w, r)
	case http.MethodGet:
		s.listTimeslots(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) createTimeslot(w http.ResponseWriter, r *http.Request) {
	var req models.WindowRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	window, err := s.windows.CreateWindow(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"date":       window.Date,
		"start_time": window.StartTime,
		"end_time":   window.EndTime,
	})
}

func (s *HTTPServer) listTimeslots(w http.ResponseWriter, r *http.Request) {
	windows, err := s.windows.ListWindows(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"timeslots": windows})
}

func (s *HTTPServer) handleFreeSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	slots, err := s.windows.ListFreeSlots(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

func (s *HTTPServer) handleTimeslotByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/v1/timeslots/"
	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid timeslot id")
		return
	}

	if err := s.windows.DeleteWindow(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Main and associated interval time slots deleted successfully",
	})
}
