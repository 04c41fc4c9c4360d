package api

import (
	"net/http"
	"strings"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"
)

func (s *HTTPServer) handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.bookAppointment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) bookAppointment(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.UserName) == "" {
		writeError(w, http.StatusBadRequest, "user_name is required")
		return
	}

	result, err := s.ledger.Book(r.Context(), req.UserName, req.Date, req.StartTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeBookingResult(w, result, "Appointment booked successfully")
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		UserName string `json:"user_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.UserName) == "" {
		writeError(w, http.StatusBadRequest, "user_name is required")
		return
	}

	result, err := s.ledger.Cancel(r.Context(), req.UserName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeBookingResult(w, result, "Appointment canceled successfully")
}

func (s *HTTPServer) handleReschedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.RescheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.UserName) == "" {
		writeError(w, http.StatusBadRequest, "user_name is required")
		return
	}

	result, err := s.ledger.Reschedule(r.Context(), req.UserName, req.Date, req.StartTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeBookingResult(w, result, "Appointment rescheduled successfully")
}

// writeBookingResult maps soft outcomes onto statuses: validation errors are
// 400, unavailable slots 409, missing appointments 404, success 200.
func writeBookingResult(w http.ResponseWriter, result models.BookingResult, successMessage string) {
	switch result.Outcome {
	case models.OutcomeSuccess:
		writeJSON(w, http.StatusOK, map[string]any{
			"message":     successMessage,
			"outcome":     result.Outcome,
			"appointment": result.Appointment,
		})
	case models.OutcomeValidationError:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"outcome": result.Outcome,
			"error":   result.Detail,
		})
	case models.OutcomeSlotUnavailable:
		writeJSON(w, http.StatusConflict, map[string]any{
			"outcome": result.Outcome,
			"error":   result.Detail,
		})
	case models.OutcomeNoAppointment:
		writeJSON(w, http.StatusNotFound, map[string]any{
			"outcome": result.Outcome,
			"error":   result.Detail,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"outcome": result.Outcome,
			"error":   "unexpected outcome",
		})
	}
}
