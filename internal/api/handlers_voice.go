package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/agent"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/google/uuid"
)

const maxAudioBytes = 5 * 1024 * 1024

func (s *HTTPServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	prompt, freeSlots, err := s.availabilityPrompt(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	now := time.Now()
	session := &models.Session{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.SetSession(r.Context(), session); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": session.ID,
		"free_slots": freeSlots,
	})
}

// availabilityPrompt builds the session's system prompt from the worker's
// snapshot, falling back to the live store while the snapshot is cold.
func (s *HTTPServer) availabilityPrompt(ctx context.Context) (string, int, error) {
	listing, err := s.sessions.GetSnapshot(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read availability snapshot")
	}
	if err == nil && listing != "" {
		var entries []json.RawMessage
		if err := json.Unmarshal([]byte(listing), &entries); err == nil {
			return agent.BuildPromptFromListing(listing), len(entries), nil
		}
		s.logger.Warn().Msg("availability snapshot is not valid JSON, rebuilding from store")
	}

	slots, err := s.windows.ListFreeSlots(ctx)
	if err != nil {
		return "", 0, err
	}
	return agent.BuildPrompt(slots), len(slots), nil
}

func (s *HTTPServer) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/v1/sessions/"
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	if err := s.sessions.ClearSession(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "History cleared successfully"})
}

// handleConverse runs one voice turn: transcribe the upload, have the agent
// produce an intent, dispatch it, persist the turn and voice the reply.
func (s *HTTPServer) handleConverse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.transcriber == nil || s.extractor == nil || s.synthesizer == nil {
		writeError(w, http.StatusServiceUnavailable, "voice pipeline is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	allowed, err := s.sessions.CheckRateLimit(r.Context(), sessionID,
		s.sessionCfg.RateLimitMessages, time.Duration(s.sessionCfg.RateLimitWindow)*time.Second)
	if err != nil {
		// fail open: a broken limiter must not block conversations
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("rate limit check failed, allowing request")
	} else if !allowed {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	session, err := s.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".wav") {
		writeError(w, http.StatusBadRequest, "only WAV files are accepted")
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read audio")
		return
	}

	transcript, err := s.transcriber.Transcribe(r.Context(), audio)
	if err != nil {
		s.logger.Error().Err(err).Msg("transcription failed")
		writeError(w, http.StatusBadGateway, "speech recognition failed")
		return
	}

	rawIntent, err := s.extractor.Extract(r.Context(), session, transcript)
	if err != nil {
		s.logger.Error().Err(err).Msg("intent extraction failed")
		writeError(w, http.StatusBadGateway, "conversational agent failed")
		return
	}

	result, err := s.dispatcher.Dispatch(r.Context(), rawIntent)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	session.Append(models.RoleUser, transcript)
	session.Append(models.RoleAssistant, result.Message)
	if err := s.sessions.SetSession(r.Context(), session); err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("failed to persist session turn")
	}

	reply, err := s.synthesizer.Synthesize(r.Context(), result.Message)
	if err != nil {
		s.logger.Error().Err(err).Msg("speech synthesis failed")
		writeError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transcript": transcript,
		"message":    result.Message,
		"action":     result.Action,
		"attempted":  result.Attempted,
		"outcome":    result.Outcome,
		"audio":      reply, // base64 in JSON
	})
}

func (s *HTTPServer) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.synthesizer == nil {
		writeError(w, http.StatusServiceUnavailable, "speech synthesis is not configured")
		return
	}

	var req models.SynthesizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := s.synthesizer.Synthesize(r.Context(), req.Text)
	if err != nil {
		s.logger.Error().Err(err).Msg("speech synthesis failed")
		writeError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}

	filePath, err := s.exporter.Export(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"file": filePath})
}
