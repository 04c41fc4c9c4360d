package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/agent"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/config"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/database"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/domain"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/metrics"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/scheduler"

	"github.com/rs/zerolog"
)

// Exporter writes the current schedule to a file and returns its path.
type Exporter interface {
	Export(ctx context.Context) (string, error)
}

// HTTPServer is the clinic's HTTP surface: the direct scheduling API plus
// the voice conversation pipeline.
type HTTPServer struct {
	cfg        config.APIConfig
	sessionCfg config.SessionConfig

	windows     domain.WindowService
	ledger      domain.Ledger
	sessions    domain.SessionRepository
	dispatcher  *agent.Dispatcher
	extractor   domain.IntentExtractor
	transcriber domain.Transcriber
	synthesizer domain.Synthesizer
	exporter    Exporter

	server *http.Server
	auth   *HTTPAuth
	logger *zerolog.Logger
}

// Deps carries the collaborators the server routes to. Voice collaborators
// may be nil; the matching endpoints then answer 503.
type Deps struct {
	Windows     domain.WindowService
	Ledger      domain.Ledger
	Sessions    domain.SessionRepository
	Dispatcher  *agent.Dispatcher
	Extractor   domain.IntentExtractor
	Transcriber domain.Transcriber
	Synthesizer domain.Synthesizer
	Exporter    Exporter
}

func NewHTTPServer(cfg config.APIConfig, sessionCfg config.SessionConfig, deps Deps, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:         cfg,
		sessionCfg:  sessionCfg,
		windows:     deps.Windows,
		ledger:      deps.Ledger,
		sessions:    deps.Sessions,
		dispatcher:  deps.Dispatcher,
		extractor:   deps.Extractor,
		transcriber: deps.Transcriber,
		synthesizer: deps.Synthesizer,
		exporter:    deps.Exporter,
		logger:      logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/timeslots/free", srv.handleFreeSlots)
	mux.HandleFunc("/api/v1/timeslots/", srv.handleTimeslotByID)
	mux.HandleFunc("/api/v1/timeslots", srv.handleTimeslots)
	mux.HandleFunc("/api/v1/appointments/cancel", srv.handleCancel)
	mux.HandleFunc("/api/v1/appointments/reschedule", srv.handleReschedule)
	mux.HandleFunc("/api/v1/appointments", srv.handleAppointments)
	mux.HandleFunc("/api/v1/sessions/", srv.handleSessionByID)
	mux.HandleFunc("/api/v1/sessions", srv.handleSessions)
	mux.HandleFunc("/api/v1/converse", srv.handleConverse)
	mux.HandleFunc("/api/v1/synthesize", srv.handleSynthesize)
	mux.HandleFunc("/api/v1/export", srv.handleExport)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduler.ErrInvalidDate),
		errors.Is(err, scheduler.ErrInvalidTime),
		errors.Is(err, scheduler.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrWindowConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrWindowNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
