// Package httpapi serves the simulation REST API: scenario submission, run
// history, and rendered reports.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/trendops/whatif/internal/events"
	"github.com/trendops/whatif/internal/history"
	"github.com/trendops/whatif/internal/report"
	"github.com/trendops/whatif/internal/simulation"
)

const defaultMaxBodyBytes = 1 << 20

// Store is the slice of the history store the API needs.
type Store interface {
	Save(resp *simulation.SimulationResponse) error
	Get(scenarioID string) (*simulation.SimulationResponse, error)
	List(limit int) ([]history.Record, error)
	Ping() error
}

type Server struct {
	sim       *simulation.Simulator
	store     Store
	publisher events.Publisher
	logger    *zap.Logger
	maxBody   int64
}

type Config struct {
	Simulator    *simulation.Simulator
	Store        Store
	Publisher    events.Publisher
	Logger       *zap.Logger
	MaxBodyBytes int64
}

func NewServer(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	s := &Server{
		sim:       cfg.Simulator,
		store:     cfg.Store,
		publisher: publisher,
		logger:    logger,
		maxBody:   maxBody,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/simulations", s.handleSimulate)
		r.Get("/simulations", s.handleList)
		r.Get("/simulations/{scenarioID}", s.handleGet)
		r.Get("/simulations/{scenarioID}/report", s.handleReport)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "NOT_READY", "history store unreachable: "+err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var scenario simulation.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "BAD_REQUEST", "request body exceeds limit")
			return
		}
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "malformed scenario JSON: "+err.Error())
		return
	}

	opts := simulation.SimulateOptions{}
	if raw := r.URL.Query().Get("summary"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil && !v {
			opts.SkipExecutiveSummary = true
		}
	}

	resp, err := s.sim.SimulateWithOptions(r.Context(), scenario, opts)
	if err != nil {
		envelope := simulation.AsErrorResponse(err)
		writeJSON(w, statusForErrorCode(envelope.ErrorCode), envelope)
		return
	}

	// Persistence and event publication are best effort: a broken store or
	// broker must not turn a completed simulation into a client error.
	if s.store != nil {
		if err := s.store.Save(&resp); err != nil {
			s.logger.Warn("save simulation failed",
				zap.String("scenario_id", resp.SimulationSummary.ScenarioID),
				zap.Error(err))
		}
	}
	if err := s.publisher.PublishSimulationCompleted(r.Context(), &resp); err != nil {
		s.logger.Warn("publish simulation event failed",
			zap.String("scenario_id", resp.SimulationSummary.ScenarioID),
			zap.Error(err))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "HISTORY_DISABLED", "run history is not configured")
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 20)
	records, err := s.store.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"simulations": records})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.loadStored(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.loadStored(w, r)
	if !ok {
		return
	}

	md := report.BuildMarkdown(resp)
	switch format := r.URL.Query().Get("format"); format {
	case "", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(md))
	case "html":
		doc, err := report.RenderHTML(md, resp.SimulationSummary.ScenarioID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(doc))
	default:
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported format "+strconv.Quote(format))
	}
}

func (s *Server) loadStored(w http.ResponseWriter, r *http.Request) (*simulation.SimulationResponse, bool) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "HISTORY_DISABLED", "run history is not configured")
		return nil, false
	}
	scenarioID := chi.URLParam(r, "scenarioID")
	resp, err := s.store.Get(scenarioID)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no simulation stored for scenario "+strconv.Quote(scenarioID))
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return nil, false
	}
	return resp, true
}

func statusForErrorCode(code string) int {
	switch code {
	case "VALIDATION_ERROR":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, simulation.ErrorResponse{
		ErrorCode:    code,
		ErrorMessage: message,
	})
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}
