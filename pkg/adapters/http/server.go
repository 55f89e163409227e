// Package http exposes the quiz engine over a REST API. Runs are persisted
// through a session manager so multiple instances can share a store, and the
// surface is described by an embedded OpenAPI document served alongside a
// Swagger UI.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the engine and run manager into HTTP handlers.
type Server struct {
	engine  *espalier.Engine
	runs    *session.Manager
	logger  *slog.Logger
	metrics *Metrics
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithServerLogger sets the request logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler builds the API handler. It fails if the embedded OpenAPI
// document does not validate.
func NewHandler(engine *espalier.Engine, runs *session.Manager, opts ...ServerOption) (http.Handler, error) {
	if _, err := loadSpec(context.Background()); err != nil {
		return nil, err
	}

	s := &Server{
		engine:  engine,
		runs:    runs,
		logger:  logging.NewNop(),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Get("/runs", s.metrics.instrument("list_runs", s.listRuns))
	r.Post("/runs", s.metrics.instrument("start_run", s.startRun))
	r.Get("/runs/{runId}", s.metrics.instrument("get_run", s.getRun))
	r.Delete("/runs/{runId}", s.metrics.instrument("delete_run", s.deleteRun))
	r.Post("/runs/{runId}/answers", s.metrics.instrument("submit_answer", s.submitAnswer))
	r.Post("/runs/{runId}/advance", s.metrics.instrument("advance", s.advance))
	r.Post("/runs/{runId}/back", s.metrics.instrument("go_back", s.goBack))
	r.Post("/preview", s.metrics.instrument("preview", s.preview))
	r.Get("/quiz", s.metrics.instrument("get_quiz", s.getQuiz))
	r.Get("/graph", s.metrics.instrument("get_graph", s.getGraph))
	r.Get("/healthz", s.getHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// runView is the wire shape returned by run-mutating endpoints.
type runView struct {
	RunID string           `json:"runId"`
	State *domain.RunState `json:"state"`
	Node  *domain.Node     `json:"node,omitempty"`
}

func (s *Server) view(runID string, state *domain.RunState) runView {
	node, err := s.engine.CurrentNode(state)
	if err != nil {
		node = nil
	}
	return runView{RunID: runID, State: state, Node: node}
}

func (s *Server) startRun(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RunID string `json:"runId"`
	}
	// An empty body is fine; the id is generated then.
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	runID := body.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	var state *domain.RunState
	err := s.runs.WithLock(r.Context(), runID, func(ctx context.Context) error {
		existing, err := s.runs.Store().Load(ctx, runID)
		if err == nil {
			state = existing
			return nil
		}
		if !errors.Is(err, domain.ErrRunNotFound) {
			return err
		}
		state = s.engine.Start(ctx, runID)
		s.metrics.runsStarted.Inc()
		return s.runs.Store().Save(ctx, runID, state)
	})
	if err != nil {
		s.fail(w, "start run", err)
		return
	}

	s.respond(w, http.StatusCreated, s.view(runID, state))
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")
	state, err := s.runs.Load(r.Context(), runID)
	if err != nil {
		s.fail(w, "get run", err)
		return
	}
	s.respond(w, http.StatusOK, s.view(runID, state))
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")
	if err := s.runs.Delete(r.Context(), runID); err != nil {
		s.fail(w, "delete run", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runs.List(r.Context())
	if err != nil {
		s.fail(w, "list runs", err)
		return
	}
	if runs == nil {
		runs = []string{}
	}
	s.respond(w, http.StatusOK, runs)
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")

	var body struct {
		QuestionID string `json:"questionId"`
		Value      any    `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.QuestionID == "" {
		http.Error(w, "questionId is required", http.StatusBadRequest)
		return
	}

	var (
		state    *domain.RunState
		response domain.Response
	)
	err := s.runs.WithLock(r.Context(), runID, func(ctx context.Context) error {
		current, err := s.runs.Store().Load(ctx, runID)
		if err != nil {
			return err
		}
		state, response, err = s.engine.SubmitAnswer(ctx, current, body.QuestionID, body.Value)
		if err != nil {
			return err
		}
		return s.runs.Store().Save(ctx, runID, state)
	})
	if err != nil {
		s.fail(w, "submit answer", err)
		return
	}

	s.metrics.observeAnswer(response.IsValid)
	s.respond(w, http.StatusOK, struct {
		RunID    string           `json:"runId"`
		State    *domain.RunState `json:"state"`
		Response domain.Response  `json:"response"`
	}{runID, state, response})
}

func (s *Server) advance(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")

	var (
		state  *domain.RunState
		result domain.AdvanceResult
	)
	err := s.runs.WithLock(r.Context(), runID, func(ctx context.Context) error {
		current, err := s.runs.Store().Load(ctx, runID)
		if err != nil {
			return err
		}
		state, result, err = s.engine.Advance(ctx, current)
		if err != nil {
			return err
		}
		return s.runs.Store().Save(ctx, runID, state)
	})
	if err != nil {
		s.fail(w, "advance", err)
		return
	}

	switch result.Status {
	case domain.AdvanceCompleted:
		s.metrics.runsCompleted.Inc()
	case domain.AdvanceBlocked:
		s.metrics.observeBlocked(string(result.Reason))
	}

	view := s.view(runID, state)
	s.respond(w, http.StatusOK, struct {
		RunID  string               `json:"runId"`
		State  *domain.RunState     `json:"state"`
		Result domain.AdvanceResult `json:"result"`
		Node   *domain.Node         `json:"node,omitempty"`
	}{runID, state, result, view.Node})
}

func (s *Server) goBack(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")

	var state *domain.RunState
	err := s.runs.WithLock(r.Context(), runID, func(ctx context.Context) error {
		current, err := s.runs.Store().Load(ctx, runID)
		if err != nil {
			return err
		}
		state, err = s.engine.GoBack(ctx, current)
		if err != nil {
			return err
		}
		return s.runs.Store().Save(ctx, runID, state)
	})
	if err != nil {
		s.fail(w, "go back", err)
		return
	}

	s.respond(w, http.StatusOK, s.view(runID, state))
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Transition domain.Transition          `json:"transition"`
		Responses  map[string]domain.Response `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	matched := s.engine.EvaluateTransition(body.Transition, body.Responses)
	s.respond(w, http.StatusOK, map[string]bool{"matched": matched})
}

func (s *Server) getQuiz(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.engine.Quiz())
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.Overlay
	if runID := r.URL.Query().Get("runId"); runID != "" {
		state, err := s.runs.Load(r.Context(), runID)
		if err != nil {
			s.fail(w, "get graph", err)
			return
		}
		overlay = &graph.Overlay{
			VisitedNodes: state.VisitedNodes,
			CurrentNode:  state.CurrentNodeID,
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(s.engine.Quiz(), overlay)))
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": espalier.Version,
	})
}

func (s *Server) respond(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

// fail maps domain errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrRunNotFound),
		errors.Is(err, domain.ErrUnknownQuestion),
		errors.Is(err, domain.ErrUnknownNode):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrRunCompleted),
		errors.Is(err, domain.ErrAtEndNode),
		errors.Is(err, domain.ErrAtStartNode),
		errors.Is(err, domain.ErrBackTrackingDisabled):
		code = http.StatusConflict
	}

	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "op", op, "err", err)
	} else {
		s.logger.Debug("request rejected", "op", op, "err", err)
	}
	http.Error(w, err.Error(), code)
}
