// Package runtime is the core state machine of the Espalier engine: it owns
// answer recording, transition resolution and the run lifecycle over an
// already-validated quiz graph.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/answers"
	"github.com/aretw0/espalier/pkg/domain"
)

// Engine executes runs against one quiz graph.
// It never mutates a caller's RunState: every operation returns a fresh
// snapshot (or the input unchanged on rejection).
type Engine struct {
	quiz  *domain.Quiz
	index *graphIndex

	logger         *slog.Logger
	hooks          domain.LifecycleHooks
	lenientAdvance bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLenientAdvance disables the required-question gate on Advance, leaving
// the host to decide whether invalid or missing required answers block
// progression.
func WithLenientAdvance() EngineOption {
	return func(e *Engine) {
		e.lenientAdvance = true
	}
}

// NewEngine creates an engine for a quiz that already passed schema
// validation. It returns an error when the graph is missing the pieces the
// index depends on (callers that skipped validation).
func NewEngine(quiz *domain.Quiz, opts ...EngineOption) (*Engine, error) {
	index, err := buildIndex(quiz)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		quiz:   quiz,
		index:  index,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Quiz returns the graph this engine runs.
func (e *Engine) Quiz() *domain.Quiz {
	return e.quiz
}

// Start creates a new run seeded at the quiz's start node.
// runID is a host-chosen correlation id used for logging and hooks only; the
// run state itself is keyed externally (see pkg/session).
func (e *Engine) Start(ctx context.Context, runID string) *domain.RunState {
	state := domain.NewRunState(e.quiz.ID, e.index.startNodeID)

	e.logger.InfoContext(ctx, "run started",
		"run_id", runID,
		"node", state.CurrentNodeID,
	)
	e.emitNodeEvent(ctx, e.hooks.OnRunStart, domain.EventRunStart, runID, e.index.startNodeID)
	e.emitNodeEvent(ctx, e.hooks.OnNodeEnter, domain.EventNodeEnter, runID, e.index.startNodeID)
	return state
}

// SubmitAnswer validates the value and records a response for the question,
// overwriting any prior answer. It never advances the node; an invalid
// answer is a result carried on the response, not a Go error.
func (e *Engine) SubmitAnswer(ctx context.Context, state *domain.RunState, questionID string, value any) (*domain.RunState, domain.Response, error) {
	if state.Completed {
		return state, domain.Response{}, domain.ErrRunCompleted
	}

	question, ok := e.index.questions[questionID]
	if !ok {
		return state, domain.Response{}, fmt.Errorf("%w: %s", domain.ErrUnknownQuestion, questionID)
	}

	response := answers.NewResponse(*question, value)

	next := state.Clone()
	next.Responses[questionID] = response
	next.LastUpdated = time.Now().UTC()

	e.logger.DebugContext(ctx, "answer recorded",
		"question", questionID,
		"valid", response.IsValid,
	)
	if e.hooks.OnAnswer != nil {
		e.hooks.OnAnswer(ctx, &domain.AnswerEvent{
			EventBase:  e.eventBase(domain.EventAnswer, ""),
			NodeID:     state.CurrentNodeID,
			QuestionID: questionID,
			IsValid:    response.IsValid,
		})
	}
	return next, response, nil
}

func (e *Engine) eventBase(t domain.EventType, runID string) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now().UTC(),
		Type:      t,
		QuizID:    e.quiz.ID,
		RunID:     runID,
	}
}

func (e *Engine) emitNodeEvent(ctx context.Context, hook func(context.Context, *domain.NodeEvent), t domain.EventType, runID, nodeID string) {
	if hook == nil {
		return
	}
	isEnd := false
	if node, ok := e.index.nodes[nodeID]; ok {
		isEnd = node.IsEnd
	}
	hook(ctx, &domain.NodeEvent{
		EventBase: e.eventBase(t, runID),
		NodeID:    nodeID,
		IsEnd:     isEnd,
	})
}
