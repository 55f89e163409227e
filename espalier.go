package espalier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/conditions"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/schema"
)

// Version of the espalier module.
const Version = "0.3.0"

// Engine is the high-level entry point for the Espalier library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	quiz    *domain.Quiz

	logger         *slog.Logger
	hooks          domain.LifecycleHooks
	lenientAdvance bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLenientAdvance lets Advance pass nodes whose required questions are
// still unanswered or invalid. By default the engine blocks such advances;
// hosts that implement their own gating opt in to leniency.
func WithLenientAdvance() Option {
	return func(e *Engine) {
		e.lenientAdvance = true
	}
}

// New initializes an engine for the given quiz.
// The quiz is schema-validated first; an invalid quiz never produces an
// engine, so every run executes against a structurally sound graph.
func New(quiz *domain.Quiz, opts ...Option) (*Engine, error) {
	eng := &Engine{quiz: quiz}
	for _, opt := range opts {
		opt(eng)
	}

	if err := schema.ValidateQuiz(quiz); err != nil {
		return nil, fmt.Errorf("quiz %q failed validation: %w", quizID(quiz), err)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("quiz", quiz.ID)

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	}
	if eng.lenientAdvance {
		runtimeOpts = append(runtimeOpts, runtime.WithLenientAdvance())
	}

	rt, err := runtime.NewEngine(quiz, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// Load fetches a quiz from a loader and initializes an engine for it.
func Load(ctx context.Context, loader ports.QuizLoader, quizID string, opts ...Option) (*Engine, error) {
	quiz, err := loader.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz %q: %w", quizID, err)
	}
	return New(quiz, opts...)
}

// Start creates the initial state for a run.
func (e *Engine) Start(ctx context.Context, runID string) *domain.RunState {
	return e.runtime.Start(ctx, runID)
}

// SubmitAnswer validates the value and records it on a copy of the state.
// Validation failures surface on the returned response, not as an error.
func (e *Engine) SubmitAnswer(ctx context.Context, state *domain.RunState, questionID string, value any) (*domain.RunState, domain.Response, error) {
	return e.runtime.SubmitAnswer(ctx, state, questionID, value)
}

// Advance resolves the current node's transitions and moves the run.
func (e *Engine) Advance(ctx context.Context, state *domain.RunState) (*domain.RunState, domain.AdvanceResult, error) {
	return e.runtime.Advance(ctx, state)
}

// GoBack returns the run to the previously visited node.
func (e *Engine) GoBack(ctx context.Context, state *domain.RunState) (*domain.RunState, error) {
	return e.runtime.GoBack(ctx, state)
}

// CurrentNode returns the node the run is positioned on.
func (e *Engine) CurrentNode(state *domain.RunState) (*domain.Node, error) {
	return e.runtime.CurrentNode(state)
}

// EvaluateTransition previews whether a transition would fire for the given
// responses, without touching any run state.
func (e *Engine) EvaluateTransition(t domain.Transition, responses map[string]domain.Response) bool {
	return conditions.EvaluateTransition(t, responses)
}

// Inspect returns the quiz's nodes for visualization and introspection tools.
func (e *Engine) Inspect() []domain.Node {
	return e.quiz.Nodes
}

// Quiz returns the underlying quiz definition.
func (e *Engine) Quiz() *domain.Quiz {
	return e.quiz
}

func quizID(q *domain.Quiz) string {
	if q == nil {
		return ""
	}
	return q.ID
}
