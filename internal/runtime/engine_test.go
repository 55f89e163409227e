package runtime_test

import (
	"context"
	"testing"

	intruntime "github.com/aretw0/espalier/internal/runtime"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ageQuiz is the canonical three-node branch: A asks for an age, adults go to
// B, everyone else to C. B leads to the end node D.
func ageQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID: "age-flow",
		Nodes: []domain.Node{
			{
				ID:      "A",
				IsStart: true,
				Questions: []domain.Question{
					{ID: "age", Type: domain.QuestionNumber, Required: true},
				},
				Transitions: []domain.Transition{
					{
						NextNodeID: "B",
						Conditions: []domain.Condition{
							{QuestionID: "age", Operator: domain.OpGreaterThan, Value: 18},
						},
					},
					{NextNodeID: "C"},
				},
			},
			{
				ID:          "B",
				Transitions: []domain.Transition{{NextNodeID: "D"}},
			},
			{ID: "C", IsEnd: true},
			{ID: "D", IsEnd: true},
		},
		Settings: &domain.Settings{AllowBackTracking: true},
	}
}

func newEngine(t *testing.T, quiz *domain.Quiz, opts ...intruntime.EngineOption) *intruntime.Engine {
	t.Helper()
	engine, err := intruntime.NewEngine(quiz, opts...)
	require.NoError(t, err)
	return engine
}

func TestEngine_FullTraversal(t *testing.T) {
	engine := newEngine(t, ageQuiz())
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	assert.Equal(t, "A", state.CurrentNodeID)
	assert.Equal(t, []string{"A"}, state.VisitedNodes)
	assert.False(t, state.Completed)

	state, resp, err := engine.SubmitAnswer(ctx, state, "age", float64(25))
	require.NoError(t, err)
	assert.True(t, resp.IsValid)

	state, result, err := engine.Advance(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.AdvanceMoved, result.Status)
	assert.Equal(t, "B", state.CurrentNodeID)

	state, result, err = engine.Advance(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.AdvanceCompleted, result.Status)
	assert.Equal(t, "D", state.CurrentNodeID)
	assert.Equal(t, []string{"A", "B", "D"}, state.VisitedNodes)
	assert.True(t, state.Completed)
	assert.Equal(t, "D", state.EndNodeID)
}

func TestEngine_BranchOnAnswer(t *testing.T) {
	engine := newEngine(t, ageQuiz())
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	state, _, err := engine.SubmitAnswer(ctx, state, "age", float64(15))
	require.NoError(t, err)

	state, result, err := engine.Advance(ctx, state)
	require.NoError(t, err)

	// The conditional transition does not match, so the unconditional
	// fallback fires and lands directly on the end node.
	assert.Equal(t, domain.AdvanceCompleted, result.Status)
	assert.Equal(t, "C", state.CurrentNodeID)
	assert.True(t, state.Completed)
}

func TestEngine_TransitionOrderIsDeterministic(t *testing.T) {
	// Two transitions that both match: the first declared one must win.
	quiz := &domain.Quiz{
		ID: "order",
		Nodes: []domain.Node{
			{
				ID:      "start",
				IsStart: true,
				Questions: []domain.Question{
					{ID: "n", Type: domain.QuestionNumber},
				},
				Transitions: []domain.Transition{
					{NextNodeID: "first", Conditions: []domain.Condition{
						{QuestionID: "n", Operator: domain.OpGreaterThan, Value: 0},
					}},
					{NextNodeID: "second", Conditions: []domain.Condition{
						{QuestionID: "n", Operator: domain.OpGreaterThan, Value: 0},
					}},
				},
			},
			{ID: "first", IsEnd: true},
			{ID: "second", IsEnd: true},
		},
	}
	engine := newEngine(t, quiz)
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	state, _, err := engine.SubmitAnswer(ctx, state, "n", float64(1))
	require.NoError(t, err)

	state, _, err = engine.Advance(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "first", state.CurrentNodeID)
}

func TestEngine_RequiredQuestionBlocksAdvance(t *testing.T) {
	engine := newEngine(t, ageQuiz())
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	next, result, err := engine.Advance(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, domain.AdvanceBlocked, result.Status)
	assert.Equal(t, domain.BlockRequiredUnanswered, result.Reason)
	assert.Equal(t, []string{"age"}, result.Unanswered)
	// A blocked advance leaves the state untouched.
	assert.Equal(t, "A", next.CurrentNodeID)

	// An invalid response does not satisfy the requirement either.
	state, resp, err := engine.SubmitAnswer(ctx, state, "age", "old")
	require.NoError(t, err)
	assert.False(t, resp.IsValid)

	_, result, err = engine.Advance(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.AdvanceBlocked, result.Status)
	assert.Equal(t, domain.BlockRequiredUnanswered, result.Reason)
}

func TestEngine_LenientAdvanceSkipsRequiredGate(t *testing.T) {
	engine := newEngine(t, ageQuiz(), intruntime.WithLenientAdvance())
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	state, result, err := engine.Advance(ctx, state)
	require.NoError(t, err)

	// With no matching conditional and no required gate, the fallback fires.
	assert.Equal(t, domain.AdvanceCompleted, result.Status)
	assert.Equal(t, "C", state.CurrentNodeID)
}

func TestEngine_NoTransitionBlocks(t *testing.T) {
	quiz := &domain.Quiz{
		ID: "stuck",
		Nodes: []domain.Node{
			{
				ID:      "start",
				IsStart: true,
				Questions: []domain.Question{
					{ID: "n", Type: domain.QuestionNumber},
				},
				Transitions: []domain.Transition{
					{NextNodeID: "done", Conditions: []domain.Condition{
						{QuestionID: "n", Operator: domain.OpGreaterThan, Value: 10},
					}},
				},
			},
			{ID: "done", IsEnd: true},
		},
	}
	engine := newEngine(t, quiz)
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	state, _, err := engine.SubmitAnswer(ctx, state, "n", float64(5))
	require.NoError(t, err)

	_, result, err := engine.Advance(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.AdvanceBlocked, result.Status)
	assert.Equal(t, domain.BlockNoTransition, result.Reason)
}

func TestEngine_GoBack(t *testing.T) {
	engine := newEngine(t, ageQuiz())
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	state, _, err := engine.SubmitAnswer(ctx, state, "age", float64(25))
	require.NoError(t, err)
	state, _, err = engine.Advance(ctx, state)
	require.NoError(t, err)
	require.Equal(t, "B", state.CurrentNodeID)

	back, err := engine.GoBack(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "A", back.CurrentNodeID)
	assert.Equal(t, []string{"A"}, back.VisitedNodes)

	// Responses survive the step back.
	resp, ok := back.Response("age")
	require.True(t, ok)
	assert.Equal(t, float64(25), resp.Value)

	// At the start node there is nothing left to pop.
	_, err = engine.GoBack(ctx, back)
	assert.ErrorIs(t, err, domain.ErrAtStartNode)
}

func TestEngine_GoBackDisabledBySettings(t *testing.T) {
	quiz := ageQuiz()
	quiz.Settings.AllowBackTracking = false
	engine := newEngine(t, quiz)
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	state, _, err := engine.SubmitAnswer(ctx, state, "age", float64(25))
	require.NoError(t, err)
	state, _, err = engine.Advance(ctx, state)
	require.NoError(t, err)

	_, err = engine.GoBack(ctx, state)
	assert.ErrorIs(t, err, domain.ErrBackTrackingDisabled)
}

func TestEngine_CompletedRunRejectsMutations(t *testing.T) {
	engine := newEngine(t, ageQuiz())
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	state, _, err := engine.SubmitAnswer(ctx, state, "age", float64(15))
	require.NoError(t, err)
	state, _, err = engine.Advance(ctx, state)
	require.NoError(t, err)
	require.True(t, state.Completed)

	_, _, err = engine.SubmitAnswer(ctx, state, "age", float64(30))
	assert.ErrorIs(t, err, domain.ErrRunCompleted)

	_, _, err = engine.Advance(ctx, state)
	assert.ErrorIs(t, err, domain.ErrRunCompleted)

	_, err = engine.GoBack(ctx, state)
	assert.ErrorIs(t, err, domain.ErrRunCompleted)
}

func TestEngine_UnknownQuestion(t *testing.T) {
	engine := newEngine(t, ageQuiz())
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	_, _, err := engine.SubmitAnswer(ctx, state, "ghost", "value")
	assert.ErrorIs(t, err, domain.ErrUnknownQuestion)
}

func TestEngine_SubmitAnswerDoesNotMutateInput(t *testing.T) {
	engine := newEngine(t, ageQuiz())
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	next, _, err := engine.SubmitAnswer(ctx, state, "age", float64(25))
	require.NoError(t, err)

	assert.NotSame(t, state, next)
	_, ok := state.Response("age")
	assert.False(t, ok, "original state must stay untouched")
	_, ok = next.Response("age")
	assert.True(t, ok)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var events []string
	hooks := domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.NodeEvent) {
			events = append(events, "run_start")
		},
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			events = append(events, "enter:"+e.NodeID)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			events = append(events, "leave:"+e.NodeID)
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			events = append(events, "answer:"+e.QuestionID)
		},
		OnRunComplete: func(ctx context.Context, e *domain.NodeEvent) {
			events = append(events, "complete:"+e.NodeID)
		},
	}

	engine := newEngine(t, ageQuiz(), intruntime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	state, _, err := engine.SubmitAnswer(ctx, state, "age", float64(15))
	require.NoError(t, err)
	_, _, err = engine.Advance(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"run_start",
		"enter:A",
		"answer:age",
		"leave:A",
		"enter:C",
		"complete:C",
	}, events)
}

func TestEngine_RejectsQuizWithoutStart(t *testing.T) {
	_, err := intruntime.NewEngine(&domain.Quiz{
		ID:    "broken",
		Nodes: []domain.Node{{ID: "a"}},
	})
	assert.Error(t, err)
}
