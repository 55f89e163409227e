package espalier_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onboardingQuiz(t *testing.T) *domain.Quiz {
	t.Helper()
	quiz, err := dsl.NewQuiz("onboarding").
		Title("Onboarding").
		Node("age-check").Start().Title("Welcome").
		Number("age", "How old are you?", dsl.Required()).
		When(dsl.GreaterThan("age", 17), "welcome").
		Go("underage").
		Quiz().
		Node("welcome").End().Title("Welcome aboard").Quiz().
		Node("underage").End().Title("Come back later").Quiz().
		Build()
	require.NoError(t, err)
	return quiz
}

func TestNew_RejectsInvalidQuiz(t *testing.T) {
	_, err := espalier.New(&domain.Quiz{
		ID: "broken",
		Nodes: []domain.Node{
			{ID: "a", IsStart: true, Transitions: []domain.Transition{{NextNodeID: "nowhere"}}},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}

func TestLoad(t *testing.T) {
	loader, err := memory.NewFromQuizzes(onboardingQuiz(t))
	require.NoError(t, err)

	engine, err := espalier.Load(context.Background(), loader, "onboarding")
	require.NoError(t, err)
	assert.Equal(t, "onboarding", engine.Quiz().ID)

	_, err = espalier.Load(context.Background(), loader, "missing")
	assert.Error(t, err)
}

func TestEngine_EndToEnd(t *testing.T) {
	engine, err := espalier.New(onboardingQuiz(t))
	require.NoError(t, err)
	ctx := context.Background()

	state := engine.Start(ctx, "run-1")
	state, resp, err := engine.SubmitAnswer(ctx, state, "age", float64(30))
	require.NoError(t, err)
	require.True(t, resp.IsValid)

	state, result, err := engine.Advance(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.AdvanceCompleted, result.Status)
	assert.Equal(t, "welcome", state.EndNodeID)
}

func TestEngine_Inspect(t *testing.T) {
	engine, err := espalier.New(onboardingQuiz(t))
	require.NoError(t, err)

	nodes := engine.Inspect()
	assert.Len(t, nodes, 3)
}

func TestRunner_CompletesQuiz(t *testing.T) {
	engine, err := espalier.New(onboardingQuiz(t))
	require.NoError(t, err)

	var out bytes.Buffer
	runner := &espalier.Runner{
		Input:    strings.NewReader("30\n"),
		Output:   &out,
		Headless: true,
	}

	state, err := runner.Run(context.Background(), engine)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.Completed)
	assert.Equal(t, "welcome", state.EndNodeID)
	assert.Contains(t, out.String(), "How old are you?")
	assert.Contains(t, out.String(), "Welcome aboard")
}

func TestRunner_RepromptsOnInvalidAnswer(t *testing.T) {
	engine, err := espalier.New(onboardingQuiz(t))
	require.NoError(t, err)

	var out bytes.Buffer
	runner := &espalier.Runner{
		Input:    strings.NewReader("abc\n15\n"),
		Output:   &out,
		Headless: true,
	}

	state, err := runner.Run(context.Background(), engine)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Contains(t, out.String(), "!")
	assert.Equal(t, "underage", state.EndNodeID)
}

func TestRunner_UserExit(t *testing.T) {
	engine, err := espalier.New(onboardingQuiz(t))
	require.NoError(t, err)

	var out bytes.Buffer
	runner := &espalier.Runner{
		Input:    strings.NewReader("exit\n"),
		Output:   &out,
		Headless: true,
	}

	state, err := runner.Run(context.Background(), engine)
	require.NoError(t, err)
	assert.Nil(t, state)
	assert.Contains(t, out.String(), "Bye!")
}
