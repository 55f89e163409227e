package memory

import (
	"context"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, NewStore())
}

func TestStore_IsolatesStoredState(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	state := domain.NewRunState("quiz", "start")
	require.NoError(t, store.Save(ctx, "run-1", state))

	// Mutating the original after saving must not leak into the store.
	state.CurrentNodeID = "mutated"
	state.Responses["q"] = domain.NewResponse("q", "x", true, nil)

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "start", loaded.CurrentNodeID)
	assert.Empty(t, loaded.Responses)

	// And mutating a loaded copy must not affect later loads.
	loaded.CurrentNodeID = "also-mutated"
	again, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "start", again.CurrentNodeID)
}

func TestLoader(t *testing.T) {
	quiz := &domain.Quiz{
		ID: "onboarding",
		Nodes: []domain.Node{
			{ID: "a", IsStart: true, Transitions: []domain.Transition{{NextNodeID: "b"}}},
			{ID: "b", IsEnd: true},
		},
	}

	loader, err := NewFromQuizzes(quiz)
	require.NoError(t, err)

	got, err := loader.GetQuiz(context.Background(), "onboarding")
	require.NoError(t, err)
	assert.Equal(t, "onboarding", got.ID)

	_, err = loader.GetQuiz(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrQuizNotFound)

	ids, err := loader.ListQuizzes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"onboarding"}, ids)
}

func TestLoader_RejectsInvalidQuiz(t *testing.T) {
	_, err := NewFromQuizzes(&domain.Quiz{ID: "broken"})
	assert.Error(t, err)
}
