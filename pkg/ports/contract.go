package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore
// implementation adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewRunState("quiz-1", "start")
		state.Responses["age"] = domain.NewResponse("age", 42.0, true, nil)

		err := store.Save(ctx, runID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.QuizID, loaded.QuizID)
		assert.Equal(t, state.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, state.VisitedNodes, loaded.VisitedNodes)
		// JSON round-trips may widen numbers; check presence and validity.
		require.Contains(t, loaded.Responses, "age")
		assert.True(t, loaded.Responses["age"].IsValid)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		state := domain.NewRunState("quiz-1", "start")
		require.NoError(t, store.Save(ctx, runID, state))

		state = state.Clone()
		state.CurrentNodeID = "middle"
		state.VisitedNodes = append(state.VisitedNodes, "middle")
		require.NoError(t, store.Save(ctx, runID, state))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, "middle", loaded.CurrentNodeID)
		assert.Len(t, loaded.VisitedNodes, 2)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, runID, domain.NewRunState("quiz-1", "start")))

		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		idA := runID + "-a"
		idB := runID + "-b"
		require.NoError(t, store.Save(ctx, idA, domain.NewRunState("quiz-1", "start")))
		require.NoError(t, store.Save(ctx, idB, domain.NewRunState("quiz-1", "start")))

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, idA)
		assert.Contains(t, runs, idB)
	})
}
