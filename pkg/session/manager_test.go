package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore simulates IO latency to provoke races when locking is missing.
type slowStore struct {
	data map[string]*domain.RunState
	mu   sync.Mutex
}

func (s *slowStore) Save(ctx context.Context, runID string, state *domain.RunState) error {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string]*domain.RunState)
	}
	s.data[runID] = state
	return nil
}

func (s *slowStore) Load(ctx context.Context, runID string) (*domain.RunState, error) {
	time.Sleep(10 * time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.data[runID]; ok {
		return state, nil
	}
	return nil, domain.ErrRunNotFound
}

func (s *slowStore) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

func (s *slowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func testQuiz() *domain.Quiz {
	return &domain.Quiz{
		ID: "onboarding",
		Nodes: []domain.Node{
			{ID: "intro", IsStart: true},
			{ID: "done", IsEnd: true},
		},
	}
}

func TestManager_SerializesWrites(t *testing.T) {
	store := &slowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	require.NoError(t, manager.Save(ctx, id, domain.NewRunState("onboarding", "intro")))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.Save(ctx, id, domain.NewRunState("onboarding", "intro"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestManager_LoadOrStart(t *testing.T) {
	store := &slowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := manager.LoadOrStart(ctx, id, testQuiz())
			assert.NoError(t, err)
			assert.NotNil(t, state)
		}()
	}
	wg.Wait()

	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "intro", state.CurrentNodeID)
	assert.Equal(t, "onboarding", state.QuizID)
}

func TestManager_LoadOrStart_ExistingRunWins(t *testing.T) {
	store := &slowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	existing := domain.NewRunState("onboarding", "intro")
	existing.CurrentNodeID = "done"
	require.NoError(t, manager.Save(ctx, "run-1", existing))

	state, err := manager.LoadOrStart(ctx, "run-1", testQuiz())
	require.NoError(t, err)
	assert.Equal(t, "done", state.CurrentNodeID)
}
