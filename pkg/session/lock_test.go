package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(ctx context.Context, runID string, state *domain.RunState) error { return nil }
func (nopStore) Load(ctx context.Context, runID string) (*domain.RunState, error)     { return nil, nil }
func (nopStore) Delete(ctx context.Context, runID string) error                       { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)                           { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("run-%d", i)
		_ = mgr.Save(ctx, id, &domain.RunState{})
		_ = mgr.Delete(ctx, id)
	}

	// Lock entries must be garbage collected once released.
	if leaked := len(mgr.locks); leaked != 0 {
		t.Errorf("memory leak: %d lock entries remaining after delete", leaked)
	}
}
