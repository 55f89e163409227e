package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// RunStore defines the interface for persisting run state.
// The engine itself never persists anything; hosts that want resumable runs
// plug a store in via the session manager.
type RunStore interface {
	// Save persists the state for a given run ID.
	Save(ctx context.Context, runID string, state *domain.RunState) error

	// Load retrieves the state for a given run ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.RunState, error)

	// Delete removes the state for a given run ID.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of stored runs.
	List(ctx context.Context) ([]string, error)
}
