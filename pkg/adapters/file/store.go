package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
)

// RunStore implements ports.RunStore over a directory of JSON files, one per
// run. Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated state on disk.
type RunStore struct {
	dir string
	mu  sync.Mutex
}

// NewRunStore creates the directory if needed and returns a store rooted at it.
func NewRunStore(dir string) (*RunStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &RunStore{dir: dir}, nil
}

// Save persists the run state, replacing any previous snapshot.
func (s *RunStore) Save(ctx context.Context, runID string, state *domain.RunState) error {
	if err := validateRunID(runID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".run-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write run state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(runID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to persist run state: %w", err)
	}
	return nil
}

// Load retrieves a run state, or domain.ErrRunNotFound if absent.
func (s *RunStore) Load(ctx context.Context, runID string) (*domain.RunState, error) {
	if err := validateRunID(runID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run state: %w", err)
	}

	var state domain.RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run state: %w", err)
	}
	return &state, nil
}

// Delete removes a persisted run. Deleting a missing run is not an error.
func (s *RunStore) Delete(ctx context.Context, runID string) error {
	if err := validateRunID(runID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(runID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete run state: %w", err)
	}
	return nil
}

// List returns the ids of all persisted runs, sorted.
func (s *RunStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read run directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *RunStore) path(runID string) string {
	return filepath.Join(s.dir, runID+".json")
}

// validateRunID rejects ids that would escape the store directory.
func validateRunID(runID string) error {
	if runID == "" {
		return errors.New("run id cannot be empty")
	}
	if strings.ContainsAny(runID, `/\`) || strings.Contains(runID, "..") {
		return fmt.Errorf("invalid run id: %s", runID)
	}
	return nil
}
