package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
)

// Loader implements ports.QuizLoader over an in-memory map.
// Quizzes are validated on registration, so a loader never hands out a
// structurally broken graph.
type Loader struct {
	mu      sync.RWMutex
	quizzes map[string]*domain.Quiz
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{quizzes: make(map[string]*domain.Quiz)}
}

// NewFromQuizzes creates a loader pre-populated with the given quizzes.
// This improves DX for tests and programmatically built graphs.
func NewFromQuizzes(quizzes ...*domain.Quiz) (*Loader, error) {
	l := NewLoader()
	for _, q := range quizzes {
		if err := l.Add(q); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add validates and registers a quiz.
func (l *Loader) Add(quiz *domain.Quiz) error {
	if quiz == nil || quiz.ID == "" {
		return fmt.Errorf("quiz missing ID")
	}
	if err := schema.ValidateQuiz(quiz); err != nil {
		return fmt.Errorf("quiz %s: %w", quiz.ID, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.quizzes[quiz.ID] = quiz
	return nil
}

// GetQuiz retrieves a quiz definition by ID.
func (l *Loader) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	quiz, ok := l.quizzes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, id)
	}
	return quiz, nil
}

// ListQuizzes returns all registered quiz IDs.
func (l *Loader) ListQuizzes(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.quizzes))
	for id := range l.quizzes {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic order
	return ids, nil
}
