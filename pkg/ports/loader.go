package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// QuizLoader defines how the engine retrieves quiz definitions.
// This allows the storage layer (files, memory, a content store) to be
// decoupled from the engine.
type QuizLoader interface {
	// GetQuiz retrieves a quiz definition by ID.
	GetQuiz(ctx context.Context, id string) (*domain.Quiz, error)

	// ListQuizzes returns the IDs of all quizzes available from this source.
	// This is used for introspection and CLI tooling.
	ListQuizzes(ctx context.Context) ([]string, error)
}
