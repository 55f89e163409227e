// Package file provides filesystem-backed adapters: a quiz loader for YAML
// and JSON quiz documents, and a run store that persists run state as JSON
// files with atomic replacement.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.QuizLoader over a directory of quiz documents.
// Each file holds one whole quiz, keyed by the quiz's declared id.
type Loader struct {
	dir     string
	quizzes map[string]*domain.Quiz
}

// NewLoader scans dir for *.yaml, *.yml and *.json quiz documents, validates
// each, and indexes them by quiz id.
func NewLoader(dir string) (*Loader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read quiz directory: %w", err)
	}

	l := &Loader{dir: dir, quizzes: make(map[string]*domain.Quiz)}
	for _, entry := range entries {
		if entry.IsDir() || !isQuizFile(entry.Name()) {
			continue
		}
		quiz, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, exists := l.quizzes[quiz.ID]; exists {
			return nil, fmt.Errorf("duplicate quiz id %q (file %s)", quiz.ID, entry.Name())
		}
		l.quizzes[quiz.ID] = quiz
	}
	return l, nil
}

// LoadFile parses and validates a single quiz document.
func LoadFile(path string) (*domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quiz file: %w", err)
	}

	var quiz domain.Quiz
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, &quiz)
	} else {
		err = yaml.Unmarshal(data, &quiz)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := schema.ValidateQuiz(&quiz); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &quiz, nil
}

// GetQuiz retrieves a quiz definition by ID.
func (l *Loader) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, ok := l.quizzes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, id)
	}
	return quiz, nil
}

// ListQuizzes returns the ids of all quizzes found in the directory.
func (l *Loader) ListQuizzes(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(l.quizzes))
	for id := range l.quizzes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func isQuizFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
