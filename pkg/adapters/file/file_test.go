package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleQuiz = `
id: onboarding
title: Onboarding
nodes:
  - id: intro
    isStart: true
    questions:
      - id: age
        type: number
        label: How old are you?
        required: true
    transitions:
      - nextNodeId: done
        conditions:
          - questionId: age
            operator: GREATER_THAN
            value: 17
  - id: done
    isEnd: true
`

func writeQuiz(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoader_YAML(t *testing.T) {
	dir := t.TempDir()
	writeQuiz(t, dir, "onboarding.yaml", sampleQuiz)

	loader, err := NewLoader(dir)
	require.NoError(t, err)

	quiz, err := loader.GetQuiz(context.Background(), "onboarding")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", quiz.Title)
	require.Len(t, quiz.Nodes, 2)
	assert.True(t, quiz.Nodes[0].IsStart)

	ids, err := loader.ListQuizzes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"onboarding"}, ids)
}

func TestLoader_JSON(t *testing.T) {
	dir := t.TempDir()
	writeQuiz(t, dir, "tiny.json", `{
		"id": "tiny",
		"title": "Tiny",
		"nodes": [
			{"id": "a", "isStart": true, "transitions": [{"nextNodeId": "b"}]},
			{"id": "b", "isEnd": true}
		]
	}`)

	loader, err := NewLoader(dir)
	require.NoError(t, err)

	quiz, err := loader.GetQuiz(context.Background(), "tiny")
	require.NoError(t, err)
	assert.Equal(t, "Tiny", quiz.Title)
}

func TestLoader_RejectsInvalidQuiz(t *testing.T) {
	dir := t.TempDir()
	writeQuiz(t, dir, "broken.yaml", `
id: broken
nodes:
  - id: a
    isStart: true
    transitions:
      - nextNodeId: nowhere
`)

	_, err := NewLoader(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestLoader_UnknownQuiz(t *testing.T) {
	dir := t.TempDir()
	loader, err := NewLoader(dir)
	require.NoError(t, err)

	_, err = loader.GetQuiz(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestRunStore_Contract(t *testing.T) {
	store, err := NewRunStore(t.TempDir())
	require.NoError(t, err)
	ports.RunStoreContract(t, store)
}

func TestRunStore_RejectsTraversal(t *testing.T) {
	store, err := NewRunStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "../escape")
	assert.Error(t, err)
	assert.ErrorContains(t, err, "invalid run id")
}
