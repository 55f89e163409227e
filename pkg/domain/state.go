package domain

import "time"

// RunState represents the current snapshot of one traversal session.
// A RunState is owned exclusively by the run that created it; concurrent
// mutation must be serialized by the host (see pkg/session).
type RunState struct {
	QuizID        string `json:"quizId" yaml:"quizId"`
	CurrentNodeID string `json:"currentNodeId" yaml:"currentNodeId"`

	// VisitedNodes is the append-only path taken, seeded with the start node.
	// It may contain duplicates when back-tracking revisits a node.
	VisitedNodes []string `json:"visitedNodes" yaml:"visitedNodes"`

	// Responses maps question id to the latest answer for it.
	Responses map[string]Response `json:"responses" yaml:"responses"`

	StartTime   time.Time `json:"startTime" yaml:"startTime"`
	LastUpdated time.Time `json:"lastUpdated" yaml:"lastUpdated"`

	// Completed flips when an end node is entered; the state is immutable
	// from then on.
	Completed bool   `json:"completed" yaml:"completed"`
	EndNodeID string `json:"endNodeId,omitempty" yaml:"endNodeId,omitempty"`
}

// NewRunState creates a clean run seeded at the start node.
func NewRunState(quizID, startNodeID string) *RunState {
	now := time.Now().UTC()
	return &RunState{
		QuizID:        quizID,
		CurrentNodeID: startNodeID,
		VisitedNodes:  []string{startNodeID},
		Responses:     make(map[string]Response),
		StartTime:     now,
		LastUpdated:   now,
	}
}

// Clone returns a copy with its own VisitedNodes and Responses, so the
// original survives as an unmodified snapshot.
func (s *RunState) Clone() *RunState {
	if s == nil {
		return nil
	}
	next := *s
	next.VisitedNodes = make([]string, len(s.VisitedNodes))
	copy(next.VisitedNodes, s.VisitedNodes)
	next.Responses = make(map[string]Response, len(s.Responses))
	for k, v := range s.Responses {
		next.Responses[k] = v
	}
	return &next
}

// Response returns the recorded answer for a question, if any.
func (s *RunState) Response(questionID string) (Response, bool) {
	r, ok := s.Responses[questionID]
	return r, ok
}
