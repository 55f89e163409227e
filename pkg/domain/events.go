package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart    EventType = "run_start"
	EventNodeEnter   EventType = "node_enter"
	EventNodeLeave   EventType = "node_leave"
	EventAnswer      EventType = "answer"
	EventRunComplete EventType = "run_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	QuizID    string    `json:"quiz_id"`
	RunID     string    `json:"run_id,omitempty"`
}

// NodeEvent represents entry to or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	IsEnd  bool   `json:"is_end,omitempty"`
}

// AnswerEvent represents a submitted answer.
type AnswerEvent struct {
	EventBase
	NodeID     string `json:"node_id"`
	QuestionID string `json:"question_id"`
	IsValid    bool   `json:"is_valid"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil hooks are skipped. Hooks run synchronously on the calling goroutine.
type LifecycleHooks struct {
	OnRunStart    func(context.Context, *NodeEvent)
	OnNodeEnter   func(context.Context, *NodeEvent)
	OnNodeLeave   func(context.Context, *NodeEvent)
	OnAnswer      func(context.Context, *AnswerEvent)
	OnRunComplete func(context.Context, *NodeEvent)
}
