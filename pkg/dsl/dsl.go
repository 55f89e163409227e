// Package dsl provides a fluent builder for constructing quizzes in code,
// as an alternative to loading YAML or JSON documents. Built quizzes pass
// through the same schema validation as loaded ones.
package dsl

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
)

// QuizBuilder accumulates nodes into a quiz definition.
type QuizBuilder struct {
	quiz domain.Quiz
}

// NewQuiz starts a quiz definition with the given id.
func NewQuiz(id string) *QuizBuilder {
	return &QuizBuilder{quiz: domain.Quiz{ID: id, Title: id}}
}

// Title sets the quiz title.
func (b *QuizBuilder) Title(title string) *QuizBuilder {
	b.quiz.Title = title
	return b
}

// Description sets the quiz description.
func (b *QuizBuilder) Description(desc string) *QuizBuilder {
	b.quiz.Description = desc
	return b
}

// Version sets the quiz version string.
func (b *QuizBuilder) Version(version string) *QuizBuilder {
	b.quiz.Version = version
	return b
}

// Settings replaces the quiz settings.
func (b *QuizBuilder) Settings(settings domain.Settings) *QuizBuilder {
	b.quiz.Settings = &settings
	return b
}

// Node opens a node builder for a new node with the given id.
func (b *QuizBuilder) Node(id string) *NodeBuilder {
	return &NodeBuilder{
		parent: b,
		node:   domain.Node{ID: id},
	}
}

// Build validates and returns the quiz.
func (b *QuizBuilder) Build() (*domain.Quiz, error) {
	quiz := b.quiz
	if err := schema.ValidateQuiz(&quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// MustBuild is Build, panicking on validation failure. Intended for quizzes
// defined as program constants.
func (b *QuizBuilder) MustBuild() *domain.Quiz {
	quiz, err := b.Build()
	if err != nil {
		panic(err)
	}
	return quiz
}

// NodeBuilder accumulates questions and transitions into a node.
type NodeBuilder struct {
	parent *QuizBuilder
	node   domain.Node
}

// Start marks the node as the quiz entry point.
func (n *NodeBuilder) Start() *NodeBuilder {
	n.node.IsStart = true
	return n
}

// End marks the node as terminal.
func (n *NodeBuilder) End() *NodeBuilder {
	n.node.IsEnd = true
	return n
}

// Title sets the node title.
func (n *NodeBuilder) Title(title string) *NodeBuilder {
	n.node.Title = title
	return n
}

// Description sets the node description.
func (n *NodeBuilder) Description(desc string) *NodeBuilder {
	n.node.Description = desc
	return n
}

// Question appends an arbitrary question.
func (n *NodeBuilder) Question(q domain.Question, opts ...QuestionOption) *NodeBuilder {
	for _, opt := range opts {
		opt(&q)
	}
	n.node.Questions = append(n.node.Questions, q)
	return n
}

func (n *NodeBuilder) question(id string, kind domain.QuestionType, label string, opts ...QuestionOption) *NodeBuilder {
	return n.Question(domain.Question{ID: id, Type: kind, Label: label}, opts...)
}

// Text appends a free-text question.
func (n *NodeBuilder) Text(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionText, label, opts...)
}

// Number appends a numeric question.
func (n *NodeBuilder) Number(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionNumber, label, opts...)
}

// Select appends a single-choice question.
func (n *NodeBuilder) Select(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionSelect, label, opts...)
}

// MultiSelect appends a multiple-choice question.
func (n *NodeBuilder) MultiSelect(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionMultiSelect, label, opts...)
}

// Checkbox appends a boolean question.
func (n *NodeBuilder) Checkbox(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionCheckbox, label, opts...)
}

// CheckboxGroup appends a checkbox-group question.
func (n *NodeBuilder) CheckboxGroup(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionCheckboxGroup, label, opts...)
}

// Date appends a date question.
func (n *NodeBuilder) Date(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionDate, label, opts...)
}

// Rating appends a rating question.
func (n *NodeBuilder) Rating(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionRating, label, opts...)
}

// File appends a file-upload question.
func (n *NodeBuilder) File(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionFile, label, opts...)
}

// Signature appends a signature question.
func (n *NodeBuilder) Signature(id, label string, opts ...QuestionOption) *NodeBuilder {
	return n.question(id, domain.QuestionSignature, label, opts...)
}

// When adds a transition guarded by a single condition.
func (n *NodeBuilder) When(cond domain.Condition, nextNodeID string) *NodeBuilder {
	n.node.Transitions = append(n.node.Transitions, domain.Transition{
		Conditions: []domain.Condition{cond},
		NextNodeID: nextNodeID,
	})
	return n
}

// WhenAll adds a transition that fires only when every condition holds.
func (n *NodeBuilder) WhenAll(conds []domain.Condition, nextNodeID string) *NodeBuilder {
	n.node.Transitions = append(n.node.Transitions, domain.Transition{
		Conditions:      conds,
		NextNodeID:      nextNodeID,
		CombinationType: domain.CombineAnd,
	})
	return n
}

// WhenAny adds a transition that fires when at least one condition holds.
func (n *NodeBuilder) WhenAny(conds []domain.Condition, nextNodeID string) *NodeBuilder {
	n.node.Transitions = append(n.node.Transitions, domain.Transition{
		Conditions:      conds,
		NextNodeID:      nextNodeID,
		CombinationType: domain.CombineOr,
	})
	return n
}

// Go adds an unconditional transition. Placed last, it acts as the
// fallback branch.
func (n *NodeBuilder) Go(nextNodeID string) *NodeBuilder {
	n.node.Transitions = append(n.node.Transitions, domain.Transition{
		NextNodeID: nextNodeID,
	})
	return n
}

// Quiz closes the node and returns to the quiz builder.
func (n *NodeBuilder) Quiz() *QuizBuilder {
	n.parent.quiz.Nodes = append(n.parent.quiz.Nodes, n.node)
	return n.parent
}
