/*
Package domain contains the core domain models for the Espalier engine.

It defines the fundamental entities of a branching questionnaire: Quizzes,
Nodes, Questions, Transitions, Conditions and the run state. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Quiz: A directed graph of nodes, validated once at load time.
  - Node: A step in the graph holding questions and outgoing transitions.
  - Question: A typed prompt (text, number, select, date, ...) with per-kind
    validation rules.
  - Transition: A conditional edge from one node to another.
  - Condition: A single predicate over one answered question's value.
  - RunState: The runtime snapshot of one traversal session (current node,
    visited history, collected responses, completion).
*/
package domain
