package domain

import "errors"

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrQuizNotFound is returned when a quiz ID cannot be found in the loader.
var ErrQuizNotFound = errors.New("quiz not found")

// ErrRunCompleted is returned when submitAnswer, advance or goBack is
// attempted on a completed run.
var ErrRunCompleted = errors.New("run already completed")

// ErrAtEndNode is returned when advance is attempted on an end node.
var ErrAtEndNode = errors.New("current node is an end node")

// ErrBackTrackingDisabled is returned by goBack when the quiz settings do not
// enable back-tracking.
var ErrBackTrackingDisabled = errors.New("back-tracking is disabled for this quiz")

// ErrAtStartNode is returned by goBack when there is no earlier node to
// return to.
var ErrAtStartNode = errors.New("already at the start node")

// ErrUnknownQuestion is returned when an answer targets a question id that
// does not exist in the quiz.
var ErrUnknownQuestion = errors.New("unknown question")

// ErrUnknownNode is returned when a state references a node id that does not
// exist in the quiz (e.g. a stale persisted run).
var ErrUnknownNode = errors.New("unknown node")
