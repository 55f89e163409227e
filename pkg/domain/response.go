package domain

import "time"

// Response records one submitted answer.
// Responses are keyed by question id in the run state and overwritten on
// re-answer.
type Response struct {
	QuestionID string    `json:"questionId" yaml:"questionId"`
	Value      any       `json:"value" yaml:"value"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	IsValid    bool      `json:"isValid" yaml:"isValid"`

	// ValidationErrors holds human-readable messages when IsValid is false.
	ValidationErrors []string `json:"validationErrors,omitempty" yaml:"validationErrors,omitempty"`
}

// NewResponse builds a Response stamped with the current time.
func NewResponse(questionID string, value any, isValid bool, validationErrors []string) Response {
	return Response{
		QuestionID:       questionID,
		Value:            value,
		Timestamp:        time.Now().UTC(),
		IsValid:          isValid,
		ValidationErrors: validationErrors,
	}
}
