package dsl

import "github.com/aretw0/espalier/pkg/domain"

// QuestionOption customizes a question being added to a node.
type QuestionOption func(*domain.Question)

// Required marks the question as mandatory.
func Required() QuestionOption {
	return func(q *domain.Question) {
		q.Required = true
	}
}

// Placeholder sets the input placeholder text.
func Placeholder(text string) QuestionOption {
	return func(q *domain.Question) {
		q.Placeholder = text
	}
}

// Description sets the question help text.
func Description(text string) QuestionOption {
	return func(q *domain.Question) {
		q.Description = text
	}
}

// Multiple allows multiple files on a file question.
func Multiple() QuestionOption {
	return func(q *domain.Question) {
		q.Multiple = true
	}
}

// Default sets the value used when the respondent leaves the question blank.
func Default(value any) QuestionOption {
	return func(q *domain.Question) {
		q.DefaultValue = value
	}
}

// Options sets the selectable choices, using each value as its own label.
func Options(values ...any) QuestionOption {
	return func(q *domain.Question) {
		for _, v := range values {
			q.Options = append(q.Options, domain.Option{Value: v})
		}
	}
}

// LabelledOption appends a single choice with a display label.
func LabelledOption(value any, label string) QuestionOption {
	return func(q *domain.Question) {
		q.Options = append(q.Options, domain.Option{Value: value, Label: label})
	}
}

// Validation attaches a validation rule to the question.
func Validation(rule domain.Rule) QuestionOption {
	return func(q *domain.Question) {
		q.Validation = &rule
	}
}

// Condition helpers for use with When, WhenAll and WhenAny.

// Equals matches when the response equals value.
func Equals(questionID string, value any) domain.Condition {
	return domain.Condition{QuestionID: questionID, Operator: domain.OpEquals, Value: value}
}

// NotEquals matches when the response differs from value.
func NotEquals(questionID string, value any) domain.Condition {
	return domain.Condition{QuestionID: questionID, Operator: domain.OpNotEquals, Value: value}
}

// Contains matches when a multi-valued response includes value.
func Contains(questionID string, value any) domain.Condition {
	return domain.Condition{QuestionID: questionID, Operator: domain.OpContains, Value: value}
}

// NotContains matches when a multi-valued response excludes value.
func NotContains(questionID string, value any) domain.Condition {
	return domain.Condition{QuestionID: questionID, Operator: domain.OpNotContains, Value: value}
}

// GreaterThan matches when the response exceeds value.
func GreaterThan(questionID string, value any) domain.Condition {
	return domain.Condition{QuestionID: questionID, Operator: domain.OpGreaterThan, Value: value}
}

// LessThan matches when the response is below value.
func LessThan(questionID string, value any) domain.Condition {
	return domain.Condition{QuestionID: questionID, Operator: domain.OpLessThan, Value: value}
}

// Between matches when the response lies strictly between lo and hi.
func Between(questionID string, lo, hi any) domain.Condition {
	return domain.Condition{QuestionID: questionID, Operator: domain.OpBetween, Value: lo, AdditionalValue: hi}
}

// Matches matches when the string response satisfies the regular expression.
func Matches(questionID, pattern string) domain.Condition {
	return domain.Condition{QuestionID: questionID, Operator: domain.OpMatches, Value: pattern}
}
