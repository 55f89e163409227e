// Package answers validates submitted answer values against their question's
// declared kind and validation rule.
//
// Validation is a pure function: it accumulates every applicable failure into
// a Result instead of short-circuiting, and leaves folding the result into a
// recorded response to the caller.
package answers

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// Result is the outcome of validating one answer.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors,omitempty"`
}

// Validate checks a candidate value against the question's kind and rule.
// Empty values fail only when the question is required; non-empty values are
// checked for shape first, then against the kind-specific rule.
func Validate(q domain.Question, value any) Result {
	if domain.IsEmpty(value) {
		if q.Required {
			return invalid("an answer is required")
		}
		// Signature rules carry their own required flag.
		if q.Type == domain.QuestionSignature && q.Validation != nil && q.Validation.Required {
			return invalid("a signature is required")
		}
		return Result{IsValid: true}
	}

	var errs []string
	switch q.Type {
	case domain.QuestionText:
		errs = checkText(q, value)
	case domain.QuestionNumber:
		errs = checkNumber(q, value)
	case domain.QuestionSelect:
		errs = checkSelect(q, value)
	case domain.QuestionMultiSelect, domain.QuestionCheckboxGroup:
		errs = checkMultiSelect(q, value)
	case domain.QuestionCheckbox:
		errs = checkCheckbox(value)
	case domain.QuestionDate:
		errs = checkDate(q, value)
	case domain.QuestionRating:
		errs = checkRating(q, value)
	case domain.QuestionFile:
		errs = checkFile(q, value)
	case domain.QuestionSignature:
		errs = checkSignature(q, value)
	default:
		// The schema validator rejects unknown kinds at load time; reaching
		// this branch means the question bypassed it.
		errs = []string{fmt.Sprintf("unsupported question type %q", q.Type)}
	}

	if len(errs) > 0 {
		return Result{IsValid: false, Errors: errs}
	}
	return Result{IsValid: true}
}

// NewResponse validates the value and folds the result into a recorded
// response stamped with the current time.
func NewResponse(q domain.Question, value any) domain.Response {
	res := Validate(q, value)
	return domain.NewResponse(q.ID, value, res.IsValid, res.Errors)
}

func invalid(msgs ...string) Result {
	return Result{IsValid: false, Errors: msgs}
}
