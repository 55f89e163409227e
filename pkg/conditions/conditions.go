// Package conditions implements the predicate evaluation used for branching.
//
// Evaluation is pure: a condition plus the collected responses yields a
// boolean, never an error. Type mismatches (CONTAINS on a scalar, MATCHES on
// a number) degrade to "condition not met" instead of failing the run, since
// the graph validator already rejected structurally broken conditions.
package conditions

import (
	"regexp"

	"github.com/aretw0/espalier/pkg/domain"
)

// Evaluate computes a single condition against the collected responses.
// A condition can never be satisfied by an unanswered question: if no
// response exists for the condition's question id, the result is false for
// every operator, NOT_EQUALS included.
func Evaluate(c domain.Condition, responses map[string]domain.Response) bool {
	resp, ok := responses[c.QuestionID]
	if !ok {
		return false
	}
	value := resp.Value

	switch c.Operator {
	case domain.OpEquals:
		return domain.Equal(value, c.Value)

	case domain.OpNotEquals:
		return !domain.Equal(value, c.Value)

	case domain.OpContains:
		return listContains(value, c.Value)

	case domain.OpNotContains:
		list, ok := domain.List(value)
		if !ok {
			return false
		}
		for _, elem := range list {
			if domain.Equal(elem, c.Value) {
				return false
			}
		}
		return true

	case domain.OpGreaterThan:
		cmp, ok := compare(value, c.Value)
		return ok && cmp > 0

	case domain.OpLessThan:
		cmp, ok := compare(value, c.Value)
		return ok && cmp < 0

	case domain.OpBetween:
		// Strictly exclusive on both ends. Both bounds must be present and of
		// a matching kind (all-numeric or all-date); anything else is false.
		if c.Value == nil || c.AdditionalValue == nil {
			return false
		}
		lower, ok := compare(value, c.Value)
		if !ok || lower <= 0 {
			return false
		}
		upper, ok := compare(value, c.AdditionalValue)
		return ok && upper < 0

	case domain.OpMatches:
		s, ok := value.(string)
		if !ok {
			return false
		}
		pattern, ok := c.Value.(string)
		if !ok {
			return false
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	}

	// Unknown operators are rejected at quiz load time; this branch is only
	// reachable through hand-built conditions.
	return false
}

// EvaluateTransition combines a transition's conditions per its combination
// type. An empty condition list is vacuously true: the transition always
// fires. Exposed for hosts that want to preview branching without mutating a
// run.
func EvaluateTransition(t domain.Transition, responses map[string]domain.Response) bool {
	if len(t.Conditions) == 0 {
		return true
	}

	if t.Combination() == domain.CombineOr {
		for _, c := range t.Conditions {
			if Evaluate(c, responses) {
				return true
			}
		}
		return false
	}

	for _, c := range t.Conditions {
		if !Evaluate(c, responses) {
			return false
		}
	}
	return true
}

func listContains(value, needle any) bool {
	list, ok := domain.List(value)
	if !ok {
		return false
	}
	for _, elem := range list {
		if domain.Equal(elem, needle) {
			return true
		}
	}
	return false
}

// compare orders two values of a matching kind. Instants order as dates;
// otherwise both sides must be numeric. Mixed kinds are not comparable.
func compare(a, b any) (int, bool) {
	if at, ok := domain.Instant(a); ok {
		if bt, ok := domain.Instant(b); ok {
			switch {
			case at.Before(bt):
				return -1, true
			case at.After(bt):
				return 1, true
			}
			return 0, true
		}
	}
	an, ok := domain.Number(a)
	if !ok {
		return 0, false
	}
	bn, ok := domain.Number(b)
	if !ok {
		return 0, false
	}
	switch {
	case an < bn:
		return -1, true
	case an > bn:
		return 1, true
	}
	return 0, true
}
