package domain

// Operator identifies a condition predicate.
type Operator string

// Supported operators. Unknown operators are rejected at quiz load time.
const (
	OpEquals      Operator = "EQUALS"
	OpNotEquals   Operator = "NOT_EQUALS"
	OpContains    Operator = "CONTAINS"
	OpNotContains Operator = "NOT_CONTAINS"
	OpGreaterThan Operator = "GREATER_THAN"
	OpLessThan    Operator = "LESS_THAN"
	OpBetween     Operator = "BETWEEN"
	OpMatches     Operator = "MATCHES"
)

// KnownOperator reports whether op is one of the supported operators.
func KnownOperator(op Operator) bool {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpNotContains,
		OpGreaterThan, OpLessThan, OpBetween, OpMatches:
		return true
	}
	return false
}

// Condition is a single predicate over one answered question's value.
// Value and AdditionalValue may be a string, number, boolean, instant, or a
// list of primitives. AdditionalValue is the upper bound of BETWEEN and is
// unused by every other operator.
type Condition struct {
	QuestionID      string   `json:"questionId" yaml:"questionId" mapstructure:"questionId"`
	Operator        Operator `json:"operator" yaml:"operator" mapstructure:"operator"`
	Value           any      `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
	AdditionalValue any      `json:"additionalValue,omitempty" yaml:"additionalValue,omitempty" mapstructure:"additionalValue"`
}
