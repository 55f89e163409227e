package domain

// CombinationType defines how a transition's conditions are combined.
type CombinationType string

const (
	CombineAnd CombinationType = "AND" // every condition must hold (default)
	CombineOr  CombinationType = "OR"  // at least one condition must hold
)

// Transition defines a conditional edge to another node.
// A transition with no conditions always fires (vacuous AND).
type Transition struct {
	Conditions      []Condition     `json:"conditions,omitempty" yaml:"conditions,omitempty" mapstructure:"conditions"`
	NextNodeID      string          `json:"nextNodeId" yaml:"nextNodeId" mapstructure:"nextNodeId"`
	CombinationType CombinationType `json:"combinationType,omitempty" yaml:"combinationType,omitempty" mapstructure:"combinationType"`
}

// Combination returns the effective combination type, defaulting to AND.
func (t Transition) Combination() CombinationType {
	if t.CombinationType == CombineOr {
		return CombineOr
	}
	return CombineAnd
}
