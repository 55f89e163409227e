package domain

// AdvanceStatus classifies the result of an advance operation.
type AdvanceStatus string

const (
	// AdvanceMoved means the run moved to a non-terminal node.
	AdvanceMoved AdvanceStatus = "moved"
	// AdvanceCompleted means the run entered an end node and is now terminal.
	AdvanceCompleted AdvanceStatus = "completed"
	// AdvanceBlocked means the run stayed put; see Reason.
	AdvanceBlocked AdvanceStatus = "blocked"
)

// BlockReason explains why an advance was blocked.
type BlockReason string

const (
	// BlockNoTransition: no transition on the current node matched the
	// collected responses. A dead end requiring host intervention, distinct
	// from a designed end node.
	BlockNoTransition BlockReason = "no_transition"
	// BlockRequiredUnanswered: the current node has required questions
	// without a valid response.
	BlockRequiredUnanswered BlockReason = "required_unanswered"
)

// AdvanceResult is the structured outcome of an advance operation.
// A blocked advance is a reported outcome, not an error.
type AdvanceResult struct {
	Status AdvanceStatus `json:"status"`
	// NodeID is the node entered, when Status is moved or completed.
	NodeID string `json:"nodeId,omitempty"`
	// Reason is set when Status is blocked.
	Reason BlockReason `json:"reason,omitempty"`
	// Unanswered lists the offending question ids for required_unanswered.
	Unanswered []string `json:"unanswered,omitempty"`
}
