package runtime

import (
	"context"
	"time"

	"github.com/aretw0/espalier/pkg/conditions"
	"github.com/aretw0/espalier/pkg/domain"
)

// Advance resolves the current node's transitions against the collected
// responses and moves the run to the first match, in declared order.
//
// A no-match is a reported AdvanceBlocked outcome with the state unchanged,
// not an error: the node is a dead end until the host collects different
// answers. Entering an end node completes the run.
func (e *Engine) Advance(ctx context.Context, state *domain.RunState) (*domain.RunState, domain.AdvanceResult, error) {
	if state.Completed {
		return state, domain.AdvanceResult{}, domain.ErrRunCompleted
	}

	current, err := e.index.node(state.CurrentNodeID)
	if err != nil {
		return state, domain.AdvanceResult{}, err
	}
	if current.IsEnd {
		return state, domain.AdvanceResult{}, domain.ErrAtEndNode
	}

	if !e.lenientAdvance {
		if unanswered := e.missingRequired(current, state); len(unanswered) > 0 {
			e.logger.DebugContext(ctx, "advance blocked on required questions",
				"node", current.ID,
				"unanswered", unanswered,
			)
			return state, domain.AdvanceResult{
				Status:     domain.AdvanceBlocked,
				Reason:     domain.BlockRequiredUnanswered,
				Unanswered: unanswered,
			}, nil
		}
	}

	nextNodeID, ok := resolveNext(current, state.Responses)
	if !ok {
		e.logger.DebugContext(ctx, "no transition matched", "node", current.ID)
		return state, domain.AdvanceResult{
			Status: domain.AdvanceBlocked,
			Reason: domain.BlockNoTransition,
		}, nil
	}

	target, err := e.index.node(nextNodeID)
	if err != nil {
		return state, domain.AdvanceResult{}, err
	}

	next := state.Clone()
	next.CurrentNodeID = target.ID
	next.VisitedNodes = append(next.VisitedNodes, target.ID)
	next.LastUpdated = time.Now().UTC()

	e.emitNodeEvent(ctx, e.hooks.OnNodeLeave, domain.EventNodeLeave, "", current.ID)
	e.emitNodeEvent(ctx, e.hooks.OnNodeEnter, domain.EventNodeEnter, "", target.ID)

	result := domain.AdvanceResult{Status: domain.AdvanceMoved, NodeID: target.ID}
	if target.IsEnd {
		next.Completed = true
		next.EndNodeID = target.ID
		result.Status = domain.AdvanceCompleted
		e.logger.InfoContext(ctx, "run completed", "end_node", target.ID)
		e.emitNodeEvent(ctx, e.hooks.OnRunComplete, domain.EventRunComplete, "", target.ID)
	} else {
		e.logger.DebugContext(ctx, "advanced", "from", current.ID, "to", target.ID)
	}
	return next, result, nil
}

// GoBack returns the run to the previously visited node. Only permitted when
// the quiz enables back-tracking, and never past the start node. Responses
// recorded on the node being left are kept.
func (e *Engine) GoBack(ctx context.Context, state *domain.RunState) (*domain.RunState, error) {
	if state.Completed {
		return state, domain.ErrRunCompleted
	}
	if !e.quiz.BackTrackingAllowed() {
		return state, domain.ErrBackTrackingDisabled
	}
	if len(state.VisitedNodes) <= 1 {
		return state, domain.ErrAtStartNode
	}

	next := state.Clone()
	leaving := next.CurrentNodeID
	next.VisitedNodes = next.VisitedNodes[:len(next.VisitedNodes)-1]
	next.CurrentNodeID = next.VisitedNodes[len(next.VisitedNodes)-1]
	next.LastUpdated = time.Now().UTC()

	e.logger.DebugContext(ctx, "went back", "from", leaving, "to", next.CurrentNodeID)
	e.emitNodeEvent(ctx, e.hooks.OnNodeLeave, domain.EventNodeLeave, "", leaving)
	e.emitNodeEvent(ctx, e.hooks.OnNodeEnter, domain.EventNodeEnter, "", next.CurrentNodeID)
	return next, nil
}

// CurrentNode returns the node the run is positioned on.
func (e *Engine) CurrentNode(state *domain.RunState) (*domain.Node, error) {
	return e.index.node(state.CurrentNodeID)
}

// resolveNext picks the first transition, in declared order, whose combined
// conditions hold. Reports false when none match.
func resolveNext(node *domain.Node, responses map[string]domain.Response) (string, bool) {
	for _, t := range node.Transitions {
		if conditions.EvaluateTransition(t, responses) {
			return t.NextNodeID, true
		}
	}
	return "", false
}

// missingRequired lists the node's required questions that have no valid
// response yet.
func (e *Engine) missingRequired(node *domain.Node, state *domain.RunState) []string {
	var missing []string
	for i := range node.Questions {
		q := &node.Questions[i]
		if !q.Required {
			continue
		}
		resp, ok := state.Responses[q.ID]
		if !ok || !resp.IsValid || domain.IsEmpty(resp.Value) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}
