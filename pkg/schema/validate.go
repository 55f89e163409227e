package schema

import (
	"fmt"
	"regexp"

	"github.com/aretw0/espalier/pkg/domain"
)

// ValidateQuiz checks the structural integrity of a quiz graph.
// It returns nil for a valid quiz, or an *AggregateError collecting every
// *SchemaError found. An invalid quiz must never be handed to the engine.
func ValidateQuiz(quiz *domain.Quiz) error {
	v := &validator{}

	if quiz == nil {
		v.add("", "quiz is nil")
		return v.result()
	}
	if quiz.ID == "" {
		v.add("quiz", "missing id")
	}
	if len(quiz.Nodes) == 0 {
		v.add("quiz", "no nodes defined")
		return v.result()
	}

	v.collectIDs(quiz)
	v.checkStartEnd(quiz)
	for i := range quiz.Nodes {
		v.checkNode(&quiz.Nodes[i])
	}
	v.checkReachability(quiz)

	return v.result()
}

type validator struct {
	errs      []error
	nodeIDs   map[string]bool
	questions map[string]bool
}

func (v *validator) add(path, format string, args ...any) {
	v.errs = append(v.errs, &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)})
}

func (v *validator) result() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: v.errs}
}

// collectIDs indexes node and question ids, reporting duplicates and blanks.
func (v *validator) collectIDs(quiz *domain.Quiz) {
	v.nodeIDs = make(map[string]bool)
	v.questions = make(map[string]bool)

	for i := range quiz.Nodes {
		node := &quiz.Nodes[i]
		if node.ID == "" {
			v.add(fmt.Sprintf("node[%d]", i), "missing id")
			continue
		}
		if v.nodeIDs[node.ID] {
			v.add(nodePath(node.ID), "duplicate node id")
		}
		v.nodeIDs[node.ID] = true

		for j := range node.Questions {
			q := &node.Questions[j]
			if q.ID == "" {
				v.add(fmt.Sprintf("%s question[%d]", nodePath(node.ID), j), "missing id")
				continue
			}
			if v.questions[q.ID] {
				v.add(questionPath(node.ID, q.ID), "duplicate question id")
			}
			v.questions[q.ID] = true
		}
	}
}

func (v *validator) checkStartEnd(quiz *domain.Quiz) {
	starts := 0
	ends := 0
	for i := range quiz.Nodes {
		if quiz.Nodes[i].IsStart {
			starts++
		}
		if quiz.Nodes[i].IsEnd {
			ends++
		}
	}
	if starts != 1 {
		v.add("quiz", "expected exactly one start node, found %d", starts)
	}
	if ends == 0 {
		v.add("quiz", "no end node defined")
	}
}

func (v *validator) checkNode(node *domain.Node) {
	for j := range node.Questions {
		v.checkQuestion(node.ID, &node.Questions[j])
	}
	for j := range node.Transitions {
		v.checkTransition(node.ID, j, &node.Transitions[j])
	}
}

func (v *validator) checkQuestion(nodeID string, q *domain.Question) {
	path := questionPath(nodeID, q.ID)

	if !domain.KnownQuestionType(q.Type) {
		v.add(path, "unknown question type %q", q.Type)
		return
	}

	if q.Type.HasOptions() {
		if len(q.Options) == 0 {
			v.add(path, "%s question declares no options", q.Type)
		}
		seen := make(map[string]bool, len(q.Options))
		for k, opt := range q.Options {
			key := optionKey(opt.Value)
			if seen[key] {
				v.add(path, "duplicate option value %v (option[%d])", opt.Value, k)
			}
			seen[key] = true
		}
	}

	if q.Validation != nil && q.Validation.Pattern != "" {
		if _, err := regexp.Compile(q.Validation.Pattern); err != nil {
			v.add(path, "invalid pattern: %v", err)
		}
	}
}

func (v *validator) checkTransition(nodeID string, idx int, t *domain.Transition) {
	path := fmt.Sprintf("%s transition[%d]", nodePath(nodeID), idx)

	if t.NextNodeID == "" {
		v.add(path, "missing nextNodeId")
	} else if !v.nodeIDs[t.NextNodeID] {
		v.add(path, "unknown next node %q", t.NextNodeID)
	}

	switch t.CombinationType {
	case "", domain.CombineAnd, domain.CombineOr:
	default:
		v.add(path, "unknown combination type %q", t.CombinationType)
	}

	for k := range t.Conditions {
		v.checkCondition(path, k, &t.Conditions[k])
	}
}

func (v *validator) checkCondition(transitionPath string, idx int, c *domain.Condition) {
	path := fmt.Sprintf("%s condition[%d]", transitionPath, idx)

	if c.QuestionID == "" {
		v.add(path, "missing questionId")
	} else if !v.questions[c.QuestionID] {
		v.add(path, "unknown question %q", c.QuestionID)
	}

	if !domain.KnownOperator(c.Operator) {
		v.add(path, "unknown operator %q", c.Operator)
		return
	}

	switch c.Operator {
	case domain.OpBetween:
		// Strict dual-bound policy: both bounds are required up front, so a
		// half-open BETWEEN never reaches the evaluator.
		if c.Value == nil || c.AdditionalValue == nil {
			v.add(path, "BETWEEN requires both value and additionalValue")
		}
	case domain.OpMatches:
		s, ok := c.Value.(string)
		if !ok {
			v.add(path, "MATCHES requires a string pattern value")
			return
		}
		if _, err := regexp.Compile(s); err != nil {
			v.add(path, "invalid MATCHES pattern: %v", err)
		}
	}
}

// checkReachability crawls the graph from the start node and reports nodes
// the run can never reach. Transitions on end nodes are ignored, matching the
// runtime.
func (v *validator) checkReachability(quiz *domain.Quiz) {
	start := quiz.StartNode()
	if start == nil {
		return // already reported by checkStartEnd
	}

	visited := make(map[string]bool)
	queue := []string{start.ID}
	endReachable := false

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]
		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		node := quiz.NodeByID(currentID)
		if node == nil {
			continue // dangling refs already reported per transition
		}
		if node.IsEnd {
			endReachable = true
			continue
		}
		for _, t := range node.Transitions {
			if t.NextNodeID != "" && !visited[t.NextNodeID] {
				queue = append(queue, t.NextNodeID)
			}
		}
	}

	if !endReachable {
		v.add("quiz", "no end node is reachable from the start node")
	}
	for i := range quiz.Nodes {
		if id := quiz.Nodes[i].ID; id != "" && !visited[id] {
			v.add(nodePath(id), "unreachable from the start node")
		}
	}
}

func nodePath(id string) string {
	return fmt.Sprintf("node %q", id)
}

func questionPath(nodeID, questionID string) string {
	return fmt.Sprintf("%s question %q", nodePath(nodeID), questionID)
}

// optionKey normalizes option values so 2 and 2.0 collide as intended.
func optionKey(v any) string {
	if n, ok := domain.Number(v); ok {
		return fmt.Sprintf("n:%v", n)
	}
	return fmt.Sprintf("s:%v", v)
}
