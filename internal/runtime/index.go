package runtime

import (
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
)

// graphIndex resolves node and question ids in O(1) during a run.
// Built once per engine from a validated quiz.
type graphIndex struct {
	nodes       map[string]*domain.Node
	questions   map[string]*domain.Question
	startNodeID string
}

func buildIndex(quiz *domain.Quiz) (*graphIndex, error) {
	if quiz == nil {
		return nil, fmt.Errorf("quiz is nil")
	}

	idx := &graphIndex{
		nodes:     make(map[string]*domain.Node, len(quiz.Nodes)),
		questions: make(map[string]*domain.Question),
	}

	for i := range quiz.Nodes {
		node := &quiz.Nodes[i]
		idx.nodes[node.ID] = node
		if node.IsStart {
			idx.startNodeID = node.ID
		}
		for j := range node.Questions {
			q := &node.Questions[j]
			idx.questions[q.ID] = q
		}
	}

	if idx.startNodeID == "" {
		return nil, fmt.Errorf("quiz %q has no start node; validate it before running", quiz.ID)
	}
	return idx, nil
}

// node resolves a node id from a run state, guarding against stale persisted
// runs that reference nodes removed from the graph.
func (idx *graphIndex) node(id string) (*domain.Node, error) {
	node, ok := idx.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownNode, id)
	}
	return node, nil
}
