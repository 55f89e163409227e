// Package graph renders quiz definitions as Mermaid flowcharts, optionally
// overlaying run progress on top of the static structure.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// Overlay contains dynamic run state to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart from a quiz definition.
// Shapes carry semantics:
//   - start node: ((circle))
//   - end node: [[subroutine]]
//   - node with questions: [/parallelogram/] (input)
//   - otherwise: [rectangle]
//
// Visited and current nodes are styled when an overlay is provided.
func GenerateMermaid(quiz *domain.Quiz, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range quiz.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.IsStart:
			opener, closer = "((", "))"
		case node.IsEnd:
			opener, closer = "[[", "]]"
		case len(node.Questions) > 0:
			opener, closer = "[/", "/]"
		}

		label := node.Title
		if label == "" {
			label = node.ID
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer))

		for _, t := range node.Transitions {
			safeTo := sanitizeMermaidID(t.NextNodeID)
			arrow := "-->"
			if desc := describeTransition(t); desc != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(desc))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of the viewer's theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !visitedSet[safeID] {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

// describeTransition summarizes a transition's guard for the edge label.
func describeTransition(t domain.Transition) string {
	if len(t.Conditions) == 0 {
		return ""
	}

	parts := make([]string, 0, len(t.Conditions))
	for _, c := range t.Conditions {
		parts = append(parts, describeCondition(c))
	}

	joiner := " AND "
	if t.Combination() == domain.CombineOr {
		joiner = " OR "
	}
	return strings.Join(parts, joiner)
}

func describeCondition(c domain.Condition) string {
	switch c.Operator {
	case domain.OpEquals:
		return fmt.Sprintf("%s = %v", c.QuestionID, c.Value)
	case domain.OpNotEquals:
		return fmt.Sprintf("%s != %v", c.QuestionID, c.Value)
	case domain.OpContains:
		return fmt.Sprintf("%s has %v", c.QuestionID, c.Value)
	case domain.OpNotContains:
		return fmt.Sprintf("%s lacks %v", c.QuestionID, c.Value)
	case domain.OpGreaterThan:
		return fmt.Sprintf("%s > %v", c.QuestionID, c.Value)
	case domain.OpLessThan:
		return fmt.Sprintf("%s < %v", c.QuestionID, c.Value)
	case domain.OpBetween:
		return fmt.Sprintf("%v < %s < %v", c.Value, c.QuestionID, c.AdditionalValue)
	case domain.OpMatches:
		return fmt.Sprintf("%s ~ %v", c.QuestionID, c.Value)
	}
	return c.QuestionID
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return replacer.Replace(id)
}
