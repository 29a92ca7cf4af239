package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tendero/pkg/domain"
)

// GraphOverlay contains session data to highlight on the graph.
type GraphOverlay struct {
	CurrentState domain.StateID
}

// GenerateMermaid produces a Mermaid flowchart from the transition graph.
// It applies semantic styling:
// - INITIAL: ((Circle))
// - CONFIRMING: {Decision}
// - Any other state waits for input: [/Parallelogram/]
// Arcs into or out of the registration sub-flow are dotted.
func GenerateMermaid(edges []domain.Edge, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.StateID]bool)
	declare := func(id domain.StateID) {
		if declared[id] {
			return
		}
		declared[id] = true

		opener, closer := "[/", "/]"
		switch id {
		case domain.StateInitial:
			opener, closer = "((", "))"
		case domain.StateConfirming:
			opener, closer = "{", "}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(id), opener, id, closer)
	}

	for _, e := range edges {
		declare(e.From)
		declare(e.To)
	}

	for _, e := range edges {
		isJump := e.From.IsRegistration() || e.To.IsRegistration()

		arrow := "-->"
		if isJump {
			arrow = "-.->"
		}
		if e.Condition != "" {
			// Escape double quotes in condition for Mermaid label
			safeCondition := strings.ReplaceAll(e.Condition, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", safeCondition)
			if isJump {
				arrow = fmt.Sprintf("-. \"%s\" .->", safeCondition)
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To))
	}

	if overlay != nil && overlay.CurrentState != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
	}

	return sb.String()
}

func sanitizeMermaidID(id domain.StateID) string {
	s := strings.ReplaceAll(string(id), ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
