package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/easybake/pkg/dag"
	"github.com/aretw0/easybake/pkg/domain"
)

// GraphOverlay contains the task states of a run to visualize on the graph.
type GraphOverlay struct {
	States map[domain.TaskID]string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a task graph.
// It applies semantic styling:
// - Root: (["Stadium"])
// - Branch: {"Rhombus"}
// - Default: ["Rectangle"]
// Edges into nodes that run when at least one upstream succeeded are dotted.
// It also applies overlay styles (success/skipped/failed) if provided.
func GenerateMermaid(g *dag.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := g.IDs()
	for _, id := range ids {
		node, _ := g.Node(id)

		opener, closer := "[", "]"
		switch {
		case node.Kind == dag.KindBranch:
			opener, closer = "{", "}"
		case len(node.Upstream) == 0:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(string(id)), opener, id, closer)
	}

	for _, id := range ids {
		node, _ := g.Node(id)
		arrow := "-->"
		if node.Trigger == dag.NoneFailedMinOneSuccess {
			arrow = "-.->"
		}
		for _, up := range node.Upstream {
			fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(string(up)), arrow, sanitizeMermaidID(string(id)))
		}
	}

	if overlay != nil && len(overlay.States) > 0 {
		sb.WriteString("\n    %% Run Overlay\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef success fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef skipped fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000;\n")

		for _, id := range ids {
			var class string
			switch overlay.States[id] {
			case "success":
				class = "success"
			case "skipped":
				class = "skipped"
			case "failed", "upstream_failed":
				class = "failed"
			default:
				continue
			}
			fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(string(id)), class)
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
