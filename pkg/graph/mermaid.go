package graph

import (
	"fmt"
	"strings"
)

// Mermaid produces a Mermaid flowchart of the declared edges.
// The entry node is drawn as a circle and Terminal as a stadium.
func (g *Graph) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, name := range g.order {
		safeID := sanitizeMermaidID(name)
		opener, closer := "[", "]"
		if name == g.entry {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, name, closer))
	}
	sb.WriteString(fmt.Sprintf("    %s([\"END\"])\n", sanitizeMermaidID(Terminal)))

	for _, name := range g.order {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(name), sanitizeMermaidID(g.nodes[name].Next)))
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
