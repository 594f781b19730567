// Package graph renders the dialog graph for inspection tooling.
package graph

import (
	"fmt"
	"strings"

	"github.com/agenthub/agenthub/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of the dialog graph.
// Shapes carry semantics: the router and terminal marker are circles,
// the human proxy is a subroutine, specialists are rectangles.
func GenerateMermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range domain.Nodes {
		opener, closer := "[", "]"
		switch id {
		case domain.NodeRouter:
			opener, closer = "((", "))"
		case domain.NodeHumanProxy:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, id, closer))
	}
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", domain.NodeEnd, domain.NodeEnd))

	for _, e := range domain.Edges {
		arrow := "-->"
		// Handoffs out of the graph render dotted.
		if e[1] == domain.NodeHumanProxy || e[1] == domain.NodeEnd {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", e[0], arrow, e[1]))
	}

	return sb.String()
}
