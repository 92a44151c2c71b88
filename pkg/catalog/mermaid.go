package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// Overlay contains session state to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// Mermaid produces a Mermaid flowchart of the catalog.
// Shapes:
// - Start: ((Circle))
// - Choice: [/Parallelogram/]
// - Branch: {Rhombus}
// - Free text: [Rectangle]
// Nodes without a successor fall through to the follow-up and review stages.
func Mermaid(c *Catalog, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sinks := false
	for _, id := range c.order {
		node := c.nodes[id]
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == c.Start:
			opener, closer = "((", "))"
		case node.Kind == domain.KindChoice:
			opener, closer = "[/", "/]"
		case node.Kind == domain.KindBranch:
			opener, closer = "{", "}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer)

		if node.Kind == domain.KindBranch {
			keys := make([]string, 0, len(node.Cases))
			for k := range node.Cases {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				caseID := safeID + "__" + sanitizeMermaidID(k)
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s([\"%d questions\"])\n", safeID, k, caseID, len(node.Cases[k].Questions))
			}
		}

		target := domain.FollowUpStage
		if node.Next != "" {
			target = sanitizeMermaidID(node.Next)
		} else {
			sinks = true
		}
		fmt.Fprintf(&sb, "    %s --> %s\n", safeID, target)
	}

	if sinks {
		fmt.Fprintf(&sb, "    %s[[\"follow-up\"]] --> %s((\"review\"))\n", domain.FollowUpStage, domain.ReviewStage)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on light fills regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

// OverlayFor derives the visited and current nodes of a session.
func OverlayFor(c *Catalog, s *domain.Session) *Overlay {
	o := &Overlay{CurrentNode: s.CurrentNodeID}
	for _, id := range c.order {
		if _, ok := s.Captured[c.nodes[id].CaptureKey]; ok {
			o.VisitedNodes = append(o.VisitedNodes, id)
		}
	}
	return o
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
