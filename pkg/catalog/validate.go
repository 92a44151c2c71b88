package catalog

import (
	"fmt"
	"strings"

	"github.com/richfrem/quoteagent/pkg/domain"
)

// ValidationError lists every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid catalog: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid catalog: found %d errors:\n- %s", len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// Validate checks node definitions and crawls the graph from the start node.
// A branch variable must be captured by a node visited before the branch.
func Validate(c *Catalog) error {
	var problems []string

	for _, id := range c.order {
		problems = append(problems, checkNode(c, c.nodes[id])...)
	}

	if c.Start == "" {
		problems = append(problems, "start node is not set")
	} else if _, ok := c.nodes[c.Start]; !ok {
		problems = append(problems, fmt.Sprintf("start node '%s' not found", c.Start))
	} else {
		problems = append(problems, crawl(c)...)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func checkNode(c *Catalog, n *domain.Node) []string {
	var problems []string
	if n.ID == domain.ReviewStage || n.ID == domain.FollowUpStage {
		problems = append(problems, fmt.Sprintf("node id '%s' is reserved", n.ID))
	}
	if !n.Kind.Valid() {
		problems = append(problems, fmt.Sprintf("node '%s': unknown type '%s'", n.ID, n.Kind))
	}
	if n.Next != "" {
		if _, ok := c.nodes[n.Next]; !ok {
			problems = append(problems, fmt.Sprintf("node '%s': next node '%s' not found", n.ID, n.Next))
		}
	}

	switch n.Kind {
	case domain.KindChoice:
		if len(n.Options) == 0 {
			problems = append(problems, fmt.Sprintf("node '%s': choice node has no options", n.ID))
		}
		if n.Prompt == "" {
			problems = append(problems, fmt.Sprintf("node '%s': missing prompt", n.ID))
		}
	case domain.KindFreeText:
		if n.Prompt == "" {
			problems = append(problems, fmt.Sprintf("node '%s': missing prompt", n.ID))
		}
	case domain.KindBranch:
		if n.Variable == "" {
			problems = append(problems, fmt.Sprintf("node '%s': branch node has no variable", n.ID))
		}
		if len(n.Cases) == 0 {
			problems = append(problems, fmt.Sprintf("node '%s': branch node has no cases", n.ID))
		}
		for key, bc := range n.Cases {
			for i, q := range bc.Questions {
				if strings.TrimSpace(q) == "" {
					problems = append(problems, fmt.Sprintf("node '%s': case '%s' question %d is empty", n.ID, key, i+1))
				}
			}
		}
	}
	return problems
}

// crawl walks the next chain from the start node. Every node has at most one
// successor, so the reachable nodes form a single path.
func crawl(c *Catalog) []string {
	var problems []string
	visited := make(map[string]bool)
	captured := make(map[string]bool)

	for id := c.Start; id != ""; {
		if visited[id] {
			problems = append(problems, fmt.Sprintf("next chain loops back to '%s'", id))
			break
		}
		visited[id] = true

		n, ok := c.nodes[id]
		if !ok {
			// Reported by checkNode.
			break
		}
		if n.Kind == domain.KindBranch && n.Variable != "" && !captured[n.Variable] {
			problems = append(problems, fmt.Sprintf("node '%s': variable '%s' is not captured by an earlier node", n.ID, n.Variable))
		}
		if n.Kind != domain.KindBranch {
			captured[n.CaptureKey] = true
		}
		id = n.Next
	}
	return problems
}

// Unreachable returns the ids of nodes that cannot be reached from the start node.
func Unreachable(c *Catalog) []string {
	reached := make(map[string]bool)
	for id := c.Start; id != "" && !reached[id]; {
		n, ok := c.nodes[id]
		if !ok {
			break
		}
		reached[id] = true
		id = n.Next
	}

	var out []string
	for _, id := range c.order {
		if !reached[id] {
			out = append(out, id)
		}
	}
	return out
}
