package catalog

import (
	"fmt"
	"os"

	"github.com/richfrem/quoteagent/pkg/domain"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a catalog.
type document struct {
	Start        string    `yaml:"start"`
	ServiceKey   string    `yaml:"service_key"`
	EmergencyKey string    `yaml:"emergency_key"`
	Nodes        []rawNode `yaml:"nodes"`
}

type rawNode struct {
	ID       string              `yaml:"id"`
	Type     string              `yaml:"type"`
	Prompt   string              `yaml:"prompt"`
	Options  []string            `yaml:"options"`
	Capture  string              `yaml:"capture"`
	Next     string              `yaml:"next"`
	Variable string              `yaml:"variable"`
	Cases    map[string][]string `yaml:"cases"`
}

// Catalog is an id-indexed, validated node graph.
type Catalog struct {
	Start        string
	ServiceKey   string
	EmergencyKey string

	nodes map[string]*domain.Node
	order []string
}

// Load reads and parses the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		Start:        doc.Start,
		ServiceKey:   doc.ServiceKey,
		EmergencyKey: doc.EmergencyKey,
		nodes:        make(map[string]*domain.Node, len(doc.Nodes)),
	}
	if c.ServiceKey == "" {
		c.ServiceKey = domain.DefaultServiceKey
	}
	if c.EmergencyKey == "" {
		c.EmergencyKey = domain.DefaultEmergencyKey
	}

	var problems []string
	for i, raw := range doc.Nodes {
		node, errs := compile(raw)
		if node.ID == "" {
			problems = append(problems, fmt.Sprintf("node #%d has no id", i+1))
			continue
		}
		problems = append(problems, errs...)
		if _, dup := c.nodes[node.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate node id '%s'", node.ID))
			continue
		}
		c.nodes[node.ID] = node
		c.order = append(c.order, node.ID)
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func compile(raw rawNode) (*domain.Node, []string) {
	node := &domain.Node{
		ID:         raw.ID,
		Kind:       domain.NodeKind(raw.Type),
		Prompt:     raw.Prompt,
		Options:    raw.Options,
		CaptureKey: raw.Capture,
		Next:       raw.Next,
		Variable:   raw.Variable,
	}
	if node.CaptureKey == "" {
		node.CaptureKey = node.ID
	}

	var problems []string
	if len(raw.Cases) > 0 {
		node.Cases = make(map[string]domain.BranchCase, len(raw.Cases))
		for label, questions := range raw.Cases {
			key := domain.NormalizeServiceKey(label)
			if key == "" {
				problems = append(problems, fmt.Sprintf("node '%s': case '%s' normalizes to an empty key", raw.ID, label))
				continue
			}
			if _, dup := node.Cases[key]; dup {
				problems = append(problems, fmt.Sprintf("node '%s': cases collide on key '%s'", raw.ID, key))
				continue
			}
			node.Cases[key] = domain.BranchCase{Key: key, Questions: questions}
		}
	}
	return node, problems
}

// Node returns the node with the given id.
func (c *Catalog) Node(id string) (*domain.Node, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// Nodes returns the nodes in declaration order.
func (c *Catalog) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.nodes[id])
	}
	return out
}

// Len returns the number of nodes.
func (c *Catalog) Len() int {
	return len(c.order)
}
