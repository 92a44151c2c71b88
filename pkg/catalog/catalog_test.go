package catalog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/richfrem/quoteagent/pkg/catalog"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := catalog.Load("testdata/quote-agent.yaml")
	require.NoError(t, err)

	assert.Equal(t, "emergency", c.Start)
	assert.Equal(t, "service_type", c.ServiceKey)
	assert.Equal(t, "is_emergency", c.EmergencyKey)
	assert.Equal(t, 4, c.Len())

	property, ok := c.Node("property_type")
	require.True(t, ok)
	assert.Equal(t, domain.KindChoice, property.Kind)
	assert.Equal(t, "property_type", property.CaptureKey, "capture key defaults to the node id")
	assert.Equal(t, []string{"Residential", "Commercial"}, property.Options)

	branch, ok := c.Node("service_details")
	require.True(t, ok)
	assert.Equal(t, domain.KindBranch, branch.Kind)
	assert.Empty(t, branch.Next)
	require.Contains(t, branch.Cases, "leak_repair")
	assert.Len(t, branch.Cases["leak_repair"].Questions, 2)

	assert.Empty(t, catalog.Unreachable(c))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalog.Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog")
}

func TestLoad_Broken(t *testing.T) {
	_, err := catalog.Load("testdata/broken.yaml")
	require.Error(t, err)

	var verr *catalog.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %T", err)
	assert.Contains(t, err.Error(), "duplicate node id 'intro'")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "Malformed YAML",
			yaml:    "start: [unterminated",
			wantErr: "failed to parse catalog",
		},
		{
			name:    "Missing start",
			yaml:    "nodes:\n  - {id: a, type: free_text, prompt: A}\n",
			wantErr: "start node is not set",
		},
		{
			name:    "Unknown start",
			yaml:    "start: ghost\nnodes:\n  - {id: a, type: free_text, prompt: A}\n",
			wantErr: "start node 'ghost' not found",
		},
		{
			name:    "Unknown type",
			yaml:    "start: a\nnodes:\n  - {id: a, type: slider, prompt: A}\n",
			wantErr: "unknown type 'slider'",
		},
		{
			name:    "Choice without options",
			yaml:    "start: a\nnodes:\n  - {id: a, type: choice, prompt: A}\n",
			wantErr: "choice node has no options",
		},
		{
			name:    "Dangling next",
			yaml:    "start: a\nnodes:\n  - {id: a, type: free_text, prompt: A, next: ghost}\n",
			wantErr: "next node 'ghost' not found",
		},
		{
			name:    "Reserved id",
			yaml:    "start: review_summary\nnodes:\n  - {id: review_summary, type: free_text, prompt: A}\n",
			wantErr: "reserved",
		},
		{
			name: "Branch before capture",
			yaml: `start: details
nodes:
  - id: details
    type: branch
    variable: service_type
    next: service
    cases:
      drains: ["Which drain?"]
  - id: service
    type: choice
    prompt: Service?
    options: [Drains]
    capture: service_type
`,
			wantErr: "variable 'service_type' is not captured by an earlier node",
		},
		{
			name: "Cycle",
			yaml: `start: a
nodes:
  - {id: a, type: free_text, prompt: A, next: b}
  - {id: b, type: free_text, prompt: B, next: a}
`,
			wantErr: "loops back to 'a'",
		},
		{
			name: "Colliding cases",
			yaml: `start: service
nodes:
  - {id: service, type: free_text, prompt: S, capture: service_type, next: details}
  - id: details
    type: branch
    variable: service_type
    cases:
      "Drain Cleaning": ["A?"]
      drain_cleaning: ["B?"]
`,
			wantErr: "cases collide on key 'drain_cleaning'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_NormalizesCaseKeys(t *testing.T) {
	c, err := catalog.Parse([]byte(`start: service
nodes:
  - {id: service, type: free_text, prompt: Service?, capture: service_type, next: details}
  - id: details
    type: branch
    variable: service_type
    cases:
      "Leak Detection & Repair": ["Where?"]
`))
	require.NoError(t, err)

	n, _ := c.Node("details")
	target := n.Resolve("leak detection / repair", true)
	matched, ok := target.(domain.MatchedCase)
	require.True(t, ok, "expected a matched case, got %T", target)
	assert.Equal(t, "leak_detection_repair", matched.Case.Key)
}

func TestUnreachable(t *testing.T) {
	c, err := catalog.Parse([]byte(`start: a
nodes:
  - {id: a, type: free_text, prompt: A}
  - {id: orphan, type: free_text, prompt: O}
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan"}, catalog.Unreachable(c))
}

func TestMermaid(t *testing.T) {
	c, err := catalog.Load("testdata/quote-agent.yaml")
	require.NoError(t, err)

	got := catalog.Mermaid(c, nil)
	for _, want := range []string{
		"graph TD",
		`emergency(("emergency"))`,
		`property_type[/"property_type"/]`,
		`service_details{"service_details"}`,
		`service_details -. "leak_repair" .-> service_details__leak_repair(["2 questions"])`,
		"service_details --> follow_up",
		`follow_up[["follow-up"]] --> review_summary(("review"))`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Mermaid() = \n%v\nWant substring: %v", got, want)
		}
	}
	assert.NotContains(t, got, "Overlay Styles")
}

func TestMermaid_Overlay(t *testing.T) {
	c, err := catalog.Load("testdata/quote-agent.yaml")
	require.NoError(t, err)

	s := domain.NewSession("s1")
	s.Record("Emergency?", "No", "is_emergency")
	s.CurrentNodeID = "property_type"

	got := catalog.Mermaid(c, catalog.OverlayFor(c, s))
	assert.Contains(t, got, "class emergency visited;")
	assert.Contains(t, got, "class property_type current;")
	assert.NotContains(t, got, "class service visited;")
}
