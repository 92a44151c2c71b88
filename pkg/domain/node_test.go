package domain

import "testing"

func TestNode_Resolve(t *testing.T) {
	node := &Node{
		ID:       "details",
		Kind:     KindBranch,
		Variable: "service_type",
		Cases: map[string]BranchCase{
			"leak_repair": {Key: "leak_repair", Questions: []string{"Where is the leak?"}},
		},
	}

	t.Run("Matched by normalized label", func(t *testing.T) {
		target := node.Resolve("Leak Repair", true)
		matched, ok := target.(MatchedCase)
		if !ok {
			t.Fatalf("expected MatchedCase, got %T", target)
		}
		if matched.Case.Key != "leak_repair" {
			t.Errorf("unexpected case key %q", matched.Case.Key)
		}
	})

	t.Run("Unmapped value", func(t *testing.T) {
		target := node.Resolve("Roof Repair", true)
		miss, ok := target.(UnrecognizedCase)
		if !ok {
			t.Fatalf("expected UnrecognizedCase, got %T", target)
		}
		if !miss.Present || miss.Value != "Roof Repair" {
			t.Errorf("unexpected miss %+v", miss)
		}
	})

	t.Run("Missing variable", func(t *testing.T) {
		target := node.Resolve("", false)
		miss, ok := target.(UnrecognizedCase)
		if !ok {
			t.Fatalf("expected UnrecognizedCase, got %T", target)
		}
		if miss.Present {
			t.Error("expected Present=false for a missing variable")
		}
	})
}

func TestSession_Clone(t *testing.T) {
	s := NewSession("sess-1")
	s.Record("Emergency?", "No", "is_emergency")
	s.Say(Message{Text: "Pick one", Options: []string{"A", "B"}})
	s.Branch = &BranchProgress{NodeID: "details", Questions: []string{"q1"}}

	c := s.Clone()
	c.Captured["is_emergency"] = "Yes"
	c.Answers[0].Answer = "Yes"
	c.Transcript[0].Options[0] = "Z"
	c.Branch.Questions[0] = "changed"

	if s.Captured["is_emergency"] != "No" {
		t.Error("clone shares captured map")
	}
	if s.Answers[0].Answer != "No" {
		t.Error("clone shares answers")
	}
	if s.Transcript[0].Options[0] != "A" {
		t.Error("clone shares transcript options")
	}
	if s.Branch.Questions[0] != "q1" {
		t.Error("clone shares branch progress")
	}
}
