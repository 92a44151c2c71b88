package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	base := NewSession("sess-1")
	base.CurrentNodeID = "emergency"
	base.Say(Message{Text: "Is this an emergency?"})

	t.Run("Initial Load (Old is Nil)", func(t *testing.T) {
		diff := Diff(nil, base)
		if diff == nil {
			t.Fatal("Diff() = nil, want full diff")
		}
		if diff.CurrentNodeID == nil || *diff.CurrentNodeID != "emergency" {
			t.Errorf("unexpected CurrentNodeID %v", diff.CurrentNodeID)
		}
		if len(diff.Appended) != 1 {
			t.Errorf("expected 1 appended message, got %d", len(diff.Appended))
		}
	})

	t.Run("No Changes", func(t *testing.T) {
		if diff := Diff(base, base.Clone()); diff != nil {
			t.Errorf("Diff() = %+v, want nil", diff)
		}
	})

	t.Run("Turn Appends", func(t *testing.T) {
		next := base.Clone()
		next.Transcript = append(next.Transcript, Message{Role: RoleUser, Text: "No"})
		next.Record("Is this an emergency?", "No", "is_emergency")
		next.CurrentNodeID = "property_type"
		next.Say(Message{Text: "Residential or commercial?"})

		diff := Diff(base, next)
		if diff == nil {
			t.Fatal("Diff() = nil")
		}
		if len(diff.Appended) != 2 {
			t.Errorf("expected 2 appended messages, got %d", len(diff.Appended))
		}
		if diff.AnswersAdded != 1 {
			t.Errorf("expected 1 answer added, got %d", diff.AnswersAdded)
		}
		if diff.Stage != nil {
			t.Errorf("stage should not change, got %v", *diff.Stage)
		}
	})

	t.Run("Stage Change carries Summary", func(t *testing.T) {
		next := base.Clone()
		next.CurrentNodeID = ReviewStage
		next.Summary = &Summary{Service: ServiceRef{Label: "Drains", Key: "drains"}}

		diff := Diff(base, next)
		if diff == nil || diff.Stage == nil {
			t.Fatal("expected stage diff")
		}
		if *diff.Stage != StageReview {
			t.Errorf("unexpected stage %q", *diff.Stage)
		}
		if diff.Summary == nil {
			t.Error("expected summary in diff")
		}
	})
}

func TestDiffJSONSerialization(t *testing.T) {
	old := NewSession("sess-1")
	next := old.Clone()
	next.Say(Message{Text: "hello"})

	diff := Diff(old, next)
	if diff == nil {
		t.Fatal("expected diff")
	}
	bytes, err := json.Marshal(diff)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(bytes), `"summary"`) {
		t.Errorf("JSON should not contain 'summary' when unchanged, got: %s", bytes)
	}
	if !strings.Contains(string(bytes), `"appended"`) {
		t.Errorf("JSON should contain appended messages, got: %s", bytes)
	}
}
