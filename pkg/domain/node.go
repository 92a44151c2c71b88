package domain

// NodeKind defines how a node interacts with the user.
type NodeKind string

const (
	// KindChoice presents a fixed list of options.
	KindChoice NodeKind = "choice"
	// KindFreeText asks an open-ended question.
	KindFreeText NodeKind = "free_text"
	// KindBranch dispatches to an embedded sub-script keyed by a captured value.
	KindBranch NodeKind = "branch"
)

// Valid reports whether k is a known node kind.
func (k NodeKind) Valid() bool {
	switch k {
	case KindChoice, KindFreeText, KindBranch:
		return true
	}
	return false
}

// Node is a single scripted step of the question catalog.
type Node struct {
	ID         string   `json:"id"`
	Kind       NodeKind `json:"kind"`
	Prompt     string   `json:"prompt,omitempty"`
	Options    []string `json:"options,omitempty"`
	CaptureKey string   `json:"capture_key"`

	// Next is empty when control should fall through to follow-up generation.
	Next string `json:"next,omitempty"`

	// Branch configuration (Kind == KindBranch).
	Variable string                `json:"variable,omitempty"`
	Cases    map[string]BranchCase `json:"cases,omitempty"`
}

// BranchCase is the sub-script attached to one known service key.
type BranchCase struct {
	Key       string   `json:"key"`
	Questions []string `json:"questions"`
}

// BranchTarget is the outcome of dispatching a branch node.
// It is either a MatchedCase or an UnrecognizedCase.
type BranchTarget interface {
	branchTarget()
}

// MatchedCase is returned when the captured value maps to a known case.
type MatchedCase struct {
	Case BranchCase
}

// UnrecognizedCase is returned when the variable is missing or has no case.
type UnrecognizedCase struct {
	Value   string
	Present bool
}

func (MatchedCase) branchTarget()      {}
func (UnrecognizedCase) branchTarget() {}

// Resolve dispatches a branch node on the captured value.
// Case keys are compared against the normalized form of the value.
func (n *Node) Resolve(value string, present bool) BranchTarget {
	if !present {
		return UnrecognizedCase{}
	}
	if c, ok := n.Cases[NormalizeServiceKey(value)]; ok {
		return MatchedCase{Case: c}
	}
	return UnrecognizedCase{Value: value, Present: true}
}

// InputType returns the presentation hint for the node's answer widget.
func (n *Node) InputType() string {
	switch n.Kind {
	case KindChoice:
		return InputChoice
	default:
		return InputText
	}
}
